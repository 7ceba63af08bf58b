/*
Package match compiles name patterns into a predicate over directory entry
names.

A pattern is either a literal name or a glob using * (zero or more
characters) and ? (exactly one character). Matching is per path segment;
there are no recursive ** semantics. Patterns are tried in rule order and
the first match wins, which only affects which pattern is reported for
diagnostics.
*/
package match

import (
	"fmt"
	"path/filepath"
	"strings"
)

type rule struct {
	pattern string
	literal bool
}

// Matcher is an immutable compiled pattern set. The zero value matches
// nothing; use Compile.
type Matcher struct {
	rules []rule
}

// Compile validates and compiles a pattern set. An empty set compiles to a
// matcher that matches nothing. Invalid glob syntax (e.g. an unterminated
// bracket class) is reported up front so traversal never starts with a bad
// pattern.
func Compile(patterns []string) (*Matcher, error) {
	m := &Matcher{rules: make([]rule, 0, len(patterns))}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if isLiteral(p) {
			m.rules = append(m.rules, rule{pattern: p, literal: true})
			continue
		}

		// filepath.Match reports syntax errors independent of the name.
		if _, err := filepath.Match(p, "probe"); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		m.rules = append(m.rules, rule{pattern: p})
	}

	return m, nil
}

// MustCompile is like Compile but panics on invalid patterns. Only for use
// with static pattern tables that are covered by tests.
func MustCompile(patterns []string) *Matcher {
	m, err := Compile(patterns)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches tests an entry name against the pattern set. It returns the first
// matching pattern in rule order.
func (m *Matcher) Matches(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, r := range m.rules {
		if r.literal {
			if name == r.pattern {
				return r.pattern, true
			}
			continue
		}
		// Syntax was validated at compile time.
		if ok, _ := filepath.Match(r.pattern, name); ok {
			return r.pattern, true
		}
	}
	return "", false
}

// Empty reports whether the matcher has no rules.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.rules) == 0
}

// Patterns returns the compiled patterns in rule order.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.rules))
	for i, r := range m.rules {
		out[i] = r.pattern
	}
	return out
}

func isLiteral(pattern string) bool {
	return !strings.ContainsAny(pattern, `*?[\`)
}
