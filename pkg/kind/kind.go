/*
Package kind maps project types to the build, cache, and temporary
directories that are safe to remove for them.

Each supported language or toolchain is a ProjectKind with a fixed default
pattern list. Adding support for a new toolchain means adding a constant and
a table entry, nothing else.
*/
package kind

import (
	"fmt"
	"sort"
	"strings"
)

// ProjectKind is a project/toolchain category determining which directory
// patterns are cleaned by default.
type ProjectKind string

const (
	// KindAll is the union of every other kind's patterns, deduplicated.
	KindAll ProjectKind = "all"

	// KindIDE covers JetBrains, VSCode, Visual Studio, Xcode and other IDE leftovers
	KindIDE ProjectKind = "ide"

	KindRust   ProjectKind = "rust"
	KindPython ProjectKind = "python"
	KindJava   ProjectKind = "java"
	KindNode   ProjectKind = "node"
	KindGo     ProjectKind = "go"
	KindCSharp ProjectKind = "csharp"
	KindCpp    ProjectKind = "cpp"
	KindPhp    ProjectKind = "php"
	KindRuby   ProjectKind = "ruby"
)

// defaultDirs holds the per-kind directory name patterns. Entries are either
// literal names or globs with * and ? wildcards, matched per path segment.
var defaultDirs = map[ProjectKind][]string{
	KindRust: {"target", "out", "build"},
	KindPython: {
		"__pycache__",
		".venv",
		"venv",
		"env",
		".mypy_cache",
		".pytest_cache",
	},
	KindJava: {
		"build",
		"out",
		"target",
		"bin",
		"classes",
		"generated-sources",
		"generated-test-sources",
	},
	KindIDE: {
		".idea",
		".vs",
		".vscode",
		".DS_Store",
		".history",
		".classpath",
		".project",
		".settings",
		"xcuserdata",
		"*.iml",
	},
	KindNode: {
		"node_modules",
		"dist",
		"build",
		".next",
		".nuxt",
		".angular",
		".svelte-kit",
		"coverage",
	},
	KindGo:     {"bin", "pkg", "out"},
	KindCSharp: {"bin", "obj", "out"},
	KindCpp: {
		"build",
		"out",
		"bin",
		"CMakeFiles",
		"cmake-build-*",
	},
	KindPhp:  {"vendor", "out", "build", "cache"},
	KindRuby: {".bundle", "vendor", "log", "tmp", "coverage"},
}

// Kinds returns every concrete kind, excluding KindAll, in stable order.
func Kinds() []ProjectKind {
	kinds := make([]ProjectKind, 0, len(defaultDirs))
	for k := range defaultDirs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Parse converts a user-supplied string into a ProjectKind.
func Parse(s string) (ProjectKind, error) {
	k := ProjectKind(strings.ToLower(strings.TrimSpace(s)))
	if k == KindAll {
		return k, nil
	}
	if _, ok := defaultDirs[k]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown project kind %q (supported: all %s)", s, joinKinds())
}

// DefaultDirs returns the default directory patterns for a kind. For KindAll
// it returns the deduplicated union of all kinds, in stable order, so a
// directory matching rules from two kinds is represented by one pattern.
func DefaultDirs(k ProjectKind) []string {
	if k != KindAll {
		dirs := make([]string, len(defaultDirs[k]))
		copy(dirs, defaultDirs[k])
		return dirs
	}

	seen := make(map[string]struct{})
	var union []string
	for _, kk := range Kinds() {
		for _, d := range defaultDirs[kk] {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			union = append(union, d)
		}
	}
	sort.Strings(union)
	return union
}

func joinKinds() string {
	var b strings.Builder
	for _, k := range Kinds() {
		b.WriteString(" ")
		b.WriteString(string(k))
	}
	return strings.TrimSpace(b.String())
}
