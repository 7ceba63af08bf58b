package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarenty/cleaner/pkg/logger"
	"github.com/yarenty/cleaner/pkg/match"
)

// mockLogger implements logger.Logger for tests
type mockLogger struct{}

func (m *mockLogger) Info(msg string)                               {}
func (m *mockLogger) Debug(msg string)                              {}
func (m *mockLogger) Error(msg string)                              {}
func (m *mockLogger) Warn(msg string)                               {}
func (m *mockLogger) Trace(msg string)                              {}
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

func setupFS(t *testing.T, files map[string]string, dirs []string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(d, 0755))
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func collect(t *testing.T, items <-chan Item) ([]Candidate, []error) {
	t.Helper()
	var candidates []Candidate
	var errs []error
	for item := range items {
		if item.Candidate != nil {
			candidates = append(candidates, *item.Candidate)
		}
		if item.Err != nil {
			errs = append(errs, item.Err)
		}
	}
	return candidates, errs
}

func paths(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Path)
	}
	sort.Strings(out)
	return out
}

func TestWalker(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		dirs     []string
		targets  []string
		excludes []string
		maxDepth int
		verify   func(*testing.T, []Candidate, []error)
	}{
		{
			name: "rust project layout",
			files: map[string]string{
				"/proj/target/debug/app":       "bin",
				"/proj/src/target/release/lib": "bin",
				"/proj/node_modules/pkg.json":  "{}",
				"/proj/src/main.rs":            "fn main() {}",
			},
			targets:  []string{"target", "out", "build"},
			maxDepth: -1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Empty(t, errs)
				assert.Equal(t, []string{"/proj/src/target", "/proj/target"}, paths(candidates))
			},
		},
		{
			name: "exclusion beats target match",
			files: map[string]string{
				"/proj/target/a": "x",
				"/proj/build/b":  "x",
			},
			targets:  []string{"target", "build"},
			excludes: []string{"build"},
			maxDepth: -1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Equal(t, []string{"/proj/target"}, paths(candidates))
			},
		},
		{
			name: "excluded subtree is not visited",
			files: map[string]string{
				"/proj/vendor/deep/target/f": "x",
				"/proj/target/f":             "x",
			},
			targets:  []string{"target"},
			excludes: []string{"vendor"},
			maxDepth: -1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Equal(t, []string{"/proj/target"}, paths(candidates))
			},
		},
		{
			name: "no descent into matched directory",
			files: map[string]string{
				"/proj/target/nested/target/f": "x",
			},
			targets:  []string{"target"},
			maxDepth: -1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Equal(t, []string{"/proj/target"}, paths(candidates))
			},
		},
		{
			name: "depth bound excludes deep matches",
			files: map[string]string{
				"/proj/target/f":     "x",
				"/proj/a/b/target/f": "x",
			},
			targets:  []string{"target"},
			maxDepth: 1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Equal(t, []string{"/proj/target"}, paths(candidates))
				for _, c := range candidates {
					assert.LessOrEqual(t, c.Depth, 1)
				}
			},
		},
		{
			name: "depth zero only allows the root itself",
			files: map[string]string{
				"/proj/target/f": "x",
			},
			targets:  []string{"target"},
			maxDepth: 0,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Empty(t, candidates)
			},
		},
		{
			name: "glob against directory names",
			dirs: []string{
				"/proj/cmake-build-debug",
				"/proj/cmake-build-release",
				"/proj/cmake-build",
				"/proj/buildcache",
			},
			targets:  []string{"cmake-build-*"},
			maxDepth: -1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Equal(t,
					[]string{"/proj/cmake-build-debug", "/proj/cmake-build-release"},
					paths(candidates))
			},
		},
		{
			name: "regular files never match directory patterns",
			files: map[string]string{
				"/proj/target":  "a file named target",
				"/proj/out/bin": "x",
			},
			targets:  []string{"target", "out"},
			maxDepth: -1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Equal(t, []string{"/proj/out"}, paths(candidates))
			},
		},
		{
			name: "singleton junk files are candidates",
			files: map[string]string{
				"/proj/.DS_Store":        "junk",
				"/proj/sub/.DS_Store":    "junk",
				"/proj/docs/.DS_Store.1": "not a singleton",
			},
			targets:  []string{".DS_Store", ".idea"},
			maxDepth: -1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				assert.Equal(t, []string{"/proj/.DS_Store", "/proj/sub/.DS_Store"}, paths(candidates))
				for _, c := range candidates {
					assert.Equal(t, FileCandidate, c.Type)
				}
			},
		},
		{
			name: "matched pattern is reported",
			dirs: []string{"/proj/target"},
			targets: []string{
				"out",
				"target",
			},
			maxDepth: -1,
			verify: func(t *testing.T, candidates []Candidate, errs []error) {
				require.Len(t, candidates, 1)
				assert.Equal(t, "target", candidates[0].Pattern)
				assert.Equal(t, 1, candidates[0].Depth)
				assert.Equal(t, DirCandidate, candidates[0].Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupFS(t, tt.files, tt.dirs)

			targets, err := match.Compile(tt.targets)
			require.NoError(t, err)
			excludes, err := match.Compile(tt.excludes)
			require.NoError(t, err)

			w := New(Config{
				Targets:  targets,
				Excludes: excludes,
				MaxDepth: tt.maxDepth,
			}, fs, &mockLogger{})

			candidates, errs := collect(t, w.Walk(context.Background(), "/proj"))
			tt.verify(t, candidates, errs)
		})
	}
}

func TestWalkerRootMatchesTarget(t *testing.T) {
	fs := setupFS(t, map[string]string{"/proj/build/sub/f": "x"}, nil)

	targets := match.MustCompile([]string{"build"})
	excludes := match.MustCompile(nil)

	w := New(Config{Targets: targets, Excludes: excludes, MaxDepth: -1}, fs, &mockLogger{})
	candidates, _ := collect(t, w.Walk(context.Background(), "/proj/build"))

	require.Len(t, candidates, 1)
	assert.Equal(t, "/proj/build", candidates[0].Path)
	assert.Equal(t, 0, candidates[0].Depth)
}

func TestWalkerExcludedRoot(t *testing.T) {
	fs := setupFS(t, map[string]string{"/proj/target/f": "x"}, nil)

	w := New(Config{
		Targets:  match.MustCompile([]string{"target", "proj"}),
		Excludes: match.MustCompile([]string{"proj"}),
		MaxDepth: -1,
	}, fs, &mockLogger{})

	candidates, _ := collect(t, w.Walk(context.Background(), "/proj"))
	assert.Empty(t, candidates)
}

// Symlinks need a real filesystem; MemMapFs cannot create them.
func TestWalkerSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}

	root := t.TempDir()
	outside := filepath.Join(root, "outside")
	require.NoError(t, os.MkdirAll(filepath.Join(outside, "target"), 0755))

	proj := filepath.Join(root, "proj")
	require.NoError(t, os.MkdirAll(proj, 0755))
	require.NoError(t, os.Symlink(outside, filepath.Join(proj, "linked")))
	require.NoError(t, os.Symlink(outside, filepath.Join(proj, "target")))

	w := New(Config{
		Targets:  match.MustCompile([]string{"target"}),
		Excludes: match.MustCompile(nil),
		MaxDepth: -1,
	}, afero.NewOsFs(), &mockLogger{})

	candidates, errs := collect(t, w.Walk(context.Background(), proj))
	assert.Empty(t, errs)

	// The matched symlink is a candidate in its own right; the unmatched
	// one is never followed, so outside/target stays invisible.
	require.Len(t, candidates, 1)
	assert.Equal(t, filepath.Join(proj, "target"), candidates[0].Path)
	assert.Equal(t, SymlinkCandidate, candidates[0].Type)
}

func TestWalkerReportsUnreadableDirAndContinues(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/proj/secret", 0755))
	require.NoError(t, afero.WriteFile(base, "/proj/target/f", []byte("x"), 0644))

	fs := &failingFs{Fs: base, failPath: "/proj/secret"}

	w := New(Config{
		Targets:  match.MustCompile([]string{"target"}),
		Excludes: match.MustCompile(nil),
		MaxDepth: -1,
	}, fs, &mockLogger{})

	candidates, errs := collect(t, w.Walk(context.Background(), "/proj"))

	assert.Equal(t, []string{"/proj/target"}, paths(candidates))
	require.Len(t, errs, 1)
	var te *TraversalError
	require.ErrorAs(t, errs[0], &te)
	assert.Equal(t, "/proj/secret", te.Path)
}

func TestWalkerCancellation(t *testing.T) {
	files := map[string]string{}
	fs := afero.NewMemMapFs()
	for _, d := range []string{"a", "b", "c", "d", "e"} {
		files["/proj/"+d+"/target/f"] = "x"
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}

	w := New(Config{
		Targets:  match.MustCompile([]string{"target"}),
		Excludes: match.MustCompile(nil),
		MaxDepth: -1,
	}, fs, &mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	items := w.Walk(ctx, "/proj")

	// Take one candidate, then cancel; the stream must terminate.
	<-items
	cancel()
	for range items {
	}
}

// failingFs makes one path unreadable
type failingFs struct {
	afero.Fs
	failPath string
}

func (f *failingFs) Open(name string) (afero.File, error) {
	if name == f.failPath {
		return nil, &permError{path: name}
	}
	return f.Fs.Open(name)
}

type permError struct{ path string }

func (e *permError) Error() string { return "permission denied: " + e.path }
