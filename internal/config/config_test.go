package config

import (
	"os"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	cleanup := func() {
		envVars := []string{
			"CLEANER_KIND",
			"CLEANER_DIRS",
			"CLEANER_EXCLUDE",
			"CLEANER_MAX_DEPTH",
			"CLEANER_WORKERS",
			"CLEANER_RATE_LIMIT",
			"CLEANER_OUTPUT",
			"CLEANER_LOG_FILE",
			"CLEANER_NO_PROGRESS",
			"CLEANER_NO_COLOR",
			"CLEANER_VERBOSE",
		}
		for _, env := range envVars {
			os.Unsetenv(env)
		}
	}

	tests := []struct {
		name     string
		envVars  map[string]string
		expected Config
		wantErr  bool
		errMsg   string
	}{
		{
			name: "default configuration",
			expected: Config{
				Kind:     "all",
				MaxDepth: -1,
				Workers:  runtime.NumCPU(),
				Output:   "text",
			},
		},
		{
			name: "configuration from environment variables",
			envVars: map[string]string{
				"CLEANER_KIND":        "rust",
				"CLEANER_DIRS":        "target,artifacts",
				"CLEANER_EXCLUDE":     ".git, node_modules",
				"CLEANER_MAX_DEPTH":   "10",
				"CLEANER_WORKERS":     "4",
				"CLEANER_RATE_LIMIT":  "100",
				"CLEANER_OUTPUT":      "json",
				"CLEANER_LOG_FILE":    "clean.log",
				"CLEANER_NO_PROGRESS": "true",
				"CLEANER_NO_COLOR":    "true",
				"CLEANER_VERBOSE":     "vv",
			},
			expected: Config{
				Kind:       "rust",
				Dirs:       []string{"target", "artifacts"},
				Exclude:    []string{".git", "node_modules"},
				MaxDepth:   10,
				Workers:    4,
				RateLimit:  100,
				Output:     "json",
				LogFile:    "clean.log",
				NoProgress: true,
				NoColor:    true,
				Verbose:    2,
			},
		},
		{
			name: "zero workers defaults to CPU count",
			envVars: map[string]string{
				"CLEANER_WORKERS": "0",
			},
			expected: Config{
				Kind:     "all",
				MaxDepth: -1,
				Workers:  runtime.NumCPU(),
				Output:   "text",
			},
		},
		{
			name: "negative workers rejected",
			envVars: map[string]string{
				"CLEANER_WORKERS": "-1",
			},
			wantErr: true,
			errMsg:  "workers count must be non-negative",
		},
		{
			name: "max depth below -1 rejected",
			envVars: map[string]string{
				"CLEANER_MAX_DEPTH": "-2",
			},
			wantErr: true,
			errMsg:  "max depth must be -1",
		},
		{
			name: "invalid output format rejected",
			envVars: map[string]string{
				"CLEANER_OUTPUT": "xml",
			},
			wantErr: true,
			errMsg:  "invalid output format",
		},
		{
			name: "negative rate limit rejected",
			envVars: map[string]string{
				"CLEANER_RATE_LIMIT": "-5",
			},
			wantErr: true,
			errMsg:  "rate limit must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup()
			defer cleanup()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestConfigModeConflicts(t *testing.T) {
	base := Config{Kind: "all", MaxDepth: -1, Workers: 1, Output: "text"}

	interactiveCI := base
	interactiveCI.Interactive = true
	interactiveCI.CI = true
	require.Error(t, interactiveCI.Validate())

	interactiveForce := base
	interactiveForce.Interactive = true
	interactiveForce.Force = true
	require.Error(t, interactiveForce.Validate())
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
exclude = [".git", "important"]
max_depth = 3

[kinds.rust]
dirs = ["target", "artifacts"]

[kinds.node]
dirs = ["node_modules"]
`
	require.NoError(t, afero.WriteFile(fs, "/etc/cleaner.toml", []byte(content), 0644))

	fc, err := LoadFile(fs, "/etc/cleaner.toml")
	require.NoError(t, err)

	assert.Equal(t, []string{".git", "important"}, fc.Exclude)
	require.NotNil(t, fc.MaxDepth)
	assert.Equal(t, 3, *fc.MaxDepth)

	dirs, ok := fc.DirsFor("rust")
	require.True(t, ok)
	assert.Equal(t, []string{"target", "artifacts"}, dirs)

	_, ok = fc.DirsFor("python")
	assert.False(t, ok)
}

func TestLoadFileMissing(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadFile(fs, "/nope.toml")
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	depth := 5
	fc := FileConfig{
		Exclude:  []string{".git"},
		MaxDepth: &depth,
	}

	t.Run("fills unset fields", func(t *testing.T) {
		cfg := Config{Kind: "all", MaxDepth: -1, Workers: 1, Output: "text"}
		cfg.Apply(fc)
		assert.Equal(t, []string{".git"}, cfg.Exclude)
		assert.Equal(t, 5, cfg.MaxDepth)
	})

	t.Run("explicit values win", func(t *testing.T) {
		cfg := Config{Kind: "all", MaxDepth: 2, Exclude: []string{"keep"}, Workers: 1, Output: "text"}
		cfg.Apply(fc)
		assert.Equal(t, []string{"keep"}, cfg.Exclude)
		assert.Equal(t, 2, cfg.MaxDepth)
	})
}
