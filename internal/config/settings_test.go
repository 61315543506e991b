package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrarca/dependency-detector/internal/detector"
)

var envVars = []string{
	"DETECTOR_OUTPUT",
	"DETECTOR_FORMAT",
	"DETECTOR_PRETTY",
	"DETECTOR_EXCLUDE_DIRS",
	"DETECTOR_MAX_DEPTH",
	"DETECTOR_FOLLOW_SYMLINKS",
	"DETECTOR_RESPECT_GITIGNORE",
	"DETECTOR_DETECTORS",
	"DETECTOR_PROJECT_DETECTOR",
	"DETECTOR_GO_PATH",
	"DETECTOR_SCRATCH_DIR",
	"DETECTOR_LOG_LEVEL",
	"DETECTOR_LOG_FORMAT",
	"DETECTOR_LOG_FILE",
	"DETECTOR_VERBOSE",
}

// clearEnv blanks every DETECTOR_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
	}
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, "", settings.OutputFile, "output goes to stdout by default")
	assert.True(t, settings.PrettyPrint)
	assert.Empty(t, settings.ExcludePatterns)
	assert.True(t, settings.ExcludeDefaults)
	assert.Equal(t, detector.Unlimited, settings.MaxDepth)
	assert.True(t, settings.SkipVendored)
	assert.Equal(t, "simple", settings.ProgressStyle)
	assert.Equal(t, slog.LevelError, settings.LogLevel)
	assert.Equal(t, "text", settings.LogFormat)
	assert.NoError(t, settings.Validate())
}

func TestLoadSettings_WithDefaults(t *testing.T) {
	clearEnv(t)

	assert.Equal(t, DefaultSettings(), LoadSettings())
}

func TestLoadSettings_WithEnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("DETECTOR_OUTPUT", "/tmp/result.json")
	t.Setenv("DETECTOR_FORMAT", "YAML")
	t.Setenv("DETECTOR_PRETTY", "false")
	t.Setenv("DETECTOR_EXCLUDE_DIRS", "testdata, examples")
	t.Setenv("DETECTOR_MAX_DEPTH", "3")
	t.Setenv("DETECTOR_RESPECT_GITIGNORE", "true")
	t.Setenv("DETECTOR_DETECTORS", "go_mod")
	t.Setenv("DETECTOR_PROJECT_DETECTOR", "go_mod")
	t.Setenv("DETECTOR_GO_PATH", "/opt/go/bin/go")
	t.Setenv("DETECTOR_LOG_LEVEL", "debug")
	t.Setenv("DETECTOR_LOG_FORMAT", "json")

	settings := LoadSettings()

	assert.Equal(t, "/tmp/result.json", settings.OutputFile)
	assert.Equal(t, "yaml", settings.Format)
	assert.False(t, settings.PrettyPrint)
	assert.Equal(t, []string{"testdata", "examples"}, settings.ExcludePatterns)
	assert.Equal(t, 3, settings.MaxDepth)
	assert.True(t, settings.RespectGitignore)
	assert.Equal(t, []string{"go_mod"}, settings.Detectors)
	assert.Equal(t, "GO_MOD", settings.ProjectDetector)
	assert.Equal(t, map[string]string{"go": "/opt/go/bin/go"}, settings.ToolOverrides())
	assert.Equal(t, slog.LevelDebug, settings.LogLevel)
	assert.Equal(t, "json", settings.LogFormat)
}

func TestLoadSettings_InvalidValuesKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DETECTOR_LOG_LEVEL", "loud")
	t.Setenv("DETECTOR_MAX_DEPTH", "deep")

	settings := LoadSettings()

	assert.Equal(t, slog.LevelError, settings.LogLevel)
	assert.Equal(t, detector.Unlimited, settings.MaxDepth)
}

func TestLoadSettings_BooleanParsing(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"true uppercase", "TRUE", true},
		{"false lowercase", "false", false},
		{"invalid value", "maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DETECTOR_PRETTY", tt.envValue)

			assert.Equal(t, tt.expected, LoadSettings().PrettyPrint)
		})
	}
}

func TestLoadSettings_ExcludePatternsParsing(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected []string
	}{
		{"single dir", "testdata", []string{"testdata"}},
		{"multiple dirs", "testdata,examples", []string{"testdata", "examples"}},
		{"with spaces", "testdata , examples , docs", []string{"testdata", "examples", "docs"}},
		{"only commas", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DETECTOR_EXCLUDE_DIRS", tt.envValue)

			assert.Equal(t, tt.expected, LoadSettings().ExcludePatterns)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLogLevel(tt.input)
			assert.Equal(t, tt.expected, level)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	settings := DefaultSettings()

	require.NoError(t, settings.SetLogLevel("warn"))
	assert.Equal(t, slog.LevelWarn, settings.LogLevel)
	assert.Error(t, settings.SetLogLevel("chatty"))
	assert.Equal(t, slog.LevelWarn, settings.LogLevel)
}

func TestConfigureLogger(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		verbose bool
		expect  string
	}{
		{"json format", "json", false, `"msg":"shown"`},
		{"text format", "text", false, "msg=shown"},
		{"verbose lowers level to info", "text", true, "msg=info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logFile := filepath.Join(t.TempDir(), "detector.log")
			settings := DefaultSettings()
			settings.LogFormat = tt.format
			settings.LogFile = logFile
			settings.Verbose = tt.verbose

			logger := settings.ConfigureLogger()
			logger.Info("info")
			logger.Error("shown")

			data, err := os.ReadFile(logFile)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.expect)
			if !tt.verbose {
				assert.False(t, bytes.Contains(data, []byte("info")), "info is below the default level")
			}
		})
	}
}

func TestFinderOptions(t *testing.T) {
	settings := DefaultSettings()
	settings.ExcludePatterns = []string{"docs"}
	settings.MaxDepth = 2
	settings.FollowSymlinks = true

	opts := settings.FinderOptions()

	assert.Equal(t, detector.FinderOptions{
		ExcludePatterns: []string{"docs"},
		ExcludeDefaults: true,
		MaxDepth:        2,
		FollowSymlinks:  true,
		SkipVendored:    true,
	}, opts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr string
	}{
		{"defaults", func(*Settings) {}, ""},
		{"yaml format", func(s *Settings) { s.Format = "yaml" }, ""},
		{"unknown format", func(s *Settings) { s.Format = "xml" }, "invalid format: xml"},
		{"tree progress", func(s *Settings) { s.ProgressStyle = "tree" }, ""},
		{"unknown progress", func(s *Settings) { s.ProgressStyle = "bars" }, "invalid progress style: bars"},
		{"unknown log format", func(s *Settings) { s.LogFormat = "xml" }, "invalid log format: xml"},
		{"max depth zero", func(s *Settings) { s.MaxDepth = 0 }, ""},
		{"max depth below unlimited", func(s *Settings) { s.MaxDepth = -2 }, "invalid max depth: -2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.modify(settings)
			err := settings.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadSettings_DoesNotModifyDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DETECTOR_PRETTY", "false")

	settings := LoadSettings()

	assert.True(t, DefaultSettings().PrettyPrint)
	assert.False(t, settings.PrettyPrint)
}
