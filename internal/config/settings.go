package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/petrarca/dependency-detector/internal/constants"
	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/util"
)

// Settings holds all detector configuration
type Settings struct {
	// Output settings
	OutputFile  string
	Format      string // empty = pick by terminal
	PrettyPrint bool

	// Tree building
	ExcludePatterns  []string
	ExcludeDefaults  bool
	MaxDepth         int // -1 = unlimited
	FollowSymlinks   bool
	SkipVendored     bool
	RespectGitignore bool

	// Detectors
	Detectors       []string // Only run these detector types
	ProjectDetector string   // Preferred type for the project name
	GoPath          string   // Explicit go executable

	// Extraction scratch space
	ScratchDir  string
	KeepScratch bool

	// Reporting
	Summary       bool
	Verbose       bool
	ProgressStyle string

	// Logging
	LogLevel  slog.Level
	LogFormat string // "text" or "json"
	LogFile   string // Optional: write logs to file instead of stderr
}

// DefaultSettings returns default configuration
func DefaultSettings() *Settings {
	return &Settings{
		PrettyPrint:     true,
		ExcludePatterns: []string{},
		ExcludeDefaults: true,
		MaxDepth:        detector.Unlimited,
		SkipVendored:    true,
		Detectors:       []string{},
		ProgressStyle:   "simple",
		LogLevel:        slog.LevelError,
		LogFormat:       "text",
	}
}

// envBindings maps DETECTOR_* variables onto settings. Unparsable values keep the default.
var envBindings = []struct {
	name  string
	apply func(s *Settings, value string)
}{
	{"OUTPUT", func(s *Settings, v string) { s.OutputFile = v }},
	{"FORMAT", func(s *Settings, v string) { s.Format = util.NormalizeFormat(v) }},
	{"PRETTY", func(s *Settings, v string) { s.PrettyPrint = isTrue(v) }},
	{"EXCLUDE_DIRS", func(s *Settings, v string) { s.ExcludePatterns = splitList(v) }},
	{"MAX_DEPTH", func(s *Settings, v string) {
		if depth, err := strconv.Atoi(v); err == nil {
			s.MaxDepth = depth
		}
	}},
	{"FOLLOW_SYMLINKS", func(s *Settings, v string) { s.FollowSymlinks = isTrue(v) }},
	{"RESPECT_GITIGNORE", func(s *Settings, v string) { s.RespectGitignore = isTrue(v) }},
	{"DETECTORS", func(s *Settings, v string) { s.Detectors = splitList(v) }},
	{"PROJECT_DETECTOR", func(s *Settings, v string) { s.ProjectDetector = strings.ToUpper(v) }},
	{"GO_PATH", func(s *Settings, v string) { s.GoPath = v }},
	{"SCRATCH_DIR", func(s *Settings, v string) { s.ScratchDir = v }},
	{"LOG_LEVEL", func(s *Settings, v string) {
		if level, err := parseLogLevel(v); err == nil {
			s.LogLevel = level
		}
	}},
	{"LOG_FORMAT", func(s *Settings, v string) { s.LogFormat = v }},
	{"LOG_FILE", func(s *Settings, v string) { s.LogFile = v }},
	{"VERBOSE", func(s *Settings, v string) { s.Verbose = isTrue(v) }},
}

// LoadSettings starts from the defaults and applies the environment
func LoadSettings() *Settings {
	settings := DefaultSettings()
	for _, b := range envBindings {
		if value := os.Getenv(constants.EnvPrefix + b.name); value != "" {
			b.apply(settings, value)
		}
	}
	return settings
}

func isTrue(value string) bool {
	return strings.EqualFold(value, "true")
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

func parseLogLevel(name string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}

// SetLogLevel parses and applies a log level given on the command line
func (s *Settings) SetLogLevel(level string) error {
	parsed, err := parseLogLevel(level)
	if err != nil {
		return err
	}
	s.LogLevel = parsed
	return nil
}

// ConfigureLogger builds the run logger. Verbose runs log at least at info.
// A log file that cannot be opened falls back to stderr.
func (s *Settings) ConfigureLogger() *slog.Logger {
	return slog.New(s.logHandler(s.logOutput()))
}

func (s *Settings) logOutput() io.Writer {
	if s.LogFile == "" {
		return os.Stderr
	}
	file, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Cannot open log file %s: %v\n", s.LogFile, err)
		return os.Stderr
	}
	return file
}

func (s *Settings) logHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	if s.Verbose {
		opts.Level = min(s.LogLevel, slog.LevelInfo)
	}
	if s.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// FinderOptions maps the tree building settings
func (s *Settings) FinderOptions() detector.FinderOptions {
	return detector.FinderOptions{
		ExcludePatterns:  s.ExcludePatterns,
		ExcludeDefaults:  s.ExcludeDefaults,
		MaxDepth:         s.MaxDepth,
		FollowSymlinks:   s.FollowSymlinks,
		SkipVendored:     s.SkipVendored,
		RespectGitignore: s.RespectGitignore,
	}
}

// ToolOverrides returns explicit executable paths keyed by tool name
func (s *Settings) ToolOverrides() map[string]string {
	overrides := make(map[string]string)
	if s.GoPath != "" {
		overrides["go"] = s.GoPath
	}
	return overrides
}

// Validate checks if settings are valid
func (s *Settings) Validate() error {
	if s.Format != "" {
		if err := util.ValidateOutputFormat(s.Format); err != nil {
			return err
		}
	}
	if err := util.ValidateChoice("progress style", s.ProgressStyle, util.ProgressStyles); err != nil {
		return err
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s. Valid values are: text, json", s.LogFormat)
	}
	if s.MaxDepth < detector.Unlimited {
		return fmt.Errorf("invalid max depth: %d", s.MaxDepth)
	}
	return nil
}
