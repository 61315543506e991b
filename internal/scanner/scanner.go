// Package scanner runs the detectors over a directory: it builds the search
// tree, drives the three evaluation phases and aggregates the result.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	"github.com/petrarca/dependency-detector/internal/aggregator"
	"github.com/petrarca/dependency-detector/internal/config"
	"github.com/petrarca/dependency-detector/internal/detectable"
	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/executable"
	"github.com/petrarca/dependency-detector/internal/metadata"
	"github.com/petrarca/dependency-detector/internal/progress"
	"github.com/petrarca/dependency-detector/internal/project"
	"github.com/petrarca/dependency-detector/internal/provider"
	"github.com/petrarca/dependency-detector/internal/spec"
)

// Options control a single run
type Options struct {
	Finder detector.FinderOptions

	// ScratchDir holds the extraction environments. Empty means a new temp directory.
	ScratchDir  string
	KeepScratch bool

	// Properties are copied into the run metadata
	Properties map[string]interface{}
}

// Scanner handles one detector run
type Scanner struct {
	provider   provider.Provider
	rules      *detector.RuleSet
	aggregator *aggregator.Aggregator
	progress   *progress.Progress
	opts       Options
	logger     *slog.Logger
}

// NewScanner creates a scanner from its parts. A nil progress publishes nothing.
func NewScanner(p provider.Provider, rules *detector.RuleSet, agg *aggregator.Aggregator, prog *progress.Progress, opts Options, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if agg == nil {
		agg = aggregator.NewAggregator(nil, nil, logger)
	}
	if prog == nil {
		prog = progress.New(false, progress.NewNullHandler())
	}
	return &Scanner{
		provider:   p,
		rules:      rules,
		aggregator: agg,
		progress:   prog,
		opts:       opts,
		logger:     logger,
	}
}

// NewScannerWithSettings wires the file system, the go tool runner and the
// detector rules for path. projectConfig must already be merged into settings.
func NewScannerWithSettings(path string, settings *config.Settings, projectConfig *config.ProjectConfig, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fs := provider.NewFSProvider(path)
	runner := executable.NewProcessRunner(logger)
	resolver := executable.NewPathResolver(settings.ToolOverrides())

	factory := detectable.NewFactory(fs, runner, resolver, logger)
	rules, err := detectable.Filter(factory.RuleSet(), settings.Detectors)
	if err != nil {
		return nil, err
	}

	agg := aggregator.NewAggregator(nil, project.NewDecider(settings.ProjectDetector, logger), logger)

	opts := Options{
		Finder:      settings.FinderOptions(),
		ScratchDir:  settings.ScratchDir,
		KeepScratch: settings.KeepScratch,
	}
	if projectConfig != nil {
		opts.Properties = projectConfig.Properties
	}

	return NewScanner(fs, rules, agg, newProgress(settings), opts, logger), nil
}

func newProgress(settings *config.Settings) *progress.Progress {
	if !settings.Verbose {
		return progress.New(false, progress.NewNullHandler())
	}
	if settings.ProgressStyle == "tree" {
		return progress.New(true, progress.NewTreeHandler(os.Stderr))
	}
	h := progress.NewSimpleHandler(os.Stderr)
	h.Start()
	return progress.New(true, h)
}

// Scan evaluates every rule over the tree below path. The only error that
// stops a run after the options are accepted is a directory that cannot be
// listed (*detector.DirectoryListError) or a scratch directory that cannot
// be created.
func (s *Scanner) Scan(path string) (*aggregator.Result, error) {
	start := time.Now()
	meta := metadata.NewRunMetadata(path, spec.Version)
	meta.SetProperties(s.opts.Properties)

	tree, err := detector.FindTree(s.provider, path, s.opts.Finder, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build search tree: %w", err)
	}
	if tree == nil {
		s.logger.Warn("Nothing to evaluate", "path", path)
		result := aggregator.Empty(path)
		s.complete(result, meta, start, 0)
		return result, nil
	}

	evaluator := detector.NewEvaluator(s.rules, s.logger)

	evaluator.SearchAndApplicable(tree, make(map[string]bool))
	s.progress.SearchCompleted(tree)

	evaluator.ExtractableEvaluation(tree)
	s.progress.PreparationCompleted(tree)
	s.progress.ExtractionCount(aggregator.ExtractionCount(tree.AllEvaluations()))

	envs, err := s.environments()
	if err != nil {
		return nil, err
	}
	if s.opts.KeepScratch {
		s.logger.Info("Keeping extraction output", "dir", envs.BaseDir())
	} else {
		defer func() {
			if err := envs.Cleanup(); err != nil {
				s.logger.Warn("Failed to remove extraction output", "dir", envs.BaseDir(), "error", err)
			}
		}()
	}

	evaluator.ExtractionEvaluation(tree, envs)
	s.progress.ExtractionsCompleted(tree)

	result := s.aggregator.Aggregate(tree)
	for _, t := range result.ApplicableTypes {
		s.progress.StatusSummary(t, result.StatusMap[t])
	}

	s.complete(result, meta, start, len(tree.AsFlatList()))
	return result, nil
}

// environments creates the scratch provider. A configured scratch directory
// gets a fresh subdirectory per run so that cleanup never touches what was there.
func (s *Scanner) environments() (*detector.ScratchEnvironmentProvider, error) {
	if s.opts.ScratchDir == "" {
		return detector.NewScratchEnvironmentProvider("")
	}
	if err := os.MkdirAll(s.opts.ScratchDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", s.opts.ScratchDir, err)
	}
	dir, err := os.MkdirTemp(s.opts.ScratchDir, "run-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory in %s: %w", s.opts.ScratchDir, err)
	}
	return detector.NewScratchEnvironmentProvider(dir)
}

func (s *Scanner) complete(result *aggregator.Result, meta *metadata.RunMetadata, start time.Time, directories int) {
	meta.SetDuration(time.Since(start))
	meta.SetCounts(directories, len(result.Evaluations), len(result.CodeLocations))
	result.Metadata = meta

	s.logger.Debug("Detector run completed",
		"path", result.RootDirectory,
		"duration", time.Since(start),
		"evaluations", len(result.Evaluations),
		"code_locations", len(result.CodeLocations))
	s.progress.DetectorsComplete(result)
}

// ResolvePath returns the absolute, cleaned form of the path to scan
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return abs, nil
}
