package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petrarca/dependency-detector/internal/config"
	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/scanner"
)

type detectFlags struct {
	configPath        string
	logLevel          string
	noDefaultExcludes bool
	includeVendored   bool
}

func init() {
	rootCmd.AddCommand(newDetectCmd())
}

func newDetectCmd() *cobra.Command {
	// Defaults come from DETECTOR_* environment variables
	settings := config.LoadSettings()
	flags := &detectFlags{logLevel: strings.ToLower(settings.LogLevel.String())}

	cmd := &cobra.Command{
		Use:   "detect [path]",
		Short: "Detect projects and extract their dependency graphs",
		Long: `Detect builds the directory tree below path, evaluates every detector rule
against it and extracts the dependency graph of each applicable project.

Examples:
  dependency-detector detect
  dependency-detector detect /path/to/repo --format yaml
  dependency-detector detect --exclude testdata --max-depth 3 /path/to/repo
  dependency-detector detect --go-path /usr/local/go/bin/go --summary -v .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, settings, flags)
		},
	}

	setupOutputFlags(cmd, &settings.Format, &settings.OutputFile)
	f := cmd.Flags()
	f.BoolVar(&settings.PrettyPrint, "pretty", settings.PrettyPrint, "Pretty print JSON output")

	// Exclude patterns - support multiple flags or comma-separated values
	f.StringSliceVar(&settings.ExcludePatterns, "exclude", settings.ExcludePatterns, "Directory patterns to exclude (glob, can be specified multiple times)")
	f.BoolVar(&flags.noDefaultExcludes, "no-default-excludes", false, "Also search "+strings.Join(detector.DefaultExcludes, ", "))
	f.IntVar(&settings.MaxDepth, "max-depth", settings.MaxDepth, "Deepest directory level to search (-1 = unlimited)")
	f.BoolVar(&settings.FollowSymlinks, "follow-symlinks", settings.FollowSymlinks, "Follow symlinked directories")
	f.BoolVar(&flags.includeVendored, "include-vendored", false, "Search vendored directories")
	f.BoolVar(&settings.RespectGitignore, "gitignore", settings.RespectGitignore, "Skip directories ignored by .gitignore files")

	f.StringSliceVar(&settings.Detectors, "detectors", settings.Detectors, "Only run these detector types (e.g. GO_MOD)")
	f.StringVar(&settings.ProjectDetector, "project-detector", settings.ProjectDetector, "Detector type preferred for the project name")
	f.StringVar(&settings.GoPath, "go-path", settings.GoPath, "Path of the go executable (default: from PATH)")
	f.StringVar(&settings.ScratchDir, "scratch-dir", settings.ScratchDir, "Directory for extraction output (default: temporary)")
	f.BoolVar(&settings.KeepScratch, "keep-scratch", settings.KeepScratch, "Keep extraction output after the run")

	f.BoolVar(&settings.Summary, "summary", settings.Summary, "Print the search and extraction summaries to stderr")
	f.BoolVarP(&settings.Verbose, "verbose", "v", settings.Verbose, "Show progress on stderr")
	f.StringVar(&settings.ProgressStyle, "progress", settings.ProgressStyle, "Progress style: simple or tree")
	f.StringVarP(&flags.configPath, "config", "c", "", "Run configuration file or inline JSON")

	// Logging flags - use defaults from environment variables
	f.StringVar(&flags.logLevel, "log-level", flags.logLevel, "Log level: debug, info, warn, error")
	f.StringVar(&settings.LogFormat, "log-format", settings.LogFormat, "Log format: text or json")
	f.StringVar(&settings.LogFile, "log-file", settings.LogFile, "Log file path (default: stderr)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, settings *config.Settings, flags *detectFlags) error {
	if err := settings.SetLogLevel(flags.logLevel); err != nil {
		return err
	}
	if cmd.Flags().Changed("no-default-excludes") {
		settings.ExcludeDefaults = !flags.noDefaultExcludes
	}
	if cmd.Flags().Changed("include-vendored") {
		settings.SkipVendored = !flags.includeVendored
	}
	for i, pattern := range settings.ExcludePatterns {
		settings.ExcludePatterns[i] = strings.TrimSpace(pattern)
	}
	if settings.OutputFile == "-" {
		settings.OutputFile = ""
	}

	runConfig, err := config.LoadRunConfig(flags.configPath)
	if err != nil {
		return err
	}
	runConfig.MergeWithSettings(settings)

	path := runConfig.GetPath()
	if len(args) > 0 {
		path = strings.TrimSpace(args[0])
	}
	absPath, err := scanner.ResolvePath(path)
	if err != nil {
		return err
	}
	if info, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("path does not exist: %s", absPath)
	} else if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absPath)
	}

	projectConfig, err := config.LoadProjectConfig(absPath)
	if err != nil {
		return err
	}
	merged := runConfig.GetMergedConfig(projectConfig)
	merged.MergeWithSettings(settings)

	if err := settings.Validate(); err != nil {
		return err
	}
	format, err := resolveFormat(settings.Format, settings.OutputFile)
	if err != nil {
		return err
	}

	logger := settings.ConfigureLogger()
	logger.Debug("Starting detection",
		"path", absPath,
		"exclude_patterns", settings.ExcludePatterns,
		"detectors", settings.Detectors,
		"format", format)

	s, err := scanner.NewScannerWithSettings(absPath, settings, merged, logger)
	if err != nil {
		return err
	}
	result, err := s.Scan(absPath)
	if err != nil {
		return err
	}

	if settings.Summary {
		detector.WriteSearchSummary(cmd.ErrOrStderr(), result.Tree)
		detector.WriteExtractionSummary(cmd.ErrOrStderr(), result.Tree)
	}

	return OutputToFile(&DetectOutput{Result: result}, format, settings.PrettyPrint, settings.OutputFile, cmd.OutOrStdout())
}
