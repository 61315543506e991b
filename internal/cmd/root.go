package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrarca/dependency-detector/internal/constants"
	"github.com/petrarca/dependency-detector/internal/detector"
)

var rootCmd = &cobra.Command{
	Use:   "dependency-detector",
	Short: "Dependency graph detector for source trees",
	Long: `Dependency Detector searches a source tree for package manager projects
and extracts their dependency graphs with the native tooling.

Every directory is checked against the detector rules; applicable detectors
are prepared and extracted, and the result lists one code location per
extracted project together with a SUCCESS or FAILURE status per detector type.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the matching exit code
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return constants.ExitCodeSuccess
	}
	var listErr *detector.DirectoryListError
	if errors.As(err, &listErr) {
		return constants.ExitCodeDetectorFailure
	}
	return constants.ExitCodeFailure
}
