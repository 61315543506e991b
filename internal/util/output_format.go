package util

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
)

// OutputFormats are the formats the detect and rules commands can write
var OutputFormats = []string{"json", "yaml", "text"}

// ProgressStyles are the renderings of --verbose progress
var ProgressStyles = []string{"simple", "tree"}

// ValidateChoice checks that value is one of choices
func ValidateChoice(name, value string, choices []string) error {
	if !slices.Contains(choices, NormalizeFormat(value)) {
		return fmt.Errorf("invalid %s: %s. Valid values are: %s", name, value, strings.Join(choices, ", "))
	}
	return nil
}

// ValidateOutputFormat checks if the given format is valid
func ValidateOutputFormat(format string) error {
	return ValidateChoice("format", format, OutputFormats)
}

// NormalizeFormat normalizes the format string to lowercase
func NormalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DefaultFormat is text for a person at a terminal and json for pipes and files
func DefaultFormat(outputFile string, stdout *os.File) string {
	if outputFile == "" && IsTerminal(stdout) {
		return "text"
	}
	return "json"
}
