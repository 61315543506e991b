package constants

// Exit codes of the dependency-detector binary
const (
	ExitCodeSuccess = 0

	// ExitCodeFailure covers invalid flags, config and output errors
	ExitCodeFailure = 1

	// ExitCodeDetectorFailure means a directory could not be listed while
	// building the search tree
	ExitCodeDetectorFailure = 2
)

const (
	// ProjectConfigFile is read from the root of the scanned directory
	ProjectConfigFile = ".detector.yml"

	// EnvPrefix prefixes every environment variable the settings read
	EnvPrefix = "DETECTOR_"
)
