package detector

import "fmt"

// Detectable is one detector instance bound to one directory.
type Detectable interface {
	// Applicable checks for the ecosystem's marker files. It must not modify anything.
	Applicable() Result
	// Extractable checks the preconditions of Extract without doing the expensive work.
	Extractable() Result
	// Extract produces the dependency graphs. Errors are reported through the Extraction.
	Extract(env *ExtractionEnvironment) *Extraction
}

// Result is the outcome of one phase predicate.
type Result struct {
	Passed bool   `json:"passed" yaml:"passed"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Pass returns a passed result.
func Pass() Result {
	return Result{Passed: true, Reason: "Passed."}
}

// Passf returns a passed result with a reason.
func Passf(format string, args ...any) Result {
	return Result{Passed: true, Reason: fmt.Sprintf(format, args...)}
}

// Fail returns a failed result with a reason.
func Fail(reason string) Result {
	return Result{Passed: false, Reason: reason}
}

// Failf returns a failed result with a formatted reason.
func Failf(format string, args ...any) Result {
	return Result{Passed: false, Reason: fmt.Sprintf(format, args...)}
}

// FileNotFound is the common failed applicability result.
func FileNotFound(directory, pattern string) Result {
	return Failf("No file was found with pattern: %s in %s", pattern, directory)
}

// ExecutableNotFound is the common failed extractability result.
func ExecutableNotFound(name string) Result {
	return Failf("No %s executable was found.", name)
}
