// Package executable runs external tools on behalf of detectors and
// locates the executables they need.
package executable

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

type (
	// Output is everything a finished process produced.
	// A non-zero ExitCode is not an error at this level; callers interpret it.
	Output struct {
		ExitCode int
		Stdout   []string
		Stderr   string
	}

	// Runner executes a program in a working directory and blocks until it exits.
	Runner interface {
		Execute(dir, exe string, args ...string) (*Output, error)
	}

	// RunnerError is returned when a process could not be started at all
	// or its output could not be captured completely.
	RunnerError struct {
		Executable string
		Args       []string
		Err        error
	}

	// ExitCodeError describes a tool invocation that finished with a non-zero exit code.
	// Detectors return it when they treat the exit code as fatal for their extraction.
	ExitCodeError struct {
		Description string
		ExitCode    int
		Stderr      string
	}

	// ProcessRunner runs real processes with os/exec.
	ProcessRunner struct {
		logger *slog.Logger
	}
)

func (e *RunnerError) Error() string {
	return fmt.Sprintf("failed to start %s %s: %v", e.Executable, strings.Join(e.Args, " "), e.Err)
}

func (e *RunnerError) Unwrap() error { return e.Err }

func (e *ExitCodeError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d", e.Description, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Succeeded reports whether the process exited with code 0.
func (o *Output) Succeeded() bool {
	return o.ExitCode == 0
}

// CheckExitCode returns an *ExitCodeError when the output has a non-zero exit code.
func (o *Output) CheckExitCode(description string) error {
	if o.Succeeded() {
		return nil
	}
	return &ExitCodeError{Description: description, ExitCode: o.ExitCode, Stderr: o.Stderr}
}

// NewProcessRunner creates a runner that logs each invocation at debug level.
func NewProcessRunner(logger *slog.Logger) *ProcessRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessRunner{logger: logger}
}

// Execute runs exe with args in dir and captures stdout as lines and stderr as text.
func (r *ProcessRunner) Execute(dir, exe string, args ...string) (*Output, error) {
	cmd := exec.Command(exe, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Executing", "dir", dir, "exe", exe, "args", args)

	err := cmd.Run()
	lines, splitErr := splitLines(stdout.Bytes(), maxLineSize)
	if splitErr != nil {
		return nil, &RunnerError{Executable: exe, Args: args, Err: fmt.Errorf("reading output: %w", splitErr)}
	}
	out := &Output{
		Stdout: lines,
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			r.logger.Debug("Process exited", "exe", exe, "args", args, "exit_code", out.ExitCode)
			return out, nil
		}
		return nil, &RunnerError{Executable: exe, Args: args, Err: err}
	}

	return out, nil
}

// maxLineSize bounds a single captured output line
const maxLineSize = 16 * 1024 * 1024

// splitLines splits process output into lines without trailing line terminators.
// A line longer than maxLine is an error, never a silently shortened listing.
func splitLines(data []byte, maxLine int) ([]string, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
