package executable

import (
	"fmt"
	"strings"
)

// Call records one invocation made through a FakeRunner.
type Call struct {
	Dir  string
	Exe  string
	Args []string
}

// FakeRunner implements Runner for testing. Responses are keyed by the
// space-joined argument list, e.g. "list -m".
type FakeRunner struct {
	responses map[string]*Output
	failures  map[string]error
	calls     []Call
}

// NewFakeRunner creates a new fake runner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]*Output),
		failures:  make(map[string]error),
	}
}

// AddOutput registers stdout lines returned with exit code 0 for the given arguments.
func (r *FakeRunner) AddOutput(args string, stdout ...string) {
	r.AddResult(args, &Output{ExitCode: 0, Stdout: stdout})
}

// AddResult registers a complete output for the given arguments.
func (r *FakeRunner) AddResult(args string, out *Output) {
	r.responses[args] = out
}

// AddStartFailure makes the given arguments fail as if the process could not start.
func (r *FakeRunner) AddStartFailure(args string, err error) {
	r.failures[args] = err
}

// Execute returns the registered response. Unregistered invocations fail to start.
func (r *FakeRunner) Execute(dir, exe string, args ...string) (*Output, error) {
	r.calls = append(r.calls, Call{Dir: dir, Exe: exe, Args: append([]string(nil), args...)})

	key := strings.Join(args, " ")
	if err, ok := r.failures[key]; ok {
		return nil, &RunnerError{Executable: exe, Args: args, Err: err}
	}
	out, ok := r.responses[key]
	if !ok {
		return nil, &RunnerError{Executable: exe, Args: args, Err: fmt.Errorf("no fake response for %q", key)}
	}

	stdout := make([]string, len(out.Stdout))
	copy(stdout, out.Stdout)
	return &Output{ExitCode: out.ExitCode, Stdout: stdout, Stderr: out.Stderr}, nil
}

// Calls returns the invocations in the order they were made.
func (r *FakeRunner) Calls() []Call {
	return append([]Call(nil), r.calls...)
}

// CalledWith reports whether the runner was invoked with the given arguments.
func (r *FakeRunner) CalledWith(args string) bool {
	for _, c := range r.calls {
		if strings.Join(c.Args, " ") == args {
			return true
		}
	}
	return false
}

// StaticResolver resolves executables from a fixed table. It is used in tests
// and when a caller already knows the executable paths.
type StaticResolver map[string]string

// Resolve implements Resolver.
func (r StaticResolver) Resolve(name string) (string, error) {
	if path, ok := r[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}
