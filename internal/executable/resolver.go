package executable

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// ErrNotFound is returned when an executable cannot be located.
var ErrNotFound = errors.New("executable not found")

type (
	// Resolver locates executables by name.
	Resolver interface {
		Resolve(name string) (string, error)
	}

	// PathResolver resolves executables from explicit overrides first and
	// then from PATH. Results, including misses, are cached per name.
	PathResolver struct {
		overrides map[string]string
		lookPath  func(string) (string, error)

		mu    sync.Mutex
		cache map[string]resolution
	}

	resolution struct {
		path string
		err  error
	}
)

// NewPathResolver creates a resolver. overrides maps an executable name such as
// "go" to the path configured by the user.
func NewPathResolver(overrides map[string]string) *PathResolver {
	o := make(map[string]string, len(overrides))
	for name, path := range overrides {
		if path != "" {
			o[name] = path
		}
	}
	return &PathResolver{
		overrides: o,
		lookPath:  exec.LookPath,
		cache:     make(map[string]resolution),
	}
}

// Resolve returns the path of the named executable or an error wrapping ErrNotFound.
func (r *PathResolver) Resolve(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res, ok := r.cache[name]; ok {
		return res.path, res.err
	}

	res := r.resolve(name)
	r.cache[name] = res
	return res.path, res.err
}

func (r *PathResolver) resolve(name string) resolution {
	if override, ok := r.overrides[name]; ok {
		info, err := os.Stat(override)
		if err != nil || info.IsDir() {
			return resolution{err: fmt.Errorf("%w: configured %s path %s is not a file", ErrNotFound, name, override)}
		}
		return resolution{path: override}
	}

	path, err := r.lookPath(name)
	if err != nil {
		return resolution{err: fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)}
	}
	return resolution{path: path}
}
