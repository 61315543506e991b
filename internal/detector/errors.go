package detector

import "fmt"

// DirectoryListError is returned when a directory below the root cannot be
// listed. The run is aborted because a partial tree would silently hide results.
type DirectoryListError struct {
	Path string
	Err  error
}

func (e *DirectoryListError) Error() string {
	return fmt.Sprintf("unable to list directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryListError) Unwrap() error { return e.Err }
