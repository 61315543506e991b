package provider

// Provider defines the file system operations used by the tree builder and detectables
type Provider interface {
	// ListDir returns the entries of a directory
	ListDir(path string) ([]File, error)

	// Exists checks if a file or directory exists
	Exists(path string) (bool, error)

	// IsDir checks if a path is a directory
	IsDir(path string) (bool, error)

	// ReadFile reads file content as bytes
	ReadFile(path string) ([]byte, error)

	// Canonical returns the identity of a directory with symlinks resolved
	Canonical(path string) (string, error)

	// GetBasePath returns the base path for this provider
	GetBasePath() string
}

// File represents a file or directory entry
type File struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Type    string `json:"type"` // "file" or "dir"
	Size    int64  `json:"size"`
	Symlink bool   `json:"symlink,omitempty"`
}

// IsDir reports whether the entry is a directory (or a symlink to one).
func (f File) IsDir() bool {
	return f.Type == TypeDir
}

const (
	TypeFile = "file"
	TypeDir  = "dir"
)
