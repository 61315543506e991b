package provider

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FSProvider serves the local disk. Relative paths are taken relative to base.
type FSProvider struct {
	base string
}

// NewFSProvider creates a provider rooted at base
func NewFSProvider(base string) *FSProvider {
	return &FSProvider{base: filepath.Clean(base)}
}

// ListDir returns the entries of a directory. Symlinks are reported with the
// type of their target and broken ones are left out.
func (p *FSProvider) ListDir(dir string) ([]File, error) {
	dir = p.abs(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if f, ok := statEntry(dir, entry); ok {
			files = append(files, f)
		}
	}
	return files, nil
}

func statEntry(dir string, entry fs.DirEntry) (File, bool) {
	full := filepath.Join(dir, entry.Name())
	linked := entry.Type()&fs.ModeSymlink != 0

	var info fs.FileInfo
	var err error
	if linked {
		info, err = os.Stat(full)
	} else {
		info, err = entry.Info()
	}
	if err != nil {
		return File{}, false
	}

	kind := TypeFile
	if info.IsDir() {
		kind = TypeDir
	}
	return File{Name: entry.Name(), Path: full, Type: kind, Size: info.Size(), Symlink: linked}, true
}

func (p *FSProvider) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(p.abs(name))
}

func (p *FSProvider) Exists(name string) (bool, error) {
	_, err := os.Stat(p.abs(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (p *FSProvider) IsDir(name string) (bool, error) {
	info, err := os.Stat(p.abs(name))
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Canonical resolves every symlink on the way and returns an absolute path
func (p *FSProvider) Canonical(name string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p.abs(name))
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func (p *FSProvider) GetBasePath() string {
	return p.base
}

func (p *FSProvider) abs(name string) string {
	switch {
	case filepath.IsAbs(name):
		return name
	case name == "" || name == ".":
		return p.base
	default:
		return filepath.Join(p.base, name)
	}
}
