package provider

import (
	"fmt"
	"os"
	"path"
	"sort"
)

// FakeProvider implements the Provider interface for testing.
// Paths use forward slashes and are absolute, e.g. "/src/app/go.mod".
type FakeProvider struct {
	dirs       map[string]bool
	content    map[string]string
	unreadable map[string]bool
	links      map[string]string
}

// NewFakeProvider creates a new fake provider with an empty root directory
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		dirs:       map[string]bool{"/": true},
		content:    make(map[string]string),
		unreadable: make(map[string]bool),
		links:      make(map[string]string),
	}
}

// AddFile adds a file and all of its parent directories
func (p *FakeProvider) AddFile(filePath, content string) {
	filePath = path.Clean(filePath)
	p.AddDir(path.Dir(filePath))
	p.content[filePath] = content
}

// AddDir adds a directory and all of its parents
func (p *FakeProvider) AddDir(dirPath string) {
	for dir := path.Clean(dirPath); ; dir = path.Dir(dir) {
		p.dirs[dir] = true
		if dir == "/" || dir == "." {
			return
		}
	}
}

// AddSymlink adds a directory entry at linkPath that points to an existing directory
func (p *FakeProvider) AddSymlink(linkPath, target string) {
	linkPath = path.Clean(linkPath)
	p.AddDir(path.Dir(linkPath))
	p.links[linkPath] = path.Clean(target)
}

// MakeUnreadable makes ListDir fail for the directory
func (p *FakeProvider) MakeUnreadable(dirPath string) {
	p.unreadable[path.Clean(dirPath)] = true
}

// ListDir returns the direct entries of a directory
func (p *FakeProvider) ListDir(dirPath string) ([]File, error) {
	dirPath = p.resolve(path.Clean(dirPath))
	if p.unreadable[dirPath] {
		return nil, &os.PathError{Op: "open", Path: dirPath, Err: os.ErrPermission}
	}
	if !p.dirs[dirPath] {
		return nil, &os.PathError{Op: "open", Path: dirPath, Err: os.ErrNotExist}
	}

	var files []File
	for dir := range p.dirs {
		if dir != dirPath && path.Dir(dir) == dirPath {
			files = append(files, File{Name: path.Base(dir), Path: dir, Type: TypeDir})
		}
	}
	for link := range p.links {
		if path.Dir(link) == dirPath {
			files = append(files, File{Name: path.Base(link), Path: link, Type: TypeDir, Symlink: true})
		}
	}
	for file, content := range p.content {
		if path.Dir(file) == dirPath {
			files = append(files, File{Name: path.Base(file), Path: file, Type: TypeFile, Size: int64(len(content))})
		}
	}

	// Stable but reverse-sorted, so callers cannot depend on listing order.
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

// ReadFile returns the content of a file
func (p *FakeProvider) ReadFile(filePath string) ([]byte, error) {
	content, exists := p.content[p.resolve(path.Clean(filePath))]
	if !exists {
		return nil, &os.PathError{Op: "open", Path: filePath, Err: os.ErrNotExist}
	}
	return []byte(content), nil
}

// Exists checks if a file or directory exists
func (p *FakeProvider) Exists(filePath string) (bool, error) {
	filePath = p.resolve(path.Clean(filePath))
	_, fileExists := p.content[filePath]
	return fileExists || p.dirs[filePath], nil
}

// IsDir checks if a path is a directory
func (p *FakeProvider) IsDir(dirPath string) (bool, error) {
	dirPath = p.resolve(path.Clean(dirPath))
	if p.dirs[dirPath] {
		return true, nil
	}
	if _, ok := p.content[dirPath]; ok {
		return false, nil
	}
	return false, &os.PathError{Op: "stat", Path: dirPath, Err: os.ErrNotExist}
}

// Canonical resolves fake symlinks
func (p *FakeProvider) Canonical(dirPath string) (string, error) {
	resolved := p.resolve(path.Clean(dirPath))
	if !p.dirs[resolved] {
		if _, ok := p.content[resolved]; !ok {
			return "", fmt.Errorf("canonical %s: %w", dirPath, os.ErrNotExist)
		}
	}
	return resolved, nil
}

// GetBasePath returns the base path for this provider
func (p *FakeProvider) GetBasePath() string {
	return "/"
}

// resolve replaces a symlinked path prefix with its target
func (p *FakeProvider) resolve(filePath string) string {
	for i := 0; i < 32; i++ {
		replaced := false
		for link, target := range p.links {
			if filePath == link {
				filePath = target
				replaced = true
			} else if len(filePath) > len(link) && filePath[:len(link)+1] == link+"/" {
				filePath = target + filePath[len(link):]
				replaced = true
			}
		}
		if !replaced {
			break
		}
	}
	return filePath
}
