package detector

import (
	"path/filepath"
	"sort"
	"strings"

	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"

	"github.com/petrarca/dependency-detector/internal/git"
	"github.com/petrarca/dependency-detector/internal/provider"
)

// DefaultExcludes are directory names that never contain sources worth detecting.
var DefaultExcludes = []string{".git", ".gradle", "bin", "build", "node_modules", "out", "packages", "target"}

// FinderOptions controls how the directory tree is built.
type FinderOptions struct {
	// ExcludePatterns are doublestar globs matched against the directory name
	// and against the slash separated path relative to the root.
	ExcludePatterns []string
	// ExcludeDefaults adds DefaultExcludes to ExcludePatterns.
	ExcludeDefaults bool
	// MaxDepth is the deepest directory level created (root = 0). Unlimited disables it.
	MaxDepth         int
	FollowSymlinks   bool
	SkipVendored     bool
	RespectGitignore bool
}

// DefaultFinderOptions returns options with default excludes and unlimited depth.
func DefaultFinderOptions() FinderOptions {
	return FinderOptions{
		ExcludeDefaults: true,
		MaxDepth:        Unlimited,
	}
}

type finder struct {
	provider  provider.Provider
	root      string
	opts      FinderOptions
	patterns  []string
	gitignore *git.IgnoreStack
	logger    *slog.Logger
	visited   map[string]bool
}

// FindTree builds the evaluation tree rooted at root. It returns nil without an
// error when the root does not exist, is not a readable directory, or is
// excluded. Failing to list any directory below the root is fatal and
// returns a *DirectoryListError.
func FindTree(p provider.Provider, root string, opts FinderOptions, logger *slog.Logger) (*EvaluationTree, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f := &finder{
		provider: p,
		root:     root,
		opts:     opts,
		logger:   logger,
		visited:  make(map[string]bool),
	}
	f.patterns = append(f.patterns, opts.ExcludePatterns...)
	if opts.ExcludeDefaults {
		f.patterns = append(f.patterns, DefaultExcludes...)
	}

	if isDir, err := p.IsDir(root); err != nil || !isDir {
		logger.Warn("Search root is not a readable directory", "path", root, "error", err)
		return nil, nil
	}
	if f.excluded(filepath.Base(root), "") {
		logger.Info("Search root is excluded", "path", root)
		return nil, nil
	}

	entries, err := p.ListDir(root)
	if err != nil {
		logger.Warn("Unable to list search root", "path", root, "error", err)
		return nil, nil
	}

	tree := NewEvaluationTree(root)
	if canonical, err := p.Canonical(root); err == nil {
		tree.canonical = canonical
	}
	f.visited[tree.canonical] = true

	if opts.RespectGitignore {
		f.gitignore = git.NewIgnoreStack(root, p.ReadFile, logger)
	}

	if err := f.walk(tree, entries); err != nil {
		return nil, err
	}
	return tree, nil
}

func (f *finder) walk(node *EvaluationTree, entries []provider.File) error {
	if f.gitignore != nil && f.gitignore.Enter(node.directory) {
		defer f.gitignore.Leave()
	}

	if f.opts.MaxDepth != Unlimited && node.depth >= f.opts.MaxDepth {
		return nil
	}

	dirs := make([]provider.File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })

	for _, dir := range dirs {
		rel := f.relative(dir.Path)
		if f.skip(dir, rel) {
			continue
		}

		canonical, err := f.provider.Canonical(dir.Path)
		if err != nil {
			f.logger.Debug("Skipping directory without canonical path", "path", dir.Path, "error", err)
			continue
		}
		if f.visited[canonical] {
			f.logger.Debug("Skipping directory already in tree", "path", dir.Path, "canonical", canonical)
			continue
		}

		children, err := f.provider.ListDir(dir.Path)
		if err != nil {
			return &DirectoryListError{Path: dir.Path, Err: err}
		}
		f.visited[canonical] = true

		child := node.AddChild(dir.Path)
		child.canonical = canonical
		if err := f.walk(child, children); err != nil {
			return err
		}
	}
	return nil
}

func (f *finder) skip(dir provider.File, rel string) bool {
	if dir.Symlink && !f.opts.FollowSymlinks {
		f.logger.Debug("Skipping symlinked directory", "path", dir.Path)
		return true
	}
	if f.excluded(dir.Name, rel) {
		f.logger.Debug("Skipping excluded directory", "path", dir.Path)
		return true
	}
	if f.opts.SkipVendored && enry.IsVendor(rel+"/") {
		f.logger.Debug("Skipping vendored directory", "path", dir.Path)
		return true
	}
	if f.gitignore != nil && f.gitignore.Ignored(dir.Path) {
		f.logger.Debug("Skipping gitignored directory", "path", dir.Path)
		return true
	}
	return false
}

func (f *finder) excluded(name, rel string) bool {
	for _, pattern := range f.patterns {
		pattern = strings.TrimSuffix(pattern, "/")
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
		if rel == "" {
			continue
		}
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func (f *finder) relative(path string) string {
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
