package git

import (
	"net/url"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
)

// GitInfo contains git repository information
type GitInfo struct {
	Branch    string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	IsDirty   bool   `json:"is_dirty" yaml:"is_dirty"`
	RemoteURL string `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`
	Root      string `json:"root,omitempty" yaml:"root,omitempty"`
}

// GetGitInfo retrieves repository information for path or any of its parents.
// It returns nil when path is not inside a git repository.
func GetGitInfo(path string) *GitInfo {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}

	info := &GitInfo{}

	if worktree, err := repo.Worktree(); err == nil {
		info.Root = worktree.Filesystem.Root()
		if status, err := worktree.Status(); err == nil {
			info.IsDirty = !status.IsClean()
		}
	}

	if head, err := repo.Head(); err == nil {
		info.Commit = head.Hash().String()[:7]
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		} else {
			info.Branch = "HEAD" // detached
		}
	}

	if cfg, err := repo.Config(); err == nil {
		if origin := cfg.Remotes["origin"]; origin != nil && len(origin.URLs) > 0 {
			info.RemoteURL = sanitizeRemoteURL(origin.URLs[0])
		}
	}

	return info
}

// ProjectName derives a project name from the remote URL, e.g. "repo" for
// git@github.com:org/repo.git. It returns "" without a remote.
func (g *GitInfo) ProjectName() string {
	if g == nil || g.RemoteURL == "" {
		return ""
	}
	normalized := strings.ReplaceAll(normalizeRemoteURL(g.RemoteURL), ":", "/")
	return path.Base(normalized)
}

// ProjectVersion is the branch name, or the short commit for a detached HEAD.
func (g *GitInfo) ProjectVersion() string {
	if g == nil {
		return ""
	}
	if g.Branch != "" && g.Branch != "HEAD" {
		return g.Branch
	}
	return g.Commit
}

// sanitizeRemoteURL removes credentials from HTTP(S) remote URLs
func sanitizeRemoteURL(remote string) string {
	if !strings.HasPrefix(remote, "http://") && !strings.HasPrefix(remote, "https://") {
		return remote
	}
	u, err := url.Parse(remote)
	if err != nil || u.User == nil {
		return remote
	}
	u.User = nil
	return u.String()
}

// normalizeRemoteURL converts various git URL formats to a consistent format
func normalizeRemoteURL(remote string) string {
	remote = strings.TrimPrefix(remote, "https://")
	remote = strings.TrimPrefix(remote, "http://")
	remote = strings.TrimPrefix(remote, "git@")
	remote = strings.TrimPrefix(remote, "git://")
	remote = strings.TrimSuffix(remote, "/")
	remote = strings.TrimSuffix(remote, ".git")
	return remote
}
