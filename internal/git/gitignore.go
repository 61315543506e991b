package git

import (
	"bufio"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreRule is one usable line of an ignore file.
type IgnoreRule struct {
	Glob     string
	Anchored bool // contained a slash, so it only matches relative to its own directory
}

// IgnoreFrame holds the rules of one ignore file, scoped to the directory that contains it.
type IgnoreFrame struct {
	Dir   string
	Rules []IgnoreRule
}

// Matches reports whether the directory at path is ignored by this frame.
func (fr IgnoreFrame) Matches(path string) bool {
	rel, err := filepath.Rel(fr.Dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	name := filepath.Base(path)

	for _, rule := range fr.Rules {
		if ok, _ := doublestar.Match(rule.Glob, rel); ok {
			return true
		}
		if rule.Anchored {
			continue
		}
		if ok, _ := doublestar.Match(rule.Glob, name); ok {
			return true
		}
	}
	return false
}

// ParseIgnoreRules reads gitignore syntax. Negations are dropped since a
// directory, once skipped, is never revisited.
func ParseIgnoreRules(content []byte) []IgnoreRule {
	var rules []IgnoreRule
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		line = strings.TrimSuffix(line, "/")
		if line == "" {
			continue
		}

		rule := IgnoreRule{Glob: strings.TrimPrefix(line, "/")}
		rule.Anchored = strings.Contains(line, "/")
		rules = append(rules, rule)
	}
	return rules
}

// IgnoreStack follows the tree builder: Enter pushes the .gitignore of a
// directory being descended into, Leave pops it again.
type IgnoreStack struct {
	frames   []IgnoreFrame
	readFile func(string) ([]byte, error)
	logger   *slog.Logger
}

// NewIgnoreStack creates a stack for the repository at root, seeded with
// .git/info/exclude when present. readFile defaults to os.ReadFile.
func NewIgnoreStack(root string, readFile func(string) ([]byte, error), logger *slog.Logger) *IgnoreStack {
	if readFile == nil {
		readFile = os.ReadFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &IgnoreStack{readFile: readFile, logger: logger}

	if rules := s.infoExclude(root); len(rules) > 0 {
		s.frames = append(s.frames, IgnoreFrame{Dir: root, Rules: rules})
		logger.Debug("Loaded info/exclude rules", "root", root, "count", len(rules))
	}
	return s
}

// Enter loads dir/.gitignore. It returns true when a frame was pushed and
// Leave has to be called once dir is done.
func (s *IgnoreStack) Enter(dir string) bool {
	file := filepath.Join(dir, ".gitignore")
	content, err := s.readFile(file)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("Unreadable .gitignore", "path", file, "error", err)
		}
		return false
	}

	rules := ParseIgnoreRules(content)
	if len(rules) == 0 {
		return false
	}
	s.frames = append(s.frames, IgnoreFrame{Dir: dir, Rules: rules})
	s.logger.Debug("Entered .gitignore scope", "path", file, "count", len(rules))
	return true
}

// Leave drops the most recently entered frame.
func (s *IgnoreStack) Leave() {
	if n := len(s.frames); n > 0 {
		s.frames = s.frames[:n-1]
	}
}

// Ignored reports whether any active frame ignores the directory at path.
func (s *IgnoreStack) Ignored(path string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Matches(path) {
			return true
		}
	}
	return false
}

// Depth is the number of active frames.
func (s *IgnoreStack) Depth() int {
	return len(s.frames)
}

// infoExclude resolves the git directory, following the "gitdir:" file that
// worktrees and submodules use, and parses its info/exclude.
func (s *IgnoreStack) infoExclude(root string) []IgnoreRule {
	gitDir := filepath.Join(root, ".git")
	if content, err := s.readFile(gitDir); err == nil {
		target, ok := strings.CutPrefix(strings.TrimSpace(string(content)), "gitdir:")
		if !ok {
			return nil
		}
		gitDir = strings.TrimSpace(target)
		if !filepath.IsAbs(gitDir) {
			gitDir = filepath.Join(root, gitDir)
		}
	}

	content, err := s.readFile(filepath.Join(gitDir, "info", "exclude"))
	if err != nil {
		return nil
	}
	return ParseIgnoreRules(content)
}
