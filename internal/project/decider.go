// Package project suggests a project name and version for a run.
package project

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/git"
)

// Source tells where a suggestion came from
type Source string

const (
	SourceDetector  Source = "detector"
	SourceGit       Source = "git"
	SourceDirectory Source = "directory"
)

// Suggestion is a project name and version with its origin
type Suggestion struct {
	Name     string
	Version  string
	Source   Source
	Detector detector.DetectorType
}

type candidate struct {
	detectorType detector.DetectorType
	depth        int
	name         string
	version      string
}

// Decider picks the project name and version. Extractions that report a
// project name come first, then git metadata of the scanned root, then the
// name of the root directory.
type Decider struct {
	preferred detector.DetectorType
	gitInfo   func(path string) *git.GitInfo
	logger    *slog.Logger
}

// NewDecider creates a decider. A non-empty preferred type restricts the
// detector suggestions to that type.
func NewDecider(preferred string, logger *slog.Logger) *Decider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decider{
		preferred: detector.DetectorType(strings.ToUpper(strings.TrimSpace(preferred))),
		gitInfo:   git.GetGitInfo,
		logger:    logger,
	}
}

// Decide implements aggregator.ProjectDecider
func (d *Decider) Decide(rootDir string, evaluations []*detector.Evaluation) (string, string) {
	s := d.Suggest(rootDir, evaluations)
	return s.Name, s.Version
}

// Suggest returns the best suggestion. It always has a name unless rootDir is empty.
func (d *Decider) Suggest(rootDir string, evaluations []*detector.Evaluation) Suggestion {
	if c, ok := d.fromEvaluations(evaluations); ok {
		return Suggestion{Name: c.name, Version: c.version, Source: SourceDetector, Detector: c.detectorType}
	}

	if rootDir == "" {
		return Suggestion{}
	}

	if info := d.gitInfo(rootDir); info != nil {
		if name := info.ProjectName(); name != "" {
			return Suggestion{Name: name, Version: info.ProjectVersion(), Source: SourceGit}
		}
	}

	return Suggestion{Name: filepath.Base(filepath.Clean(rootDir)), Source: SourceDirectory}
}

func (d *Decider) fromEvaluations(evaluations []*detector.Evaluation) (candidate, bool) {
	var candidates []candidate
	for _, e := range evaluations {
		if !e.Succeeded() || e.Extraction().ProjectName == "" {
			continue
		}
		candidates = append(candidates, candidate{
			detectorType: e.Type(),
			depth:        e.Node().Depth(),
			name:         e.Extraction().ProjectName,
			version:      e.Extraction().ProjectVersion,
		})
	}

	if d.preferred != "" {
		var preferred []candidate
		for _, c := range candidates {
			if c.detectorType == d.preferred {
				preferred = append(preferred, c)
			}
		}
		if len(preferred) == 0 {
			d.logger.Info("No extraction of the preferred detector type reported a project", "detector", d.preferred)
			return candidate{}, false
		}
		shallowest := shallowest(preferred)
		if len(shallowest) > 1 {
			d.logger.Debug("Several preferred extractions at the same depth, using the first", "detector", d.preferred, "count", len(shallowest))
		}
		return shallowest[0], true
	}

	if len(candidates) == 0 {
		return candidate{}, false
	}
	top := shallowest(candidates)
	for _, c := range top[1:] {
		if c.name != top[0].name {
			d.logger.Info("Several detectors report a project at the same depth, not choosing one", "count", len(top))
			return candidate{}, false
		}
	}
	return top[0], true
}

// shallowest keeps the candidates with the lowest depth, in order.
func shallowest(candidates []candidate) []candidate {
	minDepth := candidates[0].depth
	for _, c := range candidates[1:] {
		minDepth = min(minDepth, c.depth)
	}
	var top []candidate
	for _, c := range candidates {
		if c.depth == minDepth {
			top = append(top, c)
		}
	}
	return top
}
