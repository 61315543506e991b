// Package aggregator turns an evaluated tree into the result of a run:
// per-type status, applicable types and the code locations that were extracted.
package aggregator

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/graph"
	"github.com/petrarca/dependency-detector/internal/metadata"
)

// Status is the outcome of one detector type across the whole tree
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Result is everything a run produced
type Result struct {
	RootDirectory   string                           `json:"root_directory" yaml:"root_directory"`
	ApplicableTypes []detector.DetectorType          `json:"applicable_types" yaml:"applicable_types"`
	StatusMap       map[detector.DetectorType]Status `json:"status" yaml:"status"`
	ExtractionCount int                              `json:"extraction_count" yaml:"extraction_count"`
	CodeLocations   []KeyedLocation                  `json:"code_locations" yaml:"code_locations"`
	ProjectName     string                           `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	ProjectVersion  string                           `json:"project_version,omitempty" yaml:"project_version,omitempty"`
	Metadata        *metadata.RunMetadata            `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// CodeLocationMap indexes CodeLocations by key.
	CodeLocationMap map[string]graph.CodeLocation `json:"-" yaml:"-"`
	Tree            *detector.EvaluationTree      `json:"-" yaml:"-"`
	Evaluations     []*detector.Evaluation        `json:"-" yaml:"-"`
}

// KeyedLocation is a code location with its key in the result
type KeyedLocation struct {
	Key                string `json:"key" yaml:"key"`
	graph.CodeLocation `yaml:",inline"`
}

// CodeLocationConverter maps a successful evaluation to keyed code locations.
type CodeLocationConverter interface {
	Convert(rootDir string, e *detector.Evaluation) []KeyedLocation
}

// ProjectDecider suggests the project name and version of a run.
type ProjectDecider interface {
	Decide(rootDir string, evaluations []*detector.Evaluation) (name, version string)
}

// Aggregator builds results
type Aggregator struct {
	converter CodeLocationConverter
	decider   ProjectDecider
	logger    *slog.Logger
}

// NewAggregator creates an aggregator. A nil converter uses DefaultConverter;
// a nil decider leaves the project name and version empty.
func NewAggregator(converter CodeLocationConverter, decider ProjectDecider, logger *slog.Logger) *Aggregator {
	if converter == nil {
		converter = DefaultConverter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		converter: converter,
		decider:   decider,
		logger:    logger,
	}
}

// Empty is the result of a run that found no tree to evaluate
func Empty(rootDir string) *Result {
	return &Result{
		RootDirectory:   rootDir,
		ApplicableTypes: []detector.DetectorType{},
		StatusMap:       map[detector.DetectorType]Status{},
		CodeLocations:   []KeyedLocation{},
		CodeLocationMap: map[string]graph.CodeLocation{},
	}
}

// Aggregate flattens the evaluated tree and collects the result.
// It must run after all three evaluation phases.
func (a *Aggregator) Aggregate(root *detector.EvaluationTree) *Result {
	if root == nil {
		return Empty("")
	}

	result := Empty(root.Directory())
	result.Tree = root
	result.Evaluations = root.AllEvaluations()
	result.StatusMap = a.StatusMap(result.Evaluations)
	result.ApplicableTypes = ApplicableTypes(result.Evaluations)
	result.ExtractionCount = ExtractionCount(result.Evaluations)

	for _, e := range result.Evaluations {
		if !e.Succeeded() {
			continue
		}
		for _, loc := range a.converter.Convert(root.Directory(), e) {
			if _, dup := result.CodeLocationMap[loc.Key]; dup {
				a.logger.Warn("Duplicate code location key, keeping the first", "key", loc.Key, "detector", e.Rule().DescriptiveName())
				continue
			}
			result.CodeLocationMap[loc.Key] = loc.CodeLocation
			result.CodeLocations = append(result.CodeLocations, loc)
		}
	}

	if a.decider != nil {
		result.ProjectName, result.ProjectVersion = a.decider.Decide(root.Directory(), result.Evaluations)
	}
	return result
}

// StatusMap derives one status per applicable detector type. A type succeeds
// when any of its evaluations extracted successfully.
func (a *Aggregator) StatusMap(evaluations []*detector.Evaluation) map[detector.DetectorType]Status {
	statuses := make(map[detector.DetectorType]Status)
	for _, e := range evaluations {
		if !e.Applicable() {
			continue
		}
		status := a.status(e)
		if statuses[e.Type()] != StatusSuccess {
			statuses[e.Type()] = status
		}
	}
	return statuses
}

func (a *Aggregator) status(e *detector.Evaluation) Status {
	if !e.Extractable() {
		return StatusFailure
	}
	x := e.Extraction()
	if x == nil {
		a.logger.Warn("Evaluation is extractable but was never extracted",
			"detector", e.Rule().DescriptiveName(), "directory", e.Node().Directory(), "phase", e.Phase())
		return StatusFailure
	}
	switch x.Result {
	case detector.ExtractionSuccess:
		return StatusSuccess
	case detector.ExtractionFailure, detector.ExtractionException:
		return StatusFailure
	default:
		a.logger.Warn("Unknown extraction result",
			"detector", e.Rule().DescriptiveName(), "directory", e.Node().Directory(), "result", x.Result)
		return StatusFailure
	}
}

// ApplicableTypes returns the sorted set of types with at least one applicable evaluation.
func ApplicableTypes(evaluations []*detector.Evaluation) []detector.DetectorType {
	seen := make(map[detector.DetectorType]bool)
	types := make([]detector.DetectorType, 0)
	for _, e := range evaluations {
		if e.Applicable() && !seen[e.Type()] {
			seen[e.Type()] = true
			types = append(types, e.Type())
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// ExtractionCount is the number of planned extractions, known after phase 2.
func ExtractionCount(evaluations []*detector.Evaluation) int {
	count := 0
	for _, e := range evaluations {
		if e.Extractable() {
			count++
		}
	}
	return count
}

// DefaultConverter keys each location as "<relative path>:<detector type>",
// adding ":<index>" when one extraction produced several locations.
type DefaultConverter struct{}

func (DefaultConverter) Convert(rootDir string, e *detector.Evaluation) []KeyedLocation {
	x := e.Extraction()
	if x == nil {
		return nil
	}

	keyed := make([]KeyedLocation, 0, len(x.CodeLocations))
	for i, loc := range x.CodeLocations {
		key := fmt.Sprintf("%s:%s", relativeTo(rootDir, loc.SourcePath, e.Node()), e.Type())
		if len(x.CodeLocations) > 1 {
			key = fmt.Sprintf("%s:%d", key, i)
		}
		if loc.ExternalName == "" && x.ProjectName != "" {
			loc.ExternalName = x.ProjectName
			loc.ExternalVersion = x.ProjectVersion
		}
		keyed = append(keyed, KeyedLocation{Key: key, CodeLocation: loc})
	}
	return keyed
}

func relativeTo(rootDir, sourcePath string, node *detector.EvaluationTree) string {
	if sourcePath != "" {
		if rel, err := filepath.Rel(rootDir, sourcePath); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return node.RelativePath()
}
