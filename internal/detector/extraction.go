package detector

import (
	"fmt"

	"github.com/petrarca/dependency-detector/internal/graph"
)

// ExtractionResult tags the outcome of an extraction.
type ExtractionResult int

const (
	ExtractionSuccess ExtractionResult = iota
	ExtractionFailure
	ExtractionException
)

func (r ExtractionResult) String() string {
	switch r {
	case ExtractionSuccess:
		return "SUCCESS"
	case ExtractionFailure:
		return "FAILURE"
	case ExtractionException:
		return "EXCEPTION"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(r))
	}
}

func (r ExtractionResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Extraction is the terminal outcome of an evaluation: code locations on
// success, a description on failure, a captured error on exception.
type Extraction struct {
	Result         ExtractionResult     `json:"result" yaml:"result"`
	CodeLocations  []graph.CodeLocation `json:"code_locations,omitempty" yaml:"code_locations,omitempty"`
	Description    string               `json:"description,omitempty" yaml:"description,omitempty"`
	Err            error                `json:"-" yaml:"-"`
	ProjectName    string               `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	ProjectVersion string               `json:"project_version,omitempty" yaml:"project_version,omitempty"`
}

// NewSuccess creates a successful extraction. Zero code locations is valid.
func NewSuccess(locations ...graph.CodeLocation) *Extraction {
	return &Extraction{Result: ExtractionSuccess, CodeLocations: locations}
}

// NewFailure creates a detector-reported failure.
func NewFailure(description string) *Extraction {
	return &Extraction{Result: ExtractionFailure, Description: description}
}

// NewException captures an error raised while extracting.
func NewException(err error) *Extraction {
	x := &Extraction{Result: ExtractionException, Err: err}
	if err != nil {
		x.Description = err.Error()
	}
	return x
}

// WithProject records the project name and version the extraction discovered.
func (x *Extraction) WithProject(name, version string) *Extraction {
	x.ProjectName = name
	x.ProjectVersion = version
	return x
}

func (x *Extraction) IsSuccess() bool {
	return x != nil && x.Result == ExtractionSuccess
}
