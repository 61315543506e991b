package graph

// CodeLocation is a dependency graph tagged with where it came from.
type CodeLocation struct {
	SourcePath   string `json:"source_path" yaml:"source_path"`
	DetectorType string `json:"detector_type" yaml:"detector_type"`
	// ExternalName and ExternalVersion identify the location's own project
	// when the producing detector knows it.
	ExternalName    string `json:"external_name,omitempty" yaml:"external_name,omitempty"`
	ExternalVersion string `json:"external_version,omitempty" yaml:"external_version,omitempty"`
	Graph           *Graph `json:"graph" yaml:"graph"`
}

// NewCodeLocation wraps a graph without source information; the evaluator
// fills in the path and detector type of the evaluation that produced it.
func NewCodeLocation(g *Graph) CodeLocation {
	if g == nil {
		g = New()
	}
	return CodeLocation{Graph: g}
}
