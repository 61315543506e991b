package metadata

import (
	"path/filepath"
	"time"
)

// RunMetadata describes one detector run
type RunMetadata struct {
	Timestamp         string                 `json:"timestamp" yaml:"timestamp"`
	ScanPath          string                 `json:"scan_path" yaml:"scan_path"`
	SpecVersion       string                 `json:"specVersion" yaml:"specVersion"` // Result document version
	ToolVersion       string                 `json:"tool_version,omitempty" yaml:"tool_version,omitempty"`
	DurationMs        int64                  `json:"duration_ms" yaml:"duration_ms"`
	DirectoryCount    int                    `json:"directory_count" yaml:"directory_count"`
	EvaluationCount   int                    `json:"evaluation_count" yaml:"evaluation_count"`
	CodeLocationCount int                    `json:"code_location_count" yaml:"code_location_count"`
	Properties        map[string]interface{} `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// NewRunMetadata creates run metadata stamped with the current time
func NewRunMetadata(scanPath string, version string) *RunMetadata {
	absPath, err := filepath.Abs(scanPath)
	if err != nil {
		absPath = scanPath
	}

	return &RunMetadata{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		ScanPath:    absPath,
		SpecVersion: version,
	}
}

// SetDuration sets the run duration in milliseconds
func (m *RunMetadata) SetDuration(duration time.Duration) {
	m.DurationMs = duration.Milliseconds()
}

// SetCounts records the size of the evaluated tree and of the result
func (m *RunMetadata) SetCounts(directories, evaluations, codeLocations int) {
	m.DirectoryCount = directories
	m.EvaluationCount = evaluations
	m.CodeLocationCount = codeLocations
}

// SetProperties sets custom properties from configuration
func (m *RunMetadata) SetProperties(properties map[string]interface{}) {
	if len(properties) > 0 {
		m.Properties = properties
	}
}
