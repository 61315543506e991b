package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/petrarca/dependency-detector/internal/validation"
)

// RunConfigFile is the external configuration passed with --config
type RunConfigFile struct {
	Detect RunConfigSection `yaml:"detect" json:"detect"`
}

// RunConfigSection contains all run configuration options
type RunConfigSection struct {
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	Output OutputConfig `yaml:"output,omitempty" json:"output,omitempty"`

	// Same keys as .detector.yml
	Properties map[string]interface{} `yaml:"properties,omitempty" json:"properties,omitempty"`
	Exclude    []string               `yaml:"exclude,omitempty" json:"exclude,omitempty"`

	Options DetectorOptions `yaml:"options,omitempty" json:"options,omitempty"`
}

// OutputConfig defines output settings
type OutputConfig struct {
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Pretty bool   `yaml:"pretty,omitempty" json:"pretty,omitempty"`
}

// DetectorOptions defines evaluation behavior options
type DetectorOptions struct {
	Verbose         bool     `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	Summary         bool     `yaml:"summary,omitempty" json:"summary,omitempty"`
	Detectors       []string `yaml:"detectors,omitempty" json:"detectors,omitempty"`
	ProjectDetector string   `yaml:"project_detector,omitempty" json:"project_detector,omitempty"`
	KeepScratch     bool     `yaml:"keep_scratch,omitempty" json:"keep_scratch,omitempty"`
	GoPath          string   `yaml:"go_path,omitempty" json:"go_path,omitempty"`
}

const runConfigSchema = "detector-run.json"

// LoadRunConfig loads run configuration from a file path or inline JSON.
// Both forms are checked against the run configuration schema.
func LoadRunConfig(configPath string) (*RunConfigFile, error) {
	if configPath == "" {
		return nil, nil
	}

	source := "config file " + configPath
	var data []byte
	if inline := strings.TrimSpace(configPath); strings.HasPrefix(inline, "{") {
		source = "inline config"
		data = []byte(inline)
	} else {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		data = content
	}

	if err := validation.ValidateYAML(runConfigSchema, data); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", source, err)
	}

	// JSON documents are valid YAML, so one decoder covers both forms
	var config RunConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	return &config, nil
}

// MergeWithSettings merges run config into settings.
// Values that differ from the defaults are assumed to come from flags and win.
func (c *RunConfigFile) MergeWithSettings(settings *Settings) {
	if c == nil || settings == nil {
		return
	}
	out := c.Detect.Output
	opts := c.Detect.Options

	if out.File != "" && settings.OutputFile == "" {
		settings.OutputFile = out.File
	}
	if out.Format != "" && settings.Format == "" {
		settings.Format = strings.ToLower(out.Format)
	}
	if !settings.PrettyPrint && out.Pretty {
		settings.PrettyPrint = true
	}

	if !settings.Verbose && opts.Verbose {
		settings.Verbose = true
	}
	if !settings.Summary && opts.Summary {
		settings.Summary = true
	}
	if !settings.KeepScratch && opts.KeepScratch {
		settings.KeepScratch = true
	}
	if len(settings.Detectors) == 0 && len(opts.Detectors) > 0 {
		settings.Detectors = opts.Detectors
	}
	if settings.ProjectDetector == "" && opts.ProjectDetector != "" {
		settings.ProjectDetector = strings.ToUpper(opts.ProjectDetector)
	}
	if settings.GoPath == "" && opts.GoPath != "" {
		settings.GoPath = opts.GoPath
	}
}

// GetPath returns the path to scan, defaulting to "."
func (c *RunConfigFile) GetPath() string {
	if c == nil || c.Detect.Path == "" {
		return "."
	}
	return c.Detect.Path
}

// GetMergedConfig overlays the project config onto the run config.
// Project properties win; excludes are concatenated.
func (c *RunConfigFile) GetMergedConfig(projectConfig *ProjectConfig) *ProjectConfig {
	if c == nil {
		return projectConfig
	}

	merged := &ProjectConfig{
		Properties: make(map[string]interface{}),
		Exclude:    make([]string, 0),
	}
	for k, v := range c.Detect.Properties {
		merged.Properties[k] = v
	}
	merged.Exclude = append(merged.Exclude, c.Detect.Exclude...)

	if projectConfig != nil {
		for k, v := range projectConfig.Properties {
			merged.Properties[k] = v
		}
		merged.Exclude = append(merged.Exclude, projectConfig.Exclude...)
		merged.MaxDepth = projectConfig.MaxDepth
		merged.Detectors = projectConfig.Detectors
		merged.ProjectDetector = projectConfig.ProjectDetector
	}
	return merged
}
