package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/petrarca/dependency-detector/internal/constants"
	"github.com/petrarca/dependency-detector/internal/validation"
)

const projectConfigSchema = "detector-yml.json"

// ProjectConfig represents the .detector.yml file at the scan root
type ProjectConfig struct {
	Properties      map[string]interface{} `yaml:"properties,omitempty" json:"properties,omitempty"`
	Exclude         []string               `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	MaxDepth        *int                   `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	Detectors       []string               `yaml:"detectors,omitempty" json:"detectors,omitempty"`
	ProjectDetector string                 `yaml:"project_detector,omitempty" json:"project_detector,omitempty"`
}

// LoadProjectConfig loads .detector.yml from the scan root.
// A missing file yields an empty config. The file belongs to the scanned
// repository, so it can never name executables; those come from flags,
// the environment or the run config.
func LoadProjectConfig(scanPath string) (*ProjectConfig, error) {
	configPath := filepath.Join(scanPath, constants.ProjectConfigFile)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseProjectConfig(configPath, data)
}

// ParseProjectConfig validates and decodes project config content
func ParseProjectConfig(name string, data []byte) (*ProjectConfig, error) {
	if err := validation.ValidateYAML(projectConfigSchema, data); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	var config ProjectConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &config, nil
}

// MergeExcludes merges config excludes with CLI excludes, sorted and without duplicates
func (c *ProjectConfig) MergeExcludes(cliExcludes []string) []string {
	if c == nil {
		return cliExcludes
	}

	excludeMap := make(map[string]bool)
	for _, exclude := range c.Exclude {
		excludeMap[exclude] = true
	}
	for _, exclude := range cliExcludes {
		excludeMap[exclude] = true
	}

	result := make([]string, 0, len(excludeMap))
	for exclude := range excludeMap {
		result = append(result, exclude)
	}
	sort.Strings(result)
	return result
}

// MergeWithSettings fills settings the command line left at their defaults
func (c *ProjectConfig) MergeWithSettings(settings *Settings) {
	if c == nil || settings == nil {
		return
	}
	defaults := DefaultSettings()

	settings.ExcludePatterns = c.MergeExcludes(settings.ExcludePatterns)

	if c.MaxDepth != nil && settings.MaxDepth == defaults.MaxDepth {
		settings.MaxDepth = *c.MaxDepth
	}
	if len(settings.Detectors) == 0 && len(c.Detectors) > 0 {
		settings.Detectors = c.Detectors
	}
	if settings.ProjectDetector == "" && c.ProjectDetector != "" {
		settings.ProjectDetector = strings.ToUpper(c.ProjectDetector)
	}
}
