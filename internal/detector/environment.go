package detector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExtractionEnvironment is the per-node workspace handed to Extract.
type ExtractionEnvironment struct {
	Directory  string
	OutputDir  string
	DetectorID int
}

// EnvironmentProvider creates extraction environments. The caller owns their lifecycle.
type EnvironmentProvider interface {
	CreateEnvironment(node *EvaluationTree) (*ExtractionEnvironment, error)
}

// ScratchEnvironmentProvider creates one numbered scratch directory per node
// below a base directory.
type ScratchEnvironmentProvider struct {
	baseDir string
	count   int
}

// NewScratchEnvironmentProvider creates a provider. An empty baseDir uses a new
// temporary directory.
func NewScratchEnvironmentProvider(baseDir string) (*ScratchEnvironmentProvider, error) {
	if baseDir == "" {
		dir, err := os.MkdirTemp("", "dependency-detector-")
		if err != nil {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
		baseDir = dir
	} else if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", baseDir, err)
	}
	return &ScratchEnvironmentProvider{baseDir: baseDir}, nil
}

// CreateEnvironment creates a fresh output directory for the node.
func (p *ScratchEnvironmentProvider) CreateEnvironment(node *EvaluationTree) (*ExtractionEnvironment, error) {
	p.count++
	name := fmt.Sprintf("%d-%s", p.count, sanitize(filepath.Base(node.Directory())))
	outputDir := filepath.Join(p.baseDir, name)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create extraction directory %s: %w", outputDir, err)
	}
	return &ExtractionEnvironment{
		Directory:  node.Directory(),
		OutputDir:  outputDir,
		DetectorID: p.count,
	}, nil
}

// BaseDir returns the directory holding all environments.
func (p *ScratchEnvironmentProvider) BaseDir() string {
	return p.baseDir
}

// Cleanup removes every environment created by the provider.
func (p *ScratchEnvironmentProvider) Cleanup() error {
	return os.RemoveAll(p.baseDir)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
