package gomod

import (
	"path/filepath"

	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/executable"
	"github.com/petrarca/dependency-detector/internal/provider"
)

const (
	// GoModFile is the manifest every Go module carries
	GoModFile = "go.mod"

	goExecutable = "go"
)

func hasGoMod(fs provider.Provider, dir string) detector.Result {
	exists, err := fs.Exists(filepath.Join(dir, GoModFile))
	if err != nil {
		return detector.Failf("Unable to check for %s in %s: %v", GoModFile, dir, err)
	}
	if !exists {
		return detector.FileNotFound(dir, GoModFile)
	}
	return detector.Passf("Found %s.", GoModFile)
}

// CliDetectable extracts the module graph with the go tool.
type CliDetectable struct {
	env       detector.DetectableEnvironment
	fs        provider.Provider
	resolver  executable.Resolver
	extractor *CliExtractor
	goExe     string
}

// NewCliDetectable creates the detectable for one directory
func NewCliDetectable(env detector.DetectableEnvironment, fs provider.Provider, resolver executable.Resolver, extractor *CliExtractor) *CliDetectable {
	return &CliDetectable{
		env:       env,
		fs:        fs,
		resolver:  resolver,
		extractor: extractor,
	}
}

func (d *CliDetectable) Applicable() detector.Result {
	return hasGoMod(d.fs, d.env.Directory)
}

func (d *CliDetectable) Extractable() detector.Result {
	exe, err := d.resolver.Resolve(goExecutable)
	if err != nil {
		return detector.ExecutableNotFound(goExecutable)
	}
	d.goExe = exe
	return detector.Pass()
}

func (d *CliDetectable) Extract(env *detector.ExtractionEnvironment) *detector.Extraction {
	return d.extractor.Extract(env.Directory, d.goExe)
}
