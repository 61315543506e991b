package gomod

import (
	"fmt"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/graph"
	"github.com/petrarca/dependency-detector/internal/provider"
)

// ModFileDetectable reads go.mod without the go tool. It only knows the direct
// requirements, so the graph is one level deep below the module.
type ModFileDetectable struct {
	env  detector.DetectableEnvironment
	fs   provider.Provider
	file *modfile.File
}

// NewModFileDetectable creates the detectable for one directory
func NewModFileDetectable(env detector.DetectableEnvironment, fs provider.Provider) *ModFileDetectable {
	return &ModFileDetectable{env: env, fs: fs}
}

func (d *ModFileDetectable) Applicable() detector.Result {
	return hasGoMod(d.fs, d.env.Directory)
}

func (d *ModFileDetectable) Extractable() detector.Result {
	path := filepath.Join(d.env.Directory, GoModFile)
	data, err := d.fs.ReadFile(path)
	if err != nil {
		return detector.Failf("Unable to read %s: %v", path, err)
	}
	file, err := modfile.Parse(path, data, nil)
	if err != nil {
		return detector.Failf("Unable to parse %s: %v", path, err)
	}
	if file.Module == nil {
		return detector.Failf("No module directive in %s.", path)
	}
	d.file = file
	return detector.Pass()
}

func (d *ModFileDetectable) Extract(_ *detector.ExtractionEnvironment) *detector.Extraction {
	if d.file == nil {
		return detector.NewException(fmt.Errorf("%s was not parsed", GoModFile))
	}
	g := ModFileGraph(d.file)
	return detector.NewSuccess(graph.NewCodeLocation(g)).WithProject(d.file.Module.Mod.Path, "")
}

// ModFileGraph builds a graph with the module as root and its requirements as
// children. Replace directives apply; one without an old version matches every
// version of the path.
func ModFileGraph(file *modfile.File) *graph.Graph {
	g := graph.New()
	root := component(file.Module.Mod)
	g.AddRoot(root)

	exact := make(map[module.Version]module.Version)
	anyVersion := make(map[string]module.Version)
	for _, r := range file.Replace {
		if r.Old.Version == "" {
			anyVersion[r.Old.Path] = r.New
		} else {
			exact[r.Old] = r.New
		}
	}

	for _, req := range file.Require {
		mod := req.Mod
		if r, ok := exact[mod]; ok {
			mod = r
		} else if r, ok := anyVersion[mod.Path]; ok {
			mod = r
		}
		g.AddEdge(root, component(mod))
	}
	return g
}

// component maps a module version to a graph component. A replacement by a
// local directory has no version and keeps the directory as its name.
func component(v module.Version) graph.Component {
	return graph.NewComponent(v.Path, v.Version)
}
