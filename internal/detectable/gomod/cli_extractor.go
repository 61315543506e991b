// Package gomod detects Go modules and extracts their dependency graph,
// either through the go tool or by reading go.mod directly.
package gomod

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/executable"
	"github.com/petrarca/dependency-detector/internal/graph"
)

var goVersionPattern = regexp.MustCompile(`\d+\.[\d.]+`)

// readonlyListingVersion is the first go release whose `go list -m all`
// would otherwise update go.mod.
const readonlyListingVersion = "v1.14"

// CliExtractor runs the go tool in a module directory and builds one code
// location from its module graph.
type CliExtractor struct {
	runner executable.Runner
	parser *GraphParser
	logger *slog.Logger
}

// NewCliExtractor creates an extractor
func NewCliExtractor(runner executable.Runner, logger *slog.Logger) *CliExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CliExtractor{
		runner: runner,
		parser: NewGraphParser(logger),
		logger: logger,
	}
}

// Extract lists the workspace modules, collects replace directives, rewrites
// the module graph with them and parses the result. Any go invocation that
// cannot start or exits non-zero turns the extraction into an exception.
func (e *CliExtractor) Extract(dir, goExe string) *detector.Extraction {
	modules, err := e.run(dir, goExe, "list", "-m")
	if err != nil {
		return detector.NewException(err)
	}

	listing, err := e.moduleListing(dir, goExe)
	if err != nil {
		return detector.NewException(err)
	}

	graphLines, err := e.run(dir, goExe, "mod", "graph")
	if err != nil {
		return detector.NewException(err)
	}

	if len(listing) > 0 {
		replacements, err := ParseReplacements(listing)
		if err != nil {
			return detector.NewException(err)
		}
		e.logger.Debug("Applying module replacements", "dir", dir, "count", len(replacements))
		graphLines = ApplyReplacements(graphLines, replacements)
	}

	g := e.parser.Parse(modules, graphLines)
	e.logger.Debug("Parsed module graph", "dir", dir, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return detector.NewSuccess(graph.NewCodeLocation(g))
}

// moduleListing returns the JSON module listing, or nil when the go version
// could not be determined.
func (e *CliExtractor) moduleListing(dir, goExe string) ([]string, error) {
	versionOutput, err := e.run(dir, goExe, "version")
	if err != nil {
		return nil, err
	}

	version, ok := ParseGoVersion(versionOutput)
	if !ok {
		e.logger.Debug("Unable to determine go version, skipping replacements", "dir", dir, "output", strings.Join(versionOutput, " "))
		return nil, nil
	}

	args := []string{"list", "-m", "-u", "-json", "all"}
	if SupportsReadonlyListing(version) {
		args = []string{"list", "-mod=readonly", "-m", "-u", "-json", "all"}
	}
	return e.run(dir, goExe, args...)
}

func (e *CliExtractor) run(dir, goExe string, args ...string) ([]string, error) {
	e.logger.Debug("Running go", "dir", dir, "args", args)
	out, err := e.runner.Execute(dir, goExe, args...)
	if err != nil {
		return nil, err
	}
	if err := out.CheckExitCode(fmt.Sprintf("go %s", strings.Join(args, " "))); err != nil {
		return nil, err
	}
	return out.Stdout, nil
}

// ParseGoVersion finds the first dotted version number on the first line of
// `go version` output, e.g. "1.21.5" in "go version go1.21.5 linux/amd64".
func ParseGoVersion(output []string) (string, bool) {
	if len(output) == 0 {
		return "", false
	}
	version := goVersionPattern.FindString(output[0])
	if version == "" {
		return "", false
	}
	return strings.TrimRight(version, "."), true
}

// SupportsReadonlyListing reports whether the go release understands
// `list -mod=readonly -m -u -json all`, i.e. is 1.14 or later.
func SupportsReadonlyListing(version string) bool {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return false
	}
	v := "v" + parts[0] + "." + parts[1]
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, readonlyListingVersion) >= 0
}
