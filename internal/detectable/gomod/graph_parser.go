package gomod

import (
	"log/slog"
	"strings"

	"github.com/petrarca/dependency-detector/internal/graph"
)

// toolchainModules are the pseudo modules `go mod graph` emits for go and
// toolchain directives since Go 1.21. They are not dependencies.
var toolchainModules = map[string]bool{
	"go":        true,
	"toolchain": true,
}

// GraphParser turns `go list -m` and `go mod graph` output into a dependency graph.
type GraphParser struct {
	logger *slog.Logger
}

// NewGraphParser creates a parser
func NewGraphParser(logger *slog.Logger) *GraphParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphParser{logger: logger}
}

// Parse builds the graph. Each module of the workspace listing becomes a root;
// each graph line "parent@version child@version" becomes an edge.
// Lines that do not have exactly two tokens are skipped.
func (p *GraphParser) Parse(modules []string, graphLines []string) *graph.Graph {
	g := graph.New()

	for _, m := range modules {
		name := strings.TrimSpace(m)
		if name == "" {
			continue
		}
		g.AddRoot(parseComponent(name))
	}

	for _, line := range graphLines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			p.logger.Debug("Skipping malformed module graph line", "line", line)
			continue
		}

		parent := parseComponent(fields[0])
		child := parseComponent(fields[1])
		if toolchainModules[parent.Name] || toolchainModules[child.Name] {
			continue
		}
		if parent == child {
			continue
		}
		g.AddEdge(parent, child)
	}

	return g
}

// parseComponent splits "name@version"; a token without '@' is a bare name.
func parseComponent(tok string) graph.Component {
	name, version, _ := strings.Cut(tok, "@")
	return graph.NewComponent(name, version)
}
