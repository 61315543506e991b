// Package graph holds the dependency graph model produced by extractions.
// A Graph never contains an edge whose endpoints are not nodes of the same graph.
package graph

import (
	"encoding/json"
	"strings"
)

type (
	// Component identifies a dependency. Version is opaque and never parsed.
	Component struct {
		Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
		Name      string `json:"name" yaml:"name"`
		Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	}

	// Edge is a depends-on relationship from Parent to Child.
	Edge struct {
		Parent Component `json:"parent" yaml:"parent"`
		Child  Component `json:"child" yaml:"child"`
	}

	// Graph is a directed dependency graph with a designated set of roots.
	// Nodes, roots and edges keep their insertion order so output is deterministic.
	Graph struct {
		nodes    []Component
		nodeSet  map[Component]bool
		roots    []Component
		rootSet  map[Component]bool
		edges    []Edge
		edgeSet  map[Edge]bool
		children map[Component][]Component
	}
)

// NewComponent creates a component without namespace.
func NewComponent(name, version string) Component {
	return Component{Name: name, Version: version}
}

// String renders the component as namespace/name@version.
func (c Component) String() string {
	var b strings.Builder
	if c.Namespace != "" {
		b.WriteString(c.Namespace)
		b.WriteString("/")
	}
	b.WriteString(c.Name)
	if c.Version != "" {
		b.WriteString("@")
		b.WriteString(c.Version)
	}
	return b.String()
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodeSet:  make(map[Component]bool),
		rootSet:  make(map[Component]bool),
		edgeSet:  make(map[Edge]bool),
		children: make(map[Component][]Component),
	}
}

// AddNode adds a component. Adding an existing component is a no-op.
func (g *Graph) AddNode(c Component) {
	if g.nodeSet[c] {
		return
	}
	g.nodeSet[c] = true
	g.nodes = append(g.nodes, c)
}

// AddRoot adds a component and marks it as a root.
func (g *Graph) AddRoot(c Component) {
	g.AddNode(c)
	if g.rootSet[c] {
		return
	}
	g.rootSet[c] = true
	g.roots = append(g.roots, c)
}

// AddEdge adds a directed edge parent -> child.
// Both endpoints are inserted as nodes first if they are not yet present.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(parent, child Component) {
	g.AddNode(parent)
	g.AddNode(child)

	e := Edge{Parent: parent, Child: child}
	if g.edgeSet[e] {
		return
	}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.children[parent] = append(g.children[parent], child)
}

// HasNode reports whether the component is part of the graph.
func (g *Graph) HasNode(c Component) bool {
	return g.nodeSet[c]
}

// IsRoot reports whether the component is a root.
func (g *Graph) IsRoot(c Component) bool {
	return g.rootSet[c]
}

// HasEdge reports whether the edge parent -> child exists.
func (g *Graph) HasEdge(parent, child Component) bool {
	return g.edgeSet[Edge{Parent: parent, Child: child}]
}

// Nodes returns all components in insertion order.
func (g *Graph) Nodes() []Component {
	return append([]Component(nil), g.nodes...)
}

// Roots returns the root components in insertion order.
func (g *Graph) Roots() []Component {
	return append([]Component(nil), g.roots...)
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Children returns the direct dependencies of a component.
func (g *Graph) Children(c Component) []Component {
	return append([]Component(nil), g.children[c]...)
}

// NodeCount returns the number of components.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.nodes) == 0
}

// Snapshot is the serializable form of a Graph.
type Snapshot struct {
	Roots []Component `json:"roots" yaml:"roots"`
	Nodes []Component `json:"nodes" yaml:"nodes"`
	Edges []Edge      `json:"edges" yaml:"edges"`
}

// Snapshot returns a copy of the graph suitable for serialization.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Roots: g.Roots(),
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	}
	if s.Roots == nil {
		s.Roots = []Component{}
	}
	if s.Nodes == nil {
		s.Nodes = []Component{}
	}
	if s.Edges == nil {
		s.Edges = []Edge{}
	}
	return s
}

// MarshalJSON implements json.Marshaler.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}

// MarshalYAML implements yaml.Marshaler.
func (g *Graph) MarshalYAML() (interface{}, error) {
	return g.Snapshot(), nil
}
