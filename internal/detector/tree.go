package detector

import "path/filepath"

// EvaluationTree is one directory of the scanned tree. A node owns its
// children and evaluations; the parent pointer is only used for upward queries.
type EvaluationTree struct {
	directory   string
	canonical   string
	depth       int
	parent      *EvaluationTree
	children    []*EvaluationTree
	evaluations []*Evaluation
}

// NewEvaluationTree creates a root node at depth 0.
func NewEvaluationTree(directory string) *EvaluationTree {
	return &EvaluationTree{directory: directory, canonical: filepath.Clean(directory)}
}

// AddChild appends a child node one level deeper.
func (t *EvaluationTree) AddChild(directory string) *EvaluationTree {
	child := &EvaluationTree{
		directory: directory,
		canonical: filepath.Clean(directory),
		depth:     t.depth + 1,
		parent:    t,
	}
	t.children = append(t.children, child)
	return child
}

func (t *EvaluationTree) Directory() string       { return t.directory }
func (t *EvaluationTree) Depth() int              { return t.depth }
func (t *EvaluationTree) Parent() *EvaluationTree { return t.parent }

// Children returns the child nodes in the order they were added.
func (t *EvaluationTree) Children() []*EvaluationTree {
	return append([]*EvaluationTree(nil), t.children...)
}

// CanonicalPath is the identity of the directory with symlinks resolved.
func (t *EvaluationTree) CanonicalPath() string { return t.canonical }

// Evaluations returns the evaluations created at this node, in evaluation order.
func (t *EvaluationTree) Evaluations() []*Evaluation {
	return append([]*Evaluation(nil), t.evaluations...)
}

// Evaluation returns the evaluation of rule at this node, or nil.
func (t *EvaluationTree) Evaluation(rule *Rule) *Evaluation {
	for _, e := range t.evaluations {
		if e.rule == rule {
			return e
		}
	}
	return nil
}

// AsFlatList returns this node and all descendants in pre-order.
func (t *EvaluationTree) AsFlatList() []*EvaluationTree {
	list := []*EvaluationTree{t}
	for _, child := range t.children {
		list = append(list, child.AsFlatList()...)
	}
	return list
}

// AllEvaluations returns the evaluations of the whole subtree in pre-order.
func (t *EvaluationTree) AllEvaluations() []*Evaluation {
	var all []*Evaluation
	for _, node := range t.AsFlatList() {
		all = append(all, node.evaluations...)
	}
	return all
}

// RelativePath returns the directory relative to the tree root.
func (t *EvaluationTree) RelativePath() string {
	root := t
	for root.parent != nil {
		root = root.parent
	}
	rel, err := filepath.Rel(root.directory, t.directory)
	if err != nil {
		return t.directory
	}
	return filepath.ToSlash(rel)
}

// appliedHere reports whether rule applied at this node.
func (t *EvaluationTree) appliedHere(rule *Rule) bool {
	e := t.Evaluation(rule)
	return e != nil && e.Applicable()
}

// appliedAbove reports whether rule applied at any ancestor.
func (t *EvaluationTree) appliedAbove(rule *Rule) bool {
	for a := t.parent; a != nil; a = a.parent {
		if a.appliedHere(rule) {
			return true
		}
	}
	return false
}

func (t *EvaluationTree) addEvaluation(e *Evaluation) {
	t.evaluations = append(t.evaluations, e)
}
