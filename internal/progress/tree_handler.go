package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/petrarca/dependency-detector/internal/detector"
)

// TreeHandler prints the evaluated directory tree once extraction is done,
// with the outcome of every applicable detector next to its directory.
type TreeHandler struct {
	writer io.Writer
}

func NewTreeHandler(writer io.Writer) *TreeHandler {
	return &TreeHandler{writer: writer}
}

func (h *TreeHandler) Handle(event Event) {
	switch event.Type {
	case EventExtractionsCompleted:
		if event.Tree == nil {
			return
		}
		fmt.Fprintf(h.writer, "%s%s\n", shortenPath(event.Tree.Directory(), 60), outcomes(event.Tree))
		h.printChildren(event.Tree, "")

	case EventStatusSummary:
		fmt.Fprintf(h.writer, "%s: %s\n", event.Status.Type, event.Status.Status)
	}
}

func (h *TreeHandler) printChildren(node *detector.EvaluationTree, indent string) {
	children := relevant(node.Children())
	for i, child := range children {
		prefix, next := "├─ ", "│  "
		if i == len(children)-1 {
			prefix, next = "└─ ", "   "
		}
		fmt.Fprintf(h.writer, "%s%s%s%s\n", indent, prefix, filepath.Base(child.Directory()), outcomes(child))
		h.printChildren(child, indent+next)
	}
}

// relevant drops subtrees where nothing applied.
func relevant(nodes []*detector.EvaluationTree) []*detector.EvaluationTree {
	var kept []*detector.EvaluationTree
	for _, n := range nodes {
		for _, e := range n.AllEvaluations() {
			if e.Applicable() {
				kept = append(kept, n)
				break
			}
		}
	}
	return kept
}

func outcomes(node *detector.EvaluationTree) string {
	var parts []string
	for _, e := range node.Evaluations() {
		if !e.Applicable() {
			continue
		}
		mark := "✗"
		if e.Succeeded() {
			mark = "✓"
		}
		parts = append(parts, fmt.Sprintf("%s %s", mark, e.Rule().DescriptiveName()))
	}
	if len(parts) == 0 {
		return ""
	}
	sort.Strings(parts)
	return "  [" + strings.Join(parts, ", ") + "]"
}
