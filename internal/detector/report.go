package detector

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const separator = "------------------------------------------------------------"

// WriteSearchSummary writes, per directory, which rules applied and why the
// others did not. Directories without evaluations are omitted.
func WriteSearchSummary(w io.Writer, root *EvaluationTree) {
	if root == nil {
		return
	}
	for _, node := range root.AsFlatList() {
		var lines []string
		for _, e := range node.evaluations {
			switch {
			case e.Applicable():
				lines = append(lines, fmt.Sprintf("      APPLIED: %s: %s", e.rule.DescriptiveName(), e.applicable.Reason))
			case e.Searchable():
				lines = append(lines, fmt.Sprintf("DID NOT APPLY: %s: %s", e.rule.DescriptiveName(), e.applicable.Reason))
			case e.phase >= PhaseSearched:
				lines = append(lines, fmt.Sprintf("DID NOT APPLY: %s: %s", e.rule.DescriptiveName(), e.searchable.Reason))
			}
		}
		if len(lines) == 0 {
			continue
		}
		sort.Strings(lines)

		fmt.Fprintln(w, separator)
		fmt.Fprintln(w, "Detailed search results for directory")
		fmt.Fprintln(w, node.directory)
		fmt.Fprintln(w, separator)
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w, separator)
	}
}

// WriteExtractionSummary writes one block per evaluation that passed the
// extractability phase, with its extraction outcome.
func WriteExtractionSummary(w io.Writer, root *EvaluationTree) {
	if root == nil {
		return
	}
	for _, e := range root.AllEvaluations() {
		if !e.Extractable() {
			continue
		}
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "Detector: %s\n", e.rule.DescriptiveName())
		fmt.Fprintf(w, "Directory: %s\n", e.node.directory)
		x := e.extraction
		if x == nil {
			fmt.Fprintln(w, "Extraction: not attempted")
			continue
		}
		fmt.Fprintf(w, "Extraction: %s\n", x.Result)
		if x.Description != "" {
			fmt.Fprintf(w, "Description: %s\n", strings.TrimSpace(x.Description))
		}
		fmt.Fprintf(w, "Code locations: %d\n", len(x.CodeLocations))
		for _, loc := range x.CodeLocations {
			fmt.Fprintf(w, "  %s (%d components, %d dependencies)\n", loc.SourcePath, loc.Graph.NodeCount(), loc.Graph.EdgeCount())
		}
	}
	fmt.Fprintln(w, separator)
}
