package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/petrarca/dependency-detector/internal/aggregator"
	"github.com/petrarca/dependency-detector/internal/detector"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// DetectOutput is the outcome of the detect command
type DetectOutput struct {
	Result *aggregator.Result
}

func (o *DetectOutput) ToJSON() interface{} {
	return o.Result
}

func (o *DetectOutput) ToText(w io.Writer) {
	r := o.Result
	fmt.Fprintln(w, headerStyle.Render("Dependency detection: "+r.RootDirectory))
	fmt.Fprintln(w, mutedStyle.Render(strings.Repeat("━", 50)))

	if r.ProjectName != "" {
		project := r.ProjectName
		if r.ProjectVersion != "" {
			project += " " + r.ProjectVersion
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Project:"), valueStyle.Render(project))
	}

	if len(r.ApplicableTypes) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No applicable detectors."))
		return
	}

	fmt.Fprintf(w, "\n%s\n", labelStyle.Render("Detectors:"))
	for _, t := range r.ApplicableTypes {
		fmt.Fprintf(w, "  %s %s\n", renderStatus(r.StatusMap[t]), t)
	}

	fmt.Fprintf(w, "\n%s\n", labelStyle.Render(fmt.Sprintf("Code locations (%d):", len(r.CodeLocations))))
	for _, loc := range r.CodeLocations {
		line := fmt.Sprintf("  %s  %d components, %d dependencies", loc.Key, loc.Graph.NodeCount(), loc.Graph.EdgeCount())
		if loc.ExternalName != "" {
			line += "  " + valueStyle.Render(loc.ExternalName)
		}
		fmt.Fprintln(w, line)
	}
}

func renderStatus(status aggregator.Status) string {
	if status == aggregator.StatusSuccess {
		return successStyle.Render("✓ " + string(status))
	}
	return failureStyle.Render("✗ " + string(status))
}

// RuleInfo describes one rule for the rules command
type RuleInfo struct {
	Type     detector.DetectorType `json:"type" yaml:"type"`
	Name     string                `json:"name" yaml:"name"`
	MaxDepth int                   `json:"max_depth" yaml:"max_depth"`
	Nestable bool                  `json:"nestable" yaml:"nestable"`
	Nested   []string              `json:"nested,omitempty" yaml:"nested,omitempty"`
	Fallback *RuleInfo             `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// RulesOutput lists the rules of a rule set
type RulesOutput struct {
	Rules []RuleInfo `json:"rules" yaml:"rules"`
}

func NewRulesOutput(rules *detector.RuleSet) *RulesOutput {
	out := &RulesOutput{Rules: []RuleInfo{}}
	for _, r := range rules.Rules() {
		out.Rules = append(out.Rules, ruleInfo(r))
	}
	return out
}

func ruleInfo(r *detector.Rule) RuleInfo {
	info := RuleInfo{
		Type:     r.Type(),
		Name:     r.Name(),
		MaxDepth: r.MaxDepth(),
		Nestable: r.Nestable(),
	}
	for _, nested := range r.NestedRules() {
		info.Nested = append(info.Nested, nested.DescriptiveName())
	}
	if r.Fallback() != nil {
		fallback := ruleInfo(r.Fallback())
		info.Fallback = &fallback
	}
	return info
}

func (o *RulesOutput) ToJSON() interface{} {
	return o
}

func (o *RulesOutput) ToText(w io.Writer) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Detector rules (%d):", len(o.Rules))))
	for _, r := range o.Rules {
		writeRule(w, r, "  ")
	}
}

func writeRule(w io.Writer, r RuleInfo, indent string) {
	depth := "unlimited"
	if r.MaxDepth != detector.Unlimited {
		depth = fmt.Sprintf("%d", r.MaxDepth)
	}
	fmt.Fprintf(w, "%s%s - %s\n", indent, labelStyle.Render(string(r.Type)), r.Name)
	fmt.Fprintf(w, "%s  max depth: %s, nestable: %t\n", indent, depth, r.Nestable)
	if len(r.Nested) > 0 {
		fmt.Fprintf(w, "%s  nested: %s\n", indent, strings.Join(r.Nested, ", "))
	}
	if r.Fallback != nil {
		fmt.Fprintf(w, "%s  fallback:\n", indent)
		writeRule(w, *r.Fallback, indent+"    ")
	}
}
