package detector

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/petrarca/dependency-detector/internal/graph"
)

// Evaluator runs the evaluation phases over a tree. Each phase must complete
// for the whole tree before the next one starts.
type Evaluator struct {
	rules  *RuleSet
	logger *slog.Logger
}

// NewEvaluator creates an evaluator for a rule set.
func NewEvaluator(rules *RuleSet, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{rules: rules, logger: logger}
}

// SearchAndApplicable creates the evaluations of every node and decides
// searchability and applicability, top down. visited holds canonical directory
// paths already evaluated; a directory reachable twice is evaluated once.
func (ev *Evaluator) SearchAndApplicable(node *EvaluationTree, visited map[string]bool) {
	if node == nil {
		return
	}
	if visited[node.canonical] {
		ev.logger.Debug("Skipping already evaluated directory", "directory", node.directory, "canonical", node.canonical)
		return
	}
	visited[node.canonical] = true

	for _, rule := range ev.candidates(node) {
		e := newEvaluation(rule, node)
		node.addEvaluation(e)

		search := ev.searchable(rule, node)
		e.setSearchable(search)
		if !search.Passed {
			continue
		}

		detectable := rule.create(DetectableEnvironment{Directory: node.directory, Depth: node.depth})
		applicable := ev.guard(rule, node, "applicable", detectable.Applicable)
		e.setApplicable(detectable, applicable)
		if applicable.Passed {
			ev.logger.Debug("Detector applies", "detector", rule.DescriptiveName(), "directory", node.directory)
		}
	}

	for _, child := range node.children {
		ev.SearchAndApplicable(child, visited)
	}
}

// ExtractableEvaluation checks extraction preconditions for every applicable evaluation.
func (ev *Evaluator) ExtractableEvaluation(root *EvaluationTree) {
	if root == nil {
		return
	}
	for _, node := range root.AsFlatList() {
		for _, e := range node.evaluations {
			if !e.Applicable() {
				continue
			}
			e.setExtractable(ev.extractable(e))
		}
	}
}

// ExtractionEvaluation runs Extract for every extractable evaluation. A node's
// environment is created once, on its first extraction.
func (ev *Evaluator) ExtractionEvaluation(root *EvaluationTree, environments EnvironmentProvider) {
	if root == nil {
		return
	}
	for _, node := range root.AsFlatList() {
		var env *ExtractionEnvironment
		var envErr error
		for _, e := range node.evaluations {
			if !e.Extractable() {
				continue
			}
			if env == nil && envErr == nil {
				env, envErr = environments.CreateEnvironment(node)
			}
			if envErr != nil {
				e.setExtraction(NewException(fmt.Errorf("failed to create extraction environment: %w", envErr)))
				continue
			}

			ev.logger.Info("Extracting", "detector", e.rule.DescriptiveName(), "directory", node.directory)
			x := ev.extract(e, env)
			e.setExtraction(x)
			ev.logger.Info("Extraction finished", "detector", e.rule.DescriptiveName(), "directory", node.directory, "result", x.Result.String())
		}
	}
}

// candidates lists the rules to evaluate at a node: nested rules contributed by
// applicable evaluations of ancestors (nearest first), then the root rules.
// Each rule's fallback directly follows it.
func (ev *Evaluator) candidates(node *EvaluationTree) []*Rule {
	var list []*Rule
	seen := make(map[*Rule]bool)

	var add func(r *Rule)
	add = func(r *Rule) {
		if r == nil || seen[r] {
			return
		}
		seen[r] = true
		list = append(list, r)
		add(r.fallback)
	}

	for a := node.parent; a != nil; a = a.parent {
		for _, e := range a.evaluations {
			if !e.Applicable() {
				continue
			}
			for _, nested := range e.rule.nested {
				add(nested)
			}
		}
	}
	for _, r := range ev.rules.rules {
		add(r)
	}
	return list
}

func (ev *Evaluator) searchable(rule *Rule, node *EvaluationTree) Result {
	if primary := ev.rules.Primary(rule); primary != nil && !node.appliedHere(primary) {
		return Failf("Fallback of %s, which did not apply.", primary.DescriptiveName())
	}

	if rule.maxDepth != Unlimited && node.depth > rule.maxDepth {
		return Failf("Maximum search depth of %d exceeded.", rule.maxDepth)
	}

	for _, nested := range rule.nested {
		if node.appliedHere(nested) || node.appliedAbove(nested) {
			return Failf("Yielded to nested rule %s.", nested.DescriptiveName())
		}
	}

	if !rule.nestable && node.appliedAbove(rule) {
		return Fail("Not nestable and a parent directory already applied.")
	}

	return Pass()
}

func (ev *Evaluator) extractable(e *Evaluation) Result {
	if primary := ev.rules.Primary(e.rule); primary != nil {
		if pe := e.node.Evaluation(primary); pe != nil && pe.Extractable() {
			return Failf("Fallback not needed, %s is extractable.", primary.DescriptiveName())
		}
	}
	return ev.guard(e.rule, e.node, "extractable", e.detectable.Extractable)
}

func (ev *Evaluator) extract(e *Evaluation, env *ExtractionEnvironment) (x *Extraction) {
	defer func() {
		if r := recover(); r != nil {
			ev.logger.Error("Detector panicked during extraction",
				"detector", e.rule.DescriptiveName(), "directory", e.node.directory, "panic", r, "stack", string(debug.Stack()))
			x = NewException(fmt.Errorf("detector panicked: %v", r))
		}
	}()

	x = e.detectable.Extract(env)
	if x == nil {
		return NewException(fmt.Errorf("detector %s returned no extraction", e.rule.DescriptiveName()))
	}
	for i := range x.CodeLocations {
		if x.CodeLocations[i].Graph == nil {
			x.CodeLocations[i].Graph = graph.New()
		}
		if x.CodeLocations[i].SourcePath == "" {
			x.CodeLocations[i].SourcePath = e.node.directory
		}
		if x.CodeLocations[i].DetectorType == "" {
			x.CodeLocations[i].DetectorType = string(e.rule.detectorType)
		}
	}
	return x
}

// guard turns a panicking predicate into a failed result.
func (ev *Evaluator) guard(rule *Rule, node *EvaluationTree, phase string, predicate func() Result) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			ev.logger.Warn("Detector panicked", "detector", rule.DescriptiveName(), "directory", node.directory, "phase", phase, "panic", p)
			r = Failf("Detector panicked while checking %s: %v", phase, p)
		}
	}()
	return predicate()
}
