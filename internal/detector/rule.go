// Package detector evaluates detector rules against a directory tree.
//
// A run builds the evaluation tree once (FindTree), then drives three strictly
// sequential phases over the whole tree: search and applicability, extractability,
// and extraction. Each (rule, directory) pair is tracked by an Evaluation whose
// phase only moves forward and stops at the first failed predicate.
package detector

import "fmt"

// DetectorType identifies an ecosystem, e.g. GO_MOD.
type DetectorType string

// Unlimited disables the maximum depth check of a rule.
const Unlimited = -1

// DetectableEnvironment is what a factory gets to build a detectable for one directory.
type DetectableEnvironment struct {
	Directory string
	Depth     int
}

// Factory builds a stateless detectable for a directory.
type Factory func(env DetectableEnvironment) Detectable

// Rule is the registered identity and policy of a detector. Rules are
// immutable once built; use RuleBuilder to create them.
type Rule struct {
	detectorType DetectorType
	name         string
	factory      Factory
	maxDepth     int
	nestable     bool
	nested       []*Rule
	fallback     *Rule
}

func (r *Rule) Type() DetectorType { return r.detectorType }
func (r *Rule) Name() string       { return r.name }
func (r *Rule) MaxDepth() int      { return r.maxDepth }
func (r *Rule) Nestable() bool     { return r.nestable }
func (r *Rule) Fallback() *Rule    { return r.fallback }

// NestedRules returns the rules that are tried below a directory where this rule applied.
// If one of them applies, this rule yields the subtree to it.
func (r *Rule) NestedRules() []*Rule {
	return append([]*Rule(nil), r.nested...)
}

// DescriptiveName is the name used in reports, e.g. "GO_MOD - Go Mod Cli".
func (r *Rule) DescriptiveName() string {
	return fmt.Sprintf("%s - %s", r.detectorType, r.name)
}

func (r *Rule) String() string {
	return r.DescriptiveName()
}

func (r *Rule) create(env DetectableEnvironment) Detectable {
	return r.factory(env)
}

// RuleBuilder configures a Rule.
type RuleBuilder struct {
	rule Rule
}

// NewRule starts a rule. By default rules search to unlimited depth and are nestable.
func NewRule(detectorType DetectorType, name string, factory Factory) *RuleBuilder {
	return &RuleBuilder{rule: Rule{
		detectorType: detectorType,
		name:         name,
		factory:      factory,
		maxDepth:     Unlimited,
		nestable:     true,
	}}
}

// MaxDepth limits the directory depth (root = 0) at which the rule is searched.
func (b *RuleBuilder) MaxDepth(depth int) *RuleBuilder {
	b.rule.maxDepth = depth
	return b
}

// NotNestable prevents the rule from being searched below a directory where it already applied.
func (b *RuleBuilder) NotNestable() *RuleBuilder {
	b.rule.nestable = false
	return b
}

// Nested sets the rules tried below directories where this rule applied.
func (b *RuleBuilder) Nested(rules ...*Rule) *RuleBuilder {
	b.rule.nested = append(b.rule.nested, rules...)
	return b
}

// Fallback sets a rule that is only searched where this rule applies and
// only extracted when this rule is not extractable.
func (b *RuleBuilder) Fallback(rule *Rule) *RuleBuilder {
	b.rule.fallback = rule
	return b
}

// Build returns the immutable rule.
func (b *RuleBuilder) Build() *Rule {
	r := b.rule
	r.nested = append([]*Rule(nil), b.rule.nested...)
	return &r
}

// RuleSet is the ordered registry of root rules plus the relationships between them.
type RuleSet struct {
	rules     []*Rule
	primaries map[*Rule]*Rule
}

// NewRuleSet creates a rule set from its root rules. Nested and fallback rules
// are reachable through their parents and need not be listed.
func NewRuleSet(rules ...*Rule) *RuleSet {
	s := &RuleSet{
		rules:     append([]*Rule(nil), rules...),
		primaries: make(map[*Rule]*Rule),
	}
	for _, r := range s.All() {
		if r.fallback != nil {
			s.primaries[r.fallback] = r
		}
	}
	return s
}

// Rules returns the root rules in registration order.
func (s *RuleSet) Rules() []*Rule {
	return append([]*Rule(nil), s.rules...)
}

// Primary returns the rule whose fallback r is, or nil.
func (s *RuleSet) Primary(r *Rule) *Rule {
	return s.primaries[r]
}

// All returns every rule reachable from the root rules, each once, depth first.
func (s *RuleSet) All() []*Rule {
	var all []*Rule
	seen := make(map[*Rule]bool)
	var visit func(r *Rule)
	visit = func(r *Rule) {
		if r == nil || seen[r] {
			return
		}
		seen[r] = true
		all = append(all, r)
		visit(r.fallback)
		for _, n := range r.nested {
			visit(n)
		}
	}
	for _, r := range s.rules {
		visit(r)
	}
	return all
}
