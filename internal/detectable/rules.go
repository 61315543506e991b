// Package detectable wires the concrete detectors into detector rules.
package detectable

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/petrarca/dependency-detector/internal/detectable/gomod"
	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/executable"
	"github.com/petrarca/dependency-detector/internal/provider"
)

// GoMod is the detector type of Go modules
const GoMod detector.DetectorType = "GO_MOD"

// Factory creates detectables that share one file system, runner and resolver.
type Factory struct {
	fs          provider.Provider
	runner      executable.Runner
	resolver    executable.Resolver
	goExtractor *gomod.CliExtractor
	logger      *slog.Logger
}

// NewFactory creates a factory
func NewFactory(fs provider.Provider, runner executable.Runner, resolver executable.Resolver, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		fs:          fs,
		runner:      runner,
		resolver:    resolver,
		goExtractor: gomod.NewCliExtractor(runner, logger),
		logger:      logger,
	}
}

func (f *Factory) GoModCli(env detector.DetectableEnvironment) detector.Detectable {
	return gomod.NewCliDetectable(env, f.fs, f.resolver, f.goExtractor)
}

func (f *Factory) GoModFile(env detector.DetectableEnvironment) detector.Detectable {
	return gomod.NewModFileDetectable(env, f.fs)
}

// RuleSet returns every known rule. The go.mod reader is the fallback of
// the go tool rule and runs only when the go executable is missing.
func (f *Factory) RuleSet() *detector.RuleSet {
	goModFile := detector.NewRule(GoMod, "Go Mod File", f.GoModFile).Build()
	goModCli := detector.NewRule(GoMod, "Go Mod Cli", f.GoModCli).
		Fallback(goModFile).
		Build()
	return detector.NewRuleSet(goModCli)
}

// Filter keeps the top-level rules whose type is listed. An empty list keeps all.
func Filter(rules *detector.RuleSet, types []string) (*detector.RuleSet, error) {
	if len(types) == 0 {
		return rules, nil
	}

	known := make(map[detector.DetectorType]bool)
	for _, r := range rules.Rules() {
		known[r.Type()] = true
	}
	wanted := make(map[detector.DetectorType]bool)
	for _, t := range types {
		dt := detector.DetectorType(strings.ToUpper(strings.TrimSpace(t)))
		if !known[dt] {
			return nil, fmt.Errorf("unknown detector type: %s", t)
		}
		wanted[dt] = true
	}

	var kept []*detector.Rule
	for _, r := range rules.Rules() {
		if wanted[r.Type()] {
			kept = append(kept, r)
		}
	}
	return detector.NewRuleSet(kept...), nil
}
