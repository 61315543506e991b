package detectable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/executable"
	"github.com/petrarca/dependency-detector/internal/provider"
)

func newFactory() *Factory {
	return NewFactory(provider.NewFakeProvider(), executable.NewFakeRunner(), executable.StaticResolver{}, nil)
}

func TestRuleSet(t *testing.T) {
	rules := newFactory().RuleSet()

	require.Len(t, rules.Rules(), 1)
	cli := rules.Rules()[0]
	assert.Equal(t, GoMod, cli.Type())
	assert.Equal(t, "Go Mod Cli", cli.Name())
	require.NotNil(t, cli.Fallback())
	assert.Equal(t, "GO_MOD - Go Mod File", cli.Fallback().DescriptiveName())
	assert.Same(t, cli, rules.Primary(cli.Fallback()))
	assert.Len(t, rules.All(), 2)
}

func TestGoModFallbackWithoutGoExecutable(t *testing.T) {
	fs := provider.NewFakeProvider()
	fs.AddFile("/src/go.mod", "module example.com/app\n\nrequire github.com/pkg/errors v0.9.1\n")

	f := NewFactory(fs, executable.NewFakeRunner(), executable.StaticResolver{}, nil)
	rules := f.RuleSet()
	root := detector.NewEvaluationTree("/src")

	evaluator := detector.NewEvaluator(rules, nil)
	evaluator.SearchAndApplicable(root, make(map[string]bool))
	evaluator.ExtractableEvaluation(root)
	envs, err := detector.NewScratchEnvironmentProvider(t.TempDir())
	require.NoError(t, err)
	evaluator.ExtractionEvaluation(root, envs)

	cli := root.Evaluation(rules.Rules()[0])
	require.NotNil(t, cli)
	assert.False(t, cli.Extractable())
	assert.Equal(t, "No go executable was found.", cli.StatusReason())

	file := root.Evaluation(rules.Rules()[0].Fallback())
	require.NotNil(t, file)
	require.True(t, file.Succeeded())
	assert.Equal(t, "example.com/app", file.Extraction().ProjectName)
}

func TestFilter(t *testing.T) {
	rules := newFactory().RuleSet()

	all, err := Filter(rules, nil)
	require.NoError(t, err)
	assert.Same(t, rules, all)

	goOnly, err := Filter(rules, []string{" go_mod "})
	require.NoError(t, err)
	assert.Len(t, goOnly.Rules(), 1)

	_, err = Filter(rules, []string{"NPM"})
	assert.EqualError(t, err, "unknown detector type: NPM")
}
