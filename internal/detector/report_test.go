package detector

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSearchSummary(t *testing.T) {
	root := NewEvaluationTree("/src")
	root.AddChild("/src/sub")

	nested := NewRule("NESTED", "Nested", newFakeSpec("/src/sub").factory()).Build()
	parent := NewRule("PARENT", "Parent", newFakeSpec("/src", "/src/sub").factory()).Nested(nested).Build()
	runAll(t, NewRuleSet(parent), root)

	var buf bytes.Buffer
	WriteSearchSummary(&buf, root)
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "Detailed search results for directory"))
	assert.Contains(t, out, "      APPLIED: PARENT - Parent: Passed.")
	assert.Contains(t, out, "      APPLIED: NESTED - Nested: Passed.")
	assert.Contains(t, out, "DID NOT APPLY: PARENT - Parent: Yielded to nested rule NESTED - Nested.")

	subBlock := out[strings.Index(out, "/src/sub\n"):]
	assert.Less(t, strings.Index(subBlock, "      APPLIED"), strings.Index(subBlock, "DID NOT APPLY"), "lines are sorted")
}

func TestWriteSearchSummary_NilTree(t *testing.T) {
	var buf bytes.Buffer
	WriteSearchSummary(&buf, nil)
	WriteExtractionSummary(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestWriteExtractionSummary(t *testing.T) {
	root := NewEvaluationTree("/src")
	failing := newFakeSpec("/src")
	failing.extract = func(string) *Extraction { return NewFailure("go.sum missing") }

	runAll(t, NewRuleSet(
		NewRule("OK", "Ok", newFakeSpec("/src").factory()).Build(),
		NewRule("BAD", "Bad", failing.factory()).Build(),
		NewRule("NONE", "None", newFakeSpec().factory()).Build(),
	), root)

	var buf bytes.Buffer
	WriteExtractionSummary(&buf, root)
	out := buf.String()

	assert.Contains(t, out, "Detector: OK - Ok")
	assert.Contains(t, out, "Extraction: SUCCESS")
	assert.Contains(t, out, "/src (1 components, 0 dependencies)")
	assert.Contains(t, out, "Detector: BAD - Bad")
	assert.Contains(t, out, "Description: go.sum missing")
	assert.NotContains(t, out, "NONE - None")
}

func TestScratchEnvironmentProvider(t *testing.T) {
	base := filepath.Join(t.TempDir(), "scratch")
	envs, err := NewScratchEnvironmentProvider(base)
	require.NoError(t, err)

	root := NewEvaluationTree("/src/my app")
	child := root.AddChild("/src/my app/svc")

	first, err := envs.CreateEnvironment(root)
	require.NoError(t, err)
	second, err := envs.CreateEnvironment(child)
	require.NoError(t, err)

	assert.Equal(t, "/src/my app", first.Directory)
	assert.Equal(t, filepath.Join(base, "1-my_app"), first.OutputDir)
	assert.Equal(t, filepath.Join(base, "2-svc"), second.OutputDir)
	assert.DirExists(t, second.OutputDir)

	require.NoError(t, envs.Cleanup())
	_, err = os.Stat(base)
	assert.True(t, os.IsNotExist(err))
}

func TestScratchEnvironmentProvider_TempDir(t *testing.T) {
	envs, err := NewScratchEnvironmentProvider("")
	require.NoError(t, err)
	defer envs.Cleanup()

	assert.DirExists(t, envs.BaseDir())
}
