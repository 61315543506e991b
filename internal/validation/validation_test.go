package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	schema    = "detector-yml.json"
	runSchema = "detector-run.json"
)

func TestValidateYAML_ValidDetectorYML(t *testing.T) {
	validYAML := `
properties:
  product: "My Product"
  team: "Engineering"
  version: 1.0
  active: true

exclude:
  - "testdata"
  - "**/fixtures/**"

max_depth: 4
detectors: [GO_MOD]
project_detector: go_mod
`

	assert.NoError(t, ValidateYAML(schema, []byte(validYAML)))
}

func TestValidateYAML_EmptyDocument(t *testing.T) {
	assert.NoError(t, ValidateYAML(schema, []byte("")))
	assert.NoError(t, ValidateYAML(schema, []byte("# nothing configured\n")))
}

func TestValidateYAML_InvalidDetectorYML(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		expect string
	}{
		{
			name: "invalid property name",
			yaml: `
properties:
  123_invalid: "value"
`,
			expect: "does not match pattern",
		},
		{
			name: "absolute path in exclude",
			yaml: `
exclude:
  - "/absolute/path"
`,
			expect: "does not match pattern",
		},
		{
			name:   "invalid detector type",
			yaml:   `detectors: ["go mod"]`,
			expect: "does not match pattern",
		},
		{
			name:   "max depth below unlimited",
			yaml:   `max_depth: -5`,
			expect: "/max_depth",
		},
		{
			name:   "max depth not a number",
			yaml:   `max_depth: deep`,
			expect: "/max_depth",
		},
		{
			name:   "unknown key",
			yaml:   `techs: [aws]`,
			expect: "techs",
		},
		{
			name:   "executable paths are not accepted",
			yaml:   "tools:\n  go: /bin/sh\n",
			expect: "tools",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateYAML(schema, []byte(tt.yaml))
			require.Error(t, err)
			assert.IsType(t, ValidationError{}, err)
			assert.Contains(t, err.Error(), tt.expect)
		})
	}
}

func TestValidateYAML_Malformed(t *testing.T) {
	err := ValidateYAML(schema, []byte("exclude: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateYAML_RunConfig(t *testing.T) {
	valid := `
detect:
  path: ./services
  output:
    format: yaml
    pretty: true
  exclude: [testdata]
  options:
    summary: true
    detectors: [GO_MOD]
    go_path: /opt/go/bin/go
`
	assert.NoError(t, ValidateYAML(runSchema, []byte(valid)))
	assert.NoError(t, ValidateYAML(runSchema, []byte(`{"detect": {"options": {"keep_scratch": true}}}`)))

	err := ValidateYAML(runSchema, []byte("detect:\n  output:\n    format: xml\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/detect/output/format")

	err = ValidateYAML(runSchema, []byte("scan:\n  path: .\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan")
}

func TestSchemas(t *testing.T) {
	assert.Equal(t, []string{runSchema, schema}, Schemas())
}

func TestValidateJSON_CachesCompiledSchema(t *testing.T) {
	require.NoError(t, ValidateJSON(schema, map[string]interface{}{"max_depth": 1}))
	first := compiled[schema]
	require.NotNil(t, first)

	require.NoError(t, ValidateJSON(schema, nil))
	assert.Same(t, first, compiled[schema])
}

func TestValidateJSON_SchemaNotFound(t *testing.T) {
	err := ValidateJSON("nonexistent-schema.json", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationError{}.Error())
	assert.Equal(t, "validation failed: a", ValidationError{Errors: []string{"a"}}.Error())
	assert.Equal(t, "validation failed: a; b", ValidationError{Errors: []string{"a", "b"}}.Error())
}
