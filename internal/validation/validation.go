// Package validation checks configuration documents against the JSON schemas
// embedded in the binary.
package validation

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed *.json
var schemaFS embed.FS

var (
	compiledMu sync.Mutex
	compiled   = map[string]*jsonschema.Schema{}
)

// ValidationError lists every violation found in a document
type ValidationError struct {
	Errors []string
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func schemaFor(name string) (*jsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	s, err := jsonschema.CompileString(name, string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	compiled[name] = s
	return s, nil
}

// ValidateJSON validates decoded data against the named schema
func ValidateJSON(schemaName string, doc interface{}) (err error) {
	s, err := schemaFor(schemaName)
	if err != nil {
		return err
	}

	// Validate panics on values that have no JSON type, e.g. YAML maps with non string keys.
	defer func() {
		if r := recover(); r != nil {
			err = ValidationError{Errors: []string{fmt.Sprint(r)}}
		}
	}()

	verr := s.Validate(doc)
	if verr == nil {
		return nil
	}
	var schemaErr *jsonschema.ValidationError
	if !errors.As(verr, &schemaErr) {
		return ValidationError{Errors: []string{verr.Error()}}
	}
	if msgs := leafMessages(schemaErr); len(msgs) > 0 {
		return ValidationError{Errors: msgs}
	}
	return ValidationError{Errors: []string{schemaErr.Message}}
}

// leafMessages walks the cause tree down to the errors naming a concrete problem
func leafMessages(e *jsonschema.ValidationError) []string {
	var msgs []string
	for _, cause := range e.Causes {
		if len(cause.Causes) > 0 {
			msgs = append(msgs, leafMessages(cause)...)
			continue
		}
		at := cause.InstanceLocation
		if at == "" {
			at = "/"
		}
		msgs = append(msgs, at+": "+cause.Message)
	}
	return msgs
}

// ValidateYAML parses content, which may also be JSON, and validates it
func ValidateYAML(schemaName string, content []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ValidateJSON(schemaName, doc)
}

// Schemas returns the names of the embedded schemas, sorted
func Schemas() []string {
	names, _ := fs.Glob(schemaFS, "*.json")
	sort.Strings(names)
	return names
}
