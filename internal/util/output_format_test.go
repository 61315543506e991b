package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"valid text", "text", false},
		{"valid json", "json", false},
		{"valid yaml", "yaml", false},
		{"valid uppercase", "JSON", false},
		{"surrounding space", " yaml ", false},
		{"invalid format", "xml", true},
		{"empty format", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateChoice(t *testing.T) {
	assert.NoError(t, ValidateChoice("progress style", "Tree", ProgressStyles))
	assert.EqualError(t, ValidateChoice("progress style", "fancy", ProgressStyles),
		"invalid progress style: fancy. Valid values are: simple, tree")
}

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "json", NormalizeFormat("JSON"))
	assert.Equal(t, "yaml", NormalizeFormat(" Yaml\n"))
	assert.Equal(t, "", NormalizeFormat(""))
}

func TestDefaultFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	assert.Equal(t, "json", DefaultFormat("", f), "a regular file is not a terminal")
	assert.Equal(t, "json", DefaultFormat("result.json", f))
}
