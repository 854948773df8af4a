// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/headline-bench/pkg/types"
)

const sampleJSON = `{
  "templates": [
    {"id": 1, "category": "A", "text": "{location} leads the way"},
    {"id": "crisis-1", "category": "B", "text": "Crisis deepens in {location}"}
  ]
}`

const sampleYAML = `templates:
  - id: 1
    category: A
    text: "{location} leads the way"
  - id: crisis-1
    category: B
    text: "Crisis deepens in {location}"
`

func TestParseFormats(t *testing.T) {
	want := []types.Template{
		{ID: "1", Category: "A", Text: "{location} leads the way"},
		{ID: "crisis-1", Category: "B", Text: "Crisis deepens in {location}"},
	}

	got, err := ParseJSON([]byte(sampleJSON))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "headline_templates.json")
	yamlPath := filepath.Join(dir, "headline_templates.yaml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))

	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      []types.Template
		wantErr string
	}{
		{"empty is fine", nil, ""},
		{"missing id", []types.Template{{Text: "{location}"}}, "has no id"},
		{"blank text", []types.Template{{ID: "a", Text: "  "}}, "has no text"},
		{
			"duplicate id",
			[]types.Template{{ID: "a", Text: "x {location}"}, {ID: "a", Text: "y {location}"}},
			"duplicate template id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{"templates": [`))
	assert.ErrorIs(t, err, ErrInvalid)
}
