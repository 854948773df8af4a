// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package templates loads headline template documents.
package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// ErrInvalid marks a template document that is unreadable or missing a
// required field.
var ErrInvalid = errors.New("invalid template document")

// Load reads a template document from path. Files ending in .yaml or .yml
// are parsed as YAML; everything else as JSON.
func Load(path string) ([]types.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a {"templates": [...]} document.
func ParseJSON(data []byte) ([]types.Template, error) {
	var set types.TemplateSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := Validate(set.Templates); err != nil {
		return nil, err
	}
	return set.Templates, nil
}

// ParseYAML decodes the YAML form of a template document.
func ParseYAML(data []byte) ([]types.Template, error) {
	var set types.TemplateSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := Validate(set.Templates); err != nil {
		return nil, err
	}
	return set.Templates, nil
}

// Validate checks that every template has an id and text and that ids are
// unique. Marker placement is checked at expansion time.
func Validate(ts []types.Template) error {
	seen := make(map[types.TemplateID]int, len(ts))
	for i, t := range ts {
		if t.ID == "" {
			return fmt.Errorf("%w: template %d has no id", ErrInvalid, i)
		}
		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("%w: template %q has no text", ErrInvalid, t.ID)
		}
		if prev, ok := seen[t.ID]; ok {
			return fmt.Errorf("%w: duplicate template id %q at positions %d and %d", ErrInvalid, t.ID, prev, i)
		}
		seen[t.ID] = i
	}
	return nil
}
