// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand renders the template × location product into headline
// records. Row i*len(locations)+j is always (templates[i], locations[j]).
package expand

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// ErrMissingField marks an input record without a required field.
var ErrMissingField = errors.New("missing required field")

// TemplateRenderError reports a template whose text does not contain
// exactly one {location} marker.
type TemplateRenderError struct {
	TemplateID types.TemplateID
	Reason     string
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("template %q: %s", e.TemplateID, e.Reason)
}

var placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)

// Render substitutes name into the template text. It fails when the text
// has no marker, more than one, or any placeholder other than {location}.
func Render(t types.Template, name string) (string, error) {
	var markers int
	for _, ph := range placeholderRe.FindAllString(t.Text, -1) {
		if ph != types.LocationMarker {
			return "", &TemplateRenderError{TemplateID: t.ID, Reason: fmt.Sprintf("unknown placeholder %s", ph)}
		}
		markers++
	}
	switch {
	case markers == 0:
		return "", &TemplateRenderError{TemplateID: t.ID, Reason: "no " + types.LocationMarker + " marker"}
	case markers > 1:
		return "", &TemplateRenderError{TemplateID: t.ID, Reason: fmt.Sprintf("%d %s markers, want 1", markers, types.LocationMarker)}
	}
	return strings.Replace(t.Text, types.LocationMarker, name, 1), nil
}

// Expand returns one HeadlineRecord per (template, location) pair,
// template-major. All templates and locations are validated first, so a
// malformed input fails the whole call and no partial output is returned.
// Region and development level are copied verbatim from the location.
func Expand(templates []types.Template, locations []types.LocationRecord) ([]types.HeadlineRecord, error) {
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template with text %q: %w: id", t.Text, ErrMissingField)
		}
		if _, err := Render(t, ""); err != nil {
			return nil, err
		}
	}
	for i, loc := range locations {
		if loc.Name == "" {
			return nil, fmt.Errorf("location %d: %w: name", i, ErrMissingField)
		}
	}

	out := make([]types.HeadlineRecord, 0, len(templates)*len(locations))
	for _, t := range templates {
		for _, loc := range locations {
			headline, _ := Render(t, loc.Name)
			out = append(out, types.HeadlineRecord{
				TemplateID:               t.ID,
				TemplateCategory:         t.Category,
				TemplateText:             t.Text,
				LocationName:             loc.Name,
				LocationCountry:          loc.Country,
				LocationRegion:           loc.Region,
				LocationPopulation:       loc.Population,
				LocationDevelopmentLevel: loc.DevelopmentLevel,
				Headline:                 headline,
			})
		}
	}
	return out, nil
}
