// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// DevelopmentLevel is the coarse economic classification attached to every
// location. It is derived once, upstream, from the World Bank income level
// and travels unchanged through expansion and scoring.
type DevelopmentLevel string

const (
	Developed  DevelopmentLevel = "developed"
	Developing DevelopmentLevel = "developing"
)

// Income levels reported by the World Bank country API.
const (
	IncomeHigh        = "High income"
	IncomeUpperMiddle = "Upper middle income"
	IncomeLowerMiddle = "Lower middle income"
	IncomeLow         = "Low income"
	IncomeNotClassed  = "Not classified"
)

// DevelopmentFromIncome maps a World Bank income level to a DevelopmentLevel.
// High and upper middle income countries are developed; every other value,
// including unknown or empty strings, is developing.
func DevelopmentFromIncome(income string) DevelopmentLevel {
	switch income {
	case IncomeHigh, IncomeUpperMiddle:
		return Developed
	default:
		return Developing
	}
}

// Valid reports whether d is one of the two known levels.
func (d DevelopmentLevel) Valid() bool {
	return d == Developed || d == Developing
}

// Country holds the World Bank metadata needed to build locations.
type Country struct {
	Name        string `json:"name" yaml:"name"`
	ISO3        string `json:"iso3" yaml:"iso3"`
	ISO2        string `json:"iso2" yaml:"iso2"`
	IncomeLevel string `json:"income_level" yaml:"income_level"`
	Region      string `json:"region" yaml:"region"`
}

// Coordinate is a latitude or longitude in decimal degrees. It decodes from
// a number or a numeric string, since GeoNames and older locations files
// carry coordinates as strings, and always encodes as a number.
type Coordinate float64

// UnmarshalJSON accepts a JSON number, a numeric string or null. An empty
// string decodes as zero.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return c.parse(s)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("coordinate must be a number or numeric string: %w", err)
	}
	*c = Coordinate(f)
	return nil
}

// UnmarshalYAML accepts a numeric scalar, quoted or not.
func (c *Coordinate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("coordinate must be a scalar, got line %d", node.Line)
	}
	return c.parse(node.Value)
}

func (c *Coordinate) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coordinate %q is not a number", s)
	}
	*c = Coordinate(f)
	return nil
}

// City is one populated place returned by GeoNames for a country.
type City struct {
	Name       string     `json:"name"`
	Country    string     `json:"country"`
	Admin1     string     `json:"admin1"`
	Population int64      `json:"population"`
	Lat        Coordinate `json:"lat"`
	Lng        Coordinate `json:"lng"`
	Timezone   string     `json:"timezone"`
}

// LocationRecord is one row of the location dataset. The JSON layout
// matches locations.json as written by the locations command.
type LocationRecord struct {
	// Name is the city name.
	Name string `json:"name" yaml:"name"`

	// Country is the country name as reported by GeoNames.
	Country string `json:"country" yaml:"country"`

	// Region is the World Bank region of the country (e.g. "Sub-Saharan Africa").
	Region string `json:"region" yaml:"region"`

	// Population is the city population; never negative.
	Population int64 `json:"population" yaml:"population"`

	// Lat and Lng decode from numbers or numeric strings.
	Lat      Coordinate `json:"lat" yaml:"lat"`
	Lng      Coordinate `json:"lng" yaml:"lng"`
	Timezone string     `json:"timezone" yaml:"timezone"`

	// DevelopmentLevel is derived from the country income level.
	DevelopmentLevel DevelopmentLevel `json:"development_level" yaml:"development_level"`

	// Summary is a short Wikipedia summary; empty when none was found.
	Summary string `json:"wikipedia_summary" yaml:"wikipedia_summary"`
}
