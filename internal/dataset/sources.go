// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/headline-bench/internal/httputil"
	"github.com/pdiddy/headline-bench/pkg/types"
)

// Base URLs. Declared as vars so tests can substitute an httptest server.
var (
	worldBankBase = "https://api.worldbank.org/v2/country"
	geoNamesBase  = "https://secure.geonames.org/searchJSON"
)

// ErrSourceUnavailable wraps any failure to reach or decode an upstream
// location source.
var ErrSourceUnavailable = errors.New("source unavailable")

// aggregatesRegion is the World Bank region value used for country groups
// ("World", "Euro area", ...) rather than countries.
const aggregatesRegion = "Aggregates"

// WorldBank lists countries with their income level and region.
type WorldBank struct {
	Client *httputil.Client
}

type wbValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type wbCountry struct {
	ID          string  `json:"id"`
	ISO2Code    string  `json:"iso2Code"`
	Name        string  `json:"name"`
	Region      wbValue `json:"region"`
	IncomeLevel wbValue `json:"incomeLevel"`
}

// Countries fetches every country, dropping aggregates.
func (w *WorldBank) Countries(ctx context.Context) ([]types.Country, error) {
	params := url.Values{"format": {"json"}, "per_page": {"300"}}

	// The response is a two-element array: paging metadata, then the rows.
	var page []json.RawMessage
	if err := w.Client.GetJSON(ctx, worldBankBase+"?"+params.Encode(), &page); err != nil {
		return nil, fmt.Errorf("world bank: %w: %w", ErrSourceUnavailable, err)
	}
	if len(page) < 2 {
		return nil, fmt.Errorf("world bank: %w: unexpected response with %d elements", ErrSourceUnavailable, len(page))
	}
	var rows []wbCountry
	if err := json.Unmarshal(page[1], &rows); err != nil {
		return nil, fmt.Errorf("world bank: %w: decoding countries: %w", ErrSourceUnavailable, err)
	}

	countries := make([]types.Country, 0, len(rows))
	for _, r := range rows {
		if r.Region.Value == aggregatesRegion || r.ISO2Code == "" {
			continue
		}
		countries = append(countries, types.Country{
			Name:        r.Name,
			ISO3:        r.ID,
			ISO2:        r.ISO2Code,
			IncomeLevel: strings.TrimSpace(r.IncomeLevel.Value),
			Region:      strings.TrimSpace(r.Region.Value),
		})
	}
	return countries, nil
}

// GeoNames finds the most populous places of a country.
type GeoNames struct {
	Client   *httputil.Client
	Username string
}

type gnPlace struct {
	Name        string           `json:"name"`
	CountryName string           `json:"countryName"`
	AdminName1  string           `json:"adminName1"`
	Population  int64            `json:"population"`
	Lat         types.Coordinate `json:"lat"`
	Lng         types.Coordinate `json:"lng"`
	Timezone    struct {
		TimeZoneID string `json:"timeZoneId"`
	} `json:"timezone"`
}

type gnResponse struct {
	Geonames []gnPlace `json:"geonames"`

	// Status is set instead of Geonames when the API rejects the request
	// (bad username, exhausted credits); the HTTP status is still 200.
	Status *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status"`
}

// TopCities returns up to limit populated places in the country with the
// given ISO2 code, most populous first.
func (g *GeoNames) TopCities(ctx context.Context, iso2 string, limit int) ([]types.City, error) {
	if g.Username == "" {
		return nil, fmt.Errorf("geonames: username is required")
	}
	params := url.Values{
		"country":      {iso2},
		"featureClass": {"P"},
		"orderBy":      {"population"},
		"maxRows":      {strconv.Itoa(limit)},
		"style":        {"FULL"},
		"username":     {g.Username},
	}

	var resp gnResponse
	if err := g.Client.GetJSON(ctx, geoNamesBase+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("geonames %s: %w: %w", iso2, ErrSourceUnavailable, err)
	}
	if resp.Status != nil {
		return nil, fmt.Errorf("geonames %s: %w: %s (code %d)", iso2, ErrSourceUnavailable, resp.Status.Message, resp.Status.Value)
	}

	cities := make([]types.City, 0, len(resp.Geonames))
	for _, p := range resp.Geonames {
		if p.Name == "" {
			continue
		}
		cities = append(cities, types.City{
			Name:       p.Name,
			Country:    p.CountryName,
			Admin1:     p.AdminName1,
			Population: max(p.Population, 0),
			Lat:        p.Lat,
			Lng:        p.Lng,
			Timezone:   p.Timezone.TimeZoneID,
		})
		if len(cities) == limit {
			break
		}
	}
	return cities, nil
}
