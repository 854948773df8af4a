// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset builds the location dataset: countries from the World
// Bank, their most populous cities from GeoNames, and an optional
// Wikipedia summary per city. The result is written once to locations.json
// and read back by scoring runs as an ordered, immutable sequence.
package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/headline-bench/internal/httputil"
	"github.com/pdiddy/headline-bench/pkg/types"
)

// SummarySource returns a short description for a query such as
// "Lagos, Nigeria", or "" when none is available.
type SummarySource interface {
	Summary(ctx context.Context, query string) string
}

// Builder assembles LocationRecords from the upstream sources.
type Builder struct {
	WorldBank *WorldBank
	GeoNames  *GeoNames

	// Summaries is optional; nil leaves every summary empty.
	Summaries SummarySource

	CitiesPerCountry int

	// Progress receives one line per country. Nil discards progress.
	Progress io.Writer
}

// Stats summarizes a build.
type Stats struct {
	Countries       int
	FailedCountries int
	Locations       int
	MissingSummary  int
}

// NewBuilder wires a Builder from cfg. Each upstream host gets its own
// client and rate limiter.
func NewBuilder(cfg types.DatasetConfig, summaries SummarySource, progress io.Writer) *Builder {
	return &Builder{
		WorldBank:        &WorldBank{Client: newClient(cfg.HTTPConfig, cfg.RequestsPerSecond)},
		GeoNames:         &GeoNames{Client: newClient(cfg.HTTPConfig, cfg.RequestsPerSecond), Username: cfg.GeoNamesUsername},
		Summaries:        summaries,
		CitiesPerCountry: cfg.CitiesPerCountry,
		Progress:         progress,
	}
}

func newClient(cfg types.HTTPConfig, rps float64) *httputil.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httputil.Client{
		HTTP:       &http.Client{Timeout: timeout},
		Limiter:    httputil.NewLimiter(rps),
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
}

// Build fetches countries, then processes them one at a time in World Bank
// order. A country whose cities cannot be fetched is logged and skipped;
// failing to list countries aborts the build.
func (b *Builder) Build(ctx context.Context) ([]types.LocationRecord, Stats, error) {
	var stats Stats
	progress := b.Progress
	if progress == nil {
		progress = io.Discard
	}
	limit := b.CitiesPerCountry
	if limit <= 0 {
		limit = 3
	}

	countries, err := b.WorldBank.Countries(ctx)
	if err != nil {
		return nil, stats, err
	}
	stats.Countries = len(countries)
	zap.L().Info("fetched countries", zap.Int("count", len(countries)))

	var locations []types.LocationRecord
	for _, country := range countries {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		fmt.Fprintf(progress, "Processing %s...\n", country.Name)

		cities, err := b.GeoNames.TopCities(ctx, country.ISO2, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			stats.FailedCountries++
			zap.L().Warn("skipping country", zap.String("country", country.Name), zap.Error(err))
			continue
		}

		level := types.DevelopmentFromIncome(country.IncomeLevel)
		for _, city := range cities {
			rec := types.LocationRecord{
				Name:             city.Name,
				Country:          city.Country,
				Region:           country.Region,
				Population:       city.Population,
				Lat:              city.Lat,
				Lng:              city.Lng,
				Timezone:         city.Timezone,
				DevelopmentLevel: level,
			}
			if rec.Country == "" {
				rec.Country = country.Name
			}
			if b.Summaries != nil {
				rec.Summary = b.Summaries.Summary(ctx, rec.Name+", "+rec.Country)
			}
			if rec.Summary == "" {
				stats.MissingSummary++
			}
			locations = append(locations, rec)
		}
	}
	stats.Locations = len(locations)
	return locations, stats, nil
}
