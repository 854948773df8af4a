// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/headline-bench/internal/dataset"
	"github.com/pdiddy/headline-bench/internal/enrich"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Build locations.json from World Bank, GeoNames and Wikipedia",
	Long: `Locations lists every country from the World Bank API, fetches its most
populous cities from GeoNames, derives each city's development level from the
country income level and attaches a short Wikipedia summary. A GeoNames
username is required (flag, config, HEADLINE_BENCH_DATASET_GEONAMES_USERNAME,
or .secrets/geonames-username).`,
	RunE: runLocations,
}

func init() {
	locationsCmd.Flags().StringP("output", "o", "locations.json", "path of the generated locations file")
	locationsCmd.Flags().Int("cities", 3, "cities per country")
	locationsCmd.Flags().Bool("skip-summaries", false, "do not fetch Wikipedia summaries")
	locationsCmd.Flags().String("geonames-username", "", "GeoNames account name")
	locationsCmd.Flags().Float64("rps", 2, "maximum requests per second per upstream host")

	viper.BindPFlag("dataset.output", locationsCmd.Flags().Lookup("output"))
	viper.BindPFlag("dataset.cities_per_country", locationsCmd.Flags().Lookup("cities"))
	viper.BindPFlag("dataset.skip_summaries", locationsCmd.Flags().Lookup("skip-summaries"))
	viper.BindPFlag("dataset.geonames_username", locationsCmd.Flags().Lookup("geonames-username"))
	viper.BindPFlag("dataset.requests_per_second", locationsCmd.Flags().Lookup("rps"))

	rootCmd.AddCommand(locationsCmd)
}

func runLocations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dcfg := cfg.Dataset
	if dcfg.GeoNamesUsername == "" {
		return fmt.Errorf("a GeoNames username is required: pass --geonames-username or create .secrets/geonames-username")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summaries dataset.SummarySource
	if !dcfg.SkipSummaries {
		summaries = enrich.NewSummarizer(dcfg)
	}
	builder := dataset.NewBuilder(dcfg, summaries, os.Stdout)

	locs, stats, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	if err := dataset.WriteLocations(dcfg.Output, locs); err != nil {
		return err
	}

	if stats.FailedCountries > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d countries skipped (see log)\n", stats.FailedCountries, stats.Countries)
	}
	if summaries != nil && stats.MissingSummary > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d locations have no summary\n", stats.MissingSummary)
	}
	fmt.Printf("Successfully created %s with %d locations.\n", dcfg.Output, stats.Locations)
	return nil
}
