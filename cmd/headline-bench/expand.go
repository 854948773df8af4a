// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/headline-bench/internal/experiment"
	"github.com/pdiddy/headline-bench/internal/results"
	"github.com/pdiddy/headline-bench/pkg/types"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Write the unscored headline table",
	Long: `Expand fills every template with every location, template-major, and
writes the headlines with their provenance columns. No scorer is run.`,
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().String("templates", "headline_templates.json", "template document (JSON or YAML)")
	expandCmd.Flags().String("locations", "locations.json", "locations file")
	expandCmd.Flags().StringP("output", "o", "headlines.csv", "output file")
	expandCmd.Flags().String("format", "", "output format: csv, xlsx or sqlite (default: from extension)")

	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	templatesPath, _ := cmd.Flags().GetString("templates")
	locationsPath, _ := cmd.Flags().GetString("locations")
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	in, err := experiment.LoadInputs(templatesPath, locationsPath)
	if err != nil {
		return err
	}
	sink, err := results.NewSink(types.OutputConfig{Path: output, Format: types.OutputFormat(format)})
	if err != nil {
		return err
	}
	n, err := experiment.WriteHeadlines(context.Background(), in, sink)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d headlines to %s\n", n, output)
	return nil
}
