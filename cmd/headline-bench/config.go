// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/headline-bench/internal/sentiment"
	"github.com/pdiddy/headline-bench/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration assembled from defaults, the config file,
HEADLINE_BENCH_* environment variables and .secrets/. Credentials are
redacted. The output is a valid headline-bench.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Scoring.Scorers) == 0 {
			cfg.Scoring.Scorers = sentiment.DefaultScorers()
		}
		return writeConfig(os.Stdout, cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func writeConfig(w io.Writer, cfg types.PipelineConfig) error {
	cfg.Dataset.GeoNamesUsername = redact(cfg.Dataset.GeoNamesUsername)
	cfg.Scoring.HFToken = redact(cfg.Scoring.HFToken)
	cfg.Scoring.AnthropicAPIKey = redact(cfg.Scoring.AnthropicAPIKey)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "<redacted>"
}
