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

	"github.com/pdiddy/headline-bench/internal/experiment"
	"github.com/pdiddy/headline-bench/internal/results"
	"github.com/pdiddy/headline-bench/internal/sentiment"
	"github.com/pdiddy/headline-bench/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Expand templates over locations and score every headline",
	Long: `Score expands every template over every location and runs each configured
sentiment scorer over the full headline list. Scorers are independent: one
that fails leaves its columns empty and the others still run. The result table
is written once all scorers finish; a failed-scorer summary follows.

Scorers come from the scoring.scorers list in the config file, or default to
vader (lexicon), distilbert and roberta (Hugging Face inference).`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().String("templates", "headline_templates.json", "template document (JSON or YAML)")
	scoreCmd.Flags().String("locations", "locations.json", "locations file")
	scoreCmd.Flags().StringP("output", "o", "sentiment_analysis_results.csv", "output file")
	scoreCmd.Flags().String("format", "", "output format: csv, xlsx or sqlite (default: from extension)")
	scoreCmd.Flags().StringSlice("scorers", nil, "run only these scorers (comma-separated names)")
	scoreCmd.Flags().Int("concurrency", 0, "maximum scorers running at once (default: all)")
	scoreCmd.Flags().Duration("timeout", 0, "per-scorer time limit (default 10m)")
	scoreCmd.Flags().Bool("strict", false, "exit non-zero when any scorer fails")

	viper.BindPFlag("output.path", scoreCmd.Flags().Lookup("output"))
	viper.BindPFlag("output.format", scoreCmd.Flags().Lookup("format"))
	viper.BindPFlag("scoring.concurrency", scoreCmd.Flags().Lookup("concurrency"))

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	templatesPath, _ := cmd.Flags().GetString("templates")
	locationsPath, _ := cmd.Flags().GetString("locations")
	only, _ := cmd.Flags().GetStringSlice("scorers")
	strict, _ := cmd.Flags().GetBool("strict")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Scoring.ScorerTimeout = timeout
	}
	if len(cfg.Scoring.Scorers) == 0 {
		cfg.Scoring.Scorers = sentiment.DefaultScorers()
	}
	cfg.Scoring.Scorers, err = selectScorers(cfg.Scoring.Scorers, only)
	if err != nil {
		return err
	}

	in, err := experiment.LoadInputs(templatesPath, locationsPath)
	if err != nil {
		return err
	}
	engine, err := experiment.NewEngine(cfg.Scoring)
	if err != nil {
		return err
	}
	sink, err := results.NewSink(cfg.Output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := experiment.Run(ctx, in, engine, sink, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (run %s)\n", cfg.Output.Path, report.RunID)

	if strict && report.HasFailures() {
		return fmt.Errorf("%d scorer(s) failed", len(report.Failures))
	}
	return nil
}

// selectScorers keeps the configured scorers named in only, in configured
// order. An empty only keeps all of them.
func selectScorers(all []types.ScorerConfig, only []string) ([]types.ScorerConfig, error) {
	if len(only) == 0 {
		return all, nil
	}
	known := make(map[string]bool, len(all))
	for _, sc := range all {
		known[sc.Name] = true
	}
	want := make(map[string]bool, len(only))
	for _, name := range only {
		if !known[name] {
			return nil, fmt.Errorf("unknown scorer %q", name)
		}
		want[name] = true
	}
	var kept []types.ScorerConfig
	for _, sc := range all {
		if want[sc.Name] {
			kept = append(kept, sc)
		}
	}
	return kept, nil
}
