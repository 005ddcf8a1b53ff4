package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/halcyon-rl/gsmreward/pkg/dataset"
	"github.com/halcyon-rl/gsmreward/pkg/rubrics"
	"github.com/halcyon-rl/gsmreward/pkg/types"
)

func newScoreCmd() *cobra.Command {
	var (
		completionsPath string
		datasetPath     string
		configPath      string
		mode            string
		parallel        int
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a completions file against a GSM8K dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScoreConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mode") {
				cfg.Mode = mode
			}
			if cmd.Flags().Changed("parallel") {
				cfg.Parallel = parallel
			}
			return runScore(cmd.Context(), completionsPath, datasetPath, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&completionsPath, "completions", "", "JSONL file of model completions")
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "GSM8K JSONL dataset with reference answers")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	cmd.Flags().StringVar(&mode, "mode", string(types.ModeStrict), "extraction mode (strict|flexible)")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "concurrent scorers; 1 scores sequentially")
	_ = cmd.MarkFlagRequired("completions")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func runScore(ctx context.Context, completionsPath, datasetPath string, cfg scoreConfig, out io.Writer) error {
	samples, err := dataset.Load(ctx, datasetPath)
	if err != nil {
		return err
	}
	completions, err := dataset.LoadCompletions(ctx, completionsPath)
	if err != nil {
		return err
	}

	rubric, err := rubrics.NewGSM8KRubric(types.Mode(cfg.Mode),
		rubrics.WithFormatReward(cfg.FormatReward),
		rubrics.WithCorrectReward(cfg.CorrectReward))
	if err != nil {
		return err
	}

	groundTruths := make([]string, len(samples))
	for i, sample := range samples {
		groundTruths[i] = sample.GroundTruth
	}

	var rewards []float64
	if cfg.Parallel > 1 {
		rewards, err = rubric.ScoreBatchConcurrent(ctx, completions, groundTruths, cfg.Parallel)
	} else {
		rewards, err = rubric.ScoreBatch(completions, groundTruths)
	}
	if err != nil {
		return err
	}

	var sum float64
	for i, reward := range rewards {
		fmt.Fprintf(out, "%s\t%.2f\n", samples[i].ID, reward)
		sum += reward
	}
	correct := countCorrect(rubric, completions, groundTruths)

	mean := 0.0
	if len(rewards) > 0 {
		mean = sum / float64(len(rewards))
	}
	log.Info().
		Int("pairs", len(rewards)).
		Int("correct", correct).
		Float64("mean_reward", mean).
		Str("mode", cfg.Mode).
		Msg("scoring complete")
	return nil
}

// countCorrect recounts exact matches via extraction. Reward values
// cannot distinguish the tiers once the overridable positive tiers are
// configured to the same value.
func countCorrect(rubric *rubrics.GSM8KRubric, completions, groundTruths []string) int {
	parser := rubric.Parser()

	correct := 0
	for i := range completions {
		if completions[i] == "" || groundTruths[i] == "" {
			continue
		}
		if answer, ok := parser.Extract(completions[i]); ok && answer == groundTruths[i] {
			correct++
		}
	}
	return correct
}
