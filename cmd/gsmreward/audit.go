package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/halcyon-rl/gsmreward/pkg/dataset"
)

func newAuditCmd() *cobra.Command {
	var datasetPath string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check calculator annotations in a GSM8K dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := dataset.Load(cmd.Context(), datasetPath)
			if err != nil {
				return err
			}

			findings := dataset.AuditAnnotations(samples)
			for _, finding := range findings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
					finding.SampleID, finding.Annotation, finding.Detail)
			}

			log.Info().
				Int("samples", len(samples)).
				Int("findings", len(findings)).
				Msg("audit complete")

			if len(findings) > 0 {
				return fmt.Errorf("%d inconsistent annotations", len(findings))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "GSM8K JSONL dataset")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}
