package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stdforge/stdforge/internal/convert"
	"github.com/stdforge/stdforge/internal/pipeline"
)

func assembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "assemble",
		Short:        "Assemble standards from reviewed mapping documents",
		Long:         "Assemble standards from the mapping documents written by the cluster command, after any hand edits, and write the validation documents. The classifier is not consulted.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			exports, err := pipeline.DiscoverExports(cfg.ExportDir)
			if err != nil {
				return err
			}
			labels, err := collectionLabels(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			runner := &pipeline.Runner{
				Convert:       convert.Record,
				Labels:        labels,
				OutputDir:     cfg.OutputDir,
				ReuseMappings: true,
			}

			summary, err := runner.Run(cmd.Context(), exports)
			fmt.Println(renderSummary(summary))
			if err != nil {
				return err
			}
			if !summary.Succeeded() {
				return fmt.Errorf("no collection completed successfully")
			}
			return nil
		},
	}
	return cmd
}
