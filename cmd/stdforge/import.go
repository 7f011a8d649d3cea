package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stdforge/stdforge/internal/pipeline"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "import",
		Short:        "Import standards from reviewed validation documents",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			importer, err := newImporter(cfg)
			if err != nil {
				return err
			}
			docs, err := pipeline.DiscoverValidations(cfg.OutputDir)
			if err != nil {
				return err
			}

			summary, err := pipeline.ImportValidated(cmd.Context(), importer, docs)
			fmt.Println(renderSummary(summary))
			if err != nil {
				return err
			}
			if summary.ImportsFailed > 0 && summary.ImportsSucceeded == 0 {
				return fmt.Errorf("every import was rejected")
			}
			return nil
		},
	}
	return cmd
}
