package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stdforge/stdforge/internal/pipeline"
)

func clusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cluster",
		Short:        "Cluster every export into groups and write mapping documents",
		Long:         "Cluster every export into groups and write the mapping documents for review. Assembly and import are skipped so mappings can be inspected or hand-edited before the next stage.",
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
			runner, err := newRunner(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			runner.MappingOnly = true

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
