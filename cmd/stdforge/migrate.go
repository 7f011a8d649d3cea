package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stdforge/stdforge/internal/pipeline"
)

func migrateCmd() *cobra.Command {
	var skipImport bool
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Run the full migration: cluster, assemble and import every export",
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

			var importer pipeline.Importer
			if !skipImport {
				importer, err = newImporter(cfg)
				if err != nil {
					return err
				}
			}
			runner, err := newRunner(cmd.Context(), cfg, importer)
			if err != nil {
				return err
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
	cmd.Flags().BoolVar(&skipImport, "skip-import", false, "stop after writing validation documents")
	return cmd
}
