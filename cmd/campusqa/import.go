package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/domain/resource"
)

func importCMD(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Bulk load a category-keyed resource file into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			set, err := resource.ParseImport(data)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer a.close()

			if a.redis == nil {
				a.logger.Warn("Importing into the in-memory docstore, nothing will persist")
			}

			rep := a.catalog.Import(cmd.Context(), set)
			for _, d := range rep.Details {
				for _, msg := range d.Errors {
					a.logger.Warn("Import item rejected", zap.String("category", d.Category), zap.String("reason", msg))
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d items in %d categories: %d stored, %d failed\n",
				rep.TotalProcessed, rep.TotalCategories, rep.Successful, rep.Failed)
			return nil
		},
	}
}
