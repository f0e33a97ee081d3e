package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the item catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import papers and repositories from a JSON dump",
	Long: `Import reads a JSON document of the form

  {"papers": [...], "repositories": [...]}

and writes every record with its author and recency indexes. Records without
an id are skipped. Requires redis.addr: without Redis the catalog lives in
memory, so load a local dump with "serve --import" instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePersistentStore(cfg); err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := importCatalog(cmd.Context(), a.catalog, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d papers, %d repositories (%d skipped)\n",
			stats.Papers, stats.Repositories, stats.Skipped)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
}
