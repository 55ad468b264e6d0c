package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kindlab/metastore/internal/sqlite"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole store as JSONL files",
	Long: `Export writes one JSONL file per relation kind into the output
directory. Entities and links are exported with their attribute instances
assembled, so the dump is readable without the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sqlite.NewExporter(store).Export(cmd.Context(), exportDir); err != nil {
			return err
		}
		fmt.Printf("Exported store to %s\n", exportDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "out", "metastore-export", "output directory")
}
