package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog as Turtle or N-Triples",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := bookrdf.ParseFormatName(exportFormat)
		if err != nil {
			return err
		}

		database, store, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		books, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("creating %s: %w", exportOutput, err)
			}
			defer f.Close()
			w = f
		}

		if err := bookrdf.Encode(w, books, format); err != nil {
			return fmt.Errorf("encoding catalog: %w", err)
		}
		if exportOutput != "" && exportOutput != "-" {
			fmt.Fprintf(os.Stderr, "Wrote %d book(s) to %s\n", len(books), exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "turtle", "output format: turtle or ntriples")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
