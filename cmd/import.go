package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
	"github.com/ziadkadry99/bookgraph/internal/library"
	"github.com/ziadkadry99/bookgraph/internal/walker"
)

var importExclude []string

var importCmd = &cobra.Command{
	Use:   "import <file|dir|pattern>...",
	Short: "Load books from RDF files into the catalog",
	Long: `Reads RDF/XML, Turtle or N-Triples files and upserts every book they
describe. Arguments may be files, directories (searched recursively) or
patterns such as 'data/**/*.ttl'. The format follows the file extension.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		files, err := walker.Expand(args, importExclude)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no RDF files found")
		}

		database, store, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := cmd.Context()
		total := 0
		for _, f := range files {
			n, err := importFile(ctx, store, f)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d book(s)\n", f.RelPath, n)
			total += n
		}
		fmt.Printf("Imported %d book(s) from %d file(s). Run `bookgraph index` to refresh the assistant.\n", total, len(files))
		return nil
	},
}

func importFile(ctx context.Context, store *library.Store, f walker.FileInfo) (int, error) {
	in, err := os.Open(f.Path)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	triples, err := bookrdf.ParseFile(in, f.Path)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f.RelPath, err)
	}
	return store.Import(ctx, bookrdf.Books(triples))
}

func init() {
	importCmd.Flags().StringSliceVar(&importExclude, "exclude", nil, "glob patterns to skip inside directories")
	rootCmd.AddCommand(importCmd)
}
