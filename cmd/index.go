package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookgraph/internal/assistant"
	"github.com/ziadkadry99/bookgraph/internal/progress"
	"github.com/ziadkadry99/bookgraph/internal/vectordb"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the catalog's facts for the chat assistant",
	Long:  `Rebuilds the fact index the assistant retrieves from and saves it in the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, books, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		store, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			return fmt.Errorf("creating vector store: %w", err)
		}

		n, err := assistant.NewIndexer(books, store, vectorDir(cfg)).
			IndexAll(cmd.Context(), progress.NewReporter("Indexing books"))
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d book(s), %d fact(s) with %s.\n", n, store.Count(), embedder.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
