package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookgraph/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bookgraph",
	Short: "Book catalog with RDF graphs and a chat assistant",
	Long: `bookgraph keeps a catalog of books described in RDF. It serves the
catalog pages and API, draws uploaded RDF files as graphs, and runs a
chat assistant that answers questions from the catalog's facts.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
