package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/bookgraph/internal/mcp"
	"github.com/ziadkadry99/bookgraph/internal/vectordb"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing catalog tools for AI agents.`,
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

		// Fact search is optional; the catalog tools work without it.
		var store vectordb.VectorStore
		chromemStore, err := openVectorStore(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: fact search disabled: %v\n", err)
		} else if chromemStore.Count() == 0 {
			fmt.Fprintf(os.Stderr, "Warning: fact index is empty. Run `bookgraph index` first.\n")
		} else {
			store = chromemStore
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "bookgraph MCP server started on stdio (db=%s)\n", database.Path())

		return mcpserver.NewServer(books, store).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
