package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
	"github.com/ziadkadry99/bookgraph/internal/graph"
)

var graphJSON bool

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Print an RDF file as a Mermaid diagram",
	Long: `Converts an RDF file into the same node/edge network the upload page
draws, printed as a Mermaid flowchart or, with --json, as the network JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		triples, err := bookrdf.ParseFile(f, args[0])
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		g := bookrdf.ToGraph(triples)

		if graphJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(g)
		}
		fmt.Print(graph.Mermaid(g))
		return nil
	},
}

func init() {
	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "print the network as JSON")
	rootCmd.AddCommand(graphCmd)
}
