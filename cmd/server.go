package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/chatwidget"
	"github.com/ziadkadry99/bookgraph/internal/library"
	"github.com/ziadkadry99/bookgraph/internal/server"
	"github.com/ziadkadry99/bookgraph/internal/web"
)

var (
	serverAddr   string
	serverNoChat bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the catalog API and web pages",
	Long: `Starts the catalog server: the JSON API under /api, the book list and
detail pages, the RDF upload graph, and the chat widget socket. An empty
catalog is seeded from rdf_file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverAddr != "" {
			cfg.ListenAddr = serverAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, store, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := seedLibrary(ctx, cfg, store); err != nil {
			return err
		}

		var chat chatwidget.Service
		if !serverNoChat {
			chat = chatwidget.NewClient(cfg.ChatbotURL, cfg.Timeout())
		}
		pages, err := web.New(catalog.NewClient(cfg.APIURL, cfg.Timeout()), chat)
		if err != nil {
			return fmt.Errorf("creating web pages: %w", err)
		}

		srv := server.New(server.Config{
			Name:           "catalog",
			Addr:           cfg.ListenAddr,
			RequestTimeout: cfg.Timeout(),
		})
		srv.Group(func(r chi.Router) {
			library.RegisterRoutes(r, store)
		})
		pages.RegisterRoutes(srv.Router())

		fmt.Fprintf(os.Stderr, "bookgraph server %s starting on %s\n", Version, cfg.ListenAddr)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		fmt.Fprintf(os.Stderr, "  API: %s\n", cfg.APIURL)
		if chat != nil {
			fmt.Fprintf(os.Stderr, "  Assistant: %s\n", cfg.ChatbotURL)
		}

		return srv.Run(ctx)
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (overrides listen_addr)")
	serverCmd.Flags().BoolVar(&serverNoChat, "no-chat", false, "do not mount the chat widget socket")
	rootCmd.AddCommand(serverCmd)
}
