package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookgraph/internal/assistant"
	"github.com/ziadkadry99/bookgraph/internal/server"
)

var assistantAddr string

var assistantCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Start the chat assistant service",
	Long: `Starts the service the chat widget talks to: /chat answers questions
from the catalog's facts, /conversation-starters suggests prompts and
/search-books runs structured searches. The fact index is loaded from the
data directory and rebuilt when missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if assistantAddr != "" {
			cfg.AssistantAddr = assistantAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, books, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := seedLibrary(ctx, cfg, books); err != nil {
			return err
		}

		store, err := openVectorStore(ctx, cfg)
		if err != nil {
			return err
		}
		if err := assistant.NewIndexer(books, store, vectorDir(cfg)).EnsureIndex(ctx); err != nil {
			return fmt.Errorf("preparing fact index: %w", err)
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		cache := newCache(ctx, cfg)
		if c, ok := cache.(io.Closer); ok {
			defer c.Close()
		}

		svc := assistant.NewService(books, store, provider, cache)

		srv := server.New(server.Config{
			Name:     "assistant",
			Addr:     cfg.AssistantAddr,
			AllowAll: true,
		})
		srv.Group(func(r chi.Router) {
			assistant.RegisterRoutes(r, svc)
		})

		fmt.Fprintf(os.Stderr, "bookgraph assistant %s starting on %s\n", Version, cfg.AssistantAddr)
		fmt.Fprintf(os.Stderr, "  Model: %s (%s)\n", cfg.Model, provider.Name())
		fmt.Fprintf(os.Stderr, "  Facts indexed: %d\n", store.Count())

		return srv.Run(ctx)
	},
}

func init() {
	assistantCmd.Flags().StringVar(&assistantAddr, "addr", "", "listen address (overrides assistant_addr)")
	rootCmd.AddCommand(assistantCmd)
}
