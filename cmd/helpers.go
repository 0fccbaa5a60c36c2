package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/bookgraph/internal/assistant"
	"github.com/ziadkadry99/bookgraph/internal/bookrdf"
	"github.com/ziadkadry99/bookgraph/internal/config"
	"github.com/ziadkadry99/bookgraph/internal/db"
	"github.com/ziadkadry99/bookgraph/internal/embeddings"
	"github.com/ziadkadry99/bookgraph/internal/library"
	"github.com/ziadkadry99/bookgraph/internal/llm"
	"github.com/ziadkadry99/bookgraph/internal/logger"
	"github.com/ziadkadry99/bookgraph/internal/vectordb"
)

// loadConfig loads and validates the config and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `bookgraph init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger.Init(level, cfg.Log.Pretty)
	return cfg, nil
}

// openLibrary opens the catalog database under the data directory.
func openLibrary(cfg *config.Config) (*db.DB, *library.Store, error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "bookgraph.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, library.NewStore(database), nil
}

func vectorDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "vectordb")
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetPreset(provider).EmbeddingModel
	}
	return embeddings.New(embeddings.Options{
		Provider: string(provider),
		Model:    model,
		Host:     hostFor(cfg, provider),
		Timeout:  cfg.Timeout(),
	})
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(llm.Options{
		Provider: string(cfg.Provider),
		Model:    cfg.Model,
		Host:     hostFor(cfg, cfg.Provider),
		APIKey:   os.Getenv(config.APIKeyEnvVar(cfg.Provider)),
		Timeout:  cfg.Timeout(),
	})
}

func hostFor(cfg *config.Config, provider config.ProviderType) string {
	if provider == config.ProviderOllama {
		return cfg.OllamaHost
	}
	return ""
}

// openVectorStore creates the fact store and loads the persisted index
// when there is one.
func openVectorStore(ctx context.Context, cfg *config.Config) (*vectordb.ChromemStore, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}
	if dir := vectorDir(cfg); vectordb.Exists(dir) {
		if err := store.Load(ctx, dir); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Str("dir", dir).Msg("could not load vector store")
		}
	}
	return store, nil
}

// newCache returns a Redis cache when redis_url is set, and an in-process
// cache otherwise or when Redis is unreachable.
func newCache(ctx context.Context, cfg *config.Config) assistant.Cache {
	log := logger.Get()
	if cfg.RedisURL == "" {
		return assistant.NewMemoryCache()
	}
	c, err := assistant.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, caching in memory")
		return assistant.NewMemoryCache()
	}
	log.Info().Msg("caching in redis")
	return c
}

// seedLibrary imports rdf_file into an empty catalog.
func seedLibrary(ctx context.Context, cfg *config.Config, store *library.Store) error {
	n, err := store.Count(ctx)
	if err != nil || n > 0 || cfg.RDFFile == "" {
		return err
	}

	f, err := os.Open(cfg.RDFFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	triples, err := bookrdf.ParseFile(f, cfg.RDFFile)
	if err != nil {
		return fmt.Errorf("parsing seed file %s: %w", cfg.RDFFile, err)
	}
	imported, err := store.Import(ctx, bookrdf.Books(triples))
	if err != nil {
		return err
	}

	log := logger.Get()
	log.Info().Str("file", cfg.RDFFile).Int("books", imported).Msg("seeded catalog")
	return nil
}
