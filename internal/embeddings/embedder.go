package embeddings

import (
	"context"
	"fmt"
	"os"
	"time"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder turns texts into vectors.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the length of the vectors.
	Dimensions() int
	// Name identifies the embedding model.
	Name() string
}

// Options selects and configures an embedder.
type Options struct {
	Provider string // "openai" or "ollama"
	Model    string
	Host     string
	APIKey   string // read from OPENAI_API_KEY when empty
	Timeout  time.Duration
}

// New creates the embedder named in opts.
func New(opts Options) (Embedder, error) {
	switch opts.Provider {
	case "openai":
		key := opts.APIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIEmbedder(key, OpenAIModel(opts.Model), opts.Host), nil
	case "ollama", "":
		return NewOllamaEmbedder(opts.Model, opts.Host, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", opts.Provider)
	}
}

// ToChromemFunc adapts an Embedder to the single-text function chromem-go
// calls when adding documents and running queries.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		results, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("%s returned no embedding", e.Name())
		}
		return results[0], nil
	}
}
