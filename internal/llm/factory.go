package llm

import (
	"fmt"
	"os"
	"time"
)

// Options selects and configures a provider.
type Options struct {
	Provider string // "openai" or "ollama"
	Model    string
	Host     string // Ollama host or OpenAI-compatible base URL
	APIKey   string // read from OPENAI_API_KEY when empty
	Timeout  time.Duration
}

// NewProvider creates the provider named in opts.
func NewProvider(opts Options) (Provider, error) {
	switch opts.Provider {
	case "openai":
		key := opts.APIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(key, opts.Model, opts.Host), nil

	case "ollama":
		host := opts.Host
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, opts.Model, opts.Timeout), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", opts.Provider)
	}
}
