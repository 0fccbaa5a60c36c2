package config

// Preset describes the default models for a provider.
type Preset struct {
	Model          string
	EmbeddingModel string
}

var presets = map[ProviderType]Preset{
	ProviderOpenAI: {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama: {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".bookgraph.yml"

// DefaultConfig returns a Config with sensible defaults. The defaults match
// a local setup: catalog on :8080, assistant on :5000, everything on Ollama.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8080",
		AssistantAddr:     ":5000",
		APIURL:            "http://localhost:8080",
		ChatbotURL:        "http://localhost:5000",
		DataDir:           ".bookgraph",
		RDFFile:           "books_data.rdf",
		Provider:          ProviderOllama,
		Model:             "llama3",
		EmbeddingProvider: ProviderOllama,
		EmbeddingModel:    "nomic-embed-text",
		OllamaHost:        "http://localhost:11434",
		RequestTimeout:    30,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetPreset returns the preset for the given provider.
// Returns the Ollama preset if the provider is unknown.
func GetPreset(provider ProviderType) Preset {
	if p, ok := presets[provider]; ok {
		return p
	}
	return presets[ProviderOllama]
}
