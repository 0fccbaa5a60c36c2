package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level bookgraph configuration, corresponding to .bookgraph.yml.
type Config struct {
	ListenAddr        string       `yaml:"listen_addr" koanf:"listen_addr"`
	AssistantAddr     string       `yaml:"assistant_addr" koanf:"assistant_addr"`
	APIURL            string       `yaml:"api_url" koanf:"api_url"`         // catalog API used by the page controllers
	ChatbotURL        string       `yaml:"chatbot_url" koanf:"chatbot_url"` // assistant service used by the chat widget
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	RDFFile           string       `yaml:"rdf_file" koanf:"rdf_file"` // seed catalog imported when the store is empty
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	OllamaHost        string       `yaml:"ollama_host" koanf:"ollama_host"`
	RedisURL          string       `yaml:"redis_url" koanf:"redis_url"`
	RequestTimeout    int          `yaml:"request_timeout" koanf:"request_timeout"` // seconds
	Log               LogConfig    `yaml:"log" koanf:"log"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Pretty bool   `yaml:"pretty" koanf:"pretty"`
}
