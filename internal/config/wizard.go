package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to bookgraph! Let's configure your catalog.")
	fmt.Println()

	cfg := DefaultConfig()
	if _, err := os.Stat(cfg.RDFFile); err == nil {
		fmt.Printf("Found seed catalog: %s\n\n", cfg.RDFFile)
	}

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider for the assistant",
		Items: []string{"ollama", "openai"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: preset.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Service addresses.
	apiPrompt := promptui.Prompt{
		Label:    "Catalog API URL",
		Default:  cfg.APIURL,
		Validate: validateURL,
	}
	apiURL, err := apiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("catalog url: %w", err)
	}

	chatbotPrompt := promptui.Prompt{
		Label:    "Assistant service URL",
		Default:  cfg.ChatbotURL,
		Validate: validateURL,
	}
	chatbotURL, err := chatbotPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("assistant url: %w", err)
	}

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (database and vector index)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 5. Optional Redis cache.
	redisPrompt := promptui.Prompt{
		Label:   "Redis URL for the assistant cache (blank for in-memory)",
		Default: "",
	}
	redisURL, err := redisPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	cfg.Provider = provider
	cfg.Model = strings.TrimSpace(model)
	cfg.EmbeddingProvider = provider
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.APIURL = strings.TrimSpace(apiURL)
	cfg.ChatbotURL = strings.TrimSpace(chatbotURL)
	cfg.DataDir = strings.TrimSpace(dataDir)
	cfg.RedisURL = strings.TrimSpace(redisURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running bookgraph assistant.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("must start with http:// or https://")
	}
	return nil
}
