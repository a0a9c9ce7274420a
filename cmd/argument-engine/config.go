package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/argument-engine/internal/search"
	"github.com/pdiddy/argument-engine/internal/secrets"
	"github.com/pdiddy/argument-engine/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables override keys absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("secrets_dir", ".secrets/")

	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama3-8b-8192")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.user_agent", "argument-engine/"+version)
	v.SetDefault("llm.max_retries", 1)
	v.SetDefault("llm.breaker_enabled", false)

	v.SetDefault("search.base_url", search.DefaultArxivURL)
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.timeout", 20*time.Second)
	v.SetDefault("search.user_agent", "argument-engine/"+version)
	v.SetDefault("search.max_retries", 3)
	v.SetDefault("search.request_interval", time.Duration(0))
	v.SetDefault("search.parallel", false)
	v.SetDefault("search.max_parallel", 3)
	v.SetDefault("search.dedupe", false)

	v.SetDefault("expansion.fallback_to_argument", false)

	v.SetDefault("similarity.enabled", false)
	v.SetDefault("similarity.base_url", "")
	v.SetDefault("similarity.model", "")
	v.SetDefault("similarity.api_key", "")
	v.SetDefault("similarity.timeout", 30*time.Second)

	v.SetDefault("server.listen", ":8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// loadConfig assembles the Config from v and fills credentials from the
// environment or the secrets store.
func loadConfig(v *viper.Viper, s secrets.Store) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	cfg.LLM.APIKey = s.Resolve(cfg.LLM.APIKey, secrets.GroqAPIKey, "GROQ_API_KEY")
	cfg.Similarity.APIKey = s.Resolve(cfg.Similarity.APIKey, secrets.EmbeddingsAPIKey)

	if err := validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func validate(cfg types.Config) error {
	if cfg.LLM.BaseURL == "" || cfg.LLM.Model == "" {
		return fmt.Errorf("llm.base_url and llm.model are required")
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("no generative service credential: set GROQ_API_KEY or write .secrets/%s", secrets.GroqAPIKey)
	}
	if cfg.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results must not be negative")
	}
	if cfg.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative")
	}
	if cfg.Similarity.Enabled && (cfg.Similarity.BaseURL == "" || cfg.Similarity.Model == "") {
		return fmt.Errorf("similarity.base_url and similarity.model are required when similarity is enabled")
	}
	return nil
}
