package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single outbound call, including retries.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "argument-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LLMConfig holds settings for the generative text service. The service
// speaks the OpenAI-compatible chat completions protocol (Groq by default).
type LLMConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the API root; "/chat/completions" is appended.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Model is the model identifier sent with every completion request.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the bearer credential. It is read from the process
	// environment or the secrets directory, never from a config file in git.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// MaxRetries is the number of extra attempts on a transient failure
	// (default 1). Completions spend quota, so this stays small.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// BreakerEnabled opts into a circuit breaker per generative operation
	// (default false). Its state outlives a single request.
	BreakerEnabled bool `json:"breaker_enabled" yaml:"breaker_enabled" mapstructure:"breaker_enabled"`
}

// SearchConfig holds settings for the literature retrieval stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults caps the entries requested per expanded query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// MaxRetries bounds retries of a GET answered with 429 or 503 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RequestInterval is the minimum spacing between requests to the
	// search service. Zero disables pacing.
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval" mapstructure:"request_interval"`

	// Parallel runs the per-query retrieve/parse steps concurrently.
	Parallel bool `json:"parallel" yaml:"parallel" mapstructure:"parallel"`

	// MaxParallel bounds concurrent retrievals when Parallel is set (default 3).
	MaxParallel int `json:"max_parallel" yaml:"max_parallel" mapstructure:"max_parallel"`

	// Dedupe drops records whose link already appeared under an earlier query.
	// Off by default: the same paper found by two queries is listed twice.
	Dedupe bool `json:"dedupe" yaml:"dedupe" mapstructure:"dedupe"`
}

// ExpansionConfig holds settings for query expansion.
type ExpansionConfig struct {
	// FallbackToArgument searches with the normalized argument itself when
	// the model returns no usable numbered queries. Expansion errors are
	// never masked by the fallback.
	FallbackToArgument bool `json:"fallback_to_argument" yaml:"fallback_to_argument" mapstructure:"fallback_to_argument"`
}

// SimilarityConfig holds settings for optional embedding-based scoring.
type SimilarityConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Enabled turns scoring on. When off every article keeps a nil score.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// BaseURL is an OpenAI-compatible API root; "/embeddings" is appended.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Model is the embedding model identifier.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is an optional bearer credential for the embeddings endpoint.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Listen is the address the server binds (default ":8000").
	Listen string `json:"listen" yaml:"listen" mapstructure:"listen"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "console".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups every stage configuration. It is assembled once at startup
// and passed by value into the components that need it.
type Config struct {
	LLM        LLMConfig        `json:"llm" yaml:"llm" mapstructure:"llm"`
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Expansion  ExpansionConfig  `json:"expansion" yaml:"expansion" mapstructure:"expansion"`
	Similarity SimilarityConfig `json:"similarity" yaml:"similarity" mapstructure:"similarity"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
