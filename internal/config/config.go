package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// ErrUnsupportedProvider is returned when MODEL_SERVER names a provider we have no profile for.
var ErrUnsupportedProvider = errors.New("unsupported MODEL_SERVER")

// Supported provider selectors.
const (
	ProviderGroq   = "GROQ"
	ProviderOpenAI = "OPENAI"
)

// Config holds runtime configuration. It is loaded once at startup and passed by value.
type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Port        int    `env:"PORT" envDefault:"8080"`
	MaxBodySize int64  `env:"MAX_BODY_SIZE" envDefault:"1048576"` // 1 MiB

	// LLM provider switch
	ModelServer string        `env:"MODEL_SERVER" envDefault:"GROQ"`
	Groq        ProfileConfig `envPrefix:"GROQ_"`
	OpenAI      OpenAIConfig  `envPrefix:"OPENAI_"`

	// Input
	InputPath    string        `env:"INPUT_PATH" envDefault:"sample-blog-post.json"`
	InputURL     string        `env:"INPUT_URL"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`

	// Queue
	QueueURL     string `env:"QUEUE_URL"`
	QueueSubject string `env:"QUEUE_SUBJECT" envDefault:"pipeline.run"`
}

// ProfileConfig is the credential/endpoint/model triple of one provider.
type ProfileConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL"`
	Model   string `env:"MODEL"`
}

// OpenAIConfig is ProfileConfig with the public OpenAI endpoint as default base URL.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model   string `env:"MODEL"`
}

// Provider is a resolved provider profile.
type Provider struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	// envDefault also fills set-but-empty values; an explicitly empty
	// MODEL_SERVER must stay empty so Provider rejects it.
	if v, ok := os.LookupEnv("MODEL_SERVER"); ok && v == "" {
		cfg.ModelServer = ""
	}
	return cfg
}

// Provider resolves MODEL_SERVER into a provider profile. Missing credentials are
// not an error here; they surface when the provider is called.
func (c Config) Provider() (Provider, error) {
	name := strings.ToUpper(strings.TrimSpace(c.ModelServer))
	switch name {
	case ProviderGroq:
		return Provider{
			Name:    name,
			APIKey:  c.Groq.APIKey,
			BaseURL: c.Groq.BaseURL,
			Model:   c.Groq.Model,
		}, nil
	case ProviderOpenAI:
		return Provider{
			Name:    name,
			APIKey:  c.OpenAI.APIKey,
			BaseURL: c.OpenAI.BaseURL,
			Model:   c.OpenAI.Model,
		}, nil
	default:
		return Provider{}, fmt.Errorf("%w: %q (valid options: %s, %s)", ErrUnsupportedProvider, name, ProviderGroq, ProviderOpenAI)
	}
}
