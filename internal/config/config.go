package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

type Backend string

const (
	BackendGemini Backend = "gemini"
	BackendVertex Backend = "vertex"
)

type Config struct {
	Mode Mode `env:"MUL_MODE" envDefault:"local"`

	// Server
	Port            string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins  []string      `env:"MUL_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"MUL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"MUL_LOG_LEVEL" envDefault:"info"`

	// Model. An empty APIKey on the gemini backend runs the companion on
	// its fallback replies.
	APIKey       string  `env:"GEMINI_API_KEY"`
	Backend      Backend `env:"MUL_LLM_BACKEND" envDefault:"gemini"`
	GCPProjectID string  `env:"MUL_GCP_PROJECT"`
	GCPLocation  string  `env:"MUL_GCP_LOCATION" envDefault:"us-central1"`
	ModelName    string  `env:"MUL_MODEL_NAME" envDefault:"gemini-2.5-flash"`
	UseMockLLM   bool    `env:"MUL_USE_MOCK_LLM" envDefault:"false"`

	// Companion
	SampleRate        int           `env:"MUL_SAMPLE_RATE" envDefault:"44100"`
	HydrationInterval time.Duration `env:"MUL_HYDRATION_INTERVAL" envDefault:"2h"`
	HydrationCheck    string        `env:"MUL_HYDRATION_CHECK" envDefault:"@every 1m"`
	InitialWaterLevel int           `env:"MUL_INITIAL_WATER_LEVEL" envDefault:"3"`
}

// Load reads all env vars and builds the config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeLocal, ModeCloud:
	default:
		return fmt.Errorf("MUL_MODE must be local or cloud, got %q", c.Mode)
	}

	switch c.Backend {
	case BackendGemini:
	case BackendVertex:
		if c.GCPProjectID == "" && !c.UseMockLLM {
			return fmt.Errorf("MUL_GCP_PROJECT must be set for the vertex backend")
		}
	default:
		return fmt.Errorf("MUL_LLM_BACKEND must be gemini or vertex, got %q", c.Backend)
	}

	if c.InitialWaterLevel < 0 || c.InitialWaterLevel > 8 {
		return fmt.Errorf("MUL_INITIAL_WATER_LEVEL must be between 0 and 8, got %d", c.InitialWaterLevel)
	}
	if c.SampleRate < 8000 {
		return fmt.Errorf("MUL_SAMPLE_RATE too low: %d", c.SampleRate)
	}
	if c.HydrationInterval <= 0 {
		return fmt.Errorf("MUL_HYDRATION_INTERVAL must be positive")
	}
	return nil
}

// HasCredentials reports whether a real model client can be built.
func (c *Config) HasCredentials() bool {
	if c.Backend == BackendVertex {
		return c.GCPProjectID != ""
	}
	return c.APIKey != ""
}
