package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Mongo struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AI struct {
	APIKey           string `mapstructure:"api_key"`
	BaseURL          string `mapstructure:"base_url"`
	TranslateModel   string `mapstructure:"translate_model"`
	PipelineModel    string `mapstructure:"pipeline_model"`
	AlternativeModel string `mapstructure:"alternative_model"`
	AnalysisModel    string `mapstructure:"analysis_model"`
}

type Config struct {
	Server Server `mapstructure:"server"`
	Mongo  Mongo  `mapstructure:"mongo"`
	AI     AI     `mapstructure:"ai"`
}

// LoadConfig reads the optional YAML file at path and overlays environment
// variables (SALESCOPE_MONGO_URI, SALESCOPE_AI_API_KEY, ...). Every key has a
// runnable default except the AI api key; without it generation calls fail
// and the engine degrades to deterministic fallbacks.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "salescope")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.translate_model", "mistralai/mixtral-8x7b-instruct")
	v.SetDefault("ai.pipeline_model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("ai.alternative_model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("ai.analysis_model", "anthropic/claude-3.5-sonnet")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
