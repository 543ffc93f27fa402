package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
		assert.Equal(t, "salescope", cfg.Mongo.Database)
		assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "https://openrouter.ai/api/v1", cfg.AI.BaseURL)
		assert.NotEmpty(t, cfg.AI.TranslateModel)
		assert.NotEmpty(t, cfg.AI.PipelineModel)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("SALESCOPE_MONGO_DATABASE", "sales_prod")
		t.Setenv("SALESCOPE_AI_API_KEY", "sk-test")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "sales_prod", cfg.Mongo.Database)
		assert.Equal(t, "sk-test", cfg.AI.APIKey)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"server:\n  port: \"9090\"\nmongo:\n  database: sales_staging\n"), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "sales_staging", cfg.Mongo.Database)
		// Untouched keys keep their defaults.
		assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
