package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Endpoint:            "https://example.openai.azure.com",
		APIKey:              "key",
		APIVersion:          "2024-07-01-preview",
		EmbeddingDeployment: "embed",
		ChatDeployment:      "chat",
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_Missing(t *testing.T) {
	mutations := map[string]func(*Config){
		"endpoint":   func(c *Config) { c.Endpoint = "" },
		"api key":    func(c *Config) { c.APIKey = "" },
		"version":    func(c *Config) { c.APIVersion = "" },
		"embedding":  func(c *Config) { c.EmbeddingDeployment = "" },
		"chat":       func(c *Config) { c.ChatDeployment = "" },
	}
	for name, mutate := range mutations {
		cfg := validConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
