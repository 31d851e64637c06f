package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[input]
dir = "in"
staging_dir = "stage"

[azure]
endpoint = "https://example.openai.azure.com"
api_key = "file-key"
embedding_deployment = "embed"
chat_deployment = "chat"

[gitlab]
base_url = "https://gitlab.example.com/api/v4"
project_id = "group%2Frepo"
token = "glpat"

[jenkins]
base_url = "https://jenkins.example.com"
job_path = "job/folder/job/deploy"
git_user = "git-bot"
git_token = "file-git-token"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "indexdeploy.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "in", cfg.Input.Dir)
	assert.Equal(t, "file-key", cfg.Azure.APIKey)
	assert.Equal(t, 100, cfg.GitLab.BatchSize, "default batch size")
	assert.Equal(t, "main", cfg.GitLab.Branch)
	assert.Equal(t, 4, cfg.Enrich.Workers)
	assert.Equal(t, 3, cfg.Enrich.EmbedMaxAttempts)
	assert.Equal(t, 60, cfg.Enrich.KeywordMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Enrich.EmbedBackoff())
	assert.Equal(t, time.Second, cfg.Enrich.KeywordBackoff())
	assert.Equal(t, 5*time.Minute, cfg.Jenkins.QueueTimeout())
	assert.Equal(t, 30*time.Minute, cfg.Jenkins.BuildTimeout())
	assert.Equal(t, "git-bot", cfg.Jenkins.GitUser)
	assert.Equal(t, "file-git-token", cfg.Jenkins.GitToken)
}

func TestLoad_EnvOverridesCredentials(t *testing.T) {
	t.Setenv(EnvGitLabToken, "env-token")
	t.Setenv(EnvAzureAPIKey, "env-key")
	t.Setenv(EnvGitToken, "env-git-token")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.GitLab.Token)
	assert.Equal(t, "env-key", cfg.Azure.APIKey)
	assert.Equal(t, "env-git-token", cfg.Jenkins.GitToken)
}

func TestLoad_MissingRequired(t *testing.T) {
	_, err := Load(writeConfig(t, `[input]`+"\n"+`dir = "in"`))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate_BadTimezone(t *testing.T) {
	body := minimalConfig + "\n[release]\ntimezone = \"Mars/Olympus\"\n"
	_, err := Load(writeConfig(t, body))
	require.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := Default()
	cfg.Release.Timezone = "Asia/Tokyo"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}
