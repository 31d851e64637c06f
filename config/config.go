package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the complete, immutable configuration for one pipeline run.
// It is built once by Load and handed to component constructors; no
// component reads ambient process state after startup.
type Config struct {
	Input   Input   `toml:"input"`
	Azure   Azure   `toml:"azure"`
	GitLab  GitLab  `toml:"gitlab"`
	Jenkins Jenkins `toml:"jenkins"`
	Enrich  Enrich  `toml:"enrich"`
	Release Release `toml:"release"`
	Runs    Runs    `toml:"runs"`
}

// Input configures the local directories the pipeline reads and writes.
type Input struct {
	Dir          string `toml:"dir"`
	StagingDir   string `toml:"staging_dir"`
	ManifestPath string `toml:"manifest_path"`
}

// Azure configures the Azure OpenAI services used for enrichment.
type Azure struct {
	Endpoint            string `toml:"endpoint"`
	APIKey              string `toml:"api_key"`
	APIVersion          string `toml:"api_version"`
	EmbeddingDeployment string `toml:"embedding_deployment"`
	ChatDeployment      string `toml:"chat_deployment"`
}

// GitLab configures the remote content store.
type GitLab struct {
	BaseURL       string `toml:"base_url"`
	ProjectID     string `toml:"project_id"`
	Token         string `toml:"token"`
	Branch        string `toml:"branch"`
	BatchSize     int    `toml:"batch_size"`
	CommitMessage string `toml:"commit_message"`
}

// Jenkins configures the downstream build job.
type Jenkins struct {
	BaseURL             string `toml:"base_url"`
	JobPath             string `toml:"job_path"`
	User                string `toml:"user"`
	Token               string `toml:"token"`
	GitUser             string `toml:"git_user"`
	GitToken            string `toml:"git_token"`
	QueueTimeoutSeconds int    `toml:"queue_timeout_seconds"`
	BuildTimeoutSeconds int    `toml:"build_timeout_seconds"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
}

// QueueTimeout is the hard deadline for the queued-to-running transition.
func (j Jenkins) QueueTimeout() time.Duration {
	return time.Duration(j.QueueTimeoutSeconds) * time.Second
}

// BuildTimeout is the hard deadline for the build to reach a terminal state.
func (j Jenkins) BuildTimeout() time.Duration {
	return time.Duration(j.BuildTimeoutSeconds) * time.Second
}

// PollInterval is the delay between consecutive status polls.
func (j Jenkins) PollInterval() time.Duration {
	return time.Duration(j.PollIntervalSeconds) * time.Second
}

// Enrich configures the enrichment worker pools and retry budgets.
type Enrich struct {
	Workers               int `toml:"workers"`
	EmbedMaxAttempts      int `toml:"embed_max_attempts"`
	EmbedBackoffSeconds   int `toml:"embed_backoff_seconds"`
	KeywordMaxAttempts    int `toml:"keyword_max_attempts"`
	KeywordBackoffSeconds int `toml:"keyword_backoff_seconds"`
}

// EmbedBackoff is the fixed delay between embedding attempts.
func (e Enrich) EmbedBackoff() time.Duration {
	return time.Duration(e.EmbedBackoffSeconds) * time.Second
}

// KeywordBackoff is the fixed delay between keyword extraction attempts.
func (e Enrich) KeywordBackoff() time.Duration {
	return time.Duration(e.KeywordBackoffSeconds) * time.Second
}

// Release configures tag creation.
type Release struct {
	Timezone   string `toml:"timezone"`
	TagMessage string `toml:"tag_message"`
}

// Runs configures the local run ledger.
type Runs struct {
	Dir string `toml:"dir"`
}

// Env var names honored as overrides for credentials, so tokens can stay
// out of the config file.
const (
	EnvAzureAPIKey  = "IDXDEPLOY_AZURE_API_KEY"
	EnvGitLabToken  = "IDXDEPLOY_GITLAB_TOKEN"
	EnvJenkinsToken = "IDXDEPLOY_JENKINS_TOKEN"
	EnvGitToken     = "IDXDEPLOY_GIT_TOKEN"
)

// Load parses a TOML config file, applies credential overrides from the
// environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAzureAPIKey); v != "" {
		c.Azure.APIKey = v
	}
	if v := os.Getenv(EnvGitLabToken); v != "" {
		c.GitLab.Token = v
	}
	if v := os.Getenv(EnvJenkinsToken); v != "" {
		c.Jenkins.Token = v
	}
	if v := os.Getenv(EnvGitToken); v != "" {
		c.Jenkins.GitToken = v
	}
}

// Location resolves the configured release timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Release.Timezone == "" || c.Release.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Release.Timezone)
	if err != nil {
		return nil, fmt.Errorf("release timezone: %w", err)
	}
	return loc, nil
}

// Validate checks that the configuration is complete enough to run.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return errors.New("config: input.dir is required")
	}
	if c.Input.StagingDir == "" {
		return errors.New("config: input.staging_dir is required")
	}
	if c.Azure.Endpoint == "" {
		return errors.New("config: azure.endpoint is required")
	}
	if c.Azure.EmbeddingDeployment == "" {
		return errors.New("config: azure.embedding_deployment is required")
	}
	if c.Azure.ChatDeployment == "" {
		return errors.New("config: azure.chat_deployment is required")
	}
	if c.GitLab.BaseURL == "" {
		return errors.New("config: gitlab.base_url is required")
	}
	if c.GitLab.ProjectID == "" {
		return errors.New("config: gitlab.project_id is required")
	}
	if c.GitLab.Branch == "" {
		return errors.New("config: gitlab.branch is required")
	}
	if c.GitLab.BatchSize <= 0 {
		return errors.New("config: gitlab.batch_size must be greater than 0")
	}
	if c.Jenkins.BaseURL == "" {
		return errors.New("config: jenkins.base_url is required")
	}
	if c.Jenkins.JobPath == "" {
		return errors.New("config: jenkins.job_path is required")
	}
	if c.Jenkins.QueueTimeoutSeconds <= 0 || c.Jenkins.BuildTimeoutSeconds <= 0 {
		return errors.New("config: jenkins timeouts must be greater than 0")
	}
	if c.Jenkins.PollIntervalSeconds <= 0 {
		return errors.New("config: jenkins.poll_interval_seconds must be greater than 0")
	}
	if c.Enrich.Workers <= 0 {
		return errors.New("config: enrich.workers must be greater than 0")
	}
	if c.Enrich.EmbedMaxAttempts <= 0 || c.Enrich.KeywordMaxAttempts <= 0 {
		return errors.New("config: enrich retry attempts must be greater than 0")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
