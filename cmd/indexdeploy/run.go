package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/urfave/cli/v2"

	"indexdeploy/ai"
	"indexdeploy/ai/azure"
	"indexdeploy/config"
	"indexdeploy/enrich"
	"indexdeploy/gitlab"
	"indexdeploy/jenkins"
	"indexdeploy/pipeline"
	"indexdeploy/progress"
	"indexdeploy/publish"
	"indexdeploy/runstore"
	"indexdeploy/source"
	"indexdeploy/staging"
)

// runCommand executes one full deployment under an exclusive lock, with
// every stage recorded in the run store.
func runCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Runs.Dir, 0o755); err != nil {
		return fmt.Errorf("create runs directory: %w", err)
	}

	// One pipeline at a time; a second invocation exits instead of queuing.
	lock := flock.New(filepath.Join(cfg.Runs.Dir, "indexdeploy.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another run is already in progress")
	}
	defer lock.Unlock()

	store, err := runstore.Open(filepath.Join(cfg.Runs.Dir, "db"), false)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	record := runstore.NewRunRecord()
	if err := store.Put(record); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	slog.Info("run started", "run", record.ID)

	sink := progress.Multi(
		progress.NewLogSink(nil),
		runstore.NewSink(store, record),
	)

	p, provider, err := buildPipeline(cfg, sink)
	if err != nil {
		return err
	}
	defer provider.Close()

	summary, runErr := p.Run(c.Context)

	record.FinishedAt = time.Now()
	if runErr != nil {
		record.Status = runstore.StatusFailed
		record.Error = runErr.Error()

		var failure *pipeline.Failure
		if errors.As(runErr, &failure) && len(failure.ManualReverts) > 0 {
			printManualReverts(failure.ManualReverts)
		}
	} else {
		record.Status = runstore.StatusSucceeded
		record.Stats = summary.Stats
		record.Tag = summary.Tag
		record.Commits = summary.Commits
	}
	if err := store.Put(record); err != nil {
		slog.Warn("failed to persist run record", "run", record.ID, "err", err)
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("run %s finished: %d records published, %d deleted, release %s\n",
		record.ID, summary.Stats.CreatedCount, summary.Stats.DeletedCount, summary.Tag)
	return nil
}

// buildPipeline assembles the production pipeline from configuration.
// The returned provider must be closed by the caller.
func buildPipeline(cfg *config.Config, sink progress.Sink) (*pipeline.Pipeline, ai.Provider, error) {
	provider, err := azure.NewProvider(&ai.Config{
		Endpoint:            cfg.Azure.Endpoint,
		APIKey:              cfg.Azure.APIKey,
		APIVersion:          cfg.Azure.APIVersion,
		EmbeddingDeployment: cfg.Azure.EmbeddingDeployment,
		ChatDeployment:      cfg.Azure.ChatDeployment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("azure provider: %w", err)
	}

	enricher, err := enrich.New(provider.Embedder(), provider.KeywordExtractor(),
		enrich.WithWorkers(cfg.Enrich.Workers),
		enrich.WithEmbeddingRetry(enrich.RetryPolicy{
			MaxAttempts: cfg.Enrich.EmbedMaxAttempts,
			Backoff:     cfg.Enrich.EmbedBackoff(),
		}),
		enrich.WithKeywordRetry(enrich.RetryPolicy{
			MaxAttempts: cfg.Enrich.KeywordMaxAttempts,
			Backoff:     cfg.Enrich.KeywordBackoff(),
		}),
		enrich.WithSink(sink),
		enrich.WithStepIndex(pipeline.StepEnrich),
	)
	if err != nil {
		provider.Close()
		return nil, nil, err
	}

	gitlabClient, err := gitlab.NewClient(cfg.GitLab.BaseURL, cfg.GitLab.ProjectID, cfg.GitLab.Token)
	if err != nil {
		provider.Close()
		return nil, nil, err
	}

	jenkinsClient, err := jenkins.NewClient(cfg.Jenkins.BaseURL, cfg.Jenkins.JobPath,
		cfg.Jenkins.User, cfg.Jenkins.Token,
		jenkins.WithPollInterval(cfg.Jenkins.PollInterval()))
	if err != nil {
		provider.Close()
		return nil, nil, err
	}

	location, err := cfg.Location()
	if err != nil {
		provider.Close()
		return nil, nil, err
	}

	p, err := pipeline.New(
		source.NewLoader(cfg.Input.Dir, nil),
		cfg.Input.ManifestPath,
		enricher,
		staging.NewWriter(cfg.Input.StagingDir),
		publish.NewBatcher(gitlabClient, cfg.GitLab.Branch, cfg.GitLab.CommitMessage, cfg.GitLab.BatchSize, sink),
		publish.NewCoordinator(gitlabClient, cfg.GitLab.Branch, sink),
		publish.NewTagger(gitlabClient, cfg.GitLab.Branch, cfg.Release.TagMessage, location),
		pipeline.NewJenkinsDeployer(jenkinsClient, cfg.Jenkins.GitUser, cfg.Jenkins.GitToken,
			cfg.Jenkins.QueueTimeout(), cfg.Jenkins.BuildTimeout()),
		sink,
	)
	if err != nil {
		provider.Close()
		return nil, nil, err
	}
	return p, provider, nil
}

func printManualReverts(reverts []publish.ManualRevert) {
	fmt.Fprintln(os.Stderr, "the following commits could not be reverted and need manual action:")
	for _, r := range reverts {
		fmt.Fprintf(os.Stderr, "  %s  (%s)\n", r.SHA, r.Reason)
	}
}
