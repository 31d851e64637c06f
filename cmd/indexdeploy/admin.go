package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"indexdeploy/config"
	"indexdeploy/gitlab"
	"indexdeploy/progress"
	"indexdeploy/publish"
	"indexdeploy/runstore"
)

// nextTagCommand prints the release tag the next run would create.
func nextTagCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	client, err := gitlab.NewClient(cfg.GitLab.BaseURL, cfg.GitLab.ProjectID, cfg.GitLab.Token)
	if err != nil {
		return err
	}
	location, err := cfg.Location()
	if err != nil {
		return err
	}

	tagger := publish.NewTagger(client, cfg.GitLab.Branch, cfg.Release.TagMessage, location)
	plan, err := tagger.Plan(c.Context)
	if err != nil {
		return err
	}

	if plan.Previous != "" {
		fmt.Printf("latest release: %s\n", plan.Previous)
	}
	fmt.Printf("next release:   %s\n", plan.Next.Name())
	return nil
}

// rollbackCommand reverts the commits of a recorded run, newest first.
func rollbackCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	store, err := runstore.Open(filepath.Join(cfg.Runs.Dir, "db"), false)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	record, err := store.Get(c.String("run"))
	if err != nil {
		return err
	}
	if len(record.Commits) == 0 {
		fmt.Printf("run %s has no recorded commits, nothing to roll back\n", record.ID)
		return nil
	}

	client, err := gitlab.NewClient(cfg.GitLab.BaseURL, cfg.GitLab.ProjectID, cfg.GitLab.Token)
	if err != nil {
		return err
	}

	coordinator := publish.NewCoordinator(client, cfg.GitLab.Branch, progress.NewLogSink(nil))
	manual := coordinator.Rollback(c.Context, record.Commits)

	record.Status = runstore.StatusRolledBack
	record.FinishedAt = time.Now()
	if err := store.Put(record); err != nil {
		return fmt.Errorf("update run record: %w", err)
	}

	if len(manual) > 0 {
		printManualReverts(manual)
		return fmt.Errorf("%d commit(s) require manual revert", len(manual))
	}
	fmt.Printf("run %s rolled back: %d commit(s) reverted\n", record.ID, len(record.Commits))
	return nil
}

// runsCommand lists recorded runs, newest first.
func runsCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	store, err := runstore.Open(filepath.Join(cfg.Runs.Dir, "db"), false)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Started", "Status", "Tag", "Created", "Deleted", "Commits"})
	for _, r := range records {
		tw.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			r.Status,
			r.Tag,
			r.Stats.CreatedCount,
			r.Stats.DeletedCount,
			len(r.Commits),
		})
	}
	tw.Render()
	return nil
}

// logsCommand prints a run's log stream in append order.
func logsCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	store, err := runstore.Open(filepath.Join(cfg.Runs.Dir, "db"), false)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	if _, err := store.Get(c.String("run")); err != nil {
		return err
	}

	entries, err := store.Logs(c.String("run"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %-7s  %-10s  %s\n",
			e.At.Format(time.RFC3339), e.Level, e.Step, e.Message)
	}
	return nil
}
