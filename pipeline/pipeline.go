// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package pipeline runs one content deployment end to end: reconcile the
// tabular input, assign identifiers, enrich, stage, publish in batches,
// tag the release, and trigger the deployment job. Once the first commit
// lands, any later failure rolls the published commits back before the
// run reports its error.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"indexdeploy/core"
	"indexdeploy/enrich"
	"indexdeploy/manifest"
	"indexdeploy/progress"
	"indexdeploy/publish"
	"indexdeploy/source"
	"indexdeploy/staging"
)

// Deployer triggers the deployment job for a tagged release and waits for
// a passing result. oldTag is the previous release tag the job diffs
// against, empty on the first release.
type Deployer interface {
	Deploy(ctx context.Context, newTag, oldTag string) error
}

// Pipeline wires the run's stages together.
type Pipeline struct {
	loader       *source.Loader
	manifestPath string
	enricher     *enrich.Enricher
	stager       *staging.Writer
	batcher      *publish.Batcher
	coordinator  *publish.Coordinator
	tagger       *publish.Tagger
	deployer     Deployer
	sink         progress.Sink
	logger       *slog.Logger
}

// New assembles a pipeline. Every component is required except sink,
// which defaults to progress.Nop.
func New(
	loader *source.Loader,
	manifestPath string,
	enricher *enrich.Enricher,
	stager *staging.Writer,
	batcher *publish.Batcher,
	coordinator *publish.Coordinator,
	tagger *publish.Tagger,
	deployer Deployer,
	sink progress.Sink,
) (*Pipeline, error) {
	if loader == nil || enricher == nil || stager == nil ||
		batcher == nil || coordinator == nil || tagger == nil || deployer == nil {
		return nil, errors.New("pipeline: all components are required")
	}
	if sink == nil {
		sink = progress.Nop{}
	}
	return &Pipeline{
		loader:       loader,
		manifestPath: manifestPath,
		enricher:     enricher,
		stager:       stager,
		batcher:      batcher,
		coordinator:  coordinator,
		tagger:       tagger,
		deployer:     deployer,
		sink:         sink,
		logger:       slog.Default().With("component", "pipeline"),
	}, nil
}

// Overall progress bands per step. The exact numbers only need to be
// monotonic; operators read them as "roughly how far along".
const (
	pctReconcile = 5
	pctEnriched  = 50
	pctStaged    = 60
	pctPublished = 80
	pctTagged    = 85
	pctDeployed  = 100
)

// Step indexes reported to the progress sink, in run order. StepEnrich is
// also what an enricher sharing the pipeline's sink should report under.
const (
	StepReconcile = iota + 1
	StepEnrich
	StepStage
	StepPublish
	StepDeploy
)

// Run executes one deployment. The returned error, when non-nil, is
// always a *Failure.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	// The staging directory never survives a run, success or not.
	defer func() {
		if err := p.stager.Clean(); err != nil {
			p.logger.Warn("failed to clean staging directory", "err", err)
		}
	}()

	// Reconcile input.
	p.sink.UpdateStep("reconcile", StepReconcile, 0, 0)
	table, err := p.loader.Load()
	if err != nil {
		return nil, p.fail(FailureValidation, err)
	}
	rec, err := p.loader.Reconcile(table)
	if err != nil {
		return nil, p.fail(FailureValidation, err)
	}
	p.sink.UpdateStep("reconcile", StepReconcile, 100, 0)
	p.sink.LogInfo("reconcile",
		fmt.Sprintf("%d new rows, %d superseded, %d duplicates flagged",
			len(rec.NewRows), len(rec.SupersededIDs), rec.DuplicateRows), pctReconcile)

	// Assign identifiers and record the audit manifest. The manifest is
	// advisory; its failure never stops the run.
	rows := manifest.AssignIDs(rec.NewRows)
	manifest.WriteAdvisory(p.manifestPath, rows, p.logger)

	stats := core.RunStats{
		RecordCount:  len(rows),
		CreatedCount: len(rows),
		DeletedCount: len(rec.SupersededIDs),
	}
	p.sink.UpdateStats(stats)

	if len(rows) == 0 && len(rec.SupersededIDs) == 0 {
		p.sink.LogInfo("reconcile", "nothing to publish", pctDeployed)
		return &Summary{Stats: stats}, nil
	}

	// Build and enrich artifacts.
	artifacts := make([]core.Artifact, 0, len(rows))
	for _, row := range rows {
		artifact, err := core.BuildArtifact(row)
		if err != nil {
			return nil, p.fail(FailureValidation, fmt.Errorf("row %s: %w", row.ThreadID, err))
		}
		artifacts = append(artifacts, *artifact)
	}

	p.sink.UpdateStep("enrich", StepEnrich, 0, 0)
	if err := p.enricher.EnrichEmbeddings(ctx, artifacts); err != nil {
		return nil, p.fail(FailureEnrichment, err)
	}
	if err := p.enricher.EnrichKeywords(ctx, artifacts); err != nil {
		return nil, p.fail(FailureEnrichment, err)
	}
	p.sink.UpdateStep("enrich", StepEnrich, 100, 0)
	p.sink.LogInfo("enrich", fmt.Sprintf("%d artifacts enriched", len(artifacts)), pctEnriched)

	// Stage.
	p.sink.UpdateStep("stage", StepStage, 0, 0)
	if err := p.stager.WriteAll(artifacts); err != nil {
		return nil, p.fail(FailureInternal, err)
	}
	actions, err := publish.BuildActions(p.stager, artifacts, rec.SupersededIDs)
	if err != nil {
		return nil, p.fail(FailureInternal, err)
	}
	p.sink.UpdateStep("stage", StepStage, 100, 0)
	p.sink.LogInfo("stage", fmt.Sprintf("%d actions staged", len(actions)), pctStaged)

	// Plan the release tag before committing anything, so a tag-listing
	// outage fails the run while it is still trivially restartable.
	plan, err := p.tagger.Plan(ctx)
	if err != nil {
		return nil, p.fail(FailurePublication, err)
	}

	// Publish.
	p.sink.UpdateStep("publish", StepPublish, 0, 0)
	ledger, err := p.batcher.Publish(ctx, actions)
	if err != nil {
		return nil, p.failWithRollback(ctx, FailurePublication, err, ledger)
	}
	p.sink.UpdateStep("publish", StepPublish, 100, 0)
	p.sink.LogInfo("publish", fmt.Sprintf("%d commits landed", len(ledger)), pctPublished)

	// Tag.
	if err := p.tagger.EnsureTag(ctx, plan.Next); err != nil {
		return nil, p.failWithRollback(ctx, FailurePublication, err, ledger)
	}
	tag := plan.Next.Name()
	p.sink.LogInfo("tag", fmt.Sprintf("release tagged %s", tag), pctTagged)

	// Deploy.
	p.sink.UpdateStep("deploy", StepDeploy, 0, 0)
	if err := p.deployer.Deploy(ctx, tag, plan.Previous); err != nil {
		return nil, p.failWithRollback(ctx, FailureDeploy, err, ledger)
	}
	p.sink.UpdateStep("deploy", StepDeploy, 100, 0)
	p.sink.LogInfo("deploy", "deployment succeeded", pctDeployed)

	return &Summary{
		Stats:   stats,
		Tag:     tag,
		Commits: ledger,
	}, nil
}

func (p *Pipeline) fail(kind FailureKind, err error) *Failure {
	p.sink.LogError(string(kind), err.Error(), 0)
	p.logger.Error("run failed", "kind", kind, "err", err)
	return &Failure{Kind: kind, Err: err}
}

// failWithRollback unwinds any landed commits before reporting the error.
func (p *Pipeline) failWithRollback(ctx context.Context, kind FailureKind, err error, ledger publish.RollbackLedger) *Failure {
	failure := p.fail(kind, err)
	if len(ledger) == 0 {
		return failure
	}

	p.sink.LogWarning("rollback",
		fmt.Sprintf("rolling back %d commit(s)", len(ledger)), 0)
	failure.ManualReverts = p.coordinator.Rollback(ctx, ledger)
	return failure
}
