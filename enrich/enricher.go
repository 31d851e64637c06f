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


package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"indexdeploy/ai"
	"indexdeploy/core"
	"indexdeploy/progress"
)

// Enricher runs the embedding and keyword stages over a set of artifacts.
type Enricher struct {
	embedder      ai.Embedder
	extractor     ai.KeywordExtractor
	workers       int
	embedPolicy   RetryPolicy
	keywordPolicy RetryPolicy
	sink          progress.Sink
	stepIndex     int
	logger        *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithWorkers sets the worker pool size for both stages.
// Default is 4, minimum is 1.
func WithWorkers(n int) Option {
	return func(e *Enricher) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithEmbeddingRetry sets the per-artifact retry policy for embeddings.
func WithEmbeddingRetry(policy RetryPolicy) Option {
	return func(e *Enricher) {
		e.embedPolicy = policy
	}
}

// WithKeywordRetry sets the per-artifact retry policy for keywords.
func WithKeywordRetry(policy RetryPolicy) Option {
	return func(e *Enricher) {
		e.keywordPolicy = policy
	}
}

// WithSink sets the progress sink. Default is progress.Nop.
func WithSink(sink progress.Sink) Option {
	return func(e *Enricher) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithStepIndex sets the step index reported alongside per-artifact
// progress, so the enricher's updates slot into the caller's step order.
func WithStepIndex(n int) Option {
	return func(e *Enricher) {
		e.stepIndex = n
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an enricher over the given AI services.
func New(embedder ai.Embedder, extractor ai.KeywordExtractor, opts ...Option) (*Enricher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	e := &Enricher{
		embedder:      embedder,
		extractor:     extractor,
		workers:       4,
		embedPolicy:   RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second},
		keywordPolicy: RetryPolicy{MaxAttempts: 60, Backoff: time.Second},
		sink:          progress.Nop{},
		logger:        slog.Default().With("component", "enricher"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// EnrichEmbeddings populates Embedding on every artifact, in place.
// Any artifact that exhausts its retry budget fails the whole stage.
func (e *Enricher) EnrichEmbeddings(ctx context.Context, artifacts []core.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	pool, err := ants.NewPool(e.workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	errs := make([]error, len(artifacts))
	prog := e.newStageProgress("embedding", len(artifacts))
	var wg sync.WaitGroup

	for i := range artifacts {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			errs[i] = e.embedOne(ctx, &artifacts[i])
			prog.advance()
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			e.sink.LogError("embedding", fmt.Sprintf("embedding failed for %s: %v", artifacts[i].RagID, err), 0)
			return fmt.Errorf("embedding enrichment failed for %s: %w", artifacts[i].RagID, err)
		}
	}

	e.logger.Info("embedding stage complete", "artifacts", len(artifacts))
	return nil
}

func (e *Enricher) embedOne(ctx context.Context, artifact *core.Artifact) error {
	text := CleanForEmbedding(artifact.Content)
	return e.embedPolicy.Do(ctx, func() error {
		vector, err := e.embedder.EmbedText(ctx, text)
		if err != nil {
			return err
		}
		if len(vector) == 0 {
			return fmt.Errorf("embedder returned an empty vector")
		}
		artifact.Embedding = vector
		return nil
	})
}

// EnrichKeywords populates Keywords on every artifact, in place.
// Exhausted artifacts keep an empty keyword list; the run continues.
// An error is returned only when the context is cancelled.
func (e *Enricher) EnrichKeywords(ctx context.Context, artifacts []core.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	pool, err := ants.NewPool(e.workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	errs := make([]error, len(artifacts))
	prog := e.newStageProgress("keywords", len(artifacts))
	var wg sync.WaitGroup

	for i := range artifacts {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			errs[i] = e.keywordsOne(ctx, &artifacts[i])
			prog.advance()
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.sink.LogWarning("keywords",
			fmt.Sprintf("keyword extraction gave up for %s, continuing with empty keywords: %v", artifacts[i].RagID, err), 0)
		artifacts[i].Keywords = []string{}
	}

	e.logger.Info("keyword stage complete", "artifacts", len(artifacts))
	return nil
}

// stageProgress reports per-artifact completion for one enrichment stage.
// advance is called from pool workers; the sink contract requires
// concurrency safety, so only the counter needs coordination here.
type stageProgress struct {
	sink      progress.Sink
	step      string
	stepIndex int
	total     int
	started   time.Time
	done      atomic.Int64
}

func (e *Enricher) newStageProgress(step string, total int) *stageProgress {
	return &stageProgress{
		sink:      e.sink,
		step:      step,
		stepIndex: e.stepIndex,
		total:     total,
		started:   time.Now(),
	}
}

func (p *stageProgress) advance() {
	done := int(p.done.Add(1))
	remaining := 0
	if done < p.total {
		perArtifact := time.Since(p.started) / time.Duration(done)
		remaining = int((perArtifact * time.Duration(p.total-done)).Round(time.Second).Seconds())
	}
	p.sink.UpdateStep(p.step, p.stepIndex, done*100/p.total, remaining)
}

func (e *Enricher) keywordsOne(ctx context.Context, artifact *core.Artifact) error {
	return e.keywordPolicy.Do(ctx, func() error {
		keywords, err := e.extractor.ExtractKeywords(ctx, artifact.Content)
		if err != nil {
			return err
		}
		artifact.Keywords = keywords
		return nil
	})
}
