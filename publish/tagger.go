package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"indexdeploy/core"
	"indexdeploy/gitlab"
)

// TagAPI is the slice of the GitLab client the tagger needs.
type TagAPI interface {
	ListTags(ctx context.Context) ([]gitlab.Tag, error)
	CreateTag(ctx context.Context, name, ref, message string) error
}

// TagPlan is the outcome of scanning the repository's existing tags.
type TagPlan struct {
	// Next is the tag this run should create.
	Next core.ReleaseTag

	// Previous is the name of the highest existing release tag, empty
	// when none of the tags follow the release scheme.
	Previous string
}

// Tagger plans and creates release tags.
type Tagger struct {
	tags     TagAPI
	branch   string
	message  string
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewTagger creates a tagger that tags branch. The tag date is rendered in
// the given location.
func NewTagger(tags TagAPI, branch, message string, location *time.Location) *Tagger {
	if location == nil {
		location = time.Local
	}
	return &Tagger{
		tags:     tags,
		branch:   branch,
		message:  message,
		location: location,
		now:      time.Now,
		logger:   slog.Default().With("component", "tagger"),
	}
}

// Plan scans existing tags and derives the next release tag. Tag names
// that don't follow the NNN-YYYYMMDD scheme are skipped; the sequence is
// always the highest parseable sequence plus one, regardless of date.
func (t *Tagger) Plan(ctx context.Context) (TagPlan, error) {
	existing, err := t.tags.ListTags(ctx)
	if err != nil {
		return TagPlan{}, fmt.Errorf("tag plan: %w", err)
	}

	maxSeq := 0
	previous := ""
	for _, tag := range existing {
		parsed, err := core.ParseTag(tag.Name)
		if err != nil {
			t.logger.Debug("skipping non-release tag", "name", tag.Name)
			continue
		}
		if parsed.Sequence > maxSeq {
			maxSeq = parsed.Sequence
			previous = tag.Name
		}
	}

	plan := TagPlan{
		Next: core.ReleaseTag{
			Sequence: maxSeq + 1,
			Date:     t.now().In(t.location),
		},
		Previous: previous,
	}
	t.logger.Info("planned release tag", "next", plan.Next.Name(), "previous", previous)
	return plan, nil
}

// EnsureTag creates the tag; an already-existing tag of the same name is
// success, so re-running a partially finished deployment converges.
func (t *Tagger) EnsureTag(ctx context.Context, tag core.ReleaseTag) error {
	if err := t.tags.CreateTag(ctx, tag.Name(), t.branch, t.message); err != nil {
		return fmt.Errorf("ensure tag %s: %w", tag.Name(), err)
	}
	return nil
}
