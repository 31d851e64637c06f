package enrich

import "errors"

var (
	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("enrich: embedder is required")

	// ErrExtractorRequired is returned when no keyword extractor is provided.
	ErrExtractorRequired = errors.New("enrich: keyword extractor is required")

	// ErrInvalidMaxAttempts is returned when a retry policy has a
	// non-positive attempt budget.
	ErrInvalidMaxAttempts = errors.New("enrich: max attempts must be > 0")
)
