package mock

import (
	"context"
	"strings"
	"sync/atomic"
)

// MockKeywordExtractor is a test double for ai.KeywordExtractor.
// It allows custom behavior injection via function fields.
type MockKeywordExtractor struct {
	// ExtractKeywordsFunc is called by ExtractKeywords if set.
	// If nil, uses default word-splitting behavior.
	ExtractKeywordsFunc func(ctx context.Context, content string) ([]string, error)

	callCount atomic.Int64
}

// NewMockKeywordExtractor creates a mock extractor with default behavior.
func NewMockKeywordExtractor() *MockKeywordExtractor {
	return &MockKeywordExtractor{}
}

// ExtractKeywords returns up to five distinct words from the content.
func (m *MockKeywordExtractor) ExtractKeywords(ctx context.Context, content string) ([]string, error) {
	m.callCount.Add(1)

	if m.ExtractKeywordsFunc != nil {
		return m.ExtractKeywordsFunc(ctx, content)
	}

	keywords := []string{}
	seen := make(map[string]bool)
	for _, word := range strings.Fields(content) {
		word = strings.ToLower(strings.Trim(word, ".,!?;:"))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == 5 {
			break
		}
	}
	return keywords, nil
}

// CallCount returns the number of times ExtractKeywords was called.
func (m *MockKeywordExtractor) CallCount() int {
	return int(m.callCount.Load())
}
