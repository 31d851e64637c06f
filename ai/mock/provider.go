package mock

import "indexdeploy/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates a mock embedder and a mock keyword extractor.
type MockProvider struct {
	MockEmbedder  *MockEmbedder
	MockExtractor *MockKeywordExtractor
}

// NewMockProvider creates a provider with default mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder:  NewMockEmbedder(),
		MockExtractor: NewMockKeywordExtractor(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// KeywordExtractor returns the mock keyword extraction service.
func (p *MockProvider) KeywordExtractor() ai.KeywordExtractor {
	return p.MockExtractor
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
