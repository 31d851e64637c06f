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


package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"indexdeploy/ai"
)

// KeywordExtractor implements ai.KeywordExtractor using an Azure OpenAI
// chat deployment.
type KeywordExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// newKeywordExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newKeywordExtractor(config *ai.Config) (*KeywordExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithBaseURL(config.Endpoint),
		openai.WithToken(config.APIKey),
		openai.WithAPIVersion(config.APIVersion),
		openai.WithModel(config.ChatDeployment),
	)
	if err != nil {
		return nil, err
	}

	return &KeywordExtractor{
		client: client,
		logger: slog.Default().With("component", "azure-extractor"),
	}, nil
}

// NewKeywordExtractor creates a new keyword extractor using the provided
// configuration.
//
// Returns ai.KeywordExtractor interface to enforce abstraction.
func NewKeywordExtractor(config *ai.Config) (ai.KeywordExtractor, error) {
	return newKeywordExtractor(config)
}

// ExtractKeywords sends content to the chat deployment and parses the
// response as a flat JSON array of keyword strings. Any other response
// shape is an error; the caller owns the retry budget, so this is a
// single-shot call.
func (e *KeywordExtractor) ExtractKeywords(ctx context.Context, content string) ([]string, error) {
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(keywordSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(content),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, messages,
		llms.WithTemperature(0.0),
		llms.WithJSONMode())
	if err != nil {
		e.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		return nil, fmt.Errorf("keyword extraction: model returned no choices")
	}

	keywords, err := parseKeywordResponse(response.Choices[0].Content)
	if err != nil {
		e.logger.Warn("error parsing keyword response",
			"response", response.Choices[0].Content,
			"err", err)
		return nil, err
	}

	e.logger.Debug("extracted keywords", "count", len(keywords))
	return keywords, nil
}

// parseKeywordResponse strips markdown code fences and decodes the payload
// as a JSON array of strings.
func parseKeywordResponse(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var keywords []string
	if err := json.Unmarshal([]byte(text), &keywords); err != nil {
		return nil, fmt.Errorf("keyword extraction: response is not a JSON array of strings: %w", err)
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords, nil
}
