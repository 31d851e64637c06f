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


package ai

import "errors"

// Config holds configuration for the AI service provider.
type Config struct {
	// Endpoint is the base URL of the Azure OpenAI resource.
	// Example: "https://my-resource.openai.azure.com"
	Endpoint string

	// APIKey authenticates every request.
	APIKey string

	// APIVersion selects the Azure OpenAI API version.
	// Example: "2024-07-01-preview"
	APIVersion string

	// EmbeddingDeployment is the deployment name serving embeddings.
	EmbeddingDeployment string

	// ChatDeployment is the deployment name serving keyword extraction.
	ChatDeployment string
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("ai config: Endpoint is required")
	}
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.APIVersion == "" {
		return errors.New("ai config: APIVersion is required")
	}
	if c.EmbeddingDeployment == "" {
		return errors.New("ai config: EmbeddingDeployment is required")
	}
	if c.ChatDeployment == "" {
		return errors.New("ai config: ChatDeployment is required")
	}
	return nil
}
