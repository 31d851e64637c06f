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


// Package ai provides abstractions for the AI services used during
// enrichment.
//
// Two interfaces carry the enrichment contract:
//
//   - Embedder: generates vector embeddings from text
//   - KeywordExtractor: extracts a keyword list from content
//
// Pipeline code depends only on these interfaces. Two implementation
// sub-packages exist:
//
//   - ai/azure: production implementation over Azure OpenAI deployments
//   - ai/mock: test doubles for unit testing without external services
//
// Production constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior and
// assert call counts.
package ai
