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


// Package enrich populates index artifacts with AI-derived fields.
//
// Two stages run over the artifact set, each on its own worker pool:
//
//   - Embeddings: every artifact must receive a vector. The stage retries
//     each artifact a small, fixed number of times; if any artifact
//     exhausts its attempts the whole stage fails, because an index record
//     without a vector is unusable.
//
//   - Keywords: best-effort. The stage retries far longer per artifact,
//     but an artifact that still fails keeps an empty keyword list and the
//     run continues with a warning.
//
// Embedding input is cleaned first: URLs and HTML markup are stripped so
// the vector reflects the prose, not the plumbing.
package enrich
