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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDate indicates an input date column is not in YYYYMMDD form.
	ErrInvalidDate = errors.New("invalid input date")

	// ErrMissingRagID indicates an artifact was built from a row without an
	// assigned identifier.
	ErrMissingRagID = errors.New("row has no assigned rag_id")

	// ErrInvalidTag indicates a tag name does not match the NNN-YYYYMMDD shape.
	ErrInvalidTag = errors.New("invalid release tag name")
)
