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


// Package publish pushes staged index artifacts into the index repository.
//
// Publication is a sequence of batched commits: file actions are chunked
// and each chunk becomes one atomic GitLab commit. Every commit SHA is
// recorded in a rollback ledger as soon as it lands, so a failure midway
// leaves an exact record of what must be unwound. The rollback coordinator
// reverts ledger entries in reverse order, best-effort, and reports any
// commit it could not revert for manual follow-up.
//
// Release tags follow the NNN-YYYYMMDD scheme. The next tag is always
// max(sequence)+1 over all parseable tags; tags that do not match the
// scheme (such as the repository's initial tag) are ignored.
package publish
