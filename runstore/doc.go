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


// Package runstore persists deployment run history in a local BadgerDB
// database: one record per run plus an ordered log stream. The stored
// commit list is what makes a later `rollback` command possible after the
// process that published them has exited.
//
// Records are serialized with the MUS format. The store also provides a
// progress sink so pipeline log lines land in the run's log stream as they
// happen.
package runstore
