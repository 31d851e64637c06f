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


// Package staging materializes enriched artifacts as JSON files in a local
// staging directory before publication. One file per artifact, named by its
// identifier. The directory is transient; the pipeline sweeps it after every
// run, successful or not.
package staging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"indexdeploy/core"
)

// Writer serializes artifacts into a staging directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer rooted at dir. The directory is created on
// first write, not here.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:    dir,
		logger: slog.Default().With("component", "staging"),
	}
}

// Dir returns the staging directory path.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteAll serializes every artifact to <dir>/<rag_id>.json, overwriting
// leftovers from an earlier run. Any failure aborts the whole stage.
func (w *Writer) WriteAll(artifacts []core.Artifact) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("staging: create directory: %w", err)
	}

	for i := range artifacts {
		if err := w.write(&artifacts[i]); err != nil {
			return err
		}
	}

	w.logger.Info("staged artifacts", "count", len(artifacts), "dir", w.dir)
	return nil
}

func (w *Writer) write(artifact *core.Artifact) error {
	if artifact.RagID == "" {
		return fmt.Errorf("staging: %w", core.ErrMissingRagID)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("staging: marshal %s: %w", artifact.RagID, err)
	}

	path := filepath.Join(w.dir, artifact.FileName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("staging: write %s: %w", artifact.RagID, err)
	}
	return nil
}

// Read loads a staged artifact's raw JSON by identifier.
func (w *Writer) Read(ragID string) ([]byte, error) {
	return os.ReadFile(filepath.Join(w.dir, ragID+".json"))
}

// Clean removes every staged file. Missing directory is not an error.
func (w *Writer) Clean() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("staging: clean: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, entry.Name())); err != nil {
			return fmt.Errorf("staging: clean: %w", err)
		}
	}

	w.logger.Debug("staging directory cleaned", "dir", w.dir)
	return nil
}
