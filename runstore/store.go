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


package runstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const (
	runPrefix    = "run"
	logPrefix    = "runlog"
	logSeqName   = "runlogseq"
	seqBandwidth = 100
)

// ErrNotFound is returned when no run with the requested ID exists.
var ErrNotFound = errors.New("runstore: run not found")

// Store persists run records and their log streams.
type Store struct {
	db     *badger.DB
	logSeq *badger.Sequence
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens the run store at the given directory, creating it if needed.
// With inMemory set, path is ignored and nothing touches disk.
func Open(path string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(path, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(path)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		opts = badger.DefaultOptions(path)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	logSeq, err := db.GetSequence([]byte(logSeqName), seqBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		logSeq: logSeq,
		logger: slog.Default().With("component", "runstore"),
	}, nil
}

// Close releases the sequence and closes the database.
func (s *Store) Close() error {
	if err := s.logSeq.Release(); err != nil {
		s.logger.Warn("failed to release log sequence", "err", err)
	}
	return s.db.Close()
}

func makeRunKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", runPrefix, id))
}

// makeLogKey builds a composite key for a log entry.
// Format: prefix:runID:seq, with seq in BigEndian so iteration order
// matches append order.
func makeLogKey(runID string, seq uint64) []byte {
	prefix := []byte(fmt.Sprintf("%s:%s:", logPrefix, runID))
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// Put writes or overwrites a run record.
func (s *Store) Put(record *RunRecord) error {
	if record.ID == "" {
		return errors.New("runstore: record has no ID")
	}
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeRunKey(record.ID), MarshalRunRecord(record))
	})
}

// Get fetches a run record by ID.
func (s *Store) Get(id string) (*RunRecord, error) {
	var record *RunRecord
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRunKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = UnmarshalRunRecord(val)
			return err
		})
	})
	return record, err
}

// List returns every run record, most recently started first.
func (s *Store) List() ([]*RunRecord, error) {
	var records []*RunRecord
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runPrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				record, err := UnmarshalRunRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}

// AppendLog adds an entry to a run's log stream.
func (s *Store) AppendLog(runID string, entry *LogEntry) error {
	seq, err := s.logSeq.Next()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeLogKey(runID, seq), MarshalLogEntry(entry))
	})
}

// Logs returns a run's log entries in append order.
func (s *Store) Logs(runID string) ([]*LogEntry, error) {
	var entries []*LogEntry
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(fmt.Sprintf("%s:%s:", logPrefix, runID))
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				entry, err := UnmarshalLogEntry(val)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return entries, err
}
