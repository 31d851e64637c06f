package runstore

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers. The schema is flat and append-only; any
// field added later must go at the end with a version bump in the key
// prefix.

var stringSliceMUS = ord.NewSliceSer[string](ord.String)

type runRecordSer struct{}

var runRecordMUS = runRecordSer{}

func (runRecordSer) Marshal(r RunRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.ID, bs)
	n += ord.String.Marshal(string(r.Status), bs[n:])
	n += varint.Int64.Marshal(r.StartedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(r.FinishedAt.UnixMicro(), bs[n:])
	n += varint.Int.Marshal(r.Stats.RecordCount, bs[n:])
	n += varint.Int.Marshal(r.Stats.CreatedCount, bs[n:])
	n += varint.Int.Marshal(r.Stats.DeletedCount, bs[n:])
	n += ord.String.Marshal(r.Tag, bs[n:])
	n += ord.String.Marshal(r.Error, bs[n:])
	n += stringSliceMUS.Marshal(r.Commits, bs[n:])
	return n
}

func (runRecordSer) Unmarshal(bs []byte) (r RunRecord, n int, err error) {
	var n1 int
	if r.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	r.Status = Status(status)

	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	r.StartedAt = time.UnixMicro(micros)

	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	r.FinishedAt = time.UnixMicro(micros)

	if r.Stats.RecordCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if r.Stats.CreatedCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if r.Stats.DeletedCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1

	if r.Tag, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if r.Error, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if r.Commits, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (runRecordSer) Size(r RunRecord) (size int) {
	size = ord.String.Size(r.ID)
	size += ord.String.Size(string(r.Status))
	size += varint.Int64.Size(r.StartedAt.UnixMicro())
	size += varint.Int64.Size(r.FinishedAt.UnixMicro())
	size += varint.Int.Size(r.Stats.RecordCount)
	size += varint.Int.Size(r.Stats.CreatedCount)
	size += varint.Int.Size(r.Stats.DeletedCount)
	size += ord.String.Size(r.Tag)
	size += ord.String.Size(r.Error)
	size += stringSliceMUS.Size(r.Commits)
	return size
}

type logEntrySer struct{}

var logEntryMUS = logEntrySer{}

func (logEntrySer) Marshal(e LogEntry, bs []byte) (n int) {
	n = varint.Int64.Marshal(e.At.UnixMicro(), bs)
	n += ord.String.Marshal(e.Level, bs[n:])
	n += ord.String.Marshal(e.Step, bs[n:])
	n += ord.String.Marshal(e.Message, bs[n:])
	return n
}

func (logEntrySer) Unmarshal(bs []byte) (e LogEntry, n int, err error) {
	var n1 int
	var micros int64
	if micros, n, err = varint.Int64.Unmarshal(bs); err != nil {
		return
	}
	e.At = time.UnixMicro(micros)

	if e.Level, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if e.Step, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if e.Message, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (logEntrySer) Size(e LogEntry) (size int) {
	size = varint.Int64.Size(e.At.UnixMicro())
	size += ord.String.Size(e.Level)
	size += ord.String.Size(e.Step)
	size += ord.String.Size(e.Message)
	return size
}

// MarshalRunRecord serializes a RunRecord to bytes.
func MarshalRunRecord(record *RunRecord) []byte {
	buf := make([]byte, runRecordMUS.Size(*record))
	runRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRunRecord deserializes a RunRecord from bytes.
func UnmarshalRunRecord(data []byte) (*RunRecord, error) {
	record, _, err := runRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalLogEntry serializes a LogEntry to bytes.
func MarshalLogEntry(entry *LogEntry) []byte {
	buf := make([]byte, logEntryMUS.Size(*entry))
	logEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalLogEntry deserializes a LogEntry from bytes.
func UnmarshalLogEntry(data []byte) (*LogEntry, error) {
	entry, _, err := logEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
