package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a content-based hash used for advisory duplicate detection.
type Fingerprint uint64

// RowFingerprint derives a deterministic fingerprint from every field of a
// row, so byte-identical rows collide and nothing else realistically does.
func RowFingerprint(row ContentRow) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	fields := []string{
		row.RagID, row.ThreadID, row.GroupID, row.UpdateTimestamp,
		row.Content, row.ContentEN,
		row.CategoryLarge, row.CategoryMedium, row.CategorySmall,
		row.EffectiveStart, row.EffectiveEnd,
	}
	h.Write([]byte(strings.Join(fields, "\x1f")))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}
