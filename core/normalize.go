package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var tagPattern = regexp.MustCompile(`^(\d{3})-(\d{8})$`)

// ParseCategoryID normalizes a raw category cell to an integer code string.
// Integer-like values (including "3.0" style spreadsheet exports) become
// their decimal form; blanks, the no-category marker, and anything
// non-integral become NoCategory.
func ParseCategoryID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == NoCategory {
		return NoCategory
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return NoCategory
	}
	if f != float64(int64(f)) {
		return NoCategory
	}
	return strconv.FormatInt(int64(f), 10)
}

// FormatInputDate converts a YYYYMMDD source date to YYYY-MM-DD.
func FormatInputDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse("20060102", raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t.Format("2006-01-02"), nil
}

// ParseTag parses a NNN-YYYYMMDD tag name. Names outside that shape,
// including the repository's bootstrap sentinel tag, return ErrInvalidTag.
func ParseTag(name string) (ReleaseTag, error) {
	m := tagPattern.FindStringSubmatch(name)
	if m == nil {
		return ReleaseTag{}, fmt.Errorf("%w: %q", ErrInvalidTag, name)
	}
	seq, err := strconv.Atoi(m[1])
	if err != nil {
		return ReleaseTag{}, fmt.Errorf("%w: %q", ErrInvalidTag, name)
	}
	date, err := time.Parse("20060102", m[2])
	if err != nil {
		return ReleaseTag{}, fmt.Errorf("%w: %q", ErrInvalidTag, name)
	}
	return ReleaseTag{Sequence: seq, Date: date}, nil
}
