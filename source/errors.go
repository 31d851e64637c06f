package source

import "errors"

var (
	// ErrNoInputFiles is returned when the input directory holds no tabular files.
	ErrNoInputFiles = errors.New("no input files found")

	// ErrMissingColumns is returned when a required column is absent.
	ErrMissingColumns = errors.New("required columns missing")
)
