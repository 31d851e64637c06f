package pipeline

import (
	"fmt"

	"indexdeploy/core"
	"indexdeploy/publish"
)

// FailureKind classifies where a run died. The distinction matters to the
// operator: a validation failure means fix the input and re-run, a
// publication or deploy failure means check what the rollback left behind.
type FailureKind string

const (
	FailureValidation  FailureKind = "validation"
	FailureEnrichment  FailureKind = "enrichment"
	FailurePublication FailureKind = "publication"
	FailureDeploy      FailureKind = "deploy"
	FailureInternal    FailureKind = "internal"
)

// Failure wraps a run-aborting error with its classification and, when a
// rollback ran, the commits that still need manual attention.
type Failure struct {
	Kind          FailureKind
	Err           error
	ManualReverts []publish.ManualRevert
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Summary describes a finished run.
type Summary struct {
	Stats   core.RunStats
	Tag     string
	Commits publish.RollbackLedger
}
