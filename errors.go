package main

import (
	"errors"
	"fmt"
)

// ScanError means one side of the sync could not be enumerated. It aborts
// the whole run since a partial manifest must never reach the diff.
type ScanError struct {
	Side string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s scan failed: %s", e.Side, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// InvalidPathError marks a path that cannot be mapped to an object key.
// The offending entry is logged and skipped, the run continues.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// TransientError wraps failures worth retrying: throttling, timeouts,
// server-side errors. Produced by the storage adapters.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError wraps failures a retry cannot fix: access denied, missing
// bucket, bad key, local disk problems.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func isTransient(err error) bool {
	var transientErr *TransientError
	return errors.As(err, &transientErr)
}
