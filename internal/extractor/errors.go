package extractor

import (
	"fmt"

	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
)

type ParseErrorCause string

const (
	ErrCauseNotHTML ParseErrorCause = "not parseable as HTML"
)

type ParseError struct {
	Message   string
	Retryable bool
	Cause     ParseErrorCause
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapParseErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapParseErrorToMetadataCause(err *ParseError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNotHTML:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
