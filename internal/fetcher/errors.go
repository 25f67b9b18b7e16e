package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
)

type RetrievalErrorCause string

const (
	ErrCauseUnexpectedStatus      RetrievalErrorCause = "unexpected status"
	ErrCauseNetworkFailure        RetrievalErrorCause = "network issues"
	ErrCauseTimeout               RetrievalErrorCause = "timeout"
	ErrCauseInvalidRequest        RetrievalErrorCause = "invalid request"
	ErrCauseReadResponseBodyError RetrievalErrorCause = "failed to read response body"
	ErrCauseDecodeFailure         RetrievalErrorCause = "failed to decode response body"
)

// RetrievalError reports that the announcement could not be retrieved from the
// remote endpoint. It never carries a partial result.
//
// Retryable is informational: the fetcher itself never retries.
type RetrievalError struct {
	Message    string
	Retryable  bool
	Cause      RetrievalErrorCause
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("retrieval error: %s (status %d)", e.Cause, e.StatusCode)
	}
	return fmt.Sprintf("retrieval error: %s", e.Cause)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

func (e *RetrievalError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether a caller may reasonably try again
func (e *RetrievalError) IsRetryable() bool {
	return e.Retryable
}

// mapRetrievalErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapRetrievalErrorToMetadataCause(err *RetrievalError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseUnexpectedStatus, ErrCauseNetworkFailure, ErrCauseTimeout, ErrCauseReadResponseBodyError:
		return metadata.CauseNetworkFailure
	case ErrCauseDecodeFailure:
		return metadata.CauseContentInvalid
	case ErrCauseInvalidRequest:
		return metadata.CauseConfigInvalid
	default:
		return metadata.CauseUnknown
	}
}
