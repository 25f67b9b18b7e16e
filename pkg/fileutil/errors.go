package fileutil

import (
	"fmt"

	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
)

type FileErrorCause string

const (
	ErrCausePathError FileErrorCause = "path error"
	ErrCauseStatError FileErrorCause = "stat error"
)

type FileError struct {
	Message   string
	Retryable bool
	Cause     FileErrorCause
	Err       error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file error: %s: %s", e.Cause, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (e *FileError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
