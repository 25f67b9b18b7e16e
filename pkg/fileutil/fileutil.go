package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
)

// GetFileExtension extracts the lowercased file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)
	fullDir := filepath.Join(targetPath...)

	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Err:       err,
		}
	}
	return nil
}

// IsRegularFile reports whether path exists and is a regular file.
// A missing path is not an error.
func IsRegularFile(path string) (bool, failure.ClassifiedError) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseStatError,
			Err:       err,
		}
	}
	return info.Mode().IsRegular(), nil
}
