package fileutil_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/announcement-fetcher/pkg/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "json config", path: "config.json", expected: "json"},
		{name: "yaml config", path: "/etc/fetcher/config.yaml", expected: "yaml"},
		{name: "uppercase extension", path: "CONFIG.YML", expected: "yml"},
		{name: "multiple dots", path: "archive.tar.gz", expected: "gz"},
		{name: "no extension", path: "README", expected: ""},
		{name: "trailing dot", path: "file.", expected: ""},
		{name: "directory path", path: "/some/directory/", expected: ""},
		{name: "empty string", path: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fileutil.GetFileExtension(tt.path))
		})
	}
}

func TestEnsureDir_MultiplePathComponents(t *testing.T) {
	tmpDir := t.TempDir()
	targetDir := filepath.Join(tmpDir, "parent", "child")

	err := fileutil.EnsureDir(tmpDir, "parent", "child")
	require.Nil(t, err)

	info, statErr := os.Stat(targetDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_DirectoryAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()

	err := fileutil.EnsureDir(tmpDir)
	assert.Nil(t, err)
}

func TestEnsureDir_PathIsAFile(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "occupied")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))

	err := fileutil.EnsureDir(filePath, "subdir")
	require.NotNil(t, err)

	var fileErr *fileutil.FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, fileutil.ErrCausePathError, fileErr.Cause)
	assert.False(t, fileErr.Retryable)
	assert.NotNil(t, fileErr.Unwrap())
}

func TestIsRegularFile(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "page.html")
	require.NoError(t, os.WriteFile(filePath, []byte("<html></html>"), 0644))

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "regular file", path: filePath, expected: true},
		{name: "directory", path: tmpDir, expected: false},
		{name: "missing file", path: filepath.Join(tmpDir, "missing.html"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := fileutil.IsRegularFile(tt.path)
			require.Nil(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestIsRegularFile_StatFailureIsClassified(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "page.html")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))

	// a path that walks through a regular file fails with ENOTDIR, not ErrNotExist
	ok, err := fileutil.IsRegularFile(filepath.Join(filePath, "child.html"))
	assert.False(t, ok)
	if err != nil {
		var fileErr *fileutil.FileError
		require.True(t, errors.As(err, &fileErr))
		assert.Equal(t, fileutil.ErrCauseStatError, fileErr.Cause)
		assert.False(t, errors.Is(err, fs.ErrNotExist))
	}
}
