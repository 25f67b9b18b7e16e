package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/internal/metrics"
	"github.com/rohmanhakim/announcement-fetcher/internal/storage"
	"github.com/rohmanhakim/announcement-fetcher/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<html><body><table><tr><td id="main-body"><p>Board meeting moved to Tuesday.</p></td></tr></table></body></html>`

func newCache(t *testing.T, dir string, algo hashutil.HashAlgo) (storage.LocalCache, *metadataSinkMock) {
	t.Helper()
	sink := &metadataSinkMock{}
	return storage.NewLocalCache(sink, dir, algo), sink
}

func TestLocalCache_Path(t *testing.T) {
	cache, _ := newCache(t, "/var/cache/announcements", hashutil.HashAlgoSHA256)

	assert.Equal(t, "/var/cache/announcements/CALACOUNTY-29a2961.html", cache.Path("CALACOUNTY-29a2961"))
	assert.Equal(t, cache.Path("abc"), cache.Path("abc"), "path must be deterministic")
	assert.Equal(t, "/var/cache/announcements", cache.Dir())
}

func TestLocalCache_Read_MissingFileIsMiss(t *testing.T) {
	cache, sink := newCache(t, t.TempDir(), hashutil.HashAlgoSHA256)
	before := testutil.ToFloat64(metrics.CacheMisses)

	resp, ok, err := cache.Read("CALACOUNTY-29a2961")

	assert.Nil(t, err)
	assert.False(t, ok)
	assert.Empty(t, resp.Text())
	assert.Equal(t, []metadata.CacheOutcome{metadata.CacheMiss}, sink.cacheLookups)
	assert.False(t, sink.recordErrorCalled)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CacheMisses))
}

func TestLocalCache_Read_MissingDirectoryIsMiss(t *testing.T) {
	cache, _ := newCache(t, filepath.Join(t.TempDir(), "not-created-yet"), hashutil.HashAlgoSHA256)

	_, ok, err := cache.Read("abc")

	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestLocalCache_Read_DirectoryAtPathIsMiss(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "abc.html"), 0755))
	cache, _ := newCache(t, dir, hashutil.HashAlgoSHA256)

	_, ok, err := cache.Read("abc")

	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestLocalCache_Read_Hit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.html")
	require.NoError(t, os.WriteFile(path, []byte(sampleHTML), 0644))
	cache, sink := newCache(t, dir, hashutil.HashAlgoSHA256)
	before := testutil.ToFloat64(metrics.CacheHits)

	resp, ok, err := cache.Read("abc")

	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleHTML, resp.Text())
	assert.Equal(t, path, resp.Path())
	assert.Equal(t, "abc", resp.Identifier())
	assert.Equal(t, []metadata.CacheOutcome{metadata.CacheHit}, sink.cacheLookups)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CacheHits))
}

func TestLocalCache_Write_ThenRead(t *testing.T) {
	tests := []struct {
		name     string
		hashAlgo hashutil.HashAlgo
	}{
		{name: "sha256 content hash", hashAlgo: hashutil.HashAlgoSHA256},
		{name: "blake3 content hash", hashAlgo: hashutil.HashAlgoBLAKE3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cache, sink := newCache(t, dir, tt.hashAlgo)

			result, err := cache.Write("CALACOUNTY-29a2961", sampleHTML)
			require.Nil(t, err)

			expectedPath := filepath.Join(dir, "CALACOUNTY-29a2961.html")
			assert.Equal(t, expectedPath, result.Path())
			assert.Equal(t, "CALACOUNTY-29a2961", result.Identifier())

			expectedHash, hashErr := hashutil.HashString(sampleHTML, tt.hashAlgo)
			require.NoError(t, hashErr)
			assert.Equal(t, expectedHash, result.ContentHash())

			onDisk, readErr := os.ReadFile(expectedPath)
			require.NoError(t, readErr)
			assert.Equal(t, sampleHTML, string(onDisk))

			assert.True(t, sink.recordArtifactCalled)
			assert.Equal(t, metadata.ArtifactCachedResponse, sink.recordArtifactKind)
			assert.Equal(t, expectedPath, sink.recordArtifactPath)
			assert.Equal(t, expectedHash, findAttrValue(sink.recordArtifactAttrs, metadata.AttrContentHash))

			resp, ok, rErr := cache.Read("CALACOUNTY-29a2961")
			require.Nil(t, rErr)
			require.True(t, ok)
			assert.Equal(t, sampleHTML, resp.Text())
		})
	}
}

func TestLocalCache_Write_OverwritesExistingContent(t *testing.T) {
	dir := t.TempDir()
	cache, _ := newCache(t, dir, hashutil.HashAlgoSHA256)

	_, err := cache.Write("abc", "<html><body>a much longer first version</body></html>")
	require.Nil(t, err)
	_, err = cache.Write("abc", "<p>v2</p>")
	require.Nil(t, err)

	resp, ok, rErr := cache.Read("abc")
	require.Nil(t, rErr)
	require.True(t, ok)
	assert.Equal(t, "<p>v2</p>", resp.Text())
}

func TestLocalCache_Write_CreatesCacheDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "request_cache")
	cache, _ := newCache(t, dir, hashutil.HashAlgoSHA256)

	result, err := cache.Write("abc", sampleHTML)

	require.Nil(t, err)
	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
	assert.FileExists(t, result.Path())
}

func TestLocalCache_Write_EmptyText(t *testing.T) {
	cache, _ := newCache(t, t.TempDir(), hashutil.HashAlgoSHA256)

	_, err := cache.Write("empty", "")
	require.Nil(t, err)

	resp, ok, rErr := cache.Read("empty")
	require.Nil(t, rErr)
	assert.True(t, ok, "an empty cached file is still a hit")
	assert.Empty(t, resp.Text())
}

func TestLocalCache_Write_CacheDirIsAFile(t *testing.T) {
	base := t.TempDir()
	occupied := filepath.Join(base, "request_cache")
	require.NoError(t, os.WriteFile(occupied, []byte("not a directory"), 0644))
	cache, sink := newCache(t, occupied, hashutil.HashAlgoSHA256)
	before := testutil.ToFloat64(metrics.CacheErrors)

	_, err := cache.Write("abc", sampleHTML)

	require.NotNil(t, err)
	var storageErr *storage.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, storage.ErrCausePathError, storageErr.Cause)
	assert.Equal(t, occupied, storageErr.Path)
	assert.True(t, errors.Is(err, syscall.ENOTDIR), "underlying os error must stay reachable")

	assert.True(t, sink.recordErrorCalled)
	assert.Equal(t, "LocalCache.Write", sink.recordErrorAction)
	assert.Equal(t, metadata.CauseStorageFailure, sink.recordErrorCause)
	assert.Equal(t, "abc", findAttrValue(sink.recordErrorAttrs, metadata.AttrIdentifier))
	assert.False(t, sink.recordArtifactCalled)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CacheErrors))
}

func TestLocalCache_Write_UnsupportedHashAlgo(t *testing.T) {
	dir := t.TempDir()
	cache, _ := newCache(t, dir, "md5")

	_, err := cache.Write("abc", sampleHTML)

	require.NotNil(t, err)
	var storageErr *storage.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, storage.ErrCauseHashComputationFailed, storageErr.Cause)
	assert.NoFileExists(t, filepath.Join(dir, "abc.html"))
}

// Identifiers are used verbatim, so separators create nested files and ".."
// escapes the cache directory.
func TestLocalCache_UnsanitizedIdentifier(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "request_cache")
	cache, _ := newCache(t, dir, hashutil.HashAlgoSHA256)

	nested, err := cache.Write("county/abc", sampleHTML)
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "county", "abc.html"), nested.Path())

	escaped, err := cache.Write("../outside", sampleHTML)
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(base, "outside.html"), escaped.Path())
	assert.FileExists(t, filepath.Join(base, "outside.html"))
}

func TestStorageError_Severity(t *testing.T) {
	diskFull := &storage.StorageError{Cause: storage.ErrCauseDiskFull, Retryable: true}
	writeFailed := &storage.StorageError{Cause: storage.ErrCauseWriteFailure}

	assert.Equal(t, "recoverable", diskFull.Severity().String())
	assert.Equal(t, "fatal", writeFailed.Severity().String())
	assert.Equal(t, "storage error: write failed: ", writeFailed.Error())
}
