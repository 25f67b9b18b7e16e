package storage

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/internal/metrics"
	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
	"github.com/rohmanhakim/announcement-fetcher/pkg/fileutil"
	"github.com/rohmanhakim/announcement-fetcher/pkg/hashutil"
)

/*
Responsibilities
- Map an identifier to exactly one file: <dir>/<identifier>.html
- Read cached responses; a miss is a normal outcome
- Overwrite cached responses unconditionally

Cache Characteristics
- Entries are never invalidated, refreshed or evicted
- No locking: single process, single call
- Identifiers are used verbatim in the file name
*/

type ResponseCache interface {
	Path(identifier string) string
	Read(identifier string) (CachedResponse, bool, failure.ClassifiedError)
	Write(identifier string, text string) (WriteResult, failure.ClassifiedError)
}

// Compile-time interface check
var _ ResponseCache = (*LocalCache)(nil)

const cacheFileExtension = ".html"

type LocalCache struct {
	metadataSink metadata.MetadataSink
	dir          string
	hashAlgo     hashutil.HashAlgo
}

func NewLocalCache(
	metadataSink metadata.MetadataSink,
	dir string,
	hashAlgo hashutil.HashAlgo,
) LocalCache {
	return LocalCache{
		metadataSink: metadataSink,
		dir:          dir,
		hashAlgo:     hashAlgo,
	}
}

func (c *LocalCache) Dir() string {
	return c.dir
}

// Path returns the cache file of identifier. The identifier is not sanitized:
// separators and ".." segments resolve relative to the cache directory.
func (c *LocalCache) Path(identifier string) string {
	return filepath.Join(c.dir, identifier+cacheFileExtension)
}

// Read returns the cached response of identifier. It reports false with a nil
// error when no regular file exists at the cache path.
func (c *LocalCache) Read(identifier string) (CachedResponse, bool, failure.ClassifiedError) {
	path := c.Path(identifier)

	exists, statErr := fileutil.IsRegularFile(path)
	if statErr != nil {
		return CachedResponse{}, false, c.fail("LocalCache.Read", identifier, &StorageError{
			Message:   statErr.Error(),
			Retryable: false,
			Cause:     ErrCauseReadFailure,
			Path:      path,
			Err:       statErr,
		})
	}
	if !exists {
		metrics.CacheMisses.Inc()
		c.metadataSink.RecordCacheLookup(identifier, path, metadata.CacheMiss)
		return CachedResponse{}, false, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return CachedResponse{}, false, c.fail("LocalCache.Read", identifier, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseReadFailure,
			Path:      path,
			Err:       err,
		})
	}

	metrics.CacheHits.Inc()
	c.metadataSink.RecordCacheLookup(identifier, path, metadata.CacheHit)
	return NewCachedResponse(identifier, path, string(content)), true, nil
}

// Write replaces the cached response of identifier with text, creating the
// cache directory when it does not exist yet.
func (c *LocalCache) Write(identifier string, text string) (WriteResult, failure.ClassifiedError) {
	writeResult, err := c.write(identifier, text)
	if err != nil {
		return WriteResult{}, c.fail("LocalCache.Write", identifier, err)
	}

	metrics.CacheWrites.Inc()
	c.metadataSink.RecordArtifact(
		metadata.ArtifactCachedResponse,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrIdentifier, identifier),
			metadata.NewAttr(metadata.AttrContentHash, writeResult.ContentHash()),
		},
	)
	return writeResult, nil
}

func (c *LocalCache) write(identifier string, text string) (WriteResult, *StorageError) {
	path := c.Path(identifier)

	contentHash, err := hashutil.HashString(text, c.hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
			Path:      path,
			Err:       err,
		}
	}

	// identifiers with separators land in sub directories of the cache dir
	dir := filepath.Dir(path)
	if dirErr := fileutil.EnsureDir(dir); dirErr != nil {
		return WriteResult{}, &StorageError{
			Message:   dirErr.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      dir,
			Err:       dirErr,
		}
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      path,
			Err:       err,
		}
	}

	return NewWriteResult(identifier, path, contentHash), nil
}

func (c *LocalCache) fail(action string, identifier string, err *StorageError) *StorageError {
	metrics.CacheErrors.Inc()
	c.metadataSink.RecordError(
		time.Now(),
		"storage",
		action,
		mapStorageErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrIdentifier, identifier),
			metadata.NewAttr(metadata.AttrCachePath, err.Path),
			metadata.NewAttr(metadata.AttrMessage, err.Message),
		},
	)
	return err
}
