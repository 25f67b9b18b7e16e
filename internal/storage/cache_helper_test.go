package storage_test

import (
	"time"

	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
)

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	recordErrorCalled    bool
	recordErrorAction    string
	recordErrorCause     metadata.ErrorCause
	recordErrorAttrs     []metadata.Attribute
	cacheLookups         []metadata.CacheOutcome
	recordArtifactCalled bool
	recordArtifactKind   metadata.ArtifactKind
	recordArtifactPath   string
	recordArtifactAttrs  []metadata.Attribute
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.recordErrorCalled = true
	m.recordErrorAction = action
	m.recordErrorCause = cause
	m.recordErrorAttrs = attrs
}

func (m *metadataSinkMock) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	sizeByte uint64,
) {
}

func (m *metadataSinkMock) RecordCacheLookup(identifier string, path string, outcome metadata.CacheOutcome) {
	m.cacheLookups = append(m.cacheLookups, outcome)
}

func (m *metadataSinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.recordArtifactCalled = true
	m.recordArtifactKind = kind
	m.recordArtifactPath = path
	m.recordArtifactAttrs = attrs
}

// findAttrValue finds an attribute value by key in a slice of attributes
func findAttrValue(attrs []metadata.Attribute, key metadata.AttributeKey) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}
