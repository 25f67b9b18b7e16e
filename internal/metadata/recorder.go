package metadata

import (
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

/*
Metadata Collected
- Fetch URL, status, duration, content type, size
- Cache lookups and their outcome
- Cached artifacts and their content hashes
- Classified errors

Metadata is write-only.
No component may read metadata to influence control flow.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		sizeByte uint64,
	)
	RecordCacheLookup(identifier string, path string, outcome CacheOutcome)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// Recorder writes every event as a single logfmt record.
type Recorder struct {
	mu  sync.Mutex
	enc *logfmt.Encoder
	now func() time.Time
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		enc: logfmt.NewEncoder(w),
		now: time.Now,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	keyvals := []interface{}{
		"ts", observedAt.UTC().Format(time.RFC3339Nano),
		"level", "error",
		"event", "error",
		"package", packageName,
		"action", action,
		"cause", cause.String(),
		"details", details,
	}
	r.write(appendAttrs(keyvals, attrs))
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	sizeByte uint64,
) {
	r.write([]interface{}{
		"ts", r.now().UTC().Format(time.RFC3339Nano),
		"level", "info",
		"event", "fetch",
		string(AttrURL), fetchUrl,
		string(AttrHTTPStatus), httpStatus,
		"duration_ms", duration.Milliseconds(),
		"content_type", contentType,
		string(AttrSizeByte), strconv.FormatUint(sizeByte, 10),
	})
}

func (r *Recorder) RecordCacheLookup(identifier string, path string, outcome CacheOutcome) {
	r.write([]interface{}{
		"ts", r.now().UTC().Format(time.RFC3339Nano),
		"level", "debug",
		"event", "cache_lookup",
		string(AttrIdentifier), identifier,
		string(AttrCachePath), path,
		"outcome", string(outcome),
	})
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	keyvals := []interface{}{
		"ts", r.now().UTC().Format(time.RFC3339Nano),
		"level", "info",
		"event", "artifact",
		"kind", string(kind),
		"path", path,
	}
	r.write(appendAttrs(keyvals, attrs))
}

// write drops encoding failures; metadata must never fail the caller.
func (r *Recorder) write(keyvals []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.enc.EncodeKeyvals(keyvals...); err != nil {
		r.enc.Reset()
		return
	}
	_ = r.enc.EndRecord()
}

func appendAttrs(keyvals []interface{}, attrs []Attribute) []interface{} {
	for _, attr := range attrs {
		keyvals = append(keyvals, string(attr.Key), attr.Value)
	}
	return keyvals
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing.
// Callers (or tests) decide whether to inject a Recorder or a NoopSink.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	sizeByte uint64,
) {
}

func (n *NoopSink) RecordCacheLookup(identifier string, path string, outcome CacheOutcome) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}
