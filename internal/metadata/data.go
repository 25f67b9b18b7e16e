package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown
  - The failure does not map cleanly to any known category.

# CauseNetworkFailure
  - Failure caused by network transport or remote availability.
  - Includes any non-200 answer from the bulletin endpoint.

# CauseContentInvalid
  - Content was fetched but could not be decoded or parsed.

# CauseStorageFailure
  - Failure while reading or persisting cached responses.
  - Disk full, permission errors, filesystem I/O failures.

# CauseConfigInvalid
  - The supplied configuration could not be used.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseContentInvalid
	CauseStorageFailure
	CauseConfigInvalid
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseConfigInvalid:
		return "config_invalid"
	default:
		return "unknown"
	}
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL         AttributeKey = "url"
	AttrIdentifier  AttributeKey = "identifier"
	AttrHTTPStatus  AttributeKey = "http_status"
	AttrCachePath   AttributeKey = "cache_path"
	AttrContentHash AttributeKey = "content_hash"
	AttrSizeByte    AttributeKey = "size_byte"
	AttrMessage     AttributeKey = "message"
)

type ArtifactKind string

const (
	ArtifactCachedResponse ArtifactKind = "cached_response"
	ArtifactMetricsFile    ArtifactKind = "metrics_textfile"
)

type CacheOutcome string

const (
	CacheHit      CacheOutcome = "hit"
	CacheMiss     CacheOutcome = "miss"
	CacheDisabled CacheOutcome = "disabled"
)
