package storage

// Persistence

// CachedResponse is the raw response text stored for one identifier.
type CachedResponse struct {
	identifier string
	path       string
	text       string
}

func NewCachedResponse(identifier string, path string, text string) CachedResponse {
	return CachedResponse{
		identifier: identifier,
		path:       path,
		text:       text,
	}
}

func (c *CachedResponse) Identifier() string {
	return c.identifier
}

func (c *CachedResponse) Path() string {
	return c.path
}

func (c *CachedResponse) Text() string {
	return c.text
}

type WriteResult struct {
	identifier  string
	path        string
	contentHash string
}

func NewWriteResult(
	identifier string,
	path string,
	contentHash string,
) WriteResult {
	return WriteResult{
		identifier:  identifier,
		path:        path,
		contentHash: contentHash,
	}
}

func (w *WriteResult) Identifier() string {
	return w.identifier
}

func (w *WriteResult) Path() string {
	return w.path
}

func (w *WriteResult) ContentHash() string {
	return w.contentHash
}
