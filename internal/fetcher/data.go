package fetcher

import (
	"net/url"
)

// HTTP boundary

type FetchResult struct {
	identifier string
	url        url.URL
	text       string
	meta       ResponseMeta
}

func (f *FetchResult) Identifier() string {
	return f.identifier
}

func (f *FetchResult) URL() url.URL {
	return f.url
}

// Text is the response body decoded to UTF-8.
func (f *FetchResult) Text() string {
	return f.text
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) ContentType() string {
	return f.meta.contentType
}

func (f *FetchResult) SizeByte() uint64 {
	return f.meta.transferredSizeByte
}

type ResponseMeta struct {
	statusCode          int
	contentType         string
	transferredSizeByte uint64
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	identifier string,
	fetchUrl url.URL,
	text string,
	statusCode int,
	contentType string,
) FetchResult {
	return FetchResult{
		identifier: identifier,
		url:        fetchUrl,
		text:       text,
		meta: ResponseMeta{
			statusCode:          statusCode,
			contentType:         contentType,
			transferredSizeByte: uint64(len(text)),
		},
	}
}
