package announcement_test

import (
	"context"
	"net/url"

	"github.com/rohmanhakim/announcement-fetcher/internal/fetcher"
	"github.com/rohmanhakim/announcement-fetcher/internal/storage"
	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
	"github.com/stretchr/testify/mock"
)

// fetcherMock is a testify mock for the Fetcher
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) Fetch(
	ctx context.Context,
	identifier string,
) (fetcher.FetchResult, failure.ClassifiedError) {
	args := f.Called(ctx, identifier)
	result := args.Get(0).(fetcher.FetchResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

// cacheMock is a testify mock for the ResponseCache
type cacheMock struct {
	mock.Mock
}

func (c *cacheMock) Path(identifier string) string {
	return "/cache/" + identifier + ".html"
}

func (c *cacheMock) Read(identifier string) (storage.CachedResponse, bool, failure.ClassifiedError) {
	args := c.Called(identifier)
	resp := args.Get(0).(storage.CachedResponse)
	var err failure.ClassifiedError
	if args.Get(2) != nil {
		err = args.Get(2).(failure.ClassifiedError)
	}
	return resp, args.Bool(1), err
}

func (c *cacheMock) Write(identifier string, text string) (storage.WriteResult, failure.ClassifiedError) {
	args := c.Called(identifier, text)
	result := args.Get(0).(storage.WriteResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

const bulletinHTML = `<!DOCTYPE html>
<html>
<head><title>Calaveras County</title></head>
<body>
<table>
<tr><td id="header">County of Calaveras</td></tr>
<tr><td id="main-body"><h1>Road Closure</h1><p>Highway 4 is closed between Arnold and Dorrington.</p></td></tr>
</table>
</body>
</html>`

const bulletinWithoutBodyHTML = `<html><body><p>This bulletin has expired.</p></body></html>`

func fetchResult(identifier string, text string) fetcher.FetchResult {
	u, _ := url.Parse("https://content.govdelivery.com/bulletins/gd/" + identifier)
	return fetcher.NewFetchResultForTest(identifier, *u, text, 200, "text/html; charset=utf-8")
}
