package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/internal/metrics"
	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
	"github.com/rohmanhakim/announcement-fetcher/pkg/urlutil"
	"golang.org/x/net/html/charset"
)

/*
Responsibilities

- Build the bulletin URL from the endpoint template
- Perform exactly one HTTP GET
- Decode the body to UTF-8 text

Fetch Semantics

- Only status 200 is a success
- Every other status is a RetrievalError, with no partial body
- No retries; redirects follow net/http defaults
- All responses are recorded with metadata

The fetcher never parses content; it only returns text and metadata.
*/

type AnnouncementFetcher struct {
	metadataSink     metadata.MetadataSink
	httpClient       *http.Client
	endpointTemplate string
	userAgent        string
}

// NewAnnouncementFetcher creates a fetcher for endpointTemplate, which must contain
// the urlutil.IdentifierPlaceholder. A nil httpClient means a default client.
// An empty userAgent leaves the request headers untouched.
func NewAnnouncementFetcher(
	metadataSink metadata.MetadataSink,
	httpClient *http.Client,
	endpointTemplate string,
	userAgent string,
) AnnouncementFetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return AnnouncementFetcher{
		metadataSink:     metadataSink,
		httpClient:       httpClient,
		endpointTemplate: endpointTemplate,
		userAgent:        userAgent,
	}
}

// URLFor returns the bulletin URL of identifier.
func (h *AnnouncementFetcher) URLFor(identifier string) (url.URL, error) {
	return urlutil.ExpandTemplate(h.endpointTemplate, identifier)
}

func (h *AnnouncementFetcher) Fetch(
	ctx context.Context,
	identifier string,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "AnnouncementFetcher.Fetch"

	fetchUrl, err := h.URLFor(identifier)
	if err != nil {
		retrievalErr := &RetrievalError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseInvalidRequest,
			Err:       err,
		}
		h.recordRetrievalError(callerMethod, identifier, h.endpointTemplate, retrievalErr)
		return FetchResult{}, retrievalErr
	}

	startTime := time.Now()
	result, retrievalErr := h.performFetch(ctx, identifier, fetchUrl)
	duration := time.Since(startTime)

	statusCode := result.Code()
	if retrievalErr != nil {
		statusCode = retrievalErr.StatusCode
	}
	h.observe(statusCode, duration)

	h.metadataSink.RecordFetch(
		fetchUrl.String(),
		statusCode,
		duration,
		result.ContentType(),
		result.SizeByte(),
	)

	if retrievalErr != nil {
		h.recordRetrievalError(callerMethod, identifier, fetchUrl.String(), retrievalErr)
		return FetchResult{}, retrievalErr
	}

	return result, nil
}

func (h *AnnouncementFetcher) observe(statusCode int, duration time.Duration) {
	metrics.FetchResponseTime.Observe(duration.Seconds())
	if statusCode == 0 {
		metrics.FetchFailures.Inc()
		return
	}
	metrics.FetchResponseStatuses.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (h *AnnouncementFetcher) recordRetrievalError(
	callerMethod string,
	identifier string,
	fetchUrl string,
	err *RetrievalError,
) {
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrIdentifier, identifier),
		metadata.NewAttr(metadata.AttrURL, fetchUrl),
		metadata.NewAttr(metadata.AttrMessage, err.Message),
	}
	if err.StatusCode != 0 {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrHTTPStatus, strconv.Itoa(err.StatusCode)))
	}
	h.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		mapRetrievalErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
}

func (h *AnnouncementFetcher) performFetch(
	ctx context.Context,
	identifier string,
	fetchUrl url.URL,
) (FetchResult, *RetrievalError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl.String(), nil)
	if err != nil {
		return FetchResult{}, &RetrievalError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseInvalidRequest,
			Err:       err,
		}
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		cause := ErrCauseNetworkFailure
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			cause = ErrCauseTimeout
		}
		return FetchResult{}, &RetrievalError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     cause,
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FetchResult{}, &RetrievalError{
			Message:    fmt.Sprintf("could not retrieve govDelivery content: %s", resp.Status),
			Retryable:  resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
			Cause:      ErrCauseUnexpectedStatus,
			StatusCode: resp.StatusCode,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	decoded, err := charset.NewReader(resp.Body, contentType)
	if err != nil {
		return FetchResult{}, &RetrievalError{
			Message:    fmt.Sprintf("failed to decode %q body: %v", contentType, err),
			Retryable:  false,
			Cause:      ErrCauseDecodeFailure,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return FetchResult{}, &RetrievalError{
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Retryable:  true,
			Cause:      ErrCauseReadResponseBodyError,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return FetchResult{
		identifier: identifier,
		url:        fetchUrl,
		text:       string(body),
		meta: ResponseMeta{
			statusCode:          resp.StatusCode,
			contentType:         contentType,
			transferredSizeByte: uint64(len(body)),
		},
	}, nil
}
