package fetcher

import (
	"context"

	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
)

type Fetcher interface {
	Fetch(ctx context.Context, identifier string) (FetchResult, failure.ClassifiedError)
}
