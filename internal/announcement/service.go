package announcement

import (
	"context"

	"github.com/rohmanhakim/announcement-fetcher/internal/extractor"
	"github.com/rohmanhakim/announcement-fetcher/internal/fetcher"
	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/internal/storage"
	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
)

/*
Pipeline

	resolve cache path -> (read cache | fetch + write cache) -> parse -> (filter) -> return

- A cache miss falls through to the remote fetch
- A fetched response is always written to the cache, whatever GetParam.Cached says
- A failed fetch leaves the cache untouched
- A missing body cell is reported as not found, not as an error
*/

type Service struct {
	fetcher      fetcher.Fetcher
	cache        storage.ResponseCache
	extractor    extractor.DomExtractor
	metadataSink metadata.MetadataSink
}

func NewService(
	metadataSink metadata.MetadataSink,
	remote fetcher.Fetcher,
	cache storage.ResponseCache,
) Service {
	return Service{
		fetcher:      remote,
		cache:        cache,
		extractor:    extractor.NewDomExtractor(metadataSink),
		metadataSink: metadataSink,
	}
}

// Get returns the announcement of identifier. The boolean is false only when
// param.Filtered is set and the document has no body cell.
func (s *Service) Get(
	ctx context.Context,
	identifier string,
	param GetParam,
) (Announcement, bool, failure.ClassifiedError) {
	text, source, err := s.responseText(ctx, identifier, param.Cached)
	if err != nil {
		return Announcement{}, false, err
	}

	doc, err := s.extractor.Parse(identifier, text)
	if err != nil {
		return Announcement{}, false, err
	}

	if !param.Filtered {
		return NewAnnouncement(identifier, doc.Selection(), false, source), true, nil
	}

	cell, found := extractor.FilterContent(doc)
	if !found {
		return Announcement{}, false, nil
	}
	return NewAnnouncement(identifier, cell, true, source), true, nil
}

func (s *Service) responseText(
	ctx context.Context,
	identifier string,
	cached bool,
) (string, Source, failure.ClassifiedError) {
	if cached {
		resp, hit, err := s.cache.Read(identifier)
		if err != nil {
			return "", "", err
		}
		if hit {
			return resp.Text(), SourceCache, nil
		}
	} else {
		s.metadataSink.RecordCacheLookup(identifier, s.cache.Path(identifier), metadata.CacheDisabled)
	}

	result, err := s.fetcher.Fetch(ctx, identifier)
	if err != nil {
		return "", "", err
	}

	if _, err := s.cache.Write(identifier, result.Text()); err != nil {
		return "", "", err
	}

	return result.Text(), SourceRemote, nil
}
