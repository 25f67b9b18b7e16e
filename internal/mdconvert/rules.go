package mdconvert

import (
	"errors"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
	"golang.org/x/net/html"
)

/*
Conversion Rules
- Headings map directly (h1-h6 to # - ######)
- Bulletin layout tables converted structurally (GFM)
- Links and images preserved as-is (no resolution)
- DOM order preserved
- External link targets are listed once more in a trailing references section

The converter reads the announcement tree and never mutates it.
*/

// ConvertRule turns an announcement node into Markdown.
type ConvertRule interface {
	Convert(identifier string, node *html.Node) (ConversionResult, failure.ClassifiedError)
}

var _ ConvertRule = (*BulletinConversionRule)(nil)

type BulletinConversionRule struct {
	metadataSink metadata.MetadataSink
}

func NewRule(metadataSink metadata.MetadataSink) *BulletinConversionRule {
	return &BulletinConversionRule{
		metadataSink: metadataSink,
	}
}

func (b *BulletinConversionRule) Convert(
	identifier string,
	node *html.Node,
) (ConversionResult, failure.ClassifiedError) {
	result, err := convert(node)
	if err != nil {
		var conversionError *ConversionError
		errors.As(err, &conversionError)

		b.metadataSink.RecordError(
			time.Now(),
			"mdconvert",
			"BulletinConversionRule.Convert",
			mapConversionErrorToMetadataCause(conversionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrIdentifier, identifier),
			},
		)
		return ConversionResult{}, conversionError
	}
	return result, nil
}

func convert(node *html.Node) (ConversionResult, *ConversionError) {
	if node == nil {
		return ConversionResult{}, &ConversionError{
			Message:   "cannot convert nil HTML node",
			Retryable: false,
			Cause:     ErrCauseNilNode,
		}
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	// the converter rewrites the tree it walks, so it gets a rendered copy
	var rendered strings.Builder
	if err := html.Render(&rendered, node); err != nil {
		return ConversionResult{}, &ConversionError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseConversionFailure,
			Err:       err,
		}
	}

	markdown, err := conv.ConvertString(rendered.String())
	if err != nil {
		return ConversionResult{}, &ConversionError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseConversionFailure,
			Err:       err,
		}
	}

	return NewConversionResult([]byte(markdown), extractLinkRefs(node)), nil
}

// extractLinkRefs returns a[href] and img[src] references in document order.
func extractLinkRefs(node *html.Node) []LinkRef {
	var linkRefs []LinkRef

	doc := goquery.NewDocumentFromNode(node)
	// a single selector keeps document order across both tags
	doc.Find("a[href], img[src]").Each(func(i int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "a":
			if href, ok := s.Attr("href"); ok {
				linkRefs = append(linkRefs, toLinkRef("a", href))
			}
		case "img":
			if src, ok := s.Attr("src"); ok {
				linkRefs = append(linkRefs, toLinkRef("img", src))
			}
		}
	})

	return linkRefs
}

func toLinkRef(tagName, raw string) LinkRef {
	var kind LinkKind
	switch strings.ToLower(tagName) {
	case "img":
		kind = KindImage
	case "a":
		switch {
		case strings.HasPrefix(raw, "#"):
			kind = KindAnchor
		case strings.HasPrefix(strings.ToLower(raw), "mailto:"):
			kind = KindMail
		default:
			kind = KindNavigation
		}
	default:
		kind = KindNavigation
	}
	return NewLinkRef(raw, kind)
}
