package extractor

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/pkg/failure"
)

/*
Responsibilities
- Parse response text into a DOM tree
- Narrow the tree to the bulletin body cell

Filter Semantics
- The body cell is the first <td id="main-body"> in document order
- A missing body cell is not an error
- Filtering never copies or removes nodes; it returns a view into the tree
*/

// MainBodySelector matches the table cell holding a bulletin's content.
const MainBodySelector = "td#main-body"

type DomExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewDomExtractor(
	metadataSink metadata.MetadataSink,
) DomExtractor {
	return DomExtractor{
		metadataSink: metadataSink,
	}
}

// Parse builds a Document from text using the HTML5 parsing algorithm.
func (d *DomExtractor) Parse(identifier string, text string) (Document, failure.ClassifiedError) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		parseErr := &ParseError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
			Err:       err,
		}
		d.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"DomExtractor.Parse",
			mapParseErrorToMetadataCause(parseErr),
			parseErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrIdentifier, identifier),
				metadata.NewAttr(metadata.AttrMessage, parseErr.Message),
			},
		)
		return Document{}, parseErr
	}
	return NewDocument(doc), nil
}

// FilterContent returns the bulletin body cell of doc, or false if the
// document has none. Documents are parsed as HTML5, so a main-body cell that
// is not inside a table has already been dropped and is reported as absent.
func FilterContent(doc Document) (*goquery.Selection, bool) {
	root := doc.Selection()
	if root == nil {
		return nil, false
	}
	return FilterSelection(root)
}

// FilterSelection applies the body cell filter to any part of a tree.
// The selection itself is considered, then its descendants, in document order.
func FilterSelection(sel *goquery.Selection) (*goquery.Selection, bool) {
	if sel == nil || sel.Length() == 0 {
		return nil, false
	}
	if sel.First().Is(MainBodySelector) {
		return sel.First(), true
	}
	match := sel.Find(MainBodySelector).First()
	if match.Length() == 0 {
		return nil, false
	}
	return match, true
}
