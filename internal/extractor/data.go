package extractor

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML tree. It is never mutated after parsing.
type Document struct {
	doc *goquery.Document
}

func NewDocument(doc *goquery.Document) Document {
	return Document{doc: doc}
}

// Selection returns the document root as a goquery selection.
func (d *Document) Selection() *goquery.Selection {
	if d.doc == nil {
		return nil
	}
	return d.doc.Selection
}

// Root returns the html.DocumentNode at the top of the tree.
func (d *Document) Root() *html.Node {
	if d.doc == nil || len(d.doc.Nodes) == 0 {
		return nil
	}
	return d.doc.Nodes[0]
}
