package announcement

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type GetParam struct {
	// Filtered narrows the result to the bulletin body cell.
	Filtered bool
	// Cached serves the response from the local cache when present.
	Cached bool
}

// DefaultGetParam filters and uses the cache.
func DefaultGetParam() GetParam {
	return GetParam{
		Filtered: true,
		Cached:   true,
	}
}

type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// Announcement is a parsed bulletin: the full document, or only its body
// cell when filtered. It owns no state beyond the parsed tree.
type Announcement struct {
	identifier string
	selection  *goquery.Selection
	filtered   bool
	source     Source
}

func NewAnnouncement(
	identifier string,
	selection *goquery.Selection,
	filtered bool,
	source Source,
) Announcement {
	return Announcement{
		identifier: identifier,
		selection:  selection,
		filtered:   filtered,
		source:     source,
	}
}

func (a *Announcement) Identifier() string {
	return a.identifier
}

func (a *Announcement) Selection() *goquery.Selection {
	return a.selection
}

// Node returns the document node, or the body cell element when filtered.
func (a *Announcement) Node() *html.Node {
	if a.selection == nil || a.selection.Length() == 0 {
		return nil
	}
	return a.selection.Get(0)
}

func (a *Announcement) Filtered() bool {
	return a.filtered
}

func (a *Announcement) Source() Source {
	return a.source
}

// HTML renders the announcement back to markup.
func (a *Announcement) HTML() (string, error) {
	node := a.Node()
	if node == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := html.Render(&sb, node); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Text returns the combined text content of the announcement.
func (a *Announcement) Text() string {
	if a.selection == nil {
		return ""
	}
	return a.selection.Text()
}
