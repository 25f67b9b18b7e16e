package mdconvert

import (
	"fmt"
	"strings"
)

type ConversionResult struct {
	markdownContent []byte
	linkRefs        []LinkRef
}

func NewConversionResult(
	markdownContent []byte,
	linkRefs []LinkRef,
) ConversionResult {
	return ConversionResult{
		markdownContent: markdownContent,
		linkRefs:        linkRefs,
	}
}

func (c *ConversionResult) GetMarkdownContent() []byte {
	return c.markdownContent
}

func (c *ConversionResult) GetLinkRefs() []LinkRef {
	return c.linkRefs
}

// ReferencesSection renders the link targets as a Markdown list, in document
// order and without duplicates. In-page anchors are skipped. It returns an
// empty string when nothing is left to list.
func (c *ConversionResult) ReferencesSection() string {
	seen := make(map[string]struct{}, len(c.linkRefs))
	var sb strings.Builder
	for _, ref := range c.linkRefs {
		if ref.kind == KindAnchor || ref.raw == "" {
			continue
		}
		if _, ok := seen[ref.raw]; ok {
			continue
		}
		seen[ref.raw] = struct{}{}

		if sb.Len() == 0 {
			sb.WriteString("## References\n")
		}
		fmt.Fprintf(&sb, "\n- %s (%s)", ref.raw, ref.kind)
	}
	return sb.String()
}

type LinkKind string

const (
	KindNavigation LinkKind = "navigation"
	KindImage      LinkKind = "image"
	KindAnchor     LinkKind = "anchor"
	KindMail       LinkKind = "mail"
)

type LinkRef struct {
	raw  string
	kind LinkKind
}

func NewLinkRef(
	raw string,
	kind LinkKind,
) LinkRef {
	return LinkRef{
		raw:  raw,
		kind: kind,
	}
}

func (l *LinkRef) GetRaw() string {
	return l.raw
}

func (l *LinkRef) GetKind() LinkKind {
	return l.kind
}
