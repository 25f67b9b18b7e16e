package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// IdentifierPlaceholder marks where an identifier is substituted in an endpoint template.
const IdentifierPlaceholder = "{id}"

// ExpandTemplate substitutes identifier into every IdentifierPlaceholder of template
// and parses the result.
//
// The identifier is inserted verbatim. It is not escaped or validated, so
// identifiers containing '/', '?', '#' or '..' change the shape of the
// resulting URL. An identifier that makes the URL unparsable, such as one with
// a malformed percent escape like "%zz", is rejected here and no request is
// ever sent for it.
func ExpandTemplate(template string, identifier string) (url.URL, error) {
	raw := strings.ReplaceAll(template, IdentifierPlaceholder, identifier)
	parsed, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	return *parsed, nil
}

// ValidateTemplate checks that template carries the placeholder and expands into
// an absolute http(s) URL.
func ValidateTemplate(template string) error {
	if !strings.Contains(template, IdentifierPlaceholder) {
		return fmt.Errorf("endpoint template %q has no %s placeholder", template, IdentifierPlaceholder)
	}
	expanded, err := ExpandTemplate(template, "probe")
	if err != nil {
		return err
	}
	scheme := lowerASCII(expanded.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("endpoint template %q must use http or https", template)
	}
	if expanded.Host == "" {
		return fmt.Errorf("endpoint template %q has no host", template)
	}
	return nil
}

// lowerASCII converts ASCII characters to lowercase without allocating.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
