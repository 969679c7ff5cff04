package news

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer strips scripts, event handlers and other unsafe markup from blog bodies
// while keeping the structural and formatting elements an editor produces.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer based on bluemonday's UGC policy.
func NewHTMLSanitizer() *HTMLSanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("article", "section", "figure", "figcaption")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return &HTMLSanitizer{policy: p}
}

// SanitizeHTML sanitizes the given HTML and trims surrounding whitespace.
func (s *HTMLSanitizer) SanitizeHTML(html string) string {
	return strings.TrimSpace(s.policy.Sanitize(html))
}

type noopSanitizer struct{}

func (noopSanitizer) SanitizeHTML(html string) string { return html }

// NewNoopSanitizer returns a Sanitizer that stores bodies verbatim.
func NewNoopSanitizer() Sanitizer { return noopSanitizer{} }
