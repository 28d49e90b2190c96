// Package render turns flyer content into previews: plain text for
// terminals, HTML for browsers, and a one-page PDF sheet.
package render

import (
	"strings"

	"github.com/hyperifyio/goflyer/internal/flyer"
)

// Text renders c as title, subtitle, features, details and call to action,
// separated by blank lines.
func Text(c flyer.Content) string {
	var b strings.Builder
	b.WriteString(c.Title)
	b.WriteString("\n")
	b.WriteString(c.Subtitle)
	b.WriteString("\n")
	if len(c.Features) > 0 {
		b.WriteString("\n")
		for _, f := range c.Features {
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	if len(c.Details) > 0 {
		b.WriteString("\n")
		for _, d := range c.Details {
			b.WriteString(d)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(c.CallToAction)
	b.WriteString("\n")
	return b.String()
}
