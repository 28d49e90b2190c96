package render

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hyperifyio/goflyer/internal/flyer"
)

const previewCSS = `body{background:#f8f9fa;font-family:Arial,sans-serif;margin:0}
.flyer{max-width:700px;margin:40px auto;padding:40px;background:#fff}
h1{color:#1a365d;font-size:48px;text-align:center;margin:0 0 16px}
h2{color:#4a5568;font-size:24px;font-weight:normal;text-align:center;margin:0 0 32px}
ul.features{list-style:none;padding:0;color:#2d3748;font-size:20px;font-weight:bold}
ul.details{list-style:none;padding-left:20px;color:#4a5568;font-size:16px}
p.cta{color:#e53e3e;font-size:28px;font-weight:bold;text-align:center;margin-top:40px}`

// HTML writes a standalone preview document for c. All text goes through
// html.Render, so descriptions cannot inject markup.
func HTML(w io.Writer, c flyer.Content) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, "")
	doc.AppendChild(root)

	head := element(atom.Head, "")
	meta := element(atom.Meta, "")
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	head.AppendChild(withText(element(atom.Title, ""), c.Title))
	head.AppendChild(withText(element(atom.Style, ""), previewCSS))
	root.AppendChild(head)

	body := element(atom.Body, "")
	root.AppendChild(body)
	card := element(atom.Div, "flyer")
	body.AppendChild(card)

	card.AppendChild(withText(element(atom.H1, "title"), c.Title))
	card.AppendChild(withText(element(atom.H2, "subtitle"), c.Subtitle))
	if len(c.Features) > 0 {
		card.AppendChild(list("features", c.Features))
	}
	if len(c.Details) > 0 {
		card.AppendChild(list("details", c.Details))
	}
	card.AppendChild(withText(element(atom.P, "cta"), c.CallToAction))

	return html.Render(w, doc)
}

// HTMLString is HTML into a string.
func HTMLString(c flyer.Content) (string, error) {
	var buf bytes.Buffer
	if err := HTML(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func list(class string, items []string) *html.Node {
	ul := element(atom.Ul, class)
	for _, it := range items {
		ul.AppendChild(withText(element(atom.Li, ""), it))
	}
	return ul
}
