package gallery

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"golang.org/x/net/html"
)

//go:embed assets/page.tmpl
var pageTmpl string

// PageData fills in the page template.
type PageData struct {
	Title       string
	Description string
	Stylesheet  string
}

// Page renders an empty gallery page and parses it into a document.
func Page(d PageData) (*html.Node, error) {
	tmpl, err := template.New("page").Parse(pageTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, d); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	doc, err := html.Parse(&tpl)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Write serializes doc to w.
func Write(w io.Writer, doc *html.Node) error {
	return html.Render(w, doc)
}
