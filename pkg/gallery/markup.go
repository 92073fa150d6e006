package gallery

import (
	"bytes"
	"fmt"
	"html/template"
)

// Classes and attributes that make up the markup contract.
const (
	ThumbClass    = "gallery__image"
	LazyClass     = "lazyload"
	SourceAttr    = "data-source"
	DeferredAttr  = "data-src"
	bodyOpenClass = "modal-open"
	rootOpenClass = "is-open"
)

var itemTmpl = template.Must(template.New("items").Parse(
	`{{range .Items}}<li class="gallery__item">
  <a class="gallery__link" href="{{.Original}}">
    <img class="gallery__image lazyload" loading="lazy" {{if $.Native}}src="{{.Preview}}"{{else}}data-src="{{.Preview}}"{{end}} data-source="{{.Original}}" alt="{{.Description}}" />
  </a>
</li>{{end}}`))

// Markup renders one list item per gallery item, in order. With nativeLazy the
// preview goes into src, otherwise into data-src for lazysizes to pick up.
func Markup(is []Item, nativeLazy bool) (string, error) {
	data := struct {
		Items  []Item
		Native bool
	}{
		Items:  is,
		Native: nativeLazy,
	}

	var out bytes.Buffer
	if err := itemTmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}
	return out.String(), nil
}
