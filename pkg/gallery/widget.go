package gallery

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"k8s.io/klog/v2"
)

// ErrMissingElement is returned when the page lacks an element the widget needs.
var ErrMissingElement = errors.New("missing element")

// Handles are the page elements the widget works with.
type Handles struct {
	Body      *html.Node
	Container *html.Node
	Close     *html.Node
	Root      *html.Node
	Overlay   *html.Node
	Image     *html.Node
}

// Resolve locates the widget's elements in doc.
func Resolve(doc *html.Node) (*Handles, error) {
	h := &Handles{
		Body:      find(doc, byAtom(atom.Body)),
		Container: find(doc, byClass("js-gallery")),
		Close:     find(doc, byAttr("data-action", "close-lightbox")),
		Root:      find(doc, byClass("lightbox")),
	}
	if h.Root != nil {
		h.Overlay = find(h.Root, byClass("lightbox__overlay"))
		h.Image = find(h.Root, byClass("lightbox__image"))
	}

	for _, r := range []struct {
		name string
		n    *html.Node
	}{
		{"body", h.Body},
		{".js-gallery", h.Container},
		{`[data-action="close-lightbox"]`, h.Close},
		{".lightbox", h.Root},
		{".lightbox__overlay", h.Overlay},
		{".lightbox__image", h.Image},
	} {
		if r.n == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingElement, r.name)
		}
	}
	return h, nil
}

// Widget is a gallery mounted on a document.
type Widget struct {
	mu       sync.Mutex
	doc      *html.Node
	handles  *Handles
	native   bool
	events   *Dispatcher
	lightbox *Lightbox
}

// Mount renders is into doc's gallery container and wires up the lightbox.
// If env can't lazy-load natively, the lazysizes fallback is added to the page.
func Mount(doc *html.Node, is []Item, env Env) (*Widget, error) {
	h, err := Resolve(doc)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	w := &Widget{
		doc:      doc,
		handles:  h,
		native:   env.SupportsNativeLazy(),
		events:   NewDispatcher(),
		lightbox: NewLightbox(is, h.Body, h.Root, h.Image),
	}

	if !w.native {
		InjectLazySizes(h.Body)
	}

	if err := w.render(is); err != nil {
		return nil, err
	}

	w.events.OnClick(h.Container, w.onGalleryClick)
	w.events.OnClick(h.Close, func(*Event) { w.lightbox.Close() })
	w.events.OnClick(h.Overlay, func(*Event) { w.lightbox.Close() })
	w.events.OnKeydown(w.onKeydown)

	klog.V(1).Infof("mounted gallery with %d items (native lazy: %v)", len(is), w.native)
	return w, nil
}

// Render replaces the rendered thumbnails and the navigation sequence.
// Listeners stay attached to the container.
func (w *Widget) Render(is []Item) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.render(is)
}

func (w *Widget) render(is []Item) error {
	m, err := Markup(is, w.native)
	if err != nil {
		return fmt.Errorf("markup: %w", err)
	}
	if err := setInnerHTML(w.handles.Container, m); err != nil {
		return fmt.Errorf("set markup: %w", err)
	}
	w.lightbox.SetItems(is)
	return nil
}

// Click delivers a click on target.
func (w *Widget) Click(target *html.Node) *Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.events.Click(target)
}

// Keydown delivers a key press.
func (w *Widget) Keydown(code string) *Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.events.Keydown(code)
}

// Document returns the page the widget is mounted on.
func (w *Widget) Document() *html.Node { return w.doc }

// Handles returns the widget's page elements.
func (w *Widget) Handles() *Handles { return w.handles }

// Lightbox returns the viewer.
func (w *Widget) Lightbox() *Lightbox { return w.lightbox }

// Thumbnails returns the rendered thumbnail images in order.
func (w *Widget) Thumbnails() []*html.Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	return findAll(w.handles.Container, byClass(ThumbClass))
}

func (w *Widget) onGalleryClick(e *Event) {
	t := e.Target
	if t == nil || t.DataAtom != atom.Img || !HasClass(t, ThumbClass) {
		return
	}
	e.PreventDefault()
	w.lightbox.Open(Attr(t, SourceAttr))
}

func (w *Widget) onKeydown(e *Event) {
	if !w.lightbox.IsOpen() {
		return
	}

	switch e.Code {
	case KeyEscape:
		w.lightbox.Close()
	case KeyArrowRight:
		w.lightbox.Next()
	case KeyArrowLeft:
		w.lightbox.Previous()
	}
}
