package gallery

import (
	"sync"

	"golang.org/x/net/html"
	"k8s.io/klog/v2"
)

// Lightbox is the full-size image viewer. It is either open or closed, and
// while open it shows one item's original image.
type Lightbox struct {
	mu    sync.Mutex
	items []Item
	open  bool

	body  *html.Node
	root  *html.Node
	image *html.Node
}

// NewLightbox returns a closed lightbox that toggles classes on body and root
// and displays images through image.
func NewLightbox(is []Item, body *html.Node, root *html.Node, image *html.Node) *Lightbox {
	return &Lightbox{
		items: is,
		body:  body,
		root:  root,
		image: image,
	}
}

// IsOpen reports whether the viewer is showing.
func (lb *Lightbox) IsOpen() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.open
}

// Source returns the URL of the displayed image.
func (lb *Lightbox) Source() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return Attr(lb.image, "src")
}

// Current returns the displayed item, if it is one of ours.
func (lb *Lightbox) Current() (Item, bool) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	i := lb.index()
	if i < 0 {
		return Item{}, false
	}
	return lb.items[i], true
}

// SetItems replaces the sequence used for navigation.
func (lb *Lightbox) SetItems(is []Item) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.items = is
}

// Open shows src in the viewer.
func (lb *Lightbox) Open(src string) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	klog.V(1).Infof("open lightbox: %s", src)
	addClass(lb.body, bodyOpenClass)
	addClass(lb.root, rootOpenClass)
	lb.open = true
	setAttr(lb.image, "src", src)
}

// Close hides the viewer and clears its source, so the previous image does
// not show while the next one loads.
func (lb *Lightbox) Close() {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	klog.V(1).Infof("close lightbox")
	removeClass(lb.body, bodyOpenClass)
	removeClass(lb.root, rootOpenClass)
	lb.open = false
	setAttr(lb.image, "src", "")
}

// Next shows the following item. It does nothing while closed, on the last
// item, or when the displayed image is not in the sequence.
func (lb *Lightbox) Next() {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if !lb.open {
		return
	}

	i := lb.index()
	if i < 0 || i+1 >= len(lb.items) {
		return
	}
	setAttr(lb.image, "src", lb.items[i+1].Original)
}

// Previous shows the preceding item. It does nothing while closed, on the
// first item, or when the displayed image is not in the sequence.
func (lb *Lightbox) Previous() {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if !lb.open {
		return
	}

	i := lb.index()
	if i-1 < 0 {
		return
	}
	setAttr(lb.image, "src", lb.items[i-1].Original)
}

// index finds the first item whose original is displayed, or -1.
// It is recomputed every time so it can't drift from the displayed source.
func (lb *Lightbox) index() int {
	src := Attr(lb.image, "src")
	for i, it := range lb.items {
		if it.Original == src {
			return i
		}
	}
	return -1
}
