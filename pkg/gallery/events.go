package gallery

import (
	"golang.org/x/net/html"
)

// Key codes the lightbox reacts to.
const (
	KeyEscape     = "Escape"
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
)

// Event is a click or keydown delivered to listeners.
type Event struct {
	// Target is the node that was clicked; nil for key events.
	Target *html.Node
	// Code is the key code for key events.
	Code string

	prevented bool
}

// PreventDefault marks the event so the browser action (following a link) is skipped.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Listener handles an event.
type Listener func(*Event)

// Dispatcher routes events to listeners keyed by the node they were
// registered on. Clicks bubble from the target up to the document root.
type Dispatcher struct {
	clicks map[*html.Node][]Listener
	keys   []Listener
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{clicks: map[*html.Node][]Listener{}}
}

// OnClick registers a click listener on n.
func (d *Dispatcher) OnClick(n *html.Node, l Listener) {
	d.clicks[n] = append(d.clicks[n], l)
}

// OnKeydown registers a window-level keydown listener.
func (d *Dispatcher) OnKeydown(l Listener) {
	d.keys = append(d.keys, l)
}

// Click delivers a click on target to every listener on target and its ancestors.
func (d *Dispatcher) Click(target *html.Node) *Event {
	e := &Event{Target: target}
	for n := target; n != nil; n = n.Parent {
		for _, l := range d.clicks[n] {
			l(e)
		}
	}
	return e
}

// Keydown delivers a key code to keydown listeners.
func (d *Dispatcher) Keydown(code string) *Event {
	e := &Event{Code: code}
	for _, l := range d.keys {
		l(e)
	}
	return e
}
