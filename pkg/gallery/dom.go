package gallery

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr returns the value of an element attribute, or "" if unset.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether an element carries an attribute.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key string, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HasClass reports whether an element has a class in its class list.
func HasClass(n *html.Node, class string) bool {
	return n != nil && n.Type == html.ElementNode && slices.Contains(strings.Fields(Attr(n, "class")), class)
}

func addClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	setAttr(n, "class", strings.TrimSpace(Attr(n, "class")+" "+class))
}

func removeClass(n *html.Node, class string) {
	cs := slices.DeleteFunc(strings.Fields(Attr(n, "class")), func(c string) bool { return c == class })
	setAttr(n, "class", strings.Join(cs, " "))
}

type matcher func(*html.Node) bool

func byClass(class string) matcher {
	return func(n *html.Node) bool { return HasClass(n, class) }
}

func byAttr(key string, val string) matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasAttr(n, key) && Attr(n, key) == val
	}
}

func byAtom(a atom.Atom) matcher {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.DataAtom == a }
}

// find returns the first descendant of n, in document order, that matches.
func find(n *html.Node, m matcher) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if f := find(c, m); f != nil {
			return f
		}
	}
	return nil
}

func findAll(n *html.Node, m matcher) []*html.Node {
	found := []*html.Node{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			found = append(found, c)
		}
		found = append(found, findAll(c, m)...)
	}
	return found
}

// setInnerHTML replaces the children of n with the parsed fragment.
func setInnerHTML(n *html.Node, fragment string) error {
	ns, err := html.ParseFragment(strings.NewReader(fragment), n)
	if err != nil {
		return err
	}

	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	for _, c := range ns {
		n.AppendChild(c)
	}
	return nil
}
