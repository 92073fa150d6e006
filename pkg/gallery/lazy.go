package gallery

import (
	"github.com/mileusna/useragent"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"k8s.io/klog/v2"
)

// lazysizes is loaded when the browser can't lazy-load images by itself.
var (
	LazySizesURL       = "https://cdnjs.cloudflare.com/ajax/libs/lazysizes/5.3.2/lazysizes.min.js"
	LazySizesIntegrity = "sha512-q583ppKrCRc7N5O0n2nzUiJ+suUv7Et1JGels4bXOaMFQcamPk9HjdUknZuuFjBNs7tsMuadge5k9RzdmO+1GQ=="
)

// Env describes the browser the page is rendered for.
type Env interface {
	SupportsNativeLazy() bool
}

// StaticEnv is an Env with a fixed answer.
type StaticEnv bool

// SupportsNativeLazy implements Env.
func (e StaticEnv) SupportsNativeLazy() bool { return bool(e) }

// UserAgent is an Env that inspects a browser User-Agent header.
type UserAgent string

// SupportsNativeLazy reports whether the agent honors loading="lazy" on img:
// Chromium 77+, Firefox 75+ and Safari 15.4+. Every iOS browser is WebKit, so
// there the iOS version decides.
func (ua UserAgent) SupportsNativeLazy() bool {
	p := useragent.Parse(string(ua))
	switch {
	case p.IsIOS():
		return atLeast(p.OSVersionNo, 15, 4)
	case p.IsEdge():
		return p.VersionNo.Major >= 79
	case p.IsOpera():
		return p.VersionNo.Major >= 64
	case p.IsChrome():
		return p.VersionNo.Major >= 77
	case p.IsFirefox():
		return p.VersionNo.Major >= 75
	case p.IsSafari():
		return atLeast(p.VersionNo, 15, 4)
	}
	return false
}

func atLeast(v useragent.VersionNo, major int, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// InjectLazySizes appends the lazysizes script to body. Load failures are not
// observed: deferred images simply stay unloaded.
func InjectLazySizes(body *html.Node) {
	klog.V(1).Infof("injecting lazysizes fallback from %s", LazySizesURL)
	body.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr: []html.Attribute{
			{Key: "src", Val: LazySizesURL},
			{Key: "integrity", Val: LazySizesIntegrity},
			{Key: "crossorigin", Val: "anonymous"},
		},
	})
}
