// Package site builds and serves a static gallery page.
package site

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/klog/v2"

	"github.com/tstromberg/lightbox/pkg/collect"
	"github.com/tstromberg/lightbox/pkg/gallery"
)

// Config holds configuration for a gallery site.
type Config struct {
	// InDir is a directory of photos. Ignored when ItemsPath is set.
	InDir string
	// ItemsPath is a JSON list of items to use as-is.
	ItemsPath string
	OutDir    string

	Title       string
	Description string
	Stylesheet  string

	// NativeLazy controls how the static index.html loads thumbnails.
	NativeLazy      bool
	ProcessSidecars bool
	Preview         collect.ThumbOpts
	Describer       *collect.Describer
}

// Site is a built gallery.
type Site struct {
	c  *Config
	mu sync.RWMutex
	is []gallery.Item
}

// Build gathers items and writes items.json and index.html into c.OutDir.
func Build(ctx context.Context, c *Config) (*Site, error) {
	s := &Site{c: c}
	if err := s.Rebuild(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Rebuild gathers items again and rewrites the output.
func (s *Site) Rebuild(ctx context.Context) error {
	is, err := s.items(ctx)
	if err != nil {
		return fmt.Errorf("items: %w", err)
	}

	for _, d := range gallery.DuplicateOriginals(is) {
		klog.Warningf("%s appears more than once; arrow keys will skip its later copies", d)
	}

	if err := os.MkdirAll(s.c.OutDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if err := gallery.SaveItems(filepath.Join(s.c.OutDir, "items.json"), is); err != nil {
		return fmt.Errorf("write items: %w", err)
	}

	bs, err := s.render(is, gallery.StaticEnv(s.c.NativeLazy))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	p := filepath.Join(s.c.OutDir, "index.html")
	klog.Infof("Writing gallery with %d items to %s", len(is), p)
	if err := os.WriteFile(p, bs, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	s.mu.Lock()
	s.is = is
	s.mu.Unlock()
	return nil
}

// Items returns the current gallery items.
func (s *Site) Items() []gallery.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.is
}

func (s *Site) items(ctx context.Context) ([]gallery.Item, error) {
	if s.c.ItemsPath != "" {
		klog.V(1).Infof("loading items from %s", s.c.ItemsPath)
		return gallery.LoadItems(s.c.ItemsPath)
	}

	return collect.Collect(ctx, &collect.Config{
		InDir:           s.c.InDir,
		OutDir:          s.c.OutDir,
		Preview:         s.c.Preview,
		ProcessSidecars: s.c.ProcessSidecars,
		Describer:       s.c.Describer,
	})
}

// Mount renders a fresh page with the current items mounted for env.
func (s *Site) Mount(env gallery.Env) (*gallery.Widget, error) {
	return s.mount(s.Items(), env)
}

func (s *Site) mount(is []gallery.Item, env gallery.Env) (*gallery.Widget, error) {
	doc, err := gallery.Page(gallery.PageData{
		Title:       s.c.Title,
		Description: s.c.Description,
		Stylesheet:  s.c.Stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	return gallery.Mount(doc, is, env)
}

func (s *Site) render(is []gallery.Item, env gallery.Env) ([]byte, error) {
	w, err := s.mount(is, env)
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}

	var out bytes.Buffer
	if err := gallery.Write(&out, w.Document()); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return out.Bytes(), nil
}

// Handler serves the gallery. The index is rendered for each request's
// User-Agent; everything else comes from the output directory.
func (s *Site) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.c.OutDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && r.URL.Path != "/index.html" {
			files.ServeHTTP(w, r)
			return
		}

		env := gallery.UserAgent(r.UserAgent())
		bs, err := s.render(s.Items(), env)
		if err != nil {
			klog.Errorf("render for %q: %v", r.UserAgent(), err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}

		klog.V(1).Infof("serving index to %q (native lazy: %v)", r.UserAgent(), env.SupportsNativeLazy())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(bs); err != nil {
			klog.Errorf("write response: %v", err)
		}
	})
}
