// Package collect turns a directory of photos into gallery items, publishing
// originals and preview thumbnails into an output directory.
package collect

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/tstromberg/lightbox/pkg/gallery"
)

// Config holds configuration for a collection run.
type Config struct {
	InDir           string
	OutDir          string
	Preview         ThumbOpts
	ProcessSidecars bool

	// Describer fills in missing descriptions when set.
	Describer *Describer
}

// Photo is an image found in the input directory.
type Photo struct {
	InPath  string
	RelPath string
	ModTime time.Time
	Taken   time.Time

	Title       string
	Description string

	Width  int64
	Height int64

	// Set once published.
	OriginalURL string
	Preview     ThumbMeta
}

// Collect finds photos under c.InDir, publishes them into c.OutDir and
// returns gallery items, newest first.
func Collect(ctx context.Context, c *Config) ([]gallery.Item, error) {
	klog.Infof("collect: %s -> %s", c.InDir, c.OutDir)

	ps, err := Find(c.InDir, c.ProcessSidecars, c.OutDir)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	opts := c.Preview
	if opts.X == 0 && opts.Y == 0 {
		opts = DefaultPreview
	}

	for _, p := range ps {
		if err := publish(p, c.OutDir, opts); err != nil {
			return nil, fmt.Errorf("publish %s: %w", p.RelPath, err)
		}
	}

	sortPhotos(ps)

	is := []gallery.Item{}
	for _, p := range ps {
		if p.Description == "" && c.Describer != nil {
			d, err := c.Describer.Describe(ctx, p.Preview.Path)
			if err != nil {
				klog.Warningf("describe %s: %v", p.RelPath, err)
			}
			p.Description = d
		}

		is = append(is, gallery.Item{
			Preview:     p.Preview.RelPath,
			Original:    p.OriginalURL,
			Description: description(p),
		})
	}

	klog.Infof("collected %d items", len(is))
	return is, nil
}

// sortPhotos orders photos newest first, breaking ties by path. Photos with
// no capture time sort last.
func sortPhotos(ps []*Photo) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].Taken.Equal(ps[j].Taken) {
			return ps[i].Taken.After(ps[j].Taken)
		}
		return ps[i].RelPath < ps[j].RelPath
	})
}

// description picks alt text for a photo, falling back to its file name.
func description(p *Photo) string {
	if p.Description != "" {
		return p.Description
	}
	if p.Title != "" {
		return p.Title
	}
	base := filepath.Base(p.RelPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
