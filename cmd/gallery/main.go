// gallery builds a lightbox gallery page from a directory of photos or a JSON item list.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/tstromberg/lightbox/pkg/collect"
	"github.com/tstromberg/lightbox/pkg/site"
)

var (
	inDir       = flag.String("in", "", "Location of input photo directory")
	itemsPath   = flag.String("items", "", "JSON file of gallery items to use instead of --in")
	outDir      = flag.String("out", "", "Location of output directory")
	title       = flag.String("title", "Gallery", "Title of the gallery page")
	description = flag.String("description", "", "description of the gallery")
	stylesheet  = flag.String("stylesheet", "", "URL of a stylesheet to link from the page")
	nativeLazy  = flag.Bool("native-lazy", true, "assume browsers lazy-load images natively in the static index.html")
	sidecars    = flag.Bool("sidecars", false, "apply Google Takeout JSON sidecars")
	previewY    = flag.Int("preview-height", collect.DefaultPreview.Y, "height of preview thumbnails")
	describe    = flag.Bool("describe", false, "generate missing descriptions with Gemini (needs GOOGLE_AI_API_KEY)")
	listen      = flag.Bool("listen", false, "serve content via HTTP")
	addr        = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
	watchFlag   = flag.Bool("watch", false, "watch for changes to the input and rebuild")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *inDir == "" && *itemsPath == "" {
		klog.Exitf("--in or --items is required")
	}

	if *outDir == "" {
		klog.Exitf("--out is a required flag")
	}

	ctx := context.Background()
	c := &site.Config{
		InDir:           *inDir,
		ItemsPath:       *itemsPath,
		OutDir:          *outDir,
		Title:           *title,
		Description:     *description,
		Stylesheet:      *stylesheet,
		NativeLazy:      *nativeLazy,
		ProcessSidecars: *sidecars,
		Preview:         collect.ThumbOpts{Y: *previewY, Quality: collect.DefaultPreview.Quality},
	}

	if *describe {
		d, err := collect.NewDescriber(ctx, os.Getenv("GOOGLE_AI_API_KEY"), collect.DefaultModel)
		if err != nil {
			klog.Exitf("describer: %v", err)
		}
		c.Describer = d
	}

	s, err := site.Build(ctx, c)
	if err != nil {
		klog.Exitf("build failed: %v", err)
	}

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(ctx, c, s); err != nil {
				klog.Exitf("watch failed: %v", err)
			}
		}()
	}

	if *listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(s, *addr)
		}()
	}

	wg.Wait()
}

// serve serves the gallery via HTTP
func serve(s *site.Site, addr string) {
	klog.Infof("Listening on %s...", addr)
	if err := http.ListenAndServe(addr, s.Handler()); err != nil {
		klog.Exitf("listen failed: %v", err)
	}
}

// watchDirs returns the directories to watch for changes.
func watchDirs(c *site.Config) ([]string, error) {
	if c.ItemsPath != "" {
		return []string{filepath.Dir(c.ItemsPath)}, nil
	}

	out, err := filepath.Abs(c.OutDir)
	if err != nil {
		return nil, err
	}

	dirs := []string{}
	err = godirwalk.Walk(c.InDir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if abs == out || (path != c.InDir && strings.HasPrefix(de.Name(), ".")) {
				return godirwalk.SkipThis
			}
			dirs = append(dirs, path)
			return nil
		},
	})

	slices.Sort(dirs)
	return slices.Compact(dirs), err
}

// watch watches the input for changes and rebuilds
func watch(ctx context.Context, c *site.Config, s *site.Site) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs, err := watchDirs(c)
	if err != nil {
		return fmt.Errorf("watch dirs: %w", err)
	}

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("add %s: %w", d, err)
		}
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %v", event)
			if c.ItemsPath != "" && filepath.Clean(event.Name) != filepath.Clean(c.ItemsPath) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if err := s.Rebuild(ctx); err != nil {
					klog.Errorf("rebuild failed: %v", err)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
