package collect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

var exifDate = "2006:01:02 15:04:05"

// TakeoutSidecar is a JSON file for EXIF overrides that is compatible with Google Takeout.
type TakeoutSidecar struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func isPhoto(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

func read(path string, et *exiftool.Exiftool) (Photo, error) {
	fis := et.ExtractMetadata(path)
	p := Photo{}
	if len(fis) == 0 {
		return p, fmt.Errorf("no metadata for %q", path)
	}

	fi := fis[0]
	if fi.Err != nil {
		return p, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v\n", k, v)
	}

	var err error
	p.Width, err = fi.GetInt("ImageWidth")
	if err != nil {
		klog.V(1).Infof("unable to get width for %s: %v", path, err)
	}

	p.Height, err = fi.GetInt("ImageHeight")
	if err != nil {
		klog.V(1).Infof("unable to get height for %s: %v", path, err)
	}

	p.Description, err = fi.GetString("ImageDescription")
	if err != nil {
		klog.V(2).Infof("unable to get description: %v", err)
	}

	p.Title, err = fi.GetString("Headline")
	if err != nil {
		klog.V(2).Infof("unable to get headline: %v", err)
	}

	ds, err := fi.GetString("DateTimeOriginal")
	if err != nil {
		klog.V(1).Infof("unable to get date time for %s: %v", path, err)
		return p, nil
	}

	p.Taken, err = time.Parse(exifDate, ds)
	if err != nil {
		klog.Warningf("parse time %q for %s: %v", ds, path, err)
	}

	return p, nil
}

// readSidecar applies a Takeout sidecar (photo.jpg.json) to p, if one exists.
func readSidecar(p *Photo) error {
	bs, err := os.ReadFile(p.InPath + ".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	s := TakeoutSidecar{}
	if err := json.Unmarshal(bs, &s); err != nil {
		return fmt.Errorf("unmarshal sidecar: %w", err)
	}

	klog.V(1).Infof("sidecar for %s: %+v", p.InPath, s)
	if s.Title != "" {
		p.Title = s.Title
	}
	if s.Description != "" {
		p.Description = s.Description
	}
	return nil
}

// thumbDir holds published thumbnails next to their originals.
const thumbDir = "_"

// photoPaths lists photos under root. Hidden entries, thumbnail directories
// and any directory in skip (such as an output directory nested in root) are
// left out.
func photoPaths(root string, skip ...string) ([]string, error) {
	skipped := map[string]bool{}
	for _, s := range skip {
		if s == "" {
			continue
		}
		abs, err := filepath.Abs(s)
		if err != nil {
			return nil, err
		}
		skipped[abs] = true
	}

	found := []string{}
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path == root {
				return nil
			}

			name := filepath.Base(path)
			if strings.HasPrefix(name, ".") {
				return godirwalk.SkipThis
			}

			if de.IsDir() {
				abs, err := filepath.Abs(path)
				if err != nil {
					return err
				}
				if name == thumbDir || skipped[abs] {
					klog.V(1).Infof("skipping %s", path)
					return godirwalk.SkipThis
				}
				return nil
			}

			if isPhoto(path) {
				found = append(found, path)
			}
			return nil
		},
	})
	return found, err
}

// Find returns the photos under root, skipping the directories photoPaths does.
func Find(root string, sidecars bool, skip ...string) ([]*Photo, error) {
	paths, err := photoPaths(root, skip...)
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	defer et.Close()

	found := []*Photo{}
	for _, path := range paths {
		klog.V(1).Infof("found %s", path)
		p, err := read(path, et)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		p.InPath = path
		p.RelPath, err = filepath.Rel(root, path)
		if err != nil {
			return nil, err
		}

		if sidecars {
			if err := readSidecar(&p); err != nil {
				return nil, fmt.Errorf("sidecar %s: %w", path, err)
			}
		}

		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat: %w", err)
		}
		p.ModTime = fi.ModTime()

		found = append(found, &p)
	}

	return found, nil
}
