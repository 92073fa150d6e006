package collect

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// ModTimeFormat is part of thumbnail names so edits bust caches.
var ModTimeFormat = "150405"

// ThumbOpts are thumbnail options.
type ThumbOpts struct {
	X       int
	Y       int
	Quality int
}

// DefaultPreview sizes gallery thumbnails.
var DefaultPreview = ThumbOpts{Y: 360, Quality: 80}

// ThumbMeta describes a thumbnail.
type ThumbMeta struct {
	X       int
	Y       int
	RelPath string
	Path    string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._/@-]+`)

// urlSafePath replaces characters that would need escaping in a URL.
func urlSafePath(p string) string {
	return unsafeChars.ReplaceAllString(filepath.ToSlash(p), "_")
}

// Preview publishes p into outDir with the default preview size.
func Preview(p *Photo, outDir string) error {
	return publish(p, outDir, DefaultPreview)
}

// publish copies the original into outDir, when missing or stale, and makes
// sure a preview thumbnail exists.
func publish(p *Photo, outDir string, t ThumbOpts) error {
	p.OriginalURL = urlSafePath(p.RelPath)
	fullDest := filepath.Join(outDir, filepath.FromSlash(p.OriginalURL))
	klog.V(1).Infof("relpath: %s -- full dest: %s", p.RelPath, fullDest)

	sst, err := os.Stat(p.InPath)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	dst, err := os.Stat(fullDest)
	updated := false

	if err != nil {
		updated = true
		klog.V(1).Infof("updating %s: does not exist", fullDest)
	}

	if err == nil && sst.Size() != dst.Size() {
		updated = true
		klog.Infof("updating %s: size mismatch", fullDest)
	}

	if err == nil && sst.ModTime().After(dst.ModTime()) {
		klog.Infof("updating %s: source newer", fullDest)
		updated = true
	}

	if updated {
		if err := copy.Copy(p.InPath, fullDest); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
	}

	relPath := thumbRelPath(p, t)
	fullPath := filepath.Join(outDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	st, err := os.Stat(fullPath)
	if err == nil && st.Size() > int64(128) && !updated {
		x, y, err := dimensions(fullPath)
		if err == nil {
			p.Preview = ThumbMeta{X: x, Y: y, RelPath: relPath, Path: fullPath}
			return nil
		}
		klog.Warningf("rebuilding unreadable preview %s: %v", fullPath, err)
	}

	img, err := imgio.Open(p.InPath)
	if err != nil {
		return fmt.Errorf("imgio.Open: %w", err)
	}

	x, y, err := previewSize(img.Bounds(), t)
	if err != nil {
		return fmt.Errorf("%s: %w", p.InPath, err)
	}

	klog.V(1).Infof("resizing %s to %dx%d: %s", p.RelPath, x, y, fullPath)
	small := transform.Resize(img, x, y, transform.Lanczos)
	if err := imgio.Save(fullPath, small, imgio.JPEGEncoder(t.Quality)); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}

	p.Preview = ThumbMeta{X: small.Bounds().Dx(), Y: small.Bounds().Dy(), RelPath: relPath, Path: fullPath}
	return nil
}

// previewSize scales b to fit t, keeping the aspect ratio when only one side is fixed.
func previewSize(b image.Rectangle, t ThumbOpts) (int, int, error) {
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("empty image %v", b)
	}

	switch {
	case t.X == 0 && t.Y == 0:
		return w, h, nil
	case t.X == 0:
		return w * t.Y / h, t.Y, nil
	case t.Y == 0:
		return t.X, h * t.X / w, nil
	}
	return t.X, t.Y, nil
}

// dimensions reads the size of an existing JPEG without decoding it.
func dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	ic, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	return ic.Width, ic.Height, nil
}

// thumbRelPath returns a slash-separated path to a photo's thumbnail, next to
// the original in a "_" directory.
func thumbRelPath(p *Photo, t ThumbOpts) string {
	base := filepath.Base(p.RelPath)
	noExt := strings.TrimSuffix(base, filepath.Ext(base))

	dimensions := ""
	if t.X != 0 {
		dimensions = fmt.Sprintf("x%d", t.X)
	}
	if t.Y != 0 {
		dimensions = fmt.Sprintf("y%d", t.Y)
	}

	newBase := fmt.Sprintf("%s@%s_%s.jpg", noExt, dimensions, p.ModTime.Format(ModTimeFormat))
	return urlSafePath(filepath.Join(filepath.Dir(p.RelPath), thumbDir, newBase))
}
