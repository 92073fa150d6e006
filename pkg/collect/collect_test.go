package collect

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSafePath(t *testing.T) {
	assert.Equal(t, "2024/summer_trip/IMG_0001.jpg", urlSafePath("2024/summer trip/IMG_0001.jpg"))
	assert.Equal(t, "a_b_c.jpg", urlSafePath("a&b?c.jpg"))
	assert.Equal(t, "_/x@y360_101010.jpg", urlSafePath("_/x@y360_101010.jpg"))
}

func TestThumbRelPath(t *testing.T) {
	p := &Photo{RelPath: filepath.Join("2024", "beach day", "IMG 1.jpg"), ModTime: time.Date(2024, 7, 1, 13, 4, 5, 0, time.UTC)}
	assert.Equal(t, "2024/beach_day/_/IMG_1@y360_130405.jpg", thumbRelPath(p, ThumbOpts{Y: 360}))
	assert.Equal(t, "2024/beach_day/_/IMG_1@x640_130405.jpg", thumbRelPath(p, ThumbOpts{X: 640}))
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "a dog", description(&Photo{RelPath: "x.jpg", Title: "t", Description: "a dog"}))
	assert.Equal(t, "t", description(&Photo{RelPath: "x.jpg", Title: "t"}))
	assert.Equal(t, "IMG_1", description(&Photo{RelPath: "a/IMG_1.jpg"}))
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "A dog on a beach.", cleanDescription("  \"A dog on a beach.\"\nMore text"))
	assert.Empty(t, cleanDescription("   "))
}

func TestReadSidecar(t *testing.T) {
	dir := t.TempDir()
	p := &Photo{InPath: filepath.Join(dir, "a.jpg"), Title: "exif title", Description: "exif description"}

	require.NoError(t, readSidecar(p))
	assert.Equal(t, "exif title", p.Title)

	require.NoError(t, os.WriteFile(p.InPath+".json", []byte(`{"title":"","description":"from takeout"}`), 0o644))
	require.NoError(t, readSidecar(p))
	assert.Equal(t, "exif title", p.Title)
	assert.Equal(t, "from takeout", p.Description)

	require.NoError(t, os.WriteFile(p.InPath+".json", []byte(`{`), 0o644))
	assert.Error(t, readSidecar(p))
}

func TestPublish(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	src := filepath.Join(in, "my photo.jpg")
	require.NoError(t, imgio.Save(src, img, imgio.JPEGEncoder(90)))
	st, err := os.Stat(src)
	require.NoError(t, err)

	p := &Photo{InPath: src, RelPath: "my photo.jpg", ModTime: st.ModTime()}
	require.NoError(t, publish(p, out, ThumbOpts{Y: 100, Quality: 80}))

	assert.Equal(t, "my_photo.jpg", p.OriginalURL)
	assert.FileExists(t, filepath.Join(out, "my_photo.jpg"))
	assert.Equal(t, 200, p.Preview.X)
	assert.Equal(t, 100, p.Preview.Y)
	assert.FileExists(t, p.Preview.Path)

	// A second run reuses the thumbnail.
	again := &Photo{InPath: src, RelPath: "my photo.jpg", ModTime: st.ModTime()}
	require.NoError(t, publish(again, out, ThumbOpts{Y: 100, Quality: 80}))
	assert.Equal(t, p.Preview, again.Preview)
}

func TestSortPhotos(t *testing.T) {
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	ps := []*Photo{
		{RelPath: "undated.jpg"},
		{RelPath: "b/old.jpg", Taken: old},
		{RelPath: "z.jpg", Taken: recent},
		{RelPath: "a.jpg", Taken: recent},
		{RelPath: "a/undated.jpg"},
	}
	sortPhotos(ps)

	got := []string{}
	for _, p := range ps {
		got = append(got, p.RelPath)
	}
	assert.Equal(t, []string{"a.jpg", "z.jpg", "b/old.jpg", "a/undated.jpg", "undated.jpg"}, got)
}

func TestPreviewSize(t *testing.T) {
	tests := []struct {
		name   string
		b      image.Rectangle
		t      ThumbOpts
		wantX  int
		wantY  int
		hasErr bool
	}{
		{"fixed height", image.Rect(0, 0, 400, 200), ThumbOpts{Y: 100}, 200, 100, false},
		{"fixed width", image.Rect(0, 0, 400, 200), ThumbOpts{X: 100}, 100, 50, false},
		{"both fixed", image.Rect(0, 0, 400, 200), ThumbOpts{X: 10, Y: 10}, 10, 10, false},
		{"empty", image.Rect(0, 0, 0, 200), ThumbOpts{Y: 100}, 0, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, err := previewSize(tc.b, tc.t)
			if tc.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantX, x)
			assert.Equal(t, tc.wantY, y)
		})
	}
}

func TestPhotoPathsSkipsOutput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "site")

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	require.NoError(t, os.MkdirAll(filepath.Join(in, "trip"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(in, ".cache"), 0o755))
	for _, p := range []string{"a.jpg", filepath.Join("trip", "b.JPEG"), filepath.Join(".cache", "c.jpg")} {
		require.NoError(t, imgio.Save(filepath.Join(in, p), img, imgio.JPEGEncoder(90)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644))

	want := []string{filepath.Join(in, "a.jpg"), filepath.Join(in, "trip", "b.JPEG")}
	got, err := photoPaths(in, out)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)

	for _, rel := range []string{"a.jpg", filepath.Join("trip", "b.JPEG")} {
		src := filepath.Join(in, rel)
		st, err := os.Stat(src)
		require.NoError(t, err)
		require.NoError(t, publish(&Photo{InPath: src, RelPath: rel, ModTime: st.ModTime()}, out, ThumbOpts{Y: 10, Quality: 80}))
	}
	assert.FileExists(t, filepath.Join(out, "trip", "b.JPEG"))

	again, err := photoPaths(in, out)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, again)

	// Thumbnail directories are skipped even without the output directory.
	all, err := photoPaths(in)
	require.NoError(t, err)
	assert.ElementsMatch(t, append(want, filepath.Join(out, "a.jpg"), filepath.Join(out, "trip", "b.JPEG")), all)
}
