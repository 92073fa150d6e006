package site

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/lightbox/pkg/gallery"
)

var items = []gallery.Item{
	{Preview: "_/a.jpg", Original: "a.jpg", Description: "first"},
	{Preview: "_/b.jpg", Original: "b.jpg", Description: "second"},
}

func newSite(t *testing.T, native bool) (*Site, *Config) {
	t.Helper()
	in := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, gallery.SaveItems(in, items))

	c := &Config{
		ItemsPath:  in,
		OutDir:     t.TempDir(),
		Title:      "Holiday",
		NativeLazy: native,
	}
	s, err := Build(context.Background(), c)
	require.NoError(t, err)
	return s, c
}

func TestBuild(t *testing.T) {
	t.Run("writes index and items", func(t *testing.T) {
		s, c := newSite(t, true)
		assert.Equal(t, items, s.Items())

		got, err := gallery.LoadItems(filepath.Join(c.OutDir, "items.json"))
		require.NoError(t, err)
		assert.Equal(t, items, got)

		bs, err := os.ReadFile(filepath.Join(c.OutDir, "index.html"))
		require.NoError(t, err)
		assert.Contains(t, string(bs), "<title>Holiday</title>")
		assert.Contains(t, string(bs), `src="_/a.jpg"`)
		assert.NotContains(t, string(bs), "lazysizes")
	})

	t.Run("fallback page loads lazysizes", func(t *testing.T) {
		_, c := newSite(t, false)
		bs, err := os.ReadFile(filepath.Join(c.OutDir, "index.html"))
		require.NoError(t, err)
		assert.Contains(t, string(bs), `data-src="_/a.jpg"`)
		assert.Contains(t, string(bs), gallery.LazySizesURL)
	})

	t.Run("missing items file", func(t *testing.T) {
		_, err := Build(context.Background(), &Config{ItemsPath: filepath.Join(t.TempDir(), "nope.json"), OutDir: t.TempDir()})
		assert.Error(t, err)
	})
}

func TestHandler(t *testing.T) {
	s, c := newSite(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(c.OutDir, "a.jpg"), []byte("jpeg"), 0o644))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	get := func(path string, ua string) (*http.Response, string) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", ua)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		bs, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(bs)
	}

	t.Run("modern browser", func(t *testing.T) {
		resp, body := get("/", "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `src="_/b.jpg"`)
		assert.NotContains(t, body, gallery.LazySizesURL)
	})

	t.Run("old browser", func(t *testing.T) {
		_, body := get("/index.html", "Mozilla/5.0 (Windows NT 6.1; Trident/7.0; rv:11.0) like Gecko")
		assert.Contains(t, body, `data-src="_/b.jpg"`)
		assert.Contains(t, body, gallery.LazySizesURL)
	})

	t.Run("static files", func(t *testing.T) {
		resp, body := get("/a.jpg", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "jpeg", body)
	})
}

func TestMount(t *testing.T) {
	s, _ := newSite(t, true)
	w, err := s.Mount(gallery.StaticEnv(true))
	require.NoError(t, err)
	require.Len(t, w.Thumbnails(), 2)

	w.Click(w.Thumbnails()[0])
	assert.Equal(t, "a.jpg", w.Lightbox().Source())
}
