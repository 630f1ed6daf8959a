package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	writePNG(t, path, 40, 25)

	w, h, err := Dimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 40, w)
	assert.Equal(t, 25, h)
}

func TestDimensions_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.png")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	_, _, err := Dimensions(path)
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.png")
	writePNG(t, path, 200, 100)

	var buf bytes.Buffer
	ct, err := Thumbnail(&buf, path, 50)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	cfg, _, err := image.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestThumbnail_RefusesOversizedSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	writePNG(t, path, 300, 200)

	limit := MaxThumbPixels
	MaxThumbPixels = 300*200 - 1
	t.Cleanup(func() { MaxThumbPixels = limit })

	var buf bytes.Buffer
	_, err := Thumbnail(&buf, path, 50)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Zero(t, buf.Len())
}

func TestThumbnail_InvalidSize(t *testing.T) {
	_, err := Thumbnail(&bytes.Buffer{}, "unused.png", 0)
	assert.Error(t, err)
}

func TestMarkdown_RenderSanitizes(t *testing.T) {
	md := NewMarkdown()

	out, err := md.Render([]byte("# Title\n\n<script>alert(1)</script>\n\n- [x] done\n"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Title")
	assert.NotContains(t, html, "<script>")
}
