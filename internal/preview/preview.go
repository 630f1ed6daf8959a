// Package preview produces the derived views shown next to a file: image
// dimensions, image thumbnails and rendered markdown.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	_ "golang.org/x/image/webp"
)

// MaxThumbSize caps the edge length a client may ask for
const MaxThumbSize = 1024

// MaxThumbPixels bounds the source images Thumbnail is willing to decode.
// Larger images are served as they are.
var MaxThumbPixels = 40_000_000

// ErrImageTooLarge is returned by Thumbnail for sources above MaxThumbPixels
var ErrImageTooLarge = errors.New("image too large to thumbnail")

// Dimensions decodes just enough of the image at path to get its size.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// Thumbnail writes the image at path scaled to fit within size x size,
// keeping its aspect ratio, and returns the content type written. Formats
// imaging cannot encode are written as PNG.
func Thumbnail(w io.Writer, path string, size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("invalid thumbnail size %d", size)
	}
	if size > MaxThumbSize {
		size = MaxThumbSize
	}

	width, height, err := Dimensions(path)
	if err != nil {
		return "", err
	}
	if int64(width)*int64(height) > int64(MaxThumbPixels) {
		return "", fmt.Errorf("%w: %dx%d", ErrImageTooLarge, width, height)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)

	format, err := imaging.FormatFromFilename(path)
	if err != nil || format == imaging.TIFF || format == imaging.BMP {
		format = imaging.PNG
	}

	if err := imaging.Encode(w, thumb, format, imaging.JPEGQuality(80)); err != nil {
		return "", err
	}
	return contentType(format), nil
}

func contentType(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.GIF:
		return "image/gif"
	default:
		return "image/png"
	}
}

// Markdown renders markdown source to sanitised HTML.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts src and strips anything unsafe from the result.
func (m *Markdown) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes())), nil
}
