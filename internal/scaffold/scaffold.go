// Package scaffold decides what a new file starts with and how an existing
// file is viewed, based on its extension.
package scaffold

import (
	"strings"

	"filedeck/pkg/types"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Document</title>
</head>
<body>

</body>
</html>
`

const cssTemplate = `* {
    margin: 0;
    padding: 0;
    box-sizing: border-box;
}

body {
    font-family: sans-serif;
}
`

const jsTemplate = `document.addEventListener("DOMContentLoaded", () => {
    console.log("ready");
});
`

var editable = map[string]bool{
	".txt": true, ".md": true, ".html": true, ".htm": true, ".css": true,
	".js": true, ".json": true, ".xml": true, ".csv": true, ".yml": true,
	".yaml": true, ".toml": true, ".ini": true, ".log": true, ".ts": true,
	".go": true, ".py": true, ".sh": true, ".hbs": true,
}

var images = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".webp": true, ".ico": true, ".svg": true,
}

// filters are applied client side by the image viewer
var filters = []string{"none", "grayscale", "invert", "sepia"}

// NormalizeExt lowercases ext and makes sure it starts with a dot.
// An empty input stays empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// DefaultContent returns the starter content for a new file.
func DefaultContent(ext string) string {
	switch NormalizeExt(ext) {
	case ".html", ".htm":
		return htmlTemplate
	case ".css":
		return cssTemplate
	case ".js":
		return jsTemplate
	default:
		return ""
	}
}

// Classify picks the viewer for a file extension.
func Classify(ext string) types.FileClass {
	ext = NormalizeExt(ext)
	switch {
	case editable[ext]:
		return types.ClassEditable
	case images[ext]:
		return types.ClassImage
	default:
		return types.ClassOpaque
	}
}

// IsMarkdown reports whether the editor should show a rendered preview.
func IsMarkdown(ext string) bool {
	return NormalizeExt(ext) == ".md"
}

// Filters lists the display filters offered by the image viewer.
func Filters() []string {
	out := make([]string, len(filters))
	copy(out, filters)
	return out
}

// Icon maps a sniffed MIME type to the name of a listing icon.
func Icon(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	switch mimeType {
	case "image/gif":
		return "gif"
	case "image/x-icon", "image/vnd.microsoft.icon":
		return "ico"
	case "image/jpeg":
		return "jpg"
	case "audio/mpeg":
		return "mp3"
	case "video/mp4":
		return "mp4"
	case "image/png":
		return "png"
	case "text/plain":
		return "txt"
	default:
		return "unknown"
	}
}
