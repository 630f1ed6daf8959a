package handlers

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"filedeck/internal/filesystem"
	"filedeck/internal/naming"
	"filedeck/internal/preview"
	"filedeck/internal/scaffold"
	"filedeck/internal/storage"
	"filedeck/pkg/types"
)

// newFileExtensions are offered by the new file form
var newFileExtensions = []string{".txt", ".html", ".css", ".js", ".md", ".json"}

// ListingPage represents data for the directory listing
type ListingPage struct {
	Path        string
	Parent      string
	IsRoot      bool
	Breadcrumbs []filesystem.Crumb
	Directories []types.DirEntry
	Files       []types.FileEntry
	Extensions  []string
}

// EditorPage represents data for the text editor
type EditorPage struct {
	Name        string
	BaseName    string
	Link        string
	Dir         string
	Breadcrumbs []filesystem.Crumb
	Content     string
	Preview     interface{}
	Preferences *types.Preferences
}

// ImagePage represents data for the image viewer
type ImagePage struct {
	Name        string
	BaseName    string
	Link        string
	Dir         string
	Breadcrumbs []filesystem.Crumb
	Width       int
	Height      int
	Filters     []string
}

// InfoPage represents data for the info view
type InfoPage struct {
	Info        *types.FileInfo
	Parent      string
	Breadcrumbs []filesystem.Crumb
}

// HandleFileManager renders the listing of ?name=
func (h *FileManagerHandler) HandleFileManager(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("name")

	listing, err := h.fs.List(dir)
	if err != nil {
		h.fail(w, "list", dir, "/", err)
		return
	}

	h.render(w, http.StatusOK, "filemanager", ListingPage{
		Path:        listing.Path,
		Parent:      filesystem.Parent(listing.Path),
		IsRoot:      listing.Path == "/",
		Breadcrumbs: crumbs(listing.Path),
		Directories: listing.Directories,
		Files:       listing.Files,
		Extensions:  newFileExtensions,
	})
}

// HandleShowFile opens the editor for text, the viewer for images, and an
// error for everything else.
func (h *FileManagerHandler) HandleShowFile(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("name")
	dir := filesystem.Parent(link)

	abs, err := h.fs.Path(link)
	if err != nil {
		h.fail(w, "show", link, dir, err)
		return
	}
	link = filesystem.Clean(link)

	name := path.Base(link)
	base, ext := naming.SplitExt(name)

	switch scaffold.Classify(ext) {
	case types.ClassEditable:
		content, err := h.fs.ReadFile(link)
		if err != nil {
			h.fail(w, "show", link, dir, err)
			return
		}

		prefs, err := h.prefs.Load()
		if err != nil {
			h.logger.Warn("using default preferences", zap.Error(err))
		}
		if prefs == nil {
			prefs = storage.DefaultPreferences()
		}

		page := EditorPage{
			Name:        name,
			BaseName:    base,
			Link:        link,
			Dir:         dir,
			Breadcrumbs: crumbs(dir),
			Content:     string(content),
			Preferences: prefs,
		}
		if scaffold.IsMarkdown(ext) {
			if html, err := h.markdown.Render(content); err == nil {
				page.Preview = html
			} else {
				h.logger.Warn("markdown preview failed", zap.String("path", link), zap.Error(err))
			}
		}
		h.render(w, http.StatusOK, "editor", page)

	case types.ClassImage:
		width, height, err := preview.Dimensions(abs)
		if err != nil {
			h.logger.Debug("image dimensions unavailable", zap.String("path", link), zap.Error(err))
		}
		h.render(w, http.StatusOK, "image", ImagePage{
			Name:        name,
			BaseName:    base,
			Link:        link,
			Dir:         dir,
			Breadcrumbs: crumbs(dir),
			Width:       width,
			Height:      height,
			Filters:     scaffold.Filters(),
		})

	default:
		h.render(w, http.StatusUnsupportedMediaType, "error", ErrorPage{
			Title:   "Not editable",
			Message: name + " cannot be opened in the browser. Use download instead.",
			Back:    filesystem.ListingURL(dir),
		})
	}
}

// HandlePreviewFile streams the raw bytes of a file, or a thumbnail of an
// image when ?thumb=N is given.
func (h *FileManagerHandler) HandlePreviewFile(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("name")

	if size, err := strconv.Atoi(r.URL.Query().Get("thumb")); err == nil && size > 0 {
		if h.serveThumbnail(w, link, size) {
			return
		}
	}

	h.serveFile(w, r, link, false)
}

// HandleDownload streams a file as an attachment
func (h *FileManagerHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, r.URL.Query().Get("name"), true)
}

// HandleInfo renders size, dates and type of a file or directory
func (h *FileManagerHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("name")

	info, err := h.fs.Info(link)
	if err != nil {
		h.fail(w, "info", link, filesystem.Parent(link), err)
		return
	}

	h.render(w, http.StatusOK, "info", InfoPage{
		Info:        info,
		Parent:      filesystem.Parent(link),
		Breadcrumbs: crumbs(filesystem.Parent(link)),
	})
}

func (h *FileManagerHandler) serveThumbnail(w http.ResponseWriter, link string, size int) bool {
	_, ext := naming.SplitExt(path.Base(link))
	if scaffold.Classify(ext) != types.ClassImage {
		return false
	}
	abs, err := h.fs.Path(link)
	if err != nil {
		return false
	}

	var buf bytes.Buffer
	contentType, err := preview.Thumbnail(&buf, abs, size)
	if err != nil {
		h.logger.Debug("thumbnail unavailable", zap.String("path", link), zap.Error(err))
		return false
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
	return true
}

func (h *FileManagerHandler) serveFile(w http.ResponseWriter, r *http.Request, link string, attachment bool) {
	op := "preview"
	if attachment {
		op = "download"
	}

	f, info, err := h.fs.Open(link)
	if err != nil {
		h.fail(w, op, link, filesystem.Parent(link), err)
		return
	}
	defer f.Close()

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectReader(f); err == nil {
		contentType = mt.String()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		h.fail(w, op, link, filesystem.Parent(link), err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if attachment {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name()}))
	} else {
		// user supplied HTML must not run with this origin's privileges
		w.Header().Set("Content-Security-Policy", "sandbox")
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
