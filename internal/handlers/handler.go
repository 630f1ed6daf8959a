package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"filedeck/internal/filesystem"
	"filedeck/internal/preview"
	"filedeck/internal/storage"
)

// FileManagerHandler serves the browser file manager: listing, viewers and
// every mutating form post.
type FileManagerHandler struct {
	fs        *filesystem.DiskFS
	prefs     *storage.PreferencesStore
	markdown  *preview.Markdown
	template  *template.Template
	logger    *zap.Logger
	maxUpload int64
}

// NewFileManagerHandler creates a new file manager handler
func NewFileManagerHandler(fs *filesystem.DiskFS, prefs *storage.PreferencesStore, logger *zap.Logger, maxUpload int64) *FileManagerHandler {
	tmpl := template.Must(template.New("filedeck").Funcs(template.FuncMap{
		"listingURL": filesystem.ListingURL,
		"fileURL": func(endpoint, link string) string {
			return "/" + endpoint + "?name=" + filesystem.EscapePath(link)
		},
		"humanBytes": func(size int64) string {
			if size < 0 {
				size = 0
			}
			return humanize.Bytes(uint64(size))
		},
		"humanTime": humanize.Time,
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
	}).Parse(pageTemplates))

	return &FileManagerHandler{
		fs:        fs,
		prefs:     prefs,
		markdown:  preview.NewMarkdown(),
		template:  tmpl,
		logger:    logger,
		maxUpload: maxUpload,
	}
}

// Register adds every file manager route to mux
func (h *FileManagerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("GET /filemanager", h.HandleFileManager)
	mux.HandleFunc("GET /showFile", h.HandleShowFile)
	mux.HandleFunc("GET /previewFile", h.HandlePreviewFile)
	mux.HandleFunc("GET /download", h.HandleDownload)
	mux.HandleFunc("GET /info", h.HandleInfo)
	mux.HandleFunc("GET /getConfig", h.HandleGetConfig)
	mux.HandleFunc("POST /setConfig", h.HandleSetConfig)
	mux.HandleFunc("POST /newDir", h.HandleNewDir)
	mux.HandleFunc("POST /newFile", h.HandleNewFile)
	mux.HandleFunc("POST /upload", h.HandleUpload)
	mux.HandleFunc("POST /removeDir", h.HandleRemoveDir)
	mux.HandleFunc("POST /removeFile", h.HandleRemoveFile)
	mux.HandleFunc("POST /changeDirName", h.HandleChangeDirName)
	mux.HandleFunc("POST /editFile", h.HandleEditFile)
	mux.HandleFunc("POST /renameFile", h.HandleRenameFile)
}

// HandleIndex sends the browser to the root listing
func (h *FileManagerHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, filesystem.ListingURL("/"), http.StatusFound)
}

// ErrorPage is the data of the error view
type ErrorPage struct {
	Title   string
	Message string
	Back    string
}

// render executes a page into a buffer first so a template failure never
// leaves a half written response.
func (h *FileManagerHandler) render(w http.ResponseWriter, status int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := h.template.ExecuteTemplate(&buf, page, data); err != nil {
		h.logger.Error("template execution failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// fail converts an operation error into the error view. back is the
// directory the user is offered to return to.
func (h *FileManagerHandler) fail(w http.ResponseWriter, op, target, back string, err error) {
	page := ErrorPage{Back: filesystem.ListingURL(back)}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, filesystem.ErrInvalidName):
		status = http.StatusBadRequest
		page.Title = "Invalid name"
		page.Message = `Names cannot be empty or contain any of / \ : * ? " < > |`
		h.logger.Info("rejected request", zap.String("op", op), zap.String("path", target), zap.Error(err))
	case errors.Is(err, filesystem.ErrNotFound):
		status = http.StatusNotFound
		page.Title = "Not found"
		page.Message = fmt.Sprintf("%s does not exist", target)
		h.logger.Info("missing path", zap.String("op", op), zap.String("path", target))
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
			page.Title = "Upload too large"
			page.Message = fmt.Sprintf("Requests are limited to %s", humanize.Bytes(uint64(tooLarge.Limit)))
			break
		}
		page.Title = "Error"
		page.Message = "Something went wrong"
		h.logger.Error("operation failed", zap.String("op", op), zap.String("path", target), zap.Error(err))
	}

	h.render(w, status, "error", page)
}

// crumbs prepends the root link to the breadcrumb trail of v
func crumbs(v string) []filesystem.Crumb {
	return append([]filesystem.Crumb{{Name: "Home", Link: "/"}}, filesystem.Breadcrumbs(v)...)
}
