package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"filedeck/internal/filesystem"
	"filedeck/internal/metrics"
)

// HandleNewFile creates a file in currentDir and returns to its listing
func (h *FileManagerHandler) HandleNewFile(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	dir := r.PostFormValue("currentDir")

	link, err := h.fs.CreateFile(dir, r.PostFormValue("fileName"), r.PostFormValue("ext"))
	metrics.RecordOperation("newFile", err)
	if err != nil {
		h.fail(w, "newFile", dir, dir, err)
		return
	}

	h.logger.Info("file created", zap.String("path", link))
	h.redirect(w, r, filesystem.ListingURL(dir))
}

// HandleEditFile overwrites an existing file and reopens it in the editor
func (h *FileManagerHandler) HandleEditFile(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	link := r.PostFormValue("fileLink")

	err := h.fs.WriteFile(link, r.PostFormValue("fileContent"))
	metrics.RecordOperation("editFile", err)
	if err != nil {
		h.fail(w, "editFile", link, filesystem.Parent(link), err)
		return
	}

	h.logger.Debug("file saved", zap.String("path", link))
	h.redirect(w, r, showURL(link))
}

// HandleRenameFile renames a file keeping its extension
func (h *FileManagerHandler) HandleRenameFile(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	link := r.PostFormValue("fileLink")

	newLink, err := h.fs.RenameFile(link, r.PostFormValue("fileName"))
	metrics.RecordOperation("renameFile", err)
	if err != nil {
		h.fail(w, "renameFile", link, filesystem.Parent(link), err)
		return
	}

	h.logger.Info("file renamed", zap.String("from", link), zap.String("to", newLink))
	h.redirect(w, r, showURL(newLink))
}

// HandleRemoveFile deletes a file and returns to the containing listing
func (h *FileManagerHandler) HandleRemoveFile(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	link := r.PostFormValue("filePath")

	parent, err := h.fs.RemoveFile(link)
	metrics.RecordOperation("removeFile", err)
	if err != nil {
		h.fail(w, "removeFile", link, filesystem.Parent(link), err)
		return
	}

	h.logger.Info("file removed", zap.String("path", link))
	h.redirect(w, r, filesystem.ListingURL(parent))
}

// parseForm bounds the body before parsing it. It writes the error view and
// returns false when the form cannot be read.
func (h *FileManagerHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseForm(); err != nil {
		h.fail(w, "parseForm", r.URL.Path, "/", err)
		return false
	}
	return true
}

func (h *FileManagerHandler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

func showURL(link string) string {
	return "/showFile?name=" + filesystem.EscapePath(link)
}
