package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"filedeck/internal/filesystem"
	"filedeck/internal/metrics"
)

// HandleNewDir creates a directory in currentDir
func (h *FileManagerHandler) HandleNewDir(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	dir := r.PostFormValue("currentDir")

	link, err := h.fs.CreateDir(dir, r.PostFormValue("dirName"))
	metrics.RecordOperation("newDir", err)
	if err != nil {
		h.fail(w, "newDir", dir, dir, err)
		return
	}

	h.logger.Info("directory created", zap.String("path", link))
	h.redirect(w, r, filesystem.ListingURL(dir))
}

// HandleChangeDirName renames currentDir and shows it under the new name
func (h *FileManagerHandler) HandleChangeDirName(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	dir := r.PostFormValue("currentDir")

	newLink, err := h.fs.RenameDir(dir, r.PostFormValue("dirName"))
	metrics.RecordOperation("changeDirName", err)
	if err != nil {
		h.fail(w, "changeDirName", dir, dir, err)
		return
	}

	h.logger.Info("directory renamed", zap.String("from", dir), zap.String("to", newLink))
	h.redirect(w, r, filesystem.ListingURL(newLink))
}

// HandleRemoveDir deletes a directory tree and shows its parent
func (h *FileManagerHandler) HandleRemoveDir(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	dir := r.PostFormValue("dirPath")

	parent, err := h.fs.RemoveDir(dir)
	metrics.RecordOperation("removeDir", err)
	if err != nil {
		h.fail(w, "removeDir", dir, filesystem.Parent(dir), err)
		return
	}

	h.logger.Info("directory removed", zap.String("path", dir))
	h.redirect(w, r, filesystem.ListingURL(parent))
}
