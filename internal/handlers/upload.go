package handlers

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"filedeck/internal/filesystem"
	"filedeck/internal/metrics"
)

// maxFieldBytes bounds plain text fields of the upload form
const maxFieldBytes = 4096

// HandleUpload streams every file part of a multipart request into a
// staging batch and commits the batch into currentDir. Any invalid name
// rejects the whole batch.
func (h *FileManagerHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	mr, err := r.MultipartReader()
	if err != nil {
		h.logger.Info("rejected upload", zap.Error(err))
		h.render(w, http.StatusBadRequest, "error", ErrorPage{
			Title:   "Bad request",
			Message: "Uploads must be sent as multipart/form-data",
			Back:    filesystem.ListingURL("/"),
		})
		return
	}

	batch, err := h.fs.NewUploadBatch()
	if err != nil {
		h.fail(w, "upload", "upload", "/", err)
		return
	}
	defer batch.Discard()

	dir := "/"
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.fail(w, "upload", dir, dir, err)
			return
		}

		filename, isFile := rawFilename(part)
		switch {
		case !isFile && part.FormName() == "currentDir":
			value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			if err != nil {
				h.fail(w, "upload", dir, dir, err)
				return
			}
			dir = string(value)
		case isFile && filename != "":
			if err := batch.Add(filename, part); err != nil {
				h.fail(w, "upload", dir, dir, err)
				return
			}
		}
		part.Close()
	}

	if batch.Len() == 0 {
		h.redirect(w, r, filesystem.ListingURL(dir))
		return
	}

	links, err := h.fs.CommitUploads(r.Context(), dir, batch)
	metrics.RecordOperation("upload", err)
	if err != nil {
		h.fail(w, "upload", dir, dir, err)
		return
	}

	metrics.RecordUpload(len(links), batch.Size())
	h.logger.Info("upload committed",
		zap.String("dir", dir),
		zap.Int("files", len(links)),
		zap.Int64("bytes", batch.Size()))
	h.redirect(w, r, filesystem.ListingURL(dir))
}

// rawFilename returns the filename parameter exactly as the client sent
// it. multipart.Part.FileName strips directory components, which would
// turn an invalid name such as "a/b.txt" into a valid one.
func rawFilename(part *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return "", false
	}
	filename, ok := params["filename"]
	return filename, ok
}
