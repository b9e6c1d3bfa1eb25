package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"portfolio/internal/media"
	"portfolio/internal/middleware"
)

// uploadOverhead is the room left for multipart framing and the folder
// field on top of the largest accepted image.
const uploadOverhead = 1 << 20

type uploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

func storageUnavailable(w http.ResponseWriter) {
	middleware.WriteError(w, http.StatusServiceUnavailable, "storage_unavailable", "Object storage is not configured", nil)
}

// declaredType returns the part's declared content type, sniffing the
// first 512 bytes when the client sent none.
func declaredType(file multipart.File, header *multipart.FileHeader) (string, error) {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct, nil
	}
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// Upload stores one image from the multipart "file" field under the
// optional "folder" field and returns its public URL. Type and size are
// checked before storage is touched.
func (a *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		storageUnavailable(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+uploadOverhead)
	if err := r.ParseMultipartForm(media.MaxImageSize + uploadOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", media.ErrTooLarge.Error(), nil)
			return
		}
		badRequest(w, "Expected a multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeInvalid(w, []fieldMessage{{Field: "file", Message: "is required"}})
		return
	}
	defer file.Close()

	contentType, err := declaredType(file, header)
	if err != nil {
		badRequest(w, "Failed to read file")
		return
	}

	switch err := media.ValidateImage(contentType, header.Size); {
	case errors.Is(err, media.ErrTooLarge):
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error(), nil)
		return
	case err != nil:
		writeInvalid(w, []fieldMessage{{Field: "file", Message: err.Error()}})
		return
	}

	key := media.ObjectKey(r.FormValue("folder"), header.Filename, time.Now())
	if err := a.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		middleware.WriteError(w, http.StatusInternalServerError, "storage_error", "Failed to upload file", err.Error())
		return
	}

	a.recordWrite(r, "", "upload", nil, actionCreate)
	writeJSON(w, http.StatusCreated, uploadResponse{URL: a.storage.FileURL(key), Path: key})
}

// DeleteUpload removes the object named by ?path=, which may be the key
// or the public URL returned by Upload.
func (a *Admin) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		storageUnavailable(w)
		return
	}
	ref := r.URL.Query().Get("path")
	if ref == "" {
		badRequest(w, "path is required")
		return
	}
	key, ok := a.storage.ExtractKey(ref)
	if !ok {
		badRequest(w, "path does not name an object in this bucket")
		return
	}
	if err := a.storage.Delete(r.Context(), key); err != nil {
		slog.Error("s3 delete failed", "error", err, "key", key)
		middleware.WriteError(w, http.StatusInternalServerError, "storage_error", "Failed to delete file", err.Error())
		return
	}
	a.recordWrite(r, "", "upload", nil, actionDelete)
	writeSuccess(w)
}
