package server

import (
	"errors"
	"net/http"

	"LabelCMS/logger"
	"LabelCMS/model"
	"LabelCMS/storage"
)

// UploadHandler stores a multipart "file" of the given "type" (image or
// audio) and returns its URL. Admin only.
func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !h.canWrite(w, r, "Upload") {
		return
	}
	if h.store == nil {
		respondFail(w, http.StatusServiceUnavailable, "Upload storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxAudioSize+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondFail(w, http.StatusBadRequest, "File size exceeds limit")
			return
		}
		respondFail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, "Upload", &model.ValidationError{Missing: []string{"file"}})
		return
	}
	defer file.Close()

	kind := storage.Kind(r.FormValue("type"))
	contentType := header.Header.Get("Content-Type")
	if err := storage.ValidateUpload(kind, header.Size, contentType); err != nil {
		respondError(w, r, "Upload", err)
		return
	}

	key := storage.ObjectKey(kind, header.Filename, h.now())
	url, err := h.store.Put(r.Context(), key, file, header.Size, contentType)
	if err != nil {
		logger.Error("Upload failed", logger.String("key", key), logger.ErrorField(err))
		respondFail(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	logger.Info("File uploaded",
		logger.String("key", key),
		logger.String("type", string(kind)),
		logger.Int64("size", header.Size),
	)
	respondOK(w, http.StatusOK, "File uploaded successfully", map[string]string{"url": url})
}
