package handlers

import (
	"errors"
	"net/http"

	applog "cardly/internal/log"
	"cardly/internal/upload"
)

const multipartOverhead = 64 << 10

var uploadStore *upload.Store

// ConfigureUploads installs the store backing /app/api/uploads.
func ConfigureUploads(store *upload.Store) {
	uploadStore = store
}

type uploadResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
}

// Upload accepts a multipart "file" field holding a background image.
func Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if uploadStore == nil {
		applog.Debug(r.Context(), "upload requested without a configured store")
		writeJSONError(w, http.StatusServiceUnavailable, "uploads are not available")
		return
	}

	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, uploadStore.MaxBytes()+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload limit")
			return
		}
		applog.Debug(ctx, "upload missing file field", "error", err)
		writeJSONError(w, http.StatusBadRequest, "a file field is required")
		return
	}
	defer file.Close()

	result, err := uploadStore.Save(ctx, file)
	switch {
	case err == nil:
	case errors.Is(err, upload.ErrTooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload limit")
		return
	case errors.Is(err, upload.ErrUnsupportedType):
		applog.Debug(ctx, "rejected upload", "filename", header.Filename, "error", err)
		writeJSONError(w, http.StatusUnsupportedMediaType, "only png, jpeg, gif and webp images are accepted")
		return
	case errors.Is(err, upload.ErrEmpty):
		writeJSONError(w, http.StatusBadRequest, "file is empty")
		return
	default:
		applog.Error(ctx, "failed to store upload", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to store file")
		return
	}

	applog.Info(ctx, "upload stored", "url", result.URL, "bytes", result.Size)
	writeJSON(w, http.StatusCreated, uploadResponse{
		URL:         result.URL,
		ContentType: result.ContentType,
		Width:       result.Width,
		Height:      result.Height,
		Size:        result.Size,
	})
}
