package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/menuboard/internal/upload"
)

type UploadHandler struct {
	uploader *upload.Uploader
	logger   *slog.Logger
}

func NewUploadHandler(u *upload.Uploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploader: u, logger: logger}
}

// Image stores the multipart field "image" and returns its public URL.
func (h *UploadHandler) Image(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil || !h.uploader.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "image uploads are not configured"})
		return
	}

	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(upload.MaxImageSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image must be 5MB or smaller"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image is required"})
		return
	}
	defer file.Close()

	url, err := h.uploader.Put(r.Context(), file, header.Size, header.Header.Get("Content-Type"), header.Filename)
	switch {
	case errors.Is(err, upload.ErrUnsupportedType):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image must be jpeg, png, gif or webp"})
		return
	case errors.Is(err, upload.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image must be 5MB or smaller"})
		return
	case err != nil:
		h.logger.Error("upload image", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to store image"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
