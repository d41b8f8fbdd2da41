package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/menuboard/internal/upload"
)

func TestUploadImageDisabled(t *testing.T) {
	e := setupEnv(t)
	h := NewUploadHandler(upload.New(upload.Config{}), e.logger)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("image", "dish.png")
	fw.Write([]byte("\x89PNG"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload/upload-image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Image(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestUploadImageNilUploader(t *testing.T) {
	e := setupEnv(t)
	h := NewUploadHandler(nil, e.logger)

	rec := httptest.NewRecorder()
	h.Image(rec, httptest.NewRequest(http.MethodPost, "/api/upload/upload-image", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
