package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cardly/internal/upload"
)

func withUploadStore(t *testing.T, maxBytes int64) *upload.Store {
	t.Helper()
	store, err := upload.NewStore(upload.Config{Dir: t.TempDir(), URLPath: "/media/", MaxBytes: maxBytes})
	if err != nil {
		t.Fatalf("failed to create upload store: %v", err)
	}
	original := uploadStore
	ConfigureUploads(store)
	t.Cleanup(func() { uploadStore = original })
	return store
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "background.bin")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/app/api/uploads", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 0, G: 102, B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadStoresImage(t *testing.T) {
	store := withUploadStore(t, upload.DefaultMaxBytes)

	w := httptest.NewRecorder()
	Upload(w, multipartRequest(t, "file", pngBytes(t, 4, 3)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody[uploadResponse](t, w)
	if !strings.HasPrefix(resp.URL, "/media/") || !strings.HasSuffix(resp.URL, ".png") {
		t.Fatalf("unexpected url %q", resp.URL)
	}
	if resp.Width != 4 || resp.Height != 3 || resp.ContentType != "image/png" {
		t.Fatalf("unexpected upload metadata: %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), strings.TrimPrefix(resp.URL, "/media/"))); err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
}

func TestUploadRejections(t *testing.T) {
	withUploadStore(t, 256)

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"unsupported type", multipartRequest(t, "file", []byte("just some text, not an image")), http.StatusUnsupportedMediaType},
		{"too large", multipartRequest(t, "file", append(pngBytes(t, 1, 1), make([]byte, 1024)...)), http.StatusRequestEntityTooLarge},
		{"missing field", multipartRequest(t, "avatar", pngBytes(t, 1, 1)), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Upload(w, tt.req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestUploadWithoutStore(t *testing.T) {
	original := uploadStore
	uploadStore = nil
	t.Cleanup(func() { uploadStore = original })

	w := httptest.NewRecorder()
	Upload(w, multipartRequest(t, "file", []byte("x")))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
