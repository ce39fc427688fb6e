package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	store, err := NewStore(Config{Dir: filepath.Join(t.TempDir(), "uploads"), URLPath: "/media", MaxBytes: maxBytes})
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	store.newName = func() string { return "fixed" }
	return store
}

func TestSaveStoresImage(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 0)
	result, err := store.Save(context.Background(), bytes.NewReader(pngBytes(t, 4, 3)))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if result.URL != "/media/fixed.png" {
		t.Fatalf("unexpected url %q", result.URL)
	}
	if result.ContentType != "image/png" || result.Width != 4 || result.Height != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "fixed.png")); err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
	if store.MaxBytes() != DefaultMaxBytes {
		t.Fatalf("expected default max bytes, got %d", store.MaxBytes())
	}
}

func TestSaveRejectsOversizedFiles(t *testing.T) {
	t.Parallel()

	data := pngBytes(t, 4, 4)
	store := newTestStore(t, int64(len(data)-1))
	if _, err := store.Save(context.Background(), bytes.NewReader(data)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestSaveRejectsNonImages(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, 0)
	if _, err := store.Save(context.Background(), strings.NewReader("%PDF-1.4 not an image")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := store.Save(context.Background(), strings.NewReader("")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	truncated := pngBytes(t, 2, 2)[:20]
	if _, err := store.Save(context.Background(), bytes.NewReader(truncated)); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for truncated png, got %v", err)
	}
}

func TestNewStoreRequiresDir(t *testing.T) {
	t.Parallel()

	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty directory")
	}
}
