// Package upload stores user-supplied background images.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	applog "cardly/internal/log"
)

const (
	// DefaultMaxBytes is the upload cap applied when none is configured.
	DefaultMaxBytes = 5 << 20
	// MaxDimension bounds the width and height of an accepted image.
	MaxDimension = 8000
)

var (
	// ErrTooLarge is returned when an upload exceeds the byte cap.
	ErrTooLarge = errors.New("upload: file too large")
	// ErrUnsupportedType is returned for anything that is not a supported image.
	ErrUnsupportedType = errors.New("upload: unsupported file type")
	// ErrEmpty is returned for zero-length uploads.
	ErrEmpty = errors.New("upload: file is empty")
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Config configures a Store.
type Config struct {
	Dir      string
	URLPath  string
	MaxBytes int64
}

// Store writes images to a directory served under URLPath.
type Store struct {
	dir      string
	urlPath  string
	maxBytes int64
	newName  func() string
}

// Result describes a stored image.
type Result struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
}

// NewStore prepares the upload directory.
func NewStore(cfg Config) (*Store, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("upload: directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create directory: %w", err)
	}

	urlPath := strings.TrimSpace(cfg.URLPath)
	if urlPath == "" {
		urlPath = "/media/"
	}
	if !strings.HasSuffix(urlPath, "/") {
		urlPath += "/"
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Store{
		dir:      dir,
		urlPath:  urlPath,
		maxBytes: maxBytes,
		newName:  func() string { return uuid.NewString() },
	}, nil
}

// Dir is the directory holding stored files.
func (s *Store) Dir() string {
	return s.dir
}

// URLPath is the URL prefix stored files are served under.
func (s *Store) URLPath() string {
	return s.urlPath
}

// MaxBytes is the per-file cap.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates r as an image and writes it to disk.
func (s *Store) Save(ctx context.Context, r io.Reader) (Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return Result{}, fmt.Errorf("upload: read: %w", err)
	}
	if len(data) == 0 {
		return Result{}, ErrEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return Result{}, ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		applog.Debug(ctx, "rejected upload with unsupported content type", "contentType", contentType)
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return Result{}, fmt.Errorf("%w: dimensions %dx%d", ErrUnsupportedType, cfg.Width, cfg.Height)
	}

	name := s.newName() + ext
	target := filepath.Join(s.dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return Result{}, fmt.Errorf("upload: write file: %w", err)
	}

	applog.Debug(ctx, "stored upload", "file", name, "format", format, "bytes", len(data))

	return Result{
		URL:         path.Join(s.urlPath, name),
		ContentType: contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        int64(len(data)),
	}, nil
}
