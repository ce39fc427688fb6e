package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	applog "cardly/internal/log"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a single JSON document, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON document")
	}
	return nil
}

func renderComponent(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
	}
}

// resourcePath splits the path below prefix into an id and an optional
// sub-resource, e.g. "/app/api/profiles/4/design" gives (4, "design").
func resourcePath(path, prefix string) (id uint, sub string, ok bool, err error) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return 0, "", false, nil
	}
	segments := strings.SplitN(rest, "/", 3)
	if len(segments) > 2 {
		return 0, "", false, fmt.Errorf("unexpected path %q", path)
	}
	value, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil || value == 0 {
		return 0, "", false, fmt.Errorf("invalid identifier %q", segments[0])
	}
	if len(segments) == 2 {
		sub = segments[1]
	}
	return uint(value), sub, true, nil
}
