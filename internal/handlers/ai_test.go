package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cardly/internal/ai"
)

type stubGenerator struct {
	result ai.ImageResult
	err    error
	got    ai.ImageRequest
}

func (s *stubGenerator) GenerateImage(_ context.Context, req ai.ImageRequest) (ai.ImageResult, error) {
	s.got = req
	return s.result, s.err
}

func withGenerator(t *testing.T, generator ImageGenerator) {
	t.Helper()
	original := imageGenerator
	ConfigureAI(generator)
	t.Cleanup(func() { imageGenerator = original })
}

func TestGenerateBackground(t *testing.T) {
	f := newAPIFixture(t)
	stub := &stubGenerator{result: ai.ImageResult{ImageURL: "https://cdn.example.com/bg.png"}}
	withGenerator(t, stub)

	w := f.do(GenerateBackground, http.MethodPost, "/app/api/ai/backgrounds", map[string]any{"prompt": "misty harbour at dawn", "width": 1080, "height": 1920}, f.owner)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody[ai.ImageResult](t, w); got.ImageURL != "https://cdn.example.com/bg.png" {
		t.Fatalf("unexpected result %+v", got)
	}
	if stub.got.Type != ai.ImageProfile || stub.got.Width != 1080 {
		t.Fatalf("unexpected forwarded request %+v", stub.got)
	}
}

func TestGenerateBackgroundErrors(t *testing.T) {
	f := newAPIFixture(t)

	withGenerator(t, nil)
	if w := f.do(GenerateBackground, http.MethodPost, "/app/api/ai/backgrounds", map[string]any{"prompt": "x"}, f.owner); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without generator, got %d", w.Code)
	}

	tests := []struct {
		name string
		err  error
		body map[string]any
		want int
	}{
		{"empty prompt", ai.ErrEmptyPrompt, map[string]any{"prompt": " "}, http.StatusBadRequest},
		{"upstream failure", errors.New("boom"), map[string]any{"prompt": "sunset"}, http.StatusBadGateway},
		{"bad type", nil, map[string]any{"prompt": "sunset", "type": "poster"}, http.StatusBadRequest},
		{"unknown field", nil, map[string]any{"prompt": "sunset", "style": "noir"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withGenerator(t, &stubGenerator{err: tt.err})
			if w := f.do(GenerateBackground, http.MethodPost, "/app/api/ai/backgrounds", tt.body, f.owner); w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
