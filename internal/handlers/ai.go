package handlers

import (
	"context"
	"errors"
	"net/http"

	"cardly/internal/ai"
	applog "cardly/internal/log"
)

// ImageGenerator produces AI backgrounds. *ai.Client satisfies it.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ai.ImageRequest) (ai.ImageResult, error)
}

var imageGenerator ImageGenerator

// ConfigureAI installs the generator used by /app/api/ai/backgrounds.
func ConfigureAI(generator ImageGenerator) {
	imageGenerator = generator
}

// GenerateBackground asks the image model for a background and returns its URL.
func GenerateBackground(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if imageGenerator == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "AI generation is not configured. Set OPENAI_API_KEY to enable it.")
		return
	}

	ctx := r.Context()
	var payload ai.ImageRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid ai background payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	switch payload.Type {
	case "":
		payload.Type = ai.ImageProfile
	case ai.ImageProfile, ai.ImageMenu, ai.ImageSocial:
	default:
		writeJSONError(w, http.StatusBadRequest, "type must be profile, menu or social")
		return
	}

	result, err := imageGenerator.GenerateImage(ctx, payload)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyPrompt) {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}
		applog.Error(ctx, "ai background generation failed", "error", err, "type", payload.Type)
		writeJSONError(w, http.StatusBadGateway, "We couldn't generate a background right now. Please try again shortly.")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
