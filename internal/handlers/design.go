package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"cardly/internal/design"
	applog "cardly/internal/log"
	"cardly/internal/templates"
	"cardly/models"
)

var (
	templateCatalog   = templates.Builtin()
	configuredDefault string
)

// ConfigureTemplates installs the template catalogue and the site-wide
// default template. An empty or unknown default falls back to the
// catalogue's own default.
func ConfigureTemplates(registry *templates.Registry, defaultID string) {
	if registry == nil {
		registry = templates.Builtin()
	}
	templateCatalog = registry
	configuredDefault = strings.TrimSpace(defaultID)
}

func defaultTemplate() string {
	return templateCatalog.Fallback(configuredDefault)
}

// fallbackTemplateFor is the template a design without one of its own
// renders with.
func fallbackTemplateFor(owner *models.User) string {
	var preferred string
	if owner != nil {
		preferred = owner.DefaultTemplate
	}
	return templateCatalog.Fallback(preferred, configuredDefault)
}

// resolveStyle never fails: a design the resolver rejects renders the
// fallback background.
func resolveStyle(ctx context.Context, stored models.Design, owner *models.User) design.Style {
	style, err := design.Resolve(stored.State(), templateCatalog, design.WithFallbackTemplate(fallbackTemplateFor(owner)))
	if err != nil {
		applog.Error(ctx, "failed to resolve design, using fallback background", "error", err, "color", stored.Color)
		return design.Fallback()
	}
	return style
}

// validateState normalises a design submitted by a client.
func validateState(state design.State) (design.State, error) {
	state.CustomDesignURL = strings.TrimSpace(state.CustomDesignURL)
	state.AIBackground = strings.TrimSpace(state.AIBackground)
	state.Template = strings.TrimSpace(state.Template)
	state.Color = strings.TrimSpace(state.Color)

	if state.Color != "" {
		normalized, err := design.NormalizeHex(state.Color)
		if err != nil {
			return design.State{}, err
		}
		state.Color = normalized
	}
	if state.Template != "" && !templateCatalog.Has(state.Template) {
		return design.State{}, fmt.Errorf("unknown template %q", state.Template)
	}
	return state, nil
}

type designActionRequest struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

type designResponse struct {
	Design design.State `json:"design"`
	Style  design.Style `json:"style"`
}

// applyDesignAction runs one editor action against stored and writes the
// result to the row behind model.
func applyDesignAction(w http.ResponseWriter, r *http.Request, model any, stored models.Design, owner *models.User) {
	ctx := r.Context()

	var payload designActionRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid design action payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	action, err := design.ParseAction(payload.Action, strings.TrimSpace(payload.Value))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if pick, ok := action.(design.PickTemplate); ok && !templateCatalog.Has(pick.ID) {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown template %q", pick.ID))
		return
	}

	draft, err := design.NewDraft(stored.State()).Apply(action)
	if err != nil {
		applog.Debug(ctx, "design action rejected", "action", payload.Action, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	next := models.DesignFromState(draft.State())
	if err := database.WithContext(ctx).Model(model).Updates(next.Columns()).Error; err != nil {
		applog.Error(ctx, "failed to persist design", "error", err, "action", payload.Action)
		writeJSONError(w, http.StatusInternalServerError, "unable to save design")
		return
	}

	applog.Debug(ctx, "design updated", "action", payload.Action, "mode", draft.State().Mode)
	announce(w, r, eventDesignUpdated)
	writeJSON(w, http.StatusOK, designResponse{
		Design: draft.State(),
		Style:  resolveStyle(ctx, next, owner),
	})
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(value string) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(value), "-"), "-")
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}
	return slug
}

// nextAvailableSlug appends -2, -3, ... until the slug is unused in model's table.
func nextAvailableSlug(ctx context.Context, model any, base string) (string, error) {
	slug := slugify(base)
	if slug == "" {
		slug = "card"
	}
	candidate := slug
	for suffix := 2; ; suffix++ {
		var count int64
		if err := database.WithContext(ctx).Model(model).Unscoped().Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, suffix)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
