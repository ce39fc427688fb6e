package handlers

import (
	"net/http"
	"strings"

	applog "cardly/internal/log"
)

type preferencesResponse struct {
	DefaultTemplate string `json:"default_template"`
}

// UpdatePreferences stores the template new and template-less cards fall back to.
func UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		applog.Debug(r.Context(), "preferences update with unsupported method", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, err := loadCurrentUser(r)
	if err != nil {
		applog.Error(r.Context(), "unable to load current user for preferences", "error", err)
		writeJSONError(w, http.StatusUnauthorized, "unable to load account")
		return
	}

	if err := r.ParseForm(); err != nil {
		applog.Error(r.Context(), "failed to parse preferences form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid form submission")
		return
	}

	templateID := strings.TrimSpace(r.FormValue("default_template"))
	if !templateCatalog.Has(templateID) {
		applog.Debug(r.Context(), "received invalid template selection", "value", templateID)
		writeJSONError(w, http.StatusBadRequest, "invalid template selection")
		return
	}

	applog.Debug(r.Context(), "updating user preferences", "userID", user.ID, "template", templateID)
	if err := database.WithContext(r.Context()).Model(user).Update("default_template", templateID).Error; err != nil {
		applog.Error(r.Context(), "failed to persist user preferences", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	announce(w, r, eventPreferencesUpdated)
	writeJSON(w, http.StatusOK, preferencesResponse{DefaultTemplate: templateID})
}
