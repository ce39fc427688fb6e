package handlers

import (
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"cardly/internal/design"
	applog "cardly/internal/log"
	"cardly/models"
)

const profilesPrefix = "/app/api/profiles"

type linkPayload struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type profileResponse struct {
	ID          uint          `json:"id"`
	Slug        string        `json:"slug"`
	DisplayName string        `json:"display_name"`
	Title       string        `json:"title"`
	Bio         string        `json:"bio"`
	Tags        []string      `json:"tags"`
	AvatarURL   string        `json:"avatar_url"`
	Published   bool          `json:"published"`
	Design      design.State  `json:"design"`
	Style       design.Style  `json:"style"`
	Links       []linkPayload `json:"links"`
	PublicURL   string        `json:"public_url"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// profileRequest backs both create and PATCH; nil fields are left alone.
type profileRequest struct {
	Slug        *string       `json:"slug"`
	DisplayName *string       `json:"display_name"`
	Title       *string       `json:"title"`
	Bio         *string       `json:"bio"`
	Tags        []string      `json:"tags"`
	AvatarURL   *string       `json:"avatar_url"`
	Published   *bool         `json:"published"`
	Design      *design.State `json:"design"`
}

// ProfileResource serves the owner-scoped profile API.
func ProfileResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "profile request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	user, err := loadCurrentUser(r)
	if err != nil {
		applog.Debug(r.Context(), "profile request missing authenticated user", "error", err)
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, sub, hasID, err := resourcePath(r.URL.Path, profilesPrefix)
	if err != nil {
		applog.Debug(r.Context(), "invalid profile path", "path", r.URL.Path, "error", err)
		http.NotFound(w, r)
		return
	}

	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listProfiles(w, r, user)
		case http.MethodPost:
			createProfile(w, r, user)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	profile, ok := loadOwnedProfile(w, r, id, user.ID)
	if !ok {
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, projectProfile(r, profile, user))
	case sub == "" && r.Method == http.MethodPatch:
		updateProfile(w, r, profile, user)
	case sub == "" && r.Method == http.MethodDelete:
		deleteProfile(w, r, profile)
	case sub == "design" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, designResponse{
			Design: profile.Design.State(),
			Style:  resolveStyle(r.Context(), profile.Design, user),
		})
	case sub == "design" && r.Method == http.MethodPost:
		applyDesignAction(w, r, profile, profile.Design, user)
	case sub == "links" && r.Method == http.MethodPut:
		replaceLinks(w, r, profile, user)
	case sub == "" || sub == "design" || sub == "links":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func loadOwnedProfile(w http.ResponseWriter, r *http.Request, id, ownerID uint) (*models.Profile, bool) {
	ctx := r.Context()
	profile := &models.Profile{}
	err := database.WithContext(ctx).
		Preload("Links", byPosition).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(profile).Error
	if err != nil {
		if isNotFound(err) {
			applog.Debug(ctx, "profile not found or not owned", "id", id, "user", ownerID)
			http.NotFound(w, r)
			return nil, false
		}
		applog.Error(ctx, "failed to load profile", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to load profile")
		return nil, false
	}
	return profile, true
}

func listProfiles(w http.ResponseWriter, r *http.Request, user *models.User) {
	ctx := r.Context()
	var profiles []models.Profile
	err := database.WithContext(ctx).
		Preload("Links", byPosition).
		Where("owner_id = ?", user.ID).
		Order("display_name asc").
		Find(&profiles).Error
	if err != nil {
		applog.Error(ctx, "failed to list profiles", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load profiles")
		return
	}

	responses := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, projectProfile(r, &profiles[i], user))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	ctx := r.Context()

	var payload profileRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid profile create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	profile := &models.Profile{OwnerID: user.ID, Published: true}
	if message := applyProfileFields(profile, payload); message != "" {
		writeJSONError(w, http.StatusBadRequest, message)
		return
	}
	if profile.DisplayName == "" {
		writeJSONError(w, http.StatusBadRequest, "display_name is required")
		return
	}

	base := profile.DisplayName
	if payload.Slug != nil {
		requested := strings.TrimSpace(*payload.Slug)
		if requested != slugify(requested) || requested == "" {
			writeJSONError(w, http.StatusBadRequest, "slug may only contain lowercase letters, digits and dashes")
			return
		}
		base = requested
	}
	slug, err := nextAvailableSlug(ctx, &models.Profile{}, base)
	if err != nil {
		applog.Error(ctx, "failed to allocate profile slug", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create profile")
		return
	}
	profile.Slug = slug

	if err := database.WithContext(ctx).Create(profile).Error; err != nil {
		applog.Error(ctx, "failed to create profile", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create profile")
		return
	}

	applog.Info(ctx, "profile created", "id", profile.ID, "slug", profile.Slug)
	writeJSON(w, http.StatusCreated, projectProfile(r, profile, user))
}

func updateProfile(w http.ResponseWriter, r *http.Request, profile *models.Profile, user *models.User) {
	ctx := r.Context()

	var payload profileRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid profile update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Slug != nil {
		writeJSONError(w, http.StatusBadRequest, "slug cannot be changed")
		return
	}
	if message := applyProfileFields(profile, payload); message != "" {
		writeJSONError(w, http.StatusBadRequest, message)
		return
	}
	if profile.DisplayName == "" {
		writeJSONError(w, http.StatusBadRequest, "display_name is required")
		return
	}

	updates := map[string]any{
		"display_name": profile.DisplayName,
		"title":        profile.Title,
		"bio":          profile.Bio,
		"tags":         profile.Tags,
		"avatar_url":   profile.AvatarURL,
		"published":    profile.Published,
	}
	for column, value := range profile.Design.Columns() {
		updates[column] = value
	}

	if err := database.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update profile", "error", err, "id", profile.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update profile")
		return
	}

	writeJSON(w, http.StatusOK, projectProfile(r, profile, user))
}

// applyProfileFields copies the set fields of payload onto profile and
// returns a client-facing message when they are invalid.
func applyProfileFields(profile *models.Profile, payload profileRequest) string {
	if payload.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*payload.DisplayName)
	}
	if payload.Title != nil {
		profile.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Bio != nil {
		profile.Bio = strings.TrimSpace(*payload.Bio)
	}
	if payload.Tags != nil {
		profile.Tags = models.JoinTags(payload.Tags)
	}
	if payload.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*payload.AvatarURL)
	}
	if payload.Published != nil {
		profile.Published = *payload.Published
	}
	if payload.Design != nil {
		state, err := validateState(*payload.Design)
		if err != nil {
			return err.Error()
		}
		profile.Design = models.DesignFromState(state)
	}
	return ""
}

func deleteProfile(w http.ResponseWriter, r *http.Request, profile *models.Profile) {
	ctx := r.Context()
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.SocialLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(profile).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete profile", "error", err, "id", profile.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func replaceLinks(w http.ResponseWriter, r *http.Request, profile *models.Profile, user *models.User) {
	ctx := r.Context()

	var payload []linkPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid links payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	links := make([]models.SocialLink, 0, len(payload))
	for i, entry := range payload {
		label := strings.TrimSpace(entry.Label)
		url := strings.TrimSpace(entry.URL)
		if label == "" || url == "" {
			writeJSONError(w, http.StatusBadRequest, "every link needs a label and a url")
			return
		}
		links = append(links, models.SocialLink{ProfileID: profile.ID, Label: label, URL: url, Position: i})
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("profile_id = ?", profile.ID).Delete(&models.SocialLink{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to replace profile links", "error", err, "id", profile.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to save links")
		return
	}

	profile.Links = links
	writeJSON(w, http.StatusOK, projectProfile(r, profile, user))
}

func projectProfile(r *http.Request, profile *models.Profile, owner *models.User) profileResponse {
	links := make([]linkPayload, 0, len(profile.Links))
	for _, link := range profile.Links {
		links = append(links, linkPayload{Label: link.Label, URL: link.URL})
	}
	return profileResponse{
		ID:          profile.ID,
		Slug:        profile.Slug,
		DisplayName: profile.DisplayName,
		Title:       profile.Title,
		Bio:         profile.Bio,
		Tags:        profile.TagList(),
		AvatarURL:   profile.AvatarURL,
		Published:   profile.Published,
		Design:      profile.Design.State(),
		Style:       resolveStyle(r.Context(), profile.Design, owner),
		Links:       links,
		PublicURL:   "/c/" + profile.Slug,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}
