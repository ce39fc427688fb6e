package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"cardly/internal/design"
	applog "cardly/internal/log"
	"cardly/models"
)

const menusPrefix = "/app/api/menus"

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

type menuItemPayload struct {
	Section     string `json:"section"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

type menuResponse struct {
	ID          uint              `json:"id"`
	Slug        string            `json:"slug"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Currency    string            `json:"currency"`
	Published   bool              `json:"published"`
	Design      design.State      `json:"design"`
	Style       design.Style      `json:"style"`
	Items       []menuItemPayload `json:"items"`
	PublicURL   string            `json:"public_url"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type menuRequest struct {
	Slug        *string       `json:"slug"`
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Currency    *string       `json:"currency"`
	Published   *bool         `json:"published"`
	Design      *design.State `json:"design"`
}

// MenuResource serves the owner-scoped menu API.
func MenuResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "menu request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	user, err := loadCurrentUser(r)
	if err != nil {
		applog.Debug(r.Context(), "menu request missing authenticated user", "error", err)
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, sub, hasID, err := resourcePath(r.URL.Path, menusPrefix)
	if err != nil {
		applog.Debug(r.Context(), "invalid menu path", "path", r.URL.Path, "error", err)
		http.NotFound(w, r)
		return
	}

	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listMenus(w, r, user)
		case http.MethodPost:
			createMenu(w, r, user)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	menu, ok := loadOwnedMenu(w, r, id, user.ID)
	if !ok {
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, projectMenu(r, menu, user))
	case sub == "" && r.Method == http.MethodPatch:
		updateMenu(w, r, menu, user)
	case sub == "" && r.Method == http.MethodDelete:
		deleteMenu(w, r, menu)
	case sub == "design" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, designResponse{
			Design: menu.Design.State(),
			Style:  resolveStyle(r.Context(), menu.Design, user),
		})
	case sub == "design" && r.Method == http.MethodPost:
		applyDesignAction(w, r, menu, menu.Design, user)
	case sub == "items" && r.Method == http.MethodPut:
		replaceItems(w, r, menu, user)
	case sub == "" || sub == "design" || sub == "items":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func loadOwnedMenu(w http.ResponseWriter, r *http.Request, id, ownerID uint) (*models.Menu, bool) {
	ctx := r.Context()
	menu := &models.Menu{}
	err := database.WithContext(ctx).
		Preload("Items", byPosition).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(menu).Error
	if err != nil {
		if isNotFound(err) {
			applog.Debug(ctx, "menu not found or not owned", "id", id, "user", ownerID)
			http.NotFound(w, r)
			return nil, false
		}
		applog.Error(ctx, "failed to load menu", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to load menu")
		return nil, false
	}
	return menu, true
}

func listMenus(w http.ResponseWriter, r *http.Request, user *models.User) {
	ctx := r.Context()
	var menus []models.Menu
	err := database.WithContext(ctx).
		Preload("Items", byPosition).
		Where("owner_id = ?", user.ID).
		Order("name asc").
		Find(&menus).Error
	if err != nil {
		applog.Error(ctx, "failed to list menus", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load menus")
		return
	}

	responses := make([]menuResponse, 0, len(menus))
	for i := range menus {
		responses = append(responses, projectMenu(r, &menus[i], user))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createMenu(w http.ResponseWriter, r *http.Request, user *models.User) {
	ctx := r.Context()

	var payload menuRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid menu create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	menu := &models.Menu{OwnerID: user.ID, Currency: "USD", Published: true}
	if message := applyMenuFields(menu, payload); message != "" {
		writeJSONError(w, http.StatusBadRequest, message)
		return
	}
	if menu.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	base := menu.Name
	if payload.Slug != nil {
		requested := strings.TrimSpace(*payload.Slug)
		if requested != slugify(requested) || requested == "" {
			writeJSONError(w, http.StatusBadRequest, "slug may only contain lowercase letters, digits and dashes")
			return
		}
		base = requested
	}
	slug, err := nextAvailableSlug(ctx, &models.Menu{}, base)
	if err != nil {
		applog.Error(ctx, "failed to allocate menu slug", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create menu")
		return
	}
	menu.Slug = slug

	if err := database.WithContext(ctx).Create(menu).Error; err != nil {
		applog.Error(ctx, "failed to create menu", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create menu")
		return
	}

	applog.Info(ctx, "menu created", "id", menu.ID, "slug", menu.Slug)
	writeJSON(w, http.StatusCreated, projectMenu(r, menu, user))
}

func updateMenu(w http.ResponseWriter, r *http.Request, menu *models.Menu, user *models.User) {
	ctx := r.Context()

	var payload menuRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid menu update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Slug != nil {
		writeJSONError(w, http.StatusBadRequest, "slug cannot be changed")
		return
	}
	if message := applyMenuFields(menu, payload); message != "" {
		writeJSONError(w, http.StatusBadRequest, message)
		return
	}
	if menu.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	updates := map[string]any{
		"name":        menu.Name,
		"description": menu.Description,
		"currency":    menu.Currency,
		"published":   menu.Published,
	}
	for column, value := range menu.Design.Columns() {
		updates[column] = value
	}

	if err := database.WithContext(ctx).Model(menu).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update menu", "error", err, "id", menu.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update menu")
		return
	}

	writeJSON(w, http.StatusOK, projectMenu(r, menu, user))
}

func applyMenuFields(menu *models.Menu, payload menuRequest) string {
	if payload.Name != nil {
		menu.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		menu.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*payload.Currency))
		if !currencyCode.MatchString(currency) {
			return "currency must be a three letter ISO code"
		}
		menu.Currency = currency
	}
	if payload.Published != nil {
		menu.Published = *payload.Published
	}
	if payload.Design != nil {
		state, err := validateState(*payload.Design)
		if err != nil {
			return err.Error()
		}
		menu.Design = models.DesignFromState(state)
	}
	return ""
}

func deleteMenu(w http.ResponseWriter, r *http.Request, menu *models.Menu) {
	ctx := r.Context()
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(menu).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete menu", "error", err, "id", menu.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete menu")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func replaceItems(w http.ResponseWriter, r *http.Request, menu *models.Menu, user *models.User) {
	ctx := r.Context()

	var payload []menuItemPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid menu items payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	items := make([]models.MenuItem, 0, len(payload))
	for i, entry := range payload {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			writeJSONError(w, http.StatusBadRequest, "every item needs a name")
			return
		}
		if entry.PriceCents < 0 {
			writeJSONError(w, http.StatusBadRequest, "price_cents must not be negative")
			return
		}
		items = append(items, models.MenuItem{
			MenuID:      menu.ID,
			Section:     strings.TrimSpace(entry.Section),
			Name:        name,
			Description: strings.TrimSpace(entry.Description),
			PriceCents:  entry.PriceCents,
			Position:    i,
		})
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("menu_id = ?", menu.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to replace menu items", "error", err, "id", menu.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to save items")
		return
	}

	menu.Items = items
	writeJSON(w, http.StatusOK, projectMenu(r, menu, user))
}

func projectMenu(r *http.Request, menu *models.Menu, owner *models.User) menuResponse {
	items := make([]menuItemPayload, 0, len(menu.Items))
	for _, item := range menu.Items {
		items = append(items, menuItemPayload{
			Section:     item.Section,
			Name:        item.Name,
			Description: item.Description,
			PriceCents:  item.PriceCents,
		})
	}
	return menuResponse{
		ID:          menu.ID,
		Slug:        menu.Slug,
		Name:        menu.Name,
		Description: menu.Description,
		Currency:    menu.Currency,
		Published:   menu.Published,
		Design:      menu.Design.State(),
		Style:       resolveStyle(r.Context(), menu.Design, owner),
		Items:       items,
		PublicURL:   "/m/" + menu.Slug,
		CreatedAt:   menu.CreatedAt,
		UpdatedAt:   menu.UpdatedAt,
	}
}
