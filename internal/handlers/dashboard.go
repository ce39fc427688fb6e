package handlers

import (
	"net/http"

	"github.com/a-h/templ"

	applog "cardly/internal/log"
	"cardly/internal/views/pages"
	"cardly/models"
)

// Dashboard renders the signed-in overview of a user's cards and menus.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, err := loadCurrentUser(r)
	if err != nil {
		applog.Debug(r.Context(), "dashboard without a loadable user", "error", err)
		redirectToLogin(w, r)
		return
	}

	data, err := loadDashboardData(r, user)
	if err != nil {
		applog.Error(r.Context(), "failed to load dashboard data", "error", err, "user", user.ID)
		http.Error(w, "unable to load dashboard", http.StatusInternalServerError)
		return
	}

	var component templ.Component
	if isHTMX(r) {
		component = pages.DashboardPartial(data)
	} else {
		component = pages.Dashboard(data)
	}
	renderComponent(w, r, http.StatusOK, component)
}

func loadDashboardData(r *http.Request, user *models.User) (pages.DashboardData, error) {
	ctx := r.Context()

	var profiles []models.Profile
	if err := database.WithContext(ctx).
		Preload("Links", byPosition).
		Where("owner_id = ?", user.ID).
		Order("display_name asc").
		Find(&profiles).Error; err != nil {
		return pages.DashboardData{}, err
	}

	var menus []models.Menu
	if err := database.WithContext(ctx).
		Where("owner_id = ?", user.ID).
		Order("name asc").
		Find(&menus).Error; err != nil {
		return pages.DashboardData{}, err
	}

	data := pages.DashboardData{
		UserName:        user.Name,
		Templates:       templateCatalog.Options(),
		DefaultTemplate: fallbackTemplateFor(user),
	}
	for i := range profiles {
		view := cardView(&profiles[i], resolveStyle(ctx, profiles[i].Design, user))
		view.Href = "/c/" + profiles[i].Slug
		data.Cards = append(data.Cards, view)
	}
	for _, menu := range menus {
		data.Menus = append(data.Menus, pages.MenuSummary{
			Name:  menu.Name,
			Slug:  menu.Slug,
			Style: resolveStyle(ctx, menu.Design, user),
		})
	}
	return data, nil
}
