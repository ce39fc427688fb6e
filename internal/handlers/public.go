package handlers

import (
	"net/http"
	"strings"

	"cardly/internal/design"
	applog "cardly/internal/log"
	"cardly/internal/views/components"
	"cardly/internal/views/pages"
	"cardly/models"
)

type publicStyleResponse struct {
	Slug  string       `json:"slug"`
	Style design.Style `json:"style"`
}

// PublicProfile serves /c/{slug} and /c/{slug}/style.
func PublicProfile(w http.ResponseWriter, r *http.Request) {
	slug, wantsStyle, ok := publicPath(r, "/c/")
	if !ok {
		renderComponent(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	ctx := r.Context()
	profile := &models.Profile{}
	err := database.WithContext(ctx).
		Preload("Owner").
		Preload("Links", byPosition).
		Where("slug = ? AND published = ?", slug, true).
		First(profile).Error
	if err != nil {
		if !isNotFound(err) {
			applog.Error(ctx, "failed to load public profile", "error", err, "slug", slug)
		}
		respondPublicMissing(w, r, wantsStyle)
		return
	}

	style := resolveStyle(ctx, profile.Design, profile.Owner)
	if wantsStyle {
		writeJSON(w, http.StatusOK, publicStyleResponse{Slug: profile.Slug, Style: style})
		return
	}
	renderComponent(w, r, http.StatusOK, pages.PublicProfile(cardView(profile, style)))
}

// PublicMenu serves /m/{slug} and /m/{slug}/style.
func PublicMenu(w http.ResponseWriter, r *http.Request) {
	slug, wantsStyle, ok := publicPath(r, "/m/")
	if !ok {
		renderComponent(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	ctx := r.Context()
	menu := &models.Menu{}
	err := database.WithContext(ctx).
		Preload("Owner").
		Preload("Items", byPosition).
		Where("slug = ? AND published = ?", slug, true).
		First(menu).Error
	if err != nil {
		if !isNotFound(err) {
			applog.Error(ctx, "failed to load public menu", "error", err, "slug", slug)
		}
		respondPublicMissing(w, r, wantsStyle)
		return
	}

	style := resolveStyle(ctx, menu.Design, menu.Owner)
	if wantsStyle {
		writeJSON(w, http.StatusOK, publicStyleResponse{Slug: menu.Slug, Style: style})
		return
	}
	renderComponent(w, r, http.StatusOK, pages.PublicMenu(menuView(menu, style)))
}

func publicPath(r *http.Request, prefix string) (slug string, wantsStyle bool, ok bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return "", false, false
	}
	if database == nil {
		return "", false, false
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	slug, sub, _ := strings.Cut(rest, "/")
	switch {
	case slug == "" || slug != slugify(slug):
		return "", false, false
	case sub == "":
		return slug, false, true
	case sub == "style":
		return slug, true, true
	default:
		return "", false, false
	}
}

func respondPublicMissing(w http.ResponseWriter, r *http.Request, wantsStyle bool) {
	if wantsStyle {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	renderComponent(w, r, http.StatusNotFound, pages.NotFound())
}

func cardView(profile *models.Profile, style design.Style) components.CardView {
	links := make([]components.LinkView, 0, len(profile.Links))
	for _, link := range profile.Links {
		links = append(links, components.LinkView{Label: link.Label, URL: link.URL})
	}
	return components.CardView{
		Slug:      profile.Slug,
		Name:      profile.DisplayName,
		Title:     profile.Title,
		Bio:       profile.Bio,
		Tags:      profile.TagList(),
		AvatarURL: profile.AvatarURL,
		Links:     links,
		Style:     style,
	}
}

func menuView(menu *models.Menu, style design.Style) components.MenuView {
	var sections []components.MenuSectionView
	index := map[string]int{}
	for _, item := range menu.Items {
		i, seen := index[item.Section]
		if !seen {
			i = len(sections)
			index[item.Section] = i
			sections = append(sections, components.MenuSectionView{Title: item.Section})
		}
		sections[i].Items = append(sections[i].Items, components.MenuItemView{
			Name:        item.Name,
			Description: item.Description,
			PriceCents:  item.PriceCents,
		})
	}
	return components.MenuView{
		Name:        menu.Name,
		Description: menu.Description,
		Currency:    menu.Currency,
		Sections:    sections,
		Style:       style,
	}
}
