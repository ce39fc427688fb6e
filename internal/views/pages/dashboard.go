package pages

import (
	"cardly/internal/design"
	"cardly/internal/views/components"
)

// DashboardData is the signed-in overview of a user's cards and menus.
type DashboardData struct {
	UserName        string
	Cards           []components.CardView
	Menus           []MenuSummary
	Templates       []design.Template
	DefaultTemplate string
}

// MenuSummary is a menu listed on the dashboard.
type MenuSummary struct {
	Name  string
	Slug  string
	Style design.Style
}

func greetingName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
