// Package components holds the HTML fragments shared by pages.
package components

import (
	"fmt"

	"github.com/a-h/templ"

	"cardly/internal/design"
)

// LinkView is a rendered social link.
type LinkView struct {
	Label string
	URL   string
}

// CardView is everything a profile card needs to render.
type CardView struct {
	Slug      string
	Name      string
	Title     string
	Bio       string
	Tags      []string
	AvatarURL string
	Links     []LinkView
	Style     design.Style
	Href      string
}

// BackgroundStyle returns the inline style for a resolved background. It is
// spread as an attribute so url() quotes are escaped exactly once.
func BackgroundStyle(style design.Style) templ.Attributes {
	return templ.Attributes{"style": fmt.Sprintf("background: %s; color: %s;", style.BackgroundCSS(), style.TextCSS())}
}

// OverlayStyle returns the inline style for the scrim above the background.
func OverlayStyle(style design.Style) templ.Attributes {
	return templ.Attributes{"style": fmt.Sprintf("background: %s;", style.OverlayCSS())}
}
