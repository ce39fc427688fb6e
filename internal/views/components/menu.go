package components

import (
	"fmt"

	"cardly/internal/design"
)

// MenuItemView is one priced entry.
type MenuItemView struct {
	Name        string
	Description string
	PriceCents  int64
}

// MenuSectionView groups items under a heading.
type MenuSectionView struct {
	Title string
	Items []MenuItemView
}

// MenuView is everything a menu page needs to render.
type MenuView struct {
	Name        string
	Description string
	Currency    string
	Sections    []MenuSectionView
	Style       design.Style
}

// FormatPrice renders an amount in minor units, e.g. 1250 EUR as "12.50 EUR".
func FormatPrice(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}
