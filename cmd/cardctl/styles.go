package main

import (
	"github.com/charmbracelet/lipgloss"

	"cardly/internal/design"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
)

// swatch renders a block filled with a hex colour.
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
}

func describe(style design.Style) string {
	switch style.Kind {
	case design.KindGradient:
		return swatch(style.GradientFrom) + swatch(style.GradientTo) + " " + style.GradientFrom + " → " + style.GradientTo
	case design.KindImage:
		return style.Ref
	default:
		return design.FallbackBackground
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}
