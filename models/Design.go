package models

import (
	"strings"

	"cardly/internal/design"
)

// Design holds the background fields shared by profiles and menus.
type Design struct {
	CustomDesignURL string `gorm:"type:text" json:"custom_design_url"`
	AIBackground    string `gorm:"type:text" json:"ai_background"`
	DesignMode      string `gorm:"type:varchar(16)" json:"design_mode"`
	Template        string `gorm:"type:varchar(64)" json:"template"`
	Color           string `gorm:"type:varchar(16)" json:"color"`
}

// State converts the stored columns into a resolver input. A stored mode the
// resolver does not know is treated as unset.
func (d Design) State() design.State {
	mode, err := design.ParseMode(d.DesignMode)
	if err != nil {
		mode = design.ModeUnset
	}
	return design.State{
		CustomDesignURL: strings.TrimSpace(d.CustomDesignURL),
		AIBackground:    strings.TrimSpace(d.AIBackground),
		Mode:            mode,
		Template:        strings.TrimSpace(d.Template),
		Color:           strings.TrimSpace(d.Color),
	}
}

// DesignFromState builds the stored columns from a resolver state.
func DesignFromState(s design.State) Design {
	return Design{
		CustomDesignURL: s.CustomDesignURL,
		AIBackground:    s.AIBackground,
		DesignMode:      string(s.Mode),
		Template:        s.Template,
		Color:           s.Color,
	}
}

// Columns returns the design fields keyed by column name for gorm Updates.
func (d Design) Columns() map[string]any {
	return map[string]any{
		"custom_design_url": d.CustomDesignURL,
		"ai_background":     d.AIBackground,
		"design_mode":       d.DesignMode,
		"template":          d.Template,
		"color":             d.Color,
	}
}
