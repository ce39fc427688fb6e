// Package design decides which background a profile card or menu renders.
//
// The decision is a pure function of a State (the five design fields stored
// on a profile or menu) and a template Registry. Resolve applies one fixed
// priority order everywhere a card is drawn:
//
//  1. a custom upload
//  2. an AI-generated background
//  3. a manual colour, when the mode is manual
//  4. a named template, or the caller's fallback template
//  5. the brand fallback
package design

import (
	"fmt"
	"strings"
)

// Mode is the design mode the user last picked. It is advisory: Resolve only
// consults it to decide whether a manual colour applies.
type Mode string

const (
	ModeUnset    Mode = ""
	ModeManual   Mode = "manual"
	ModeTemplate Mode = "template"
	ModeAI       Mode = "ai"
	ModeCustom   Mode = "custom"
)

// ParseMode maps a stored or submitted value onto a Mode. Matching is
// case-insensitive; anything outside the known set is an error.
func ParseMode(value string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(value))); m {
	case ModeUnset, ModeManual, ModeTemplate, ModeAI, ModeCustom:
		return m, nil
	default:
		return ModeUnset, fmt.Errorf("design: unknown mode %q", value)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// State holds the design fields of a card. An empty string means absent.
type State struct {
	CustomDesignURL string `json:"customDesignUrl,omitempty"`
	AIBackground    string `json:"aiBackground,omitempty"`
	Mode            Mode   `json:"designMode,omitempty"`
	Template        string `json:"template,omitempty"`
	Color           string `json:"color,omitempty"`
}

// Kind identifies the background primitive chosen by Resolve.
type Kind string

const (
	KindImage    Kind = "image"
	KindGradient Kind = "gradient"
	KindSolid    Kind = "solid"
	KindFallback Kind = "fallback"
)

// TextColor is the foreground scheme drawn over the background.
type TextColor string

const (
	TextLight TextColor = "light"
	TextDark  TextColor = "dark"
)

// Overlay is the strength of the dark scrim drawn over the background.
type Overlay string

const (
	OverlayHeavy  Overlay = "heavy"
	OverlayMedium Overlay = "medium"
	OverlayLight  Overlay = "light"
	OverlayNone   Overlay = "none"
)

// Style is the resolved background for a card. Ref is set for KindImage;
// GradientFrom and GradientTo are set for KindGradient.
type Style struct {
	Kind         Kind      `json:"backgroundKind"`
	Ref          string    `json:"backgroundRef,omitempty"`
	GradientFrom string    `json:"gradientFrom,omitempty"`
	GradientTo   string    `json:"gradientTo,omitempty"`
	Text         TextColor `json:"textColor"`
	Overlay      Overlay   `json:"overlayIntensity"`
}

// Fallback returns the brand default style.
func Fallback() Style {
	return Style{Kind: KindFallback, Text: TextLight, Overlay: OverlayNone}
}

// Template is one entry of the template registry.
type Template struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	PreviewImage string `json:"previewImage" yaml:"preview_image"`
	FullImage    string `json:"fullImage" yaml:"full_image"`
}

// Registry looks templates up by id.
type Registry interface {
	Get(id string) (Template, bool)
}

// MapRegistry is a Registry backed by a map keyed by template id.
type MapRegistry map[string]Template

// Get implements Registry.
func (m MapRegistry) Get(id string) (Template, bool) {
	t, ok := m[id]
	return t, ok
}
