package design

import (
	"fmt"
	"strings"
)

// FallbackBackground is the brand default drawn for KindFallback.
const FallbackBackground = "linear-gradient(135deg, #1e1b4b 0%, #312e81 55%, #0f172a 100%)"

var overlayScrims = map[Overlay]string{
	OverlayHeavy:  "linear-gradient(180deg, rgba(0,0,0,0.55) 0%, rgba(0,0,0,0.80) 100%)",
	OverlayMedium: "linear-gradient(180deg, rgba(0,0,0,0.30) 0%, rgba(0,0,0,0.65) 100%)",
	OverlayLight:  "linear-gradient(180deg, rgba(0,0,0,0.10) 0%, rgba(0,0,0,0.45) 100%)",
}

var cssStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", "", "\r", "", "<", "%3C", ">", "%3E")

// BackgroundCSS renders the style as a CSS background value.
func (s Style) BackgroundCSS() string {
	switch s.Kind {
	case KindImage:
		return fmt.Sprintf(`center / cover no-repeat url("%s")`, cssStringEscaper.Replace(s.Ref))
	case KindGradient:
		return fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", s.GradientFrom, s.GradientTo)
	case KindSolid:
		return s.GradientFrom
	default:
		return FallbackBackground
	}
}

// OverlayCSS renders the scrim drawn above the background, or "none".
func (s Style) OverlayCSS() string {
	if scrim, ok := overlayScrims[s.Overlay]; ok {
		return scrim
	}
	return "none"
}

// TextCSS returns the CSS colour for text drawn over the background.
func (s Style) TextCSS() string {
	if s.Text == TextDark {
		return "#0f172a"
	}
	return "#ffffff"
}
