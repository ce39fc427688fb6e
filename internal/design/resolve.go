package design

// gradientShade is the brightness step, in percent, between the two stops of
// a manual colour gradient.
const gradientShade = -20

type options struct {
	fallbackTemplate string
}

// Option customises a single Resolve call.
type Option func(*options)

// WithFallbackTemplate names the template used when the state has no
// template of its own, typically the owner's default template.
func WithFallbackTemplate(id string) Option {
	return func(o *options) {
		o.fallbackTemplate = id
	}
}

// Resolve selects the background for state.
//
// Manual colour is checked before the template: a manual-mode card with both
// a colour and a template renders the colour. When that colour is malformed
// Resolve returns an error wrapping ErrInvalidColorFormat and a zero Style;
// it does not fall through to the template. Every other input resolves.
func Resolve(state State, registry Registry, opts ...Option) (Style, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if state.CustomDesignURL != "" {
		return imageStyle(state.CustomDesignURL, OverlayHeavy), nil
	}

	if state.AIBackground != "" {
		return imageStyle(state.AIBackground, OverlayMedium), nil
	}

	if state.Mode == ModeManual && state.Color != "" {
		return gradientStyle(state.Color)
	}

	templateID := state.Template
	if templateID == "" {
		templateID = o.fallbackTemplate
	}
	if image, ok := templateImage(registry, templateID); ok {
		return imageStyle(image, OverlayLight), nil
	}

	return Fallback(), nil
}

func imageStyle(ref string, overlay Overlay) Style {
	return Style{Kind: KindImage, Ref: ref, Text: TextLight, Overlay: overlay}
}

func gradientStyle(color string) (Style, error) {
	from, err := NormalizeHex(color)
	if err != nil {
		return Style{}, err
	}
	to, err := AdjustBrightness(from, gradientShade)
	if err != nil {
		return Style{}, err
	}
	return Style{
		Kind:         KindGradient,
		GradientFrom: from,
		GradientTo:   to,
		Text:         TextLight,
		Overlay:      OverlayLight,
	}, nil
}

func templateImage(registry Registry, id string) (string, bool) {
	if id == "" || registry == nil {
		return "", false
	}
	t, ok := registry.Get(id)
	if !ok || t.FullImage == "" {
		return "", false
	}
	return t.FullImage, true
}
