package design

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidColorFormat reports a colour that is not #RRGGBB.
var ErrInvalidColorFormat = errors.New("design: invalid color format")

// ColorError carries the rejected colour value.
type ColorError struct {
	Value string
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidColorFormat.Error(), e.Value)
}

func (e *ColorError) Unwrap() error {
	return ErrInvalidColorFormat
}

// ParseHex reads a six digit hex colour with or without a leading '#'.
func ParseHex(value string) (r, g, b uint8, err error) {
	digits := strings.TrimPrefix(value, "#")
	if len(digits) != 6 {
		return 0, 0, 0, &ColorError{Value: value}
	}
	n, perr := strconv.ParseUint(digits, 16, 32)
	if perr != nil {
		return 0, 0, 0, &ColorError{Value: value}
	}
	return uint8(n >> 16), uint8(n >> 8), uint8(n), nil
}

// NormalizeHex returns value as a lowercase #rrggbb string.
func NormalizeHex(value string) (string, error) {
	r, g, b, err := ParseHex(value)
	if err != nil {
		return "", err
	}
	return formatHex(r, g, b), nil
}

// AdjustBrightness adds round(2.55*percent) to each channel of a hex colour,
// clamping every channel to [0, 255].
func AdjustBrightness(value string, percent float64) (string, error) {
	r, g, b, err := ParseHex(value)
	if err != nil {
		return "", err
	}
	delta := int(math.Round(2.55 * percent))
	return formatHex(shift(r, delta), shift(g, delta), shift(b, delta)), nil
}

func shift(channel uint8, delta int) uint8 {
	v := int(channel) + delta
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

func formatHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
