package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeColor returns the color as lower-case "#rrggbb". Anything that
// is not a six digit hex color (with or without the leading '#') falls back
// to DefaultColor.
func NormalizeColor(c string) string {
	hex := strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(hex) != 6 {
		return DefaultColor
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return DefaultColor
	}
	return "#" + strings.ToLower(hex)
}

// AdjustBrightness shifts every RGB channel of color by round(2.55*percent).
// Negative percents darken, positive percents lighten. percent is clamped to
// [-100, 100]. A post-shift channel below 1 becomes 0 and one at or above 255
// becomes 255.
func AdjustBrightness(color string, percent int) string {
	if percent > 100 {
		percent = 100
	} else if percent < -100 {
		percent = -100
	}

	num, _ := strconv.ParseUint(strings.TrimPrefix(NormalizeColor(color), "#"), 16, 32)
	amt := int(roundHalfUp(2.55 * float64(percent)))

	r := clampChannel(int(num>>16) + amt)
	g := clampChannel(int(num>>8&0xff) + amt)
	b := clampChannel(int(num&0xff) + amt)

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// clampChannel keeps the historical "< 1" lower bound. For integer channels
// it yields the same result as "< 0".
func clampChannel(v int) int {
	if v >= 255 {
		return 255
	}
	if v < 1 {
		return 0
	}
	return v
}

// roundHalfUp rounds halves toward positive infinity, so -76.5 becomes -76.
// math.Round would give -77.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// WithAlpha appends a two digit hex alpha suffix to a normalized color,
// producing "#rrggbbaa".
func WithAlpha(color, alpha string) string {
	return NormalizeColor(color) + alpha
}
