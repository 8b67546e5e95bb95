package heatmap

import (
	"fmt"
	"image/color"
	"strings"
)

// Theme selects the light or dark color column.
type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// ParseTheme accepts "light" or "dark", case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("unknown theme %q", s)
}

type swatch struct {
	light, dark color.NRGBA
}

// Only Work and the no-category row change with the theme; Health and Play
// use the same color in both.
var palette = map[string]swatch{
	"Work":   {light: rgb(0x00, 0x66, 0xCC), dark: rgb(0x5E, 0x5C, 0xE6)},
	"Health": {light: rgb(0x34, 0xC7, 0x59), dark: rgb(0x34, 0xC7, 0x59)},
	"Play":   {light: rgb(0xFF, 0x95, 0x00), dark: rgb(0xFF, 0x95, 0x00)},
}

var fallback = swatch{
	light: color.NRGBA{R: 0xDD, G: 0xDD, B: 0xDD, A: 0xFF},
	dark:  color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x33},
}

// ResolveColor maps a category to its cell color. Matching is exact and
// case-sensitive; an empty or unknown category gets the fallback color.
func ResolveColor(category string, theme Theme) color.NRGBA {
	s, ok := palette[category]
	if !ok {
		s = fallback
	}
	if theme == Dark {
		return s.dark
	}
	return s.light
}

// Categories lists the categories with a dedicated color, for legends.
func Categories() []string {
	return []string{"Work", "Health", "Play"}
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}
