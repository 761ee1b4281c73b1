package model

import (
	"fmt"
	"strings"
)

// Color is the tag a counter is displayed and filtered by.
// The zero value is ColorSystem, which renders in the surface's base color.
type Color uint8

const (
	ColorSystem Color = iota
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorPurple
)

var colorNames = [...]string{
	ColorSystem: "system",
	ColorRed:    "red",
	ColorOrange: "orange",
	ColorYellow: "yellow",
	ColorGreen:  "green",
	ColorBlue:   "blue",
	ColorPurple: "purple",
}

// AllColors returns every color in display order, system first.
func AllColors() []Color {
	return []Color{ColorSystem, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple}
}

// ColorNames returns the text form of every color in display order.
func ColorNames() []string {
	names := make([]string, len(colorNames))
	copy(names, colorNames[:])
	return names
}

// Valid reports whether c is one of the defined colors.
func (c Color) Valid() bool {
	return int(c) < len(colorNames)
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// Next returns the following color, wrapping from purple back to system.
func (c Color) Next() Color {
	return Color((int(c) + 1) % len(colorNames))
}

// Prev returns the preceding color, wrapping from system to purple.
func (c Color) Prev() Color {
	return Color((int(c) + len(colorNames) - 1) % len(colorNames))
}

// ParseColor converts a color name (case-insensitive) to a Color.
func ParseColor(name string) (Color, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range colorNames {
		if n == key {
			return Color(i), nil
		}
	}
	return ColorSystem, &UnknownColorError{Name: name}
}

// MarshalText encodes the color by name so it reads naturally in JSON and TOML,
// including as a map key.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid color %d", uint8(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText decodes a color name.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnknownColorError indicates a color name outside the fixed set.
type UnknownColorError struct {
	Name string
}

func (e *UnknownColorError) Error() string {
	return fmt.Sprintf("unknown color %q (valid: %s)", e.Name, strings.Join(colorNames[:], ", "))
}

// Palette maps colors to hex display values. ColorSystem maps to "" which means
// "use the base foreground/background of the surface".
type Palette map[Color]string

// DefaultPalette returns the built-in hex values for each color.
func DefaultPalette() Palette {
	return Palette{
		ColorSystem: "",
		ColorRed:    "#ef4444",
		ColorOrange: "#f97316",
		ColorYellow: "#eab308",
		ColorGreen:  "#22c55e",
		ColorBlue:   "#3b82f6",
		ColorPurple: "#a855f7",
	}
}

// Hex returns the display value for c, falling back to the default palette.
func (p Palette) Hex(c Color) string {
	if hex, ok := p[c]; ok {
		return hex
	}
	return DefaultPalette()[c]
}

// Merge returns a copy of p with non-empty overrides applied.
func (p Palette) Merge(overrides Palette) Palette {
	merged := make(Palette, len(colorNames))
	for _, c := range AllColors() {
		merged[c] = p.Hex(c)
	}
	for c, hex := range overrides {
		if c.Valid() && hex != "" {
			merged[c] = hex
		}
	}
	return merged
}
