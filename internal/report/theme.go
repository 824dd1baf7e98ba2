package report

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is an 8-bit colour.
type RGB struct{ R, G, B uint8 }

// ParseHex accepts "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("parse colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex renders the colour as "#rrggbb".
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Lerp blends from c to o; t is clamped to [0,1].
func (c RGB) Lerp(o RGB, t float64) RGB {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5) }
	return RGB{R: mix(c.R, o.R), G: mix(c.G, o.G), B: mix(c.B, o.B)}
}

// Theme is the visual style threaded through composition and rendering.
type Theme struct {
	Name        string
	Background  RGB
	Pitch       RGB
	Lines       RGB
	Text        RGB
	DensityLow  RGB
	DensityHigh RGB
	Scatter     RGB
	Font        string
}

// LightTheme is a white pitch with a red density ramp.
func LightTheme() Theme {
	return Theme{
		Name:        "light",
		Background:  RGB{255, 255, 255},
		Pitch:       RGB{255, 255, 255},
		Lines:       RGB{0, 0, 0},
		Text:        RGB{0, 0, 0},
		DensityLow:  RGB{254, 224, 210},
		DensityHigh: RGB{165, 15, 21},
		Scatter:     RGB{203, 24, 29},
		Font:        "Helvetica",
	}
}

// DarkTheme is a green pitch on charcoal with a yellow-to-red ramp.
func DarkTheme() Theme {
	return Theme{
		Name:        "dark",
		Background:  RGB{0x1a, 0x1a, 0x1a},
		Pitch:       RGB{0x2d, 0x50, 0x16},
		Lines:       RGB{255, 255, 255},
		Text:        RGB{255, 255, 255},
		DensityLow:  RGB{255, 255, 178},
		DensityHigh: RGB{189, 0, 38},
		Scatter:     RGB{255, 255, 0},
		Font:        "Helvetica",
	}
}

// ThemeByName returns a preset.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "light":
		return LightTheme(), nil
	case "dark":
		return DarkTheme(), nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
}

// Override replaces named colours with hex values. Keys are background,
// pitch, lines, text, density_low, density_high and scatter.
func (t Theme) Override(hex map[string]string) (Theme, error) {
	for k, v := range hex {
		if v == "" {
			continue
		}
		c, err := ParseHex(v)
		if err != nil {
			return t, fmt.Errorf("theme %s: %w", k, err)
		}
		switch k {
		case "background":
			t.Background = c
		case "pitch":
			t.Pitch = c
		case "lines":
			t.Lines = c
		case "text":
			t.Text = c
		case "density_low":
			t.DensityLow = c
		case "density_high":
			t.DensityHigh = c
		case "scatter":
			t.Scatter = c
		default:
			return t, fmt.Errorf("theme: unknown colour key %q", k)
		}
	}
	return t, nil
}
