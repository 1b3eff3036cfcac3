package imagecache

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Kind selects how a texture is rendered.
type Kind int

const (
	// Flat textures never produce a pixmap; the caller fills with Color.
	Flat Kind = iota
	// Gradient blends Color into ColorTo across the pixmap.
	Gradient
	// ParentRelative reuses the parent's background.
	ParentRelative
)

// Orientation rotates a texture before rendering.
type Orientation int

const (
	Rot0 Orientation = iota
	Rot90
	Rot180
	Rot270
)

// Texture describes a background. Colours are hex strings for gradients.
type Texture struct {
	Kind     Kind
	Color    lipgloss.Color
	ColorTo  lipgloss.Color
	Vertical bool
}

// String is the cache key fragment for t.
func (t Texture) String() string {
	switch t.Kind {
	case Gradient:
		dir := "horizontal"
		if t.Vertical {
			dir = "vertical"
		}
		return fmt.Sprintf("gradient:%s:%s:%s", dir, t.Color, t.ColorTo)
	case ParentRelative:
		return "parentrelative"
	default:
		return "flat:" + string(t.Color)
	}
}

// ParseTexture reads strings of the form "flat", "gradient", "vertical
// gradient" or "parentrelative" as used in config files.
func ParseTexture(desc string, color, colorTo lipgloss.Color) Texture {
	d := strings.ToLower(desc)
	tex := Texture{Kind: Flat, Color: color, ColorTo: colorTo}
	switch {
	case strings.Contains(d, "parentrelative"):
		tex.Kind = ParentRelative
	case strings.Contains(d, "gradient"):
		tex.Kind = Gradient
		tex.Vertical = strings.Contains(d, "vertical")
	}
	return tex
}

// ramp returns n blended colours from a to b.
func ramp(a, b string, n int) ([]lipgloss.Color, error) {
	from, err := colorful.Hex(a)
	if err != nil {
		return nil, fmt.Errorf("gradient start %q: %w", a, err)
	}
	to, err := colorful.Hex(b)
	if err != nil {
		return nil, fmt.Errorf("gradient end %q: %w", b, err)
	}
	out := make([]lipgloss.Color, n)
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		switch {
		case i == 0:
			out[i] = lipgloss.Color(from.Hex())
		case i == n-1:
			out[i] = lipgloss.Color(to.Hex())
		default:
			out[i] = lipgloss.Color(from.BlendLab(to, t).Clamped().Hex())
		}
	}
	return out, nil
}
