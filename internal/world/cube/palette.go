package cube

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Palette assigns a starting color to each corner of a new cube.
type Palette [CornerCount]Color

// DefaultBaseColor is the stone-grey base of DefaultPalette.
const DefaultBaseColor = "#b4b2ac"

// DefaultPalette is used by New.
var DefaultPalette = func() Palette {
	p, err := ParsePalette(DefaultBaseColor)
	if err != nil {
		panic(err)
	}
	return p
}()

// NewPalette shades base per corner: top corners are blended toward white and
// bottom corners toward black, in Lab space so the hue holds.
func NewPalette(base colorful.Color) Palette {
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{}

	var p Palette
	for corner := range p {
		// Corners further along +X/+Z get a slight lift so faces read apart.
		lift := 0.05 * float64(corner&1+(corner>>2)&1)

		var c colorful.Color
		if corner&2 != 0 {
			c = base.BlendLab(white, 0.15+lift)
		} else {
			c = base.BlendLab(black, 0.2-lift)
		}
		c = c.Clamped()
		p[corner] = Color{float32(c.R), float32(c.G), float32(c.B), 1}
	}
	return p
}

// ParsePalette builds a palette from a hex base color such as "#b4b2ac".
func ParsePalette(hex string) (Palette, error) {
	base, err := colorful.Hex(hex)
	if err != nil {
		return Palette{}, errors.Wrapf(err, "parsing base color %q", hex)
	}
	return NewPalette(base), nil
}
