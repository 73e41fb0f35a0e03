package canvas

import (
	"image"
	"strings"

	"github.com/matzehuels/sketchbook/pkg/errors"
)

// Blend selects how a layer combines with what is beneath it.
type Blend int

const (
	Normal Blend = iota
	Difference
	Multiply
	Screen
)

var blendNames = [...]string{"normal", "difference", "multiply", "screen"}

func (b Blend) String() string {
	if b < 0 || int(b) >= len(blendNames) {
		return "normal"
	}
	return blendNames[b]
}

// ParseBlend resolves a blend mode by name (case-insensitive).
func ParseBlend(s string) (Blend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Normal, nil
	}
	for i, n := range blendNames {
		if n == s {
			return Blend(i), nil
		}
	}
	return Normal, errors.New(errors.ErrCodeInvalidConfig, "unknown blend mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Blend) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Blend) UnmarshalText(text []byte) error {
	v, err := ParseBlend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Channel blends one 8-bit destination channel d with source channel s.
func (b Blend) Channel(d, s uint8) uint8 {
	switch b {
	case Difference:
		if d > s {
			return d - s
		}
		return s - d
	case Multiply:
		return uint8(uint16(d) * uint16(s) / 255)
	case Screen:
		return 255 - uint8(uint16(255-d)*uint16(255-s)/255)
	default:
		return s
	}
}

// Composite blends src onto dst in place. Both images must have the same
// bounds. Each source pixel's alpha weights the blended result against the
// destination, so transparent regions of a layer leave dst untouched.
func Composite(dst, src *image.RGBA, b Blend) {
	r := dst.Bounds().Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(x, y)
			sa := src.Pix[si+3]
			if sa == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			for c := range 3 {
				s := straight(src.Pix[si+c], sa)
				d := dst.Pix[di+c]
				blended := b.Channel(d, s)
				dst.Pix[di+c] = mix(d, blended, sa)
			}
			da := dst.Pix[di+3]
			dst.Pix[di+3] = da + uint8(uint16(255-da)*uint16(sa)/255)
		}
	}
}

// straight converts a premultiplied channel value back to straight alpha.
func straight(v, a uint8) uint8 {
	if a == 255 {
		return v
	}
	out := uint16(v) * 255 / uint16(a)
	if out > 255 {
		out = 255
	}
	return uint8(out)
}

func mix(d, s, a uint8) uint8 {
	return uint8((uint16(d)*uint16(255-a) + uint16(s)*uint16(a)) / 255)
}
