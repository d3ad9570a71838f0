package hero

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a non-premultiplied RGBA color. In front matter it is written as
// "#RRGGBB", "#RRGGBBAA", [r, g, b] or [r, g, b, a]. The zero Color means
// "unset" and is replaced by the palette default, so the parsers refuse to
// produce it; see ErrUnsetColor.
type Color struct {
	R, G, B, A uint8
}

// ErrUnsetColor is returned for an explicit transparent black (#00000000 or
// [0, 0, 0, 0]), which cannot be told apart from an omitted color.
var ErrUnsetColor = errors.New("color: transparent black is reserved for unset; omit the key to use the default")

// RGB returns an opaque Color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// IsZero reports whether c is unset.
func (c Color) IsZero() bool {
	return c == Color{}
}

// Lerp blends c towards to by t in [0, 1], truncating each channel. Alpha
// is taken from c.
func (c Color) Lerp(to Color, t float64) Color {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return Color{R: mix(c.R, to.R), G: mix(c.G, to.G), B: mix(c.B, to.B), A: c.A}
}

// String returns the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for hex strings.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML accepts both the hex and the array forms.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	parsed, err := ParseColor(v)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Color) UnmarshalTOML(v any) error {
	parsed, err := ParseColor(v)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor converts a decoded YAML/TOML/JSON value into a Color. It
// returns ErrUnsetColor rather than the zero Color.
func ParseColor(v any) (Color, error) {
	switch val := v.(type) {
	case string:
		return ParseHex(val)
	case []any:
		return parseChannels(val)
	case []int:
		items := make([]any, len(val))
		for i, n := range val {
			items[i] = n
		}
		return parseChannels(items)
	default:
		return Color{}, fmt.Errorf("color: expected hex string or channel list, got %T", v)
	}
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA". The leading '#' is
// optional.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("color: %q is not #rrggbb or #rrggbbaa", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Color{}, fmt.Errorf("color: %q: %w", s, err)
	}
	c := Color{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	if c.IsZero() {
		return Color{}, ErrUnsetColor
	}
	return c, nil
}

func parseChannels(items []any) (Color, error) {
	if len(items) != 3 && len(items) != 4 {
		return Color{}, fmt.Errorf("color: expected 3 or 4 channels, got %d", len(items))
	}
	ch := [4]uint8{0, 0, 0, 0xff}
	for i, item := range items {
		n, err := toInt(item)
		if err != nil {
			return Color{}, fmt.Errorf("color: channel %d: %w", i, err)
		}
		if n < 0 || n > 255 {
			return Color{}, fmt.Errorf("color: channel %d out of range: %d", i, n)
		}
		ch[i] = uint8(n)
	}
	c := Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
	if c.IsZero() {
		return Color{}, ErrUnsetColor
	}
	return c, nil
}

// toInt converts a numeric value to int. It handles int, int64, float64,
// and other common numeric types returned by YAML/TOML parsers.
func toInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint8:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, fmt.Errorf("expected numeric type, got %T", v)
	}
}
