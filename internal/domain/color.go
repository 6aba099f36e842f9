package domain

import "regexp"

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// HexColor is a validated #RRGGBB color. Shorthand (#RGB, #RGBA) and alpha
// (#RRGGBBAA) forms are rejected here; normalising them is a caller concern.
type HexColor struct {
	s string
}

// ParseHexColor accepts exactly '#' followed by six hex digits, any case.
func ParseHexColor(s string) (HexColor, error) {
	if !hexColorRe.MatchString(s) {
		return HexColor{}, Validationf("color", "%q is not a #RRGGBB color", s)
	}
	return HexColor{s: s}, nil
}

// MustParseHexColor is ParseHexColor for literals; it panics on invalid input.
func MustParseHexColor(s string) HexColor {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsValidHexColor reports whether s passes ParseHexColor.
func IsValidHexColor(s string) bool { return hexColorRe.MatchString(s) }

func (c HexColor) String() string { return c.s }

func (c HexColor) IsZero() bool { return c.s == "" }

func (c HexColor) MarshalText() ([]byte, error) {
	return []byte(c.s), nil
}

func (c *HexColor) UnmarshalText(b []byte) error {
	parsed, err := ParseHexColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
