package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Color - RGB цвет сегмента.
type Color struct {
	R, G, B uint8
}

func RGB(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// ParseColor понимает "#RRGGBB", "0xRRGGBB" и "RRGGBB".
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	hex := raw
	switch {
	case strings.HasPrefix(hex, "#"):
		hex = hex[1:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return Color{}, eris.Errorf("invalid color %q", raw)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, eris.Wrapf(err, "invalid color %q", raw)
	}
	return RGB(uint32(v)), nil
}

// MustColor - для дефолтов, которые заведомо валидны.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ColorOr парсит s, а при ошибке возвращает fallback.
func ColorOr(s string, fallback Color) Color {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (c Color) String() string { return c.Hex() }
