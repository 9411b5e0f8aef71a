// SPDX-License-Identifier: EPL-2.0

package raster

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by ParseHex for anything but #RRGGBB or
// #RRGGBBAA.
var ErrInvalidColor = errors.New("invalid color")

// Theme holds the colors a Surface paints with.
type Theme struct {
	Background color.RGBA
	Wave       color.RGBA
	Progress   color.RGBA
	Cursor     color.RGBA
	Ruler      color.RGBA
	Viewport   color.RGBA
}

// DefaultTheme is a dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background: color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff},
		Wave:       color.RGBA{R: 0x6c, G: 0xc6, B: 0x8c, A: 0xff},
		Progress:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x30},
		Cursor:     color.RGBA{R: 0xff, G: 0x55, B: 0x33, A: 0xff},
		Ruler:      color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff},
		Viewport:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x40},
	}
}

// ParseHex parses #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
