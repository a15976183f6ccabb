// seehuhn.de/go/facemesh - face mesh overlay rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package overlay

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// MarkerStyle describes how a projected vertex is drawn: a filled circle
// with an outline.
type MarkerStyle struct {
	Fill        color.RGBA
	Stroke      color.RGBA
	Radius      float64 // circle radius in surface pixels
	StrokeWidth float64 // outline width in surface pixels, 0 for none
}

// DefaultStyle returns green markers of radius 3 with a black outline.
func DefaultStyle() MarkerStyle {
	return MarkerStyle{
		Fill:        color.RGBA{G: 255, A: 255},
		Stroke:      color.RGBA{A: 255},
		Radius:      3,
		StrokeWidth: 1,
	}
}

var errInvalidStyle = errors.New("invalid marker style")

// Validate checks that the radius and stroke width can be drawn.
func (s MarkerStyle) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: radius %g", errInvalidStyle, s.Radius)
	}
	if !(s.StrokeWidth >= 0) || math.IsInf(s.StrokeWidth, 0) {
		return fmt.Errorf("%w: stroke width %g", errInvalidStyle, s.StrokeWidth)
	}
	return nil
}

// ParseColor converts a colour name or a hex colour to RGBA.
// Names are the SVG 1.1 colour keywords, e.g. "lime" or "black".
// Hex colours have the form "#rrggbb" or "#rrggbbaa", with alpha not
// premultiplied.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if s == "transparent" {
		return color.RGBA{}, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	r, g, b, a := uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)

	// image.RGBA stores premultiplied values
	return color.RGBA{
		R: uint8(uint32(r) * uint32(a) / 255),
		G: uint8(uint32(g) * uint32(a) / 255),
		B: uint8(uint32(b) * uint32(a) / 255),
		A: a,
	}, nil
}
