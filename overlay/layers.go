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
	"fmt"
	"image"
	"slices"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/vec"
)

// Layers keeps track of the image surfaces of all live overlays on one
// viewport, in allocation order.
//
// Layers is owned by the render thread.
type Layers struct {
	width, height int
	surfaces      []*ImageSurface
}

// NewLayers returns an empty layer stack for a viewport of the given size.
func NewLayers(width, height int) *Layers {
	return &Layers{width: width, height: height}
}

// NewSurface allocates a new layer. It can be used as a [SurfaceFactory].
// Releasing the surface removes it from the stack.
func (l *Layers) NewSurface() (Surface, error) {
	if l.width <= 0 || l.height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", l.width, l.height)
	}
	s := NewImageSurface(l.width, l.height)
	s.onRelease = l.remove
	l.surfaces = append(l.surfaces, s)
	return s, nil
}

func (l *Layers) remove(s *ImageSurface) {
	l.surfaces = slices.DeleteFunc(l.surfaces, func(x *ImageSurface) bool {
		return x == s
	})
}

// Len returns the number of live layers.
func (l *Layers) Len() int {
	return len(l.surfaces)
}

// MarkerCount returns the total number of markers on all layers.
func (l *Layers) MarkerCount() int {
	n := 0
	for _, s := range l.surfaces {
		n += s.MarkerCount()
	}
	return n
}

// Markers appends the marker centres of all layers to dst, bottom layer
// first.
func (l *Layers) Markers(dst []vec.Vec2) []vec.Vec2 {
	for _, s := range l.surfaces {
		dst = append(dst, s.Markers()...)
	}
	return dst
}

// Composite paints the background, scaled to fill dst, and then all
// layers over it. A nil background leaves dst transparent below the
// markers.
func (l *Layers) Composite(dst draw.Image, background image.Image) {
	r := dst.Bounds()
	if background != nil {
		draw.BiLinear.Scale(dst, r, background, background.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(dst, r, image.Transparent, image.Point{}, draw.Src)
	}

	for _, s := range l.surfaces {
		src := s.Image()
		if src.Bounds().Size() == r.Size() {
			draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
		} else {
			draw.ApproxBiLinear.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
		}
	}
}
