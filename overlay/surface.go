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
	"image"
	"image/color"
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/facemesh"
	"seehuhn.de/go/facemesh/raster"
)

// Errors reported by [Surface.DrawMarker].
var (
	// ErrNonFinite indicates a marker position with a NaN or infinite
	// coordinate. No marker is drawn.
	ErrNonFinite = errors.New("non-finite marker position")

	// ErrOutOfBounds indicates a marker which lies completely outside the
	// surface. The marker still counts as drawn.
	ErrOutOfBounds = errors.New("marker outside the surface")

	// ErrReleased indicates that the surface has been released.
	ErrReleased = errors.New("surface released")
)

// Surface is a 2D drawing target for overlay markers.
//
// Surfaces are not safe for concurrent use; all methods must be called
// from the render thread.
type Surface interface {
	// Clear removes all markers.
	Clear()

	// DrawMarker draws one marker centred at the given point.
	// Failures only affect this marker.
	DrawMarker(center vec.Vec2, style MarkerStyle) error

	// MarkerCount returns the number of markers drawn since the last Clear.
	MarkerCount() int

	// Release frees the surface. Further calls to DrawMarker fail with
	// ErrReleased.
	Release()
}

// ImageSurface is a Surface which renders markers into an RGBA image.
type ImageSurface struct {
	img *image.RGBA
	ras *raster.Rasteriser

	disc, ring path.Data
	paint      [4]float32 // premultiplied colour of the current fill
	emit       raster.EmitFunc

	markers   []vec.Vec2
	released  bool
	onRelease func(*ImageSurface)
}

// NewImageSurface allocates a transparent surface of the given size.
func NewImageSurface(width, height int) *ImageSurface {
	bounds := image.Rect(0, 0, width, height)
	s := &ImageSurface{
		img: image.NewRGBA(bounds),
		ras: raster.NewRasteriser(rect.Rect{URx: float64(width), URy: float64(height)}),
	}
	s.emit = s.blendRow
	return s
}

// Image returns the pixels of the surface.
// The image is only valid until the next call to Clear or DrawMarker.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Markers returns the centres of all markers drawn since the last Clear,
// in drawing order.
func (s *ImageSurface) Markers() []vec.Vec2 {
	return s.markers
}

// Clear implements [Surface].
func (s *ImageSurface) Clear() {
	clear(s.img.Pix)
	s.markers = s.markers[:0]
}

// MarkerCount implements [Surface].
func (s *ImageSurface) MarkerCount() int {
	return len(s.markers)
}

// DrawMarker implements [Surface].
func (s *ImageSurface) DrawMarker(center vec.Vec2, style MarkerStyle) error {
	if s.released {
		return ErrReleased
	}
	if !facemesh.IsFinite(center) {
		return ErrNonFinite
	}
	s.markers = append(s.markers, center)

	extent := style.Radius + max(style.StrokeWidth, 0)/2
	b := s.img.Bounds()
	if center.X+extent <= float64(b.Min.X) || center.X-extent >= float64(b.Max.X) ||
		center.Y+extent <= float64(b.Min.Y) || center.Y-extent >= float64(b.Max.Y) {
		return ErrOutOfBounds
	}

	raster.Disc(&s.disc, center, style.Radius)
	s.setPaint(style.Fill)
	s.ras.FillNonZero(&s.disc, s.emit)

	if style.StrokeWidth > 0 {
		raster.Ring(&s.ring, center, style.Radius, style.StrokeWidth)
		s.setPaint(style.Stroke)
		s.ras.FillNonZero(&s.ring, s.emit)
	}
	return nil
}

// Release implements [Surface].
func (s *ImageSurface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.markers = s.markers[:0]
	if s.onRelease != nil {
		s.onRelease(s)
	}
}

func (s *ImageSurface) setPaint(c color.RGBA) {
	s.paint = [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// blendRow composites the current paint over one row of pixels, using the
// coverage as alpha.
func (s *ImageSurface) blendRow(y, xMin int, coverage []float32) {
	off := s.img.PixOffset(xMin, y)
	pix := s.img.Pix[off : off+4*len(coverage)]
	for i, c := range coverage {
		p := pix[4*i : 4*i+4]
		keep := 1 - s.paint[3]/255*c
		for j := range 4 {
			v := s.paint[j]*c + float32(p[j])*keep
			p[j] = uint8(min(math.Round(float64(v)), 255))
		}
	}
}
