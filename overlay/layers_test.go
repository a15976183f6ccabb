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
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestLayersLifecycle(t *testing.T) {
	l := NewLayers(30, 20)
	a := NewRenderer(l.NewSurface, DefaultStyle(), quietLogger())
	b := NewRenderer(l.NewSurface, DefaultStyle(), quietLogger())

	a.Redraw([]vec.Vec2{{X: 5, Y: 5}})
	b.Redraw([]vec.Vec2{{X: 15, Y: 10}, {X: 25, Y: 10}})
	if l.Len() != 2 || l.MarkerCount() != 3 {
		t.Fatalf("len=%d markers=%d", l.Len(), l.MarkerCount())
	}

	a.Teardown()
	if l.Len() != 1 || l.MarkerCount() != 2 {
		t.Errorf("after teardown: len=%d markers=%d", l.Len(), l.MarkerCount())
	}
	m := l.Markers(nil)
	if len(m) != 2 || m[0] != (vec.Vec2{X: 15, Y: 10}) || m[1] != (vec.Vec2{X: 25, Y: 10}) {
		t.Errorf("Markers() = %v", m)
	}
}

func TestLayersInvalidViewport(t *testing.T) {
	l := NewLayers(0, 10)
	r := NewRenderer(l.NewSurface, DefaultStyle(), quietLogger())
	if r.EnsureSurface() {
		t.Error("surface allocated for an empty viewport")
	}
}

func TestComposite(t *testing.T) {
	l := NewLayers(20, 20)
	r := NewRenderer(l.NewSurface, DefaultStyle(), quietLogger())
	r.Redraw([]vec.Vec2{{X: 10, Y: 10}})

	bg := image.NewRGBA(image.Rect(0, 0, 20, 20))
	draw.Draw(bg, bg.Bounds(), image.NewUniform(color.RGBA{B: 255, A: 255}), image.Point{}, draw.Src)
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	l.Composite(dst, bg)

	if got := dst.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("background pixel %v", got)
	}
	if got := dst.RGBAAt(10, 10); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("marker pixel %v", got)
	}

	// without background, the canvas is transparent around the marker
	l.Composite(dst, nil)
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("expected a transparent pixel, got %v", got)
	}
}

func TestCompositeScaled(t *testing.T) {
	l := NewLayers(20, 20)
	r := NewRenderer(l.NewSurface, DefaultStyle(), quietLogger())
	r.Redraw([]vec.Vec2{{X: 10, Y: 10}})

	bg := image.NewRGBA(image.Rect(0, 0, 5, 5))
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	l.Composite(dst, bg)
	if got := dst.RGBAAt(20, 20); got.G < 200 {
		t.Errorf("scaled marker pixel %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	s := NewImageSurface(8, 8)
	s.DrawMarker(vec.Vec2{X: 4, Y: 4}, DefaultStyle())

	var buf bytes.Buffer
	if err := WritePNG(&buf, s.Image()); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG file")
	}
}

func TestWritePDF(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "frame.pdf")
	pts := []vec.Vec2{{X: 10, Y: 10}, {X: 20, Y: 30}}
	if err := WritePDF(fname, 64, 48, pts, DefaultStyle()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output is not a PDF file")
	}
}

func TestPaintOps(t *testing.T) {
	none := color.RGBA{}
	cases := []struct {
		fill, stroke color.RGBA
		width        float64
		wantFill     bool
		wantStroke   bool
	}{
		{DefaultStyle().Fill, DefaultStyle().Stroke, 1, true, true},
		{none, DefaultStyle().Stroke, 1, false, true},
		{DefaultStyle().Fill, none, 1, true, false},
		{DefaultStyle().Fill, DefaultStyle().Stroke, 0, true, false},
		{none, none, 1, false, false},
	}
	for i, c := range cases {
		style := MarkerStyle{Fill: c.fill, Stroke: c.stroke, Radius: 3, StrokeWidth: c.width}
		fill, stroke := paintOps(style)
		if fill != c.wantFill || stroke != c.wantStroke {
			t.Errorf("%d: got fill=%t stroke=%t, want %t %t",
				i, fill, stroke, c.wantFill, c.wantStroke)
		}
	}
}

func TestWritePDFTransparent(t *testing.T) {
	style := DefaultStyle()
	style.Fill = color.RGBA{}
	style.Stroke = color.RGBA{}
	fname := filepath.Join(t.TempDir(), "empty.pdf")
	if err := WritePDF(fname, 32, 32, []vec.Vec2{{X: 16, Y: 16}}, style); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(fname); err != nil {
		t.Error(err)
	}
}
