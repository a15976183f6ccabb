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

package raster

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// TestTriangleCoverage verifies exact coverage values for a simple triangle.
// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	tri := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 1}).
		Close()

	r := NewRasteriser(rect.Rect{URx: 10, URy: 1})
	coverage := make([]float32, 10)
	r.FillNonZero(tri, func(y, xMin int, cov []float32) {
		if y == 0 {
			copy(coverage[xMin:], cov)
		}
	})

	const epsilon = 1e-6
	for x := range 10 {
		want := float32(2*x+1) / 20
		if math.Abs(float64(coverage[x]-want)) > epsilon {
			t.Errorf("pixel %d: expected coverage %.4f, got %.4f", x, want, coverage[x])
		}
	}
}

// totalCoverage rasterises p and sums the coverage of all pixels.
func totalCoverage(r *Rasteriser, p *path.Data, rule FillRule) float64 {
	var sum float64
	r.Fill(p, rule, func(y, xMin int, cov []float32) {
		for _, c := range cov {
			sum += float64(c)
		}
	})
	return sum
}

func TestDiscArea(t *testing.T) {
	r := NewRasteriser(rect.Rect{URx: 64, URy: 64})
	p := &path.Data{}
	for _, radius := range []float64{1.5, 3, 10, 25} {
		Disc(p, vec.Vec2{X: 32.3, Y: 31.7}, radius)
		got := totalCoverage(r, p, NonZero)
		want := math.Pi * radius * radius
		if math.Abs(got-want) > 0.01*want+0.05 {
			t.Errorf("radius %g: area %.3f, want %.3f", radius, got, want)
		}
	}
}

func TestRingArea(t *testing.T) {
	r := NewRasteriser(rect.Rect{URx: 64, URy: 64})
	p := &path.Data{}
	Ring(p, vec.Vec2{X: 32, Y: 32}, 12, 4)

	want := math.Pi * (14*14 - 10*10)
	for _, rule := range []FillRule{NonZero, EvenOdd} {
		got := totalCoverage(r, p, rule)
		if math.Abs(got-want) > 0.01*want {
			t.Errorf("rule %d: area %.3f, want %.3f", rule, got, want)
		}
	}

	// the centre of the ring stays empty
	r.FillNonZero(p, func(y, xMin int, cov []float32) {
		if y == 32 && xMin <= 32 && 32 < xMin+len(cov) && cov[32-xMin] != 0 {
			t.Errorf("centre pixel covered: %g", cov[32-xMin])
		}
	})
}

func TestRingWiderThanRadius(t *testing.T) {
	r := NewRasteriser(rect.Rect{URx: 32, URy: 32})
	p := &path.Data{}
	Ring(p, vec.Vec2{X: 16, Y: 16}, 2, 6)

	// the inner radius is negative, so the ring is a full disc of radius 5
	got := totalCoverage(r, p, NonZero)
	want := math.Pi * 25
	if math.Abs(got-want) > 0.02*want {
		t.Errorf("area %.3f, want %.3f", got, want)
	}
}

func TestClipping(t *testing.T) {
	r := NewRasteriser(rect.Rect{URx: 20, URy: 20})
	p := &path.Data{}

	// a disc centred on the corner: only one quarter is visible
	Disc(p, vec.Vec2{X: 0, Y: 0}, 8)
	r.FillNonZero(p, func(y, xMin int, cov []float32) {
		if y < 0 || y >= 20 || xMin < 0 || xMin+len(cov) > 20 {
			t.Fatalf("row %d [%d, %d) outside clip", y, xMin, xMin+len(cov))
		}
	})
	got := totalCoverage(r, p, NonZero)
	want := math.Pi * 64 / 4
	if math.Abs(got-want) > 0.02*want {
		t.Errorf("visible area %.3f, want %.3f", got, want)
	}

	// fully outside
	Disc(p, vec.Vec2{X: -50, Y: 10}, 8)
	r.FillNonZero(p, func(y, xMin int, cov []float32) {
		t.Errorf("unexpected output for row %d", y)
	})
}

func TestCTM(t *testing.T) {
	r := NewRasteriser(rect.Rect{URx: 64, URy: 64})
	r.CTM = matrix.Scale(2, 1).Translate(32, 32)

	p := &path.Data{}
	Disc(p, vec.Vec2{}, 10)
	got := totalCoverage(r, p, NonZero)
	want := 2 * math.Pi * 100
	if math.Abs(got-want) > 0.01*want {
		t.Errorf("ellipse area %.3f, want %.3f", got, want)
	}

	r.Reset(rect.Rect{URx: 64, URy: 64})
	if r.CTM != matrix.Identity {
		t.Error("Reset did not restore the identity CTM")
	}
}

func TestEmptyPath(t *testing.T) {
	r := NewRasteriser(rect.Rect{URx: 10, URy: 10})
	p := &path.Data{}
	Disc(p, vec.Vec2{X: 5, Y: 5}, 0)
	r.FillNonZero(p, func(y, xMin int, cov []float32) {
		t.Error("zero radius disc produced output")
	})
}

func TestTrimZeros(t *testing.T) {
	trimmed, off := trimZeros([]float32{0, 0, 0.5, 1, 0})
	if off != 2 || len(trimmed) != 2 {
		t.Errorf("got %v at %d", trimmed, off)
	}
	if trimmed, _ := trimZeros([]float32{0, 0}); trimmed != nil {
		t.Errorf("got %v, want nil", trimmed)
	}
}
