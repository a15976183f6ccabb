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

// Package raster computes anti-aliased pixel coverage for filled paths.
//
// The rasteriser is tuned for the small shapes used as overlay markers:
// all work for one path happens in a pair of 2D buffers covering the
// path's bounding box.
package raster

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// FillRule selects how overlapping parts of a path are filled.
type FillRule int

const (
	// NonZero fills every point with a non-zero winding number.
	NonZero FillRule = iota

	// EvenOdd fills every point with an odd winding number.
	EvenOdd
)

// EmitFunc receives the coverage of one scanline, starting at pixel xMin.
// The coverage slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// Rasteriser converts paths to pixel coverage values between 0 (outside)
// and 1 (inside). Internal buffers grow as needed but never shrink, so a
// Rasteriser which is reused for every marker of every frame does not
// allocate in steady state.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip bounds the output, in device coordinates.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness is the curve flattening tolerance in device pixels.
	Flatness float64

	cover     []float32
	area      []float32
	rowXMin   []int
	rowXMax   []int
	edges     []edge
	crossings []float64

	// device-space bounding box of edges
	bboxEmpty    bool
	bxMin, bxMax float64
	byMin, byMax float64
}

// NewRasteriser returns a Rasteriser with the identity CTM.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	return &Rasteriser{
		CTM:      matrix.Identity,
		Clip:     clip,
		Flatness: defaultFlatness,
	}
}

// Reset restores the default CTM and flatness and sets a new clip
// rectangle. Buffer capacity is kept.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.edges = r.edges[:0]
	r.crossings = r.crossings[:0]
}

// Fill rasterises p using the given fill rule and reports the coverage row
// by row.
func (r *Rasteriser) Fill(p *path.Data, rule FillRule, emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.collectEdges(p)
	if !ok {
		return
	}
	r.fillBox(xMin, xMax, yMin, yMax, rule, emit)
}

// FillNonZero is a shorthand for r.Fill(p, NonZero, emit).
func (r *Rasteriser) FillNonZero(p *path.Data, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// FillEvenOdd is a shorthand for r.Fill(p, EvenOdd, emit).
func (r *Rasteriser) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.Fill(p, EvenOdd, emit)
}

// collectEdges flattens p into device-space edges.  The returned box is the
// integer bounding box of all edges, clamped to the clip rectangle.
func (r *Rasteriser) collectEdges(p *path.Data) (xMin, xMax, yMin, yMax int, ok bool) {
	r.edges = r.edges[:0]
	r.bboxEmpty = true

	var cur, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if cur != start {
				r.addEdge(cur, start) // implicit close
			}
			cur = p.Coords[k]
			start = cur
			k++
		case path.CmdLineTo:
			r.addEdge(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			// elevate to a cubic with the same shape
			c1 := cur.Add(p.Coords[k].Sub(cur).Mul(2.0 / 3))
			c2 := p.Coords[k+1].Add(p.Coords[k].Sub(p.Coords[k+1]).Mul(2.0 / 3))
			r.flattenCubic(cur, c1, c2, p.Coords[k+1])
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2])
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur = start
		}
	}
	if cur != start {
		r.addEdge(cur, start)
	}

	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}

	xMin = max(int(math.Floor(r.bxMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bxMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.byMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.byMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// flattenCubic approximates a cubic Bézier curve by line segments.
// The number of segments follows Wang's formula, evaluated in device space.
func (r *Rasteriser) flattenCubic(p0, p1, p2, p3 vec.Vec2) {
	d1 := r.linear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.linear(p1.Sub(p2.Mul(2)).Add(p3))

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		r.addEdge(prev, pt)
		prev = pt
	}
}

// linear applies the 2×2 part of the CTM.
func (r *Rasteriser) linear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// addEdge transforms a user-space segment to device space and records it.
func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	m := r.CTM
	x0 := m[0]*a.X + m[2]*a.Y + m[4]
	y0 := m[1]*a.X + m[3]*a.Y + m[5]
	x1 := m[0]*b.X + m[2]*b.Y + m[4]
	y1 := m[1]*b.X + m[3]*b.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	if r.bboxEmpty {
		r.bxMin, r.bxMax = min(x0, x1), max(x0, x1)
		r.byMin, r.byMax = min(y0, y1), max(y0, y1)
		r.bboxEmpty = false
		return
	}
	r.bxMin = min(r.bxMin, x0, x1)
	r.bxMax = max(r.bxMax, x0, x1)
	r.byMin = min(r.byMin, y0, y1)
	r.byMax = max(r.byMax, y0, y1)
}

// Every edge deposits two quantities in the pixels it crosses:
//
//	cover: the signed height of the part of the edge inside the pixel
//	area:  cover, weighted by the fraction of the pixel right of the edge
//
// Scanning a row from left to right, the coverage of pixel i is the running
// sum of cover over all pixels left of i, plus area[i].

// fillBox accumulates all edges into 2D buffers spanning the bounding box
// and emits the integrated rows.
func (r *Rasteriser) fillBox(xMin, xMax, yMin, yMax int, rule FillRule, emit EmitFunc) {
	w := xMax - xMin
	h := yMax - yMin

	n := w * h
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	clear(r.cover)
	clear(r.area)

	r.rowXMin = slices.Grow(r.rowXMin[:0], h)[:h]
	r.rowXMax = slices.Grow(r.rowXMax[:0], h)[:h]
	for i := range h {
		r.rowXMin[i] = w
		r.rowXMax[i] = -1
	}

	for i := range r.edges {
		e := &r.edges[i]
		top := max(int(math.Floor(min(e.y0, e.y1))), yMin)
		bot := min(int(math.Floor(max(e.y0, e.y1)))+1, yMax)
		for y := top; y < bot; y++ {
			row := y - yMin
			off := row * w
			x, touched := r.accumulate(e, y, r.cover[off:off+w], r.area[off:off+w], xMin, xMax)
			if !touched {
				continue
			}
			x = min(max(x, xMin), xMax-1) - xMin
			r.rowXMin[row] = min(r.rowXMin[row], x)
			r.rowXMax[row] = max(r.rowXMax[row], x)
		}
	}

	for row := range h {
		if r.rowXMax[row] < 0 {
			continue
		}
		off := row * w
		cov := r.cover[off : off+w]
		integrate(cov, r.area[off:off+w], rule)
		if trimmed, skip := trimZeros(cov); trimmed != nil {
			emit(yMin+row, xMin+skip, trimmed)
		}
	}
}

// accumulate adds the contribution of e within scanline y to the row
// buffers, which are indexed by x - bxMin. It returns the pixel column at
// the vertical midpoint of the edge inside the scanline.
func (r *Rasteriser) accumulate(e *edge, y int, cover, area []float32, bxMin, bxMax int) (int, bool) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return 0, false
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	colMid := int(math.Floor((xTop + xBot) / 2))

	left, right := min(xTop, xBot), max(xTop, xBot)
	pixLeft := int(math.Floor(left))
	pixRight := int(math.Floor(right))

	switch {
	case pixRight < bxMin:
		// everything to the right of the box is covered
		c := sign * float32(yBot-yTop)
		cover[0] += c
		area[0] += c
		return colMid, true
	case pixLeft >= bxMax:
		return colMid, true
	case pixLeft == pixRight:
		deposit(e, yTop, yBot, sign, cover, area, bxMin, bxMax)
		return colMid, true
	}

	// Split the edge where it crosses vertical pixel boundaries.
	r.crossings = append(r.crossings[:0], yTop, yBot)
	dydx := 1 / e.dxdy
	for x := pixLeft + 1; x <= pixRight; x++ {
		yx := e.y0 + dydx*(float64(x)-e.x0)
		if yx > yTop && yx < yBot {
			r.crossings = append(r.crossings, yx)
		}
	}
	slices.Sort(r.crossings)
	for i := 1; i < len(r.crossings); i++ {
		if r.crossings[i] > r.crossings[i-1] {
			deposit(e, r.crossings[i-1], r.crossings[i], sign, cover, area, bxMin, bxMax)
		}
	}
	return colMid, true
}

// deposit handles a piece of an edge which stays within one pixel column.
func deposit(e *edge, y0, y1 float64, sign float32, cover, area []float32, bxMin, bxMax int) {
	c := sign * float32(y1-y0)
	xMid := e.x0 + e.dxdy*((y0+y1)/2-e.y0)
	pix := int(math.Floor(xMid))
	switch {
	case pix < bxMin:
		cover[0] += c
		area[0] += c
	case pix < bxMax:
		i := pix - bxMin
		cover[i] += c
		area[i] += c * float32(1-(xMid-float64(pix)))
	}
}

// integrate turns the accumulated cover/area values of one row into
// coverage, in place.
func integrate(cover, area []float32, rule FillRule) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		if rule == EvenOdd {
			raw -= 2 * float32(int(raw/2))
			if raw > 1 {
				raw = 2 - raw
			}
		} else if raw > 1 {
			raw = 1
		}
		cover[i] = raw
	}
}

// trimZeros returns the part of coverage between the first and the last
// non-zero value, together with its offset. The result is nil if all
// values are zero.
func trimZeros(coverage []float32) ([]float32, int) {
	lo := 0
	for lo < len(coverage) && coverage[lo] == 0 {
		lo++
	}
	if lo == len(coverage) {
		return nil, 0
	}
	hi := len(coverage)
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

const (
	// defaultFlatness is the curve flattening tolerance in device pixels.
	defaultFlatness = 0.25

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which contributes to coverage.
	horizontalEdgeThreshold = 1e-10
)
