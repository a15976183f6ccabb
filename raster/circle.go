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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// kappa is the control point distance for a quarter circle of radius 1
// approximated by a cubic Bézier curve.
var kappa = 4 * (math.Sqrt2 - 1) / 3

// AppendCircle appends a closed circle to p, made from four cubic Bézier
// segments. The circle is traversed counter-clockwise in a y-up coordinate
// system, or clockwise if reverse is set.
func AppendCircle(p *path.Data, center vec.Vec2, radius float64, reverse bool) {
	k := kappa * radius
	cx, cy := center.X, center.Y

	sy := 1.0
	if reverse {
		sy = -1
	}

	pt := func(x, y float64) vec.Vec2 {
		return vec.Vec2{X: cx + x, Y: cy + sy*y}
	}

	p.Cmds = append(p.Cmds, path.CmdMoveTo)
	p.Coords = append(p.Coords, pt(radius, 0))
	p.Cmds = append(p.Cmds, path.CmdCubeTo, path.CmdCubeTo, path.CmdCubeTo, path.CmdCubeTo)
	p.Coords = append(p.Coords,
		pt(radius, k), pt(k, radius), pt(0, radius),
		pt(-k, radius), pt(-radius, k), pt(-radius, 0),
		pt(-radius, -k), pt(-k, -radius), pt(0, -radius),
		pt(k, -radius), pt(radius, -k), pt(radius, 0),
	)
	p.Cmds = append(p.Cmds, path.CmdClose)
}

// Disc replaces the contents of p with a circle of the given radius.
func Disc(p *path.Data, center vec.Vec2, radius float64) {
	p.Cmds = p.Cmds[:0]
	p.Coords = p.Coords[:0]
	if radius > 0 {
		AppendCircle(p, center, radius, false)
	}
}

// Ring replaces the contents of p with the outline of a circle stroked
// with the given line width. The result is meant to be filled with either
// fill rule; the inner circle runs in the opposite direction.
func Ring(p *path.Data, center vec.Vec2, radius, width float64) {
	p.Cmds = p.Cmds[:0]
	p.Coords = p.Coords[:0]
	if width <= 0 {
		return
	}
	outer := radius + width/2
	inner := radius - width/2
	if outer <= 0 {
		return
	}
	AppendCircle(p, center, outer, false)
	if inner > 0 {
		AppendCircle(p, center, inner, true)
	}
}
