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

// Package facemesh projects tracked face mesh vertices into 2D surface
// coordinates.
//
// The package deals only with the geometry. Drawing the projected points
// is done by package overlay, and the tracking session which connects the
// two lives in package tracking.
package facemesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"seehuhn.de/go/geom/vec"
)

// Vertex is a point of a face mesh in mesh-local space.
type Vertex = mgl64.Vec3

// Mat4 is a 4×4 transformation matrix in column-major order.
type Mat4 = mgl64.Mat4

// Projector maps a point in world space to surface pixel coordinates.
// The origin of the surface is the top-left corner, with y pointing down.
//
// Implementations may depend on mutable camera state, which is read on
// every call.
type Projector interface {
	ProjectPoint(world mgl64.Vec3) vec.Vec2
}

// ProjectionFunc adapts an ordinary function to the Projector interface.
type ProjectionFunc func(world mgl64.Vec3) vec.Vec2

// ProjectPoint calls f(world).
func (f ProjectionFunc) ProjectPoint(world mgl64.Vec3) vec.Vec2 {
	return f(world)
}

// VertexProjection pairs a mesh vertex with its projection for the
// current frame.
type VertexProjection struct {
	Vertex    Vertex
	Projected vec.Vec2
}

// Project maps a vertex from mesh-local space to surface coordinates.
//
// The vertex is extended to homogeneous coordinates, transformed by
// localToWorld, and the resulting world-space point is passed to p.
// If localToWorld contains non-finite entries, the result may be
// non-finite; callers must check the result with [IsFinite] before using
// it.
func Project(v Vertex, localToWorld Mat4, p Projector) vec.Vec2 {
	world := localToWorld.Mul4x1(v.Vec4(1))
	return p.ProjectPoint(world.Vec3())
}

// ProjectMesh projects all vertices and appends the results to dst[:0].
// The order of the output matches the order of the vertices.
// Reusing dst between frames avoids allocations once its capacity is large
// enough.
func ProjectMesh(dst []VertexProjection, vertices []Vertex, localToWorld Mat4, p Projector) []VertexProjection {
	dst = dst[:0]
	for _, v := range vertices {
		dst = append(dst, VertexProjection{
			Vertex:    v,
			Projected: Project(v, localToWorld, p),
		})
	}
	return dst
}

// AppendPoints appends the projected points of pairs to dst.
func AppendPoints(dst []vec.Vec2, pairs []VertexProjection) []vec.Vec2 {
	for _, vp := range pairs {
		dst = append(dst, vp.Projected)
	}
	return dst
}

// IsFinite reports whether both coordinates of p are finite.
func IsFinite(p vec.Vec2) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// FiniteMat4 reports whether all entries of m are finite.
func FiniteMat4(m Mat4) bool {
	for _, x := range m {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Position returns the translation part of an affine transformation,
// i.e. the image of the local origin.
func Position(m Mat4) mgl64.Vec3 {
	return mgl64.Vec3{m[12], m[13], m[14]}
}
