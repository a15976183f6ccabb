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

package testcases

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"seehuhn.de/go/facemesh"
)

// Face mesh dimensions in metres, roughly those of an adult face.
const (
	faceWidth  = 0.15
	faceHeight = 0.21
	faceDepth  = 0.09
)

// FaceMesh builds a face-like mesh: the front half of an ellipsoid,
// sampled on a grid of rows×cols vertices and facing +z.
// The vertices are ordered row by row, from the chin up.
func FaceMesh(rows, cols int) []facemesh.Vertex {
	verts := make([]facemesh.Vertex, 0, rows*cols)
	for i := range rows {
		// polar angle from chin (-π/2) to forehead (π/2), excluding poles
		theta := math.Pi * (float64(i)+0.5)/float64(rows) - math.Pi/2
		for j := range cols {
			// azimuth over the front half
			phi := math.Pi * (float64(j)+0.5)/float64(cols) - math.Pi/2
			verts = append(verts, facemesh.Vertex{
				faceWidth / 2 * math.Cos(theta) * math.Sin(phi),
				faceHeight / 2 * math.Sin(theta),
				faceDepth * math.Cos(theta) * math.Cos(phi),
			})
		}
	}
	return verts
}

// ARKitSizedMesh has the same vertex count as the ARKit face geometry.
var ARKitSizedMesh = FaceMesh(20, 61)

// headPose places the face at distance d in front of the camera, turned by
// yaw and pitch (radians).
func headPose(d, yaw, pitch float64) facemesh.Mat4 {
	return mgl64.Translate3D(0, 0, -d).
		Mul4(mgl64.HomogRotate3DY(yaw)).
		Mul4(mgl64.HomogRotate3DX(pitch))
}

// still returns a pose function which ignores the frame number.
func still(m facemesh.Mat4) func(int) facemesh.Mat4 {
	return func(int) facemesh.Mat4 { return m }
}
