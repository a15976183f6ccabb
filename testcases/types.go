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
	"github.com/go-gl/mathgl/mgl64"

	"seehuhn.de/go/facemesh"
)

// Sequence defines a synthetic tracking session: one face, seen by a
// camera at the origin looking down the negative z axis.
type Sequence struct {
	Name   string // lowercase a-z and _ only
	Width  int    // viewport width in pixels
	Height int    // viewport height in pixels
	Frames int    // number of tracking frames

	// Mesh is the face mesh in mesh-local coordinates (metres).
	Mesh []facemesh.Vertex

	// Pose returns the local-to-world transform for frame i.
	Pose func(i int) facemesh.Mat4

	// Lost lists frames after which tracking is lost; the face is
	// re-detected on the following frame.
	Lost []int
}

// Camera returns the camera used to record the sequence: 60° vertical
// field of view, clip planes at 1 cm and 10 m.
func (s Sequence) Camera() *facemesh.Camera {
	return facemesh.NewCamera(s.Width, s.Height, mgl64.DegToRad(60), 0.01, 10)
}

// IsLost reports whether tracking is lost after frame i.
func (s Sequence) IsLost(i int) bool {
	for _, j := range s.Lost {
		if i == j {
			return true
		}
	}
	return false
}

// Get returns the sequence with the given category and name.
func Get(category, name string) (Sequence, bool) {
	for _, s := range All[category] {
		if s.Name == name {
			return s, true
		}
	}
	return Sequence{}, false
}

// Lookup finds a sequence by "category_name".
func Lookup(fullName string) (Sequence, bool) {
	for category, seqs := range All {
		for _, s := range seqs {
			if category+"_"+s.Name == fullName {
				return s, true
			}
		}
	}
	return Sequence{}, false
}
