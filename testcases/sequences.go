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

var staticCases = []Sequence{
	{
		Name:   "frontal",
		Width:  360,
		Height: 640,
		Frames: 10,
		Mesh:   ARKitSizedMesh,
		Pose:   still(headPose(0.5, 0, 0)),
	},
	{
		Name:   "turned",
		Width:  360,
		Height: 640,
		Frames: 10,
		Mesh:   ARKitSizedMesh,
		Pose:   still(headPose(0.5, mgl64.DegToRad(35), mgl64.DegToRad(-10))),
	},
	{
		Name:   "coarse",
		Width:  64,
		Height: 64,
		Frames: 3,
		Mesh:   FaceMesh(5, 5),
		Pose:   still(headPose(0.6, 0, 0)),
	},
}

var motionCases = []Sequence{
	{
		Name:   "yaw_sweep",
		Width:  360,
		Height: 640,
		Frames: 120,
		Mesh:   ARKitSizedMesh,
		Pose: func(i int) facemesh.Mat4 {
			yaw := mgl64.DegToRad(40) * math.Sin(2*math.Pi*float64(i)/120)
			return headPose(0.5, yaw, 0)
		},
	},
	{
		Name:   "nod",
		Width:  360,
		Height: 640,
		Frames: 60,
		Mesh:   ARKitSizedMesh,
		Pose: func(i int) facemesh.Mat4 {
			pitch := mgl64.DegToRad(20) * math.Sin(2*math.Pi*float64(i)/30)
			return headPose(0.5, 0, pitch)
		},
	},
	{
		Name:   "approach",
		Width:  360,
		Height: 640,
		Frames: 60,
		Mesh:   ARKitSizedMesh,
		Pose: func(i int) facemesh.Mat4 {
			return headPose(0.9-0.6*float64(i)/59, 0, 0)
		},
	},
	{
		Name:   "lost_and_found",
		Width:  360,
		Height: 640,
		Frames: 30,
		Mesh:   ARKitSizedMesh,
		Pose: func(i int) facemesh.Mat4 {
			return headPose(0.5, mgl64.DegToRad(float64(i)), 0)
		},
		Lost: []int{9, 19},
	},
}

var degenerateCases = []Sequence{
	{
		// every fifth frame has a broken pose
		Name:   "nan_pose",
		Width:  128,
		Height: 128,
		Frames: 10,
		Mesh:   FaceMesh(8, 8),
		Pose: func(i int) facemesh.Mat4 {
			m := headPose(0.5, 0, 0)
			if i%5 == 4 {
				m[13] = math.NaN()
			}
			return m
		},
	},
	{
		Name:   "behind_camera",
		Width:  128,
		Height: 128,
		Frames: 2,
		Mesh:   FaceMesh(8, 8),
		Pose:   still(mgl64.Translate3D(0, 0, 0.5)),
	},
	{
		Name:   "off_screen",
		Width:  128,
		Height: 128,
		Frames: 2,
		Mesh:   FaceMesh(8, 8),
		Pose:   still(mgl64.Translate3D(3, 0, -0.5)),
	},
}
