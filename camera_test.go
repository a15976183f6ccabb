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

package facemesh

import (
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCameraCentre(t *testing.T) {
	cam := NewCamera(640, 480, mgl64.DegToRad(60), 0.1, 100)

	// a point straight ahead maps to the middle of the viewport
	p := cam.ProjectPoint(mgl64.Vec3{0, 0, -1})
	if math.Abs(p.X-320) > 1e-9 || math.Abs(p.Y-240) > 1e-9 {
		t.Errorf("got %v, want (320, 240)", p)
	}
}

func TestCameraOrientation(t *testing.T) {
	cam := NewCamera(640, 480, mgl64.DegToRad(60), 0.1, 100)

	// world +y is screen up, i.e. smaller surface y
	up := cam.ProjectPoint(mgl64.Vec3{0, 0.1, -1})
	if up.Y >= 240 {
		t.Errorf("point above the axis projected to y=%g", up.Y)
	}
	right := cam.ProjectPoint(mgl64.Vec3{0.1, 0, -1})
	if right.X <= 320 {
		t.Errorf("point right of the axis projected to x=%g", right.X)
	}
}

func TestCameraBehind(t *testing.T) {
	cam := NewCamera(640, 480, mgl64.DegToRad(60), 0.1, 100)
	p := cam.ProjectPoint(mgl64.Vec3{0, 0, 1})
	if IsFinite(p) {
		t.Errorf("point behind the camera projected to %v", p)
	}
}

func TestCameraLookAt(t *testing.T) {
	cam := NewCamera(100, 100, mgl64.DegToRad(90), 0.1, 100)
	cam.LookAt(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{5, 0, -1}, mgl64.Vec3{0, 1, 0})

	p := cam.ProjectPoint(mgl64.Vec3{5, 0, -3})
	if math.Abs(p.X-50) > 1e-9 || math.Abs(p.Y-50) > 1e-9 {
		t.Errorf("got %v, want (50, 50)", p)
	}

	vp := cam.Viewport()
	if vp.URx != 100 || vp.URy != 100 || vp.LLx != 0 || vp.LLy != 0 {
		t.Errorf("unexpected viewport %v", vp)
	}
}

func TestCameraConcurrentPose(t *testing.T) {
	cam := NewCamera(64, 64, mgl64.DegToRad(60), 0.1, 100)
	_, proj := cam.Pose()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			cam.SetPose(mgl64.Translate3D(float64(i%3), 0, 0), proj)
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			cam.ProjectPoint(mgl64.Vec3{0, 0, -2})
		}
	}()
	wg.Wait()
}
