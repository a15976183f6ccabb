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

	"github.com/go-gl/mathgl/mgl64"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Camera is a perspective camera which maps world-space points to the
// pixels of a viewport.
//
// The pose can be updated while other goroutines project points; each call
// to ProjectPoint sees a consistent view/projection pair.
type Camera struct {
	width, height int

	mu         sync.RWMutex
	view       Mat4
	projection Mat4
}

// NewCamera returns a camera at the origin, looking down the negative z
// axis. fovY is the vertical field of view in radians; near and far are
// the clip plane distances.
func NewCamera(width, height int, fovY, near, far float64) *Camera {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	return &Camera{
		width:      width,
		height:     height,
		view:       mgl64.Ident4(),
		projection: mgl64.Perspective(fovY, aspect, near, far),
	}
}

// SetPose replaces the view and projection matrices.
func (c *Camera) SetPose(view, projection Mat4) {
	c.mu.Lock()
	c.view = view
	c.projection = projection
	c.mu.Unlock()
}

// SetView replaces the view matrix and keeps the projection.
func (c *Camera) SetView(view Mat4) {
	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
}

// LookAt points the camera from eye towards center.
func (c *Camera) LookAt(eye, center, up mgl64.Vec3) {
	c.SetView(mgl64.LookAtV(eye, center, up))
}

// Pose returns the current view and projection matrices.
func (c *Camera) Pose() (view, projection Mat4) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view, c.projection
}

// Viewport returns the pixel rectangle covered by the camera image.
func (c *Camera) Viewport() rect.Rect {
	return rect.Rect{URx: float64(c.width), URy: float64(c.height)}
}

// Size returns the viewport size in pixels.
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}

// ProjectPoint implements [Projector].
// Points behind the camera map to NaN.
func (c *Camera) ProjectPoint(world mgl64.Vec3) vec.Vec2 {
	view, projection := c.Pose()

	clip := projection.Mul4(view).Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return vec.Vec2{X: math.NaN(), Y: math.NaN()}
	}

	win := mgl64.Project(world, view, projection, 0, 0, c.width, c.height)
	return vec.Vec2{X: win[0], Y: float64(c.height) - win[1]}
}
