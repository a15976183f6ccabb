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
	"errors"

	"github.com/sirupsen/logrus"
	"seehuhn.de/go/geom/vec"
)

// State is the lifecycle state of a Renderer.
type State int

const (
	// Uninitialized means that no surface has been allocated yet.
	Uninitialized State = iota

	// Ready means that the renderer owns a surface and draws markers.
	Ready

	// Closed means that the surface has been released. This state is final.
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return "invalid"
	}
}

// SurfaceFactory allocates the surface for a Renderer.
type SurfaceFactory func() (Surface, error)

// Renderer draws the projected vertices of one face as markers on a
// lazily allocated surface. Every redraw replaces all markers of the
// previous frame.
//
// All methods must be called from the render thread, see [Thread].
type Renderer struct {
	newSurface SurfaceFactory
	style      MarkerStyle
	log        logrus.FieldLogger

	state   State
	surface Surface
}

// NewRenderer returns a renderer in state Uninitialized.
// If log is nil, the standard logrus logger is used.
func NewRenderer(newSurface SurfaceFactory, style MarkerStyle, log logrus.FieldLogger) *Renderer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Renderer{
		newSurface: newSurface,
		style:      style,
		log:        log,
	}
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	return r.state
}

// Surface returns the surface, or nil if the renderer is not Ready.
func (r *Renderer) Surface() Surface {
	if r.state != Ready {
		return nil
	}
	return r.surface
}

// Style returns the marker style.
func (r *Renderer) Style() MarkerStyle {
	return r.style
}

// EnsureSurface allocates the surface on first use and reports whether the
// renderer is Ready. Once a surface exists, calls are no-ops. If the
// factory fails, the renderer stays Uninitialized and the next call tries
// again.
func (r *Renderer) EnsureSurface() bool {
	switch r.state {
	case Ready:
		return true
	case Closed:
		return false
	}

	s, err := r.newSurface()
	if err != nil {
		r.log.WithError(err).Debug("overlay surface unavailable")
		return false
	}
	r.surface = s
	r.state = Ready
	return true
}

// Redraw clears the surface and draws one marker for every point with
// finite coordinates, in order. A renderer which is still Uninitialized
// allocates its surface first.
//
// The return value is the number of markers on the surface afterwards.
// If no surface is available, Redraw does nothing and returns 0.
func (r *Renderer) Redraw(points []vec.Vec2) int {
	if !r.EnsureSurface() {
		return 0
	}

	r.surface.Clear()
	skipped := 0
	for _, p := range points {
		err := r.surface.DrawMarker(p, r.style)
		switch {
		case err == nil, errors.Is(err, ErrOutOfBounds):
			// drawn, possibly clipped away
		case errors.Is(err, ErrReleased):
			// the host has destroyed the surface underneath us
			r.state = Closed
			r.surface = nil
			return 0
		default:
			skipped++
		}
	}
	if skipped > 0 {
		r.log.WithFields(logrus.Fields{
			"points":  len(points),
			"skipped": skipped,
		}).Debug("skipped markers")
	}
	return r.surface.MarkerCount()
}

// Teardown releases the surface. Afterwards the renderer is Closed and
// Redraw has no effect.
func (r *Renderer) Teardown() {
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	r.state = Closed
}
