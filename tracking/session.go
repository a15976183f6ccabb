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

package tracking

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/facemesh"
	"seehuhn.de/go/facemesh/overlay"
)

// ErrUnsupported is returned by NewSession if no projection capability is
// available, for example because the device has no face tracking camera.
var ErrUnsupported = errors.New("face overlay unsupported: no projection available")

// Config holds the collaborators of a Session.
type Config struct {
	// Projector maps world points to surface coordinates. If nil, Camera
	// is used.
	Projector facemesh.Projector

	// Camera, if set, receives the camera poses carried by events.
	Camera *facemesh.Camera

	// Thread is the render thread which runs all surface operations.
	Thread *overlay.Thread

	// NewSurface allocates the surface for a newly detected face.
	NewSurface overlay.SurfaceFactory

	// Style is the marker style used for all faces.
	Style overlay.MarkerStyle

	// Log receives diagnostics. If nil, the standard logrus logger is used.
	Log logrus.FieldLogger
}

// Session keeps one overlay renderer per tracked face and feeds it with
// the projected vertices of every frame.
//
// Handle may be called from any goroutine. Projection happens on the
// calling goroutine; drawing is posted to the render thread, where
// consecutive frames of the same face may be coalesced.
type Session struct {
	projector facemesh.Projector
	camera    *facemesh.Camera
	thread    *overlay.Thread
	factory   overlay.SurfaceFactory
	style     overlay.MarkerStyle
	log       logrus.FieldLogger

	mu     sync.Mutex
	faces  map[uuid.UUID]*overlay.Renderer
	pairs  []facemesh.VertexProjection
	frames uint64
	closed bool

	points sync.Pool // of *[]vec.Vec2
}

// NewSession checks the configuration and returns a new session.
func NewSession(cfg Config) (*Session, error) {
	p := cfg.Projector
	if p == nil && cfg.Camera != nil {
		p = cfg.Camera
	}
	if p == nil {
		return nil, ErrUnsupported
	}
	if cfg.Thread == nil || cfg.NewSurface == nil {
		return nil, errors.New("tracking: session needs a render thread and a surface factory")
	}
	if err := cfg.Style.Validate(); err != nil {
		return nil, fmt.Errorf("tracking: %w", err)
	}

	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Session{
		projector: p,
		camera:    cfg.Camera,
		thread:    cfg.Thread,
		factory:   cfg.NewSurface,
		style:     cfg.Style,
		log:       log,
		faces:     make(map[uuid.UUID]*overlay.Renderer),
		points: sync.Pool{
			New: func() any { return new([]vec.Vec2) },
		},
	}, nil
}

// Handle processes one event from the tracking subsystem.
//
// An Added event creates the overlay for a face, an Updated event redraws
// it (creating it first if needed), and a Removed event tears it down.
// Errors are only returned for invalid events; drawing problems are
// absorbed on the render thread.
func (s *Session) Handle(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if ev.Camera != nil && s.camera != nil {
		s.camera.SetPose(ev.Camera.View, ev.Camera.Projection)
	}

	switch ev.Kind {
	case Added:
		r := s.face(ev.Anchor.ID)
		if ev.Anchor.Vertices == nil {
			s.thread.Post(r, func() { r.EnsureSurface() })
			return nil
		}
		s.update(r, ev.Anchor)
	case Updated:
		s.update(s.face(ev.Anchor.ID), ev.Anchor)
	case Removed:
		r, ok := s.faces[ev.Anchor.ID]
		if !ok {
			return nil
		}
		delete(s.faces, ev.Anchor.ID)
		s.thread.Post(r, r.Teardown)
		s.log.WithField("anchor", ev.Anchor.ID).Info("face lost")
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(ev.Kind))
	}
	return nil
}

// face returns the renderer for the given anchor, creating it if needed.
// The caller must hold s.mu.
func (s *Session) face(id uuid.UUID) *overlay.Renderer {
	r, ok := s.faces[id]
	if !ok {
		r = overlay.NewRenderer(s.factory, s.style, s.log.WithField("anchor", id))
		s.faces[id] = r
		s.log.WithField("anchor", id).Info("face detected")
	}
	return r
}

// update projects the mesh of a and posts the redraw.
// The caller must hold s.mu.
func (s *Session) update(r *overlay.Renderer, a Anchor) {
	s.frames++
	if !facemesh.FiniteMat4(a.Transform) {
		s.log.WithField("anchor", a.ID).Debug("non-finite pose transform")
	}

	s.pairs = facemesh.ProjectMesh(s.pairs, a.Vertices, a.Transform, s.projector)

	buf := s.points.Get().(*[]vec.Vec2)
	*buf = facemesh.AppendPoints((*buf)[:0], s.pairs)

	s.thread.Post(r, func() {
		r.Redraw(*buf)
		s.points.Put(buf)
	})
}

// Anchors returns the IDs of all tracked faces, sorted.
func (s *Session) Anchors() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(s.faces))
	for id := range s.faces {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ids
}

// Frames returns the number of frames projected so far.
func (s *Session) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Close tears down all overlays. Later events are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, r := range s.faces {
		s.thread.Post(r, r.Teardown)
		delete(s.faces, id)
	}
}
