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

// Package tracking connects a stream of face anchor updates to overlay
// renderers.
//
// A tracking subsystem reports each detected face as an anchor with a mesh
// and a pose. [Session] projects the mesh of every update and hands the
// result to the render thread, keeping one overlay per anchor. Events can
// be read from a recorded session ([Replay]) or received over a websocket
// ([Server]).
package tracking

import (
	"fmt"

	"github.com/google/uuid"

	"seehuhn.de/go/facemesh"
)

// Kind is the type of an anchor event.
type Kind int

const (
	// Added reports a newly detected face.
	Added Kind = iota + 1

	// Updated reports a new mesh and pose for a tracked face.
	Updated

	// Removed reports that tracking of a face was lost.
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Added, Updated, Removed:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "added":
		*k = Added
	case "updated":
		*k = Updated
	case "removed":
		*k = Removed
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, text)
	}
	return nil
}

// Anchor is the state of one tracked face in one frame.
// The vertex slice belongs to the frame and must not be modified once the
// event has been handed to a Session.
type Anchor struct {
	ID        uuid.UUID
	Vertices  []facemesh.Vertex
	Transform facemesh.Mat4 // mesh-local to world
}

// CameraPose holds the camera matrices for one frame.
type CameraPose struct {
	View       facemesh.Mat4
	Projection facemesh.Mat4
}

// Event is a single notification from the tracking subsystem.
type Event struct {
	Kind   Kind
	Anchor Anchor

	// Camera optionally updates the camera used for projection.
	Camera *CameraPose
}
