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

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"seehuhn.de/go/facemesh"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Errors returned while decoding events.
var (
	ErrMalformed   = errors.New("malformed event")
	ErrUnknownKind = errors.New("unknown event kind")
)

// wireEvent is the JSON form of an Event. Matrices are stored as 16
// numbers in column-major order.
type wireEvent struct {
	Kind      string      `json:"kind"`
	Anchor    string      `json:"anchor"`
	Transform []float64   `json:"transform,omitempty"`
	Vertices  [][]float64 `json:"vertices,omitempty"`
	Camera    *wireCamera `json:"camera,omitempty"`
}

type wireCamera struct {
	View       []float64 `json:"view"`
	Projection []float64 `json:"projection"`
}

// decodeMat4 checks the length of a wire matrix.
func decodeMat4(name string, x []float64) (facemesh.Mat4, error) {
	var m facemesh.Mat4
	if len(x) != len(m) {
		return m, fmt.Errorf("%w: %s has %d numbers", ErrMalformed, name, len(x))
	}
	copy(m[:], x)
	return m, nil
}

// DecodeEvent parses one JSON encoded event.
// A missing transform means the identity.
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if w.Kind == "" {
		return Event{}, fmt.Errorf("%w: missing kind", ErrMalformed)
	}
	var kind Kind
	if err := kind.UnmarshalText([]byte(w.Kind)); err != nil {
		return Event{}, err
	}

	id, err := uuid.Parse(w.Anchor)
	if err != nil {
		return Event{}, fmt.Errorf("%w: anchor: %v", ErrMalformed, err)
	}

	ev := Event{
		Kind: kind,
		Anchor: Anchor{
			ID:        id,
			Transform: mgl64.Ident4(),
		},
	}
	if w.Transform != nil {
		ev.Anchor.Transform, err = decodeMat4("transform", w.Transform)
		if err != nil {
			return Event{}, err
		}
	}
	if len(w.Vertices) > 0 {
		ev.Anchor.Vertices = make([]facemesh.Vertex, len(w.Vertices))
		for i, v := range w.Vertices {
			if len(v) != 3 {
				return Event{}, fmt.Errorf("%w: vertex %d has %d numbers", ErrMalformed, i, len(v))
			}
			ev.Anchor.Vertices[i] = facemesh.Vertex{v[0], v[1], v[2]}
		}
	}
	if w.Camera != nil {
		view, err := decodeMat4("camera view", w.Camera.View)
		if err != nil {
			return Event{}, err
		}
		projection, err := decodeMat4("camera projection", w.Camera.Projection)
		if err != nil {
			return Event{}, err
		}
		ev.Camera = &CameraPose{View: view, Projection: projection}
	}
	return ev, nil
}

// EncodeEvent returns the JSON encoding of ev, as a single line.
func EncodeEvent(ev Event) ([]byte, error) {
	kind, err := ev.Kind.MarshalText()
	if err != nil {
		return nil, err
	}
	w := wireEvent{
		Kind:   string(kind),
		Anchor: ev.Anchor.ID.String(),
	}
	if ev.Kind != Removed {
		w.Transform = ev.Anchor.Transform[:]
		w.Vertices = make([][]float64, len(ev.Anchor.Vertices))
		for i, v := range ev.Anchor.Vertices {
			w.Vertices[i] = []float64{v[0], v[1], v[2]}
		}
	}
	if ev.Camera != nil {
		w.Camera = &wireCamera{
			View:       ev.Camera.View[:],
			Projection: ev.Camera.Projection[:],
		}
	}
	return json.Marshal(w)
}
