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
	"context"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"seehuhn.de/go/facemesh/tracking"
)

// AnchorID returns the anchor ID used for the k-th detection of the face
// in the sequence. IDs are stable between runs.
func (s Sequence) AnchorID(k int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "facemesh:%s/%d", s.Name, k))
}

// Events returns the tracking events of the sequence: one Added or
// Updated event per frame, a Removed event whenever tracking is lost and
// a final Removed event. The first event carries the camera pose.
func (s Sequence) Events() []tracking.Event {
	_, projection := s.Camera().Pose()
	res := make([]tracking.Event, 0, s.Frames+len(s.Lost)+1)

	detection := 0
	id := s.AnchorID(detection)
	kind := tracking.Added
	for i := range s.Frames {
		ev := tracking.Event{
			Kind: kind,
			Anchor: tracking.Anchor{
				ID:        id,
				Vertices:  s.Mesh,
				Transform: s.Pose(i),
			},
		}
		if i == 0 {
			ev.Camera = &tracking.CameraPose{
				View:       mgl64.Ident4(),
				Projection: projection,
			}
		}
		res = append(res, ev)
		kind = tracking.Updated

		if s.IsLost(i) && i < s.Frames-1 {
			res = append(res, tracking.Event{
				Kind:   tracking.Removed,
				Anchor: tracking.Anchor{ID: id},
			})
			detection++
			id = s.AnchorID(detection)
			kind = tracking.Added
		}
	}
	res = append(res, tracking.Event{
		Kind:   tracking.Removed,
		Anchor: tracking.Anchor{ID: id},
	})
	return res
}

// Source replays the events of a sequence.
type Source struct {
	events []tracking.Event
}

// NewSource returns a tracking source for s.
func NewSource(s Sequence) *Source {
	return &Source{events: s.Events()}
}

// Next implements [tracking.Source].
func (src *Source) Next(ctx context.Context) (tracking.Event, error) {
	if err := ctx.Err(); err != nil {
		return tracking.Event{}, err
	}
	if len(src.events) == 0 {
		return tracking.Event{}, io.EOF
	}
	ev := src.events[0]
	src.events = src.events[1:]
	return ev, nil
}
