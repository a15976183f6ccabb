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
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// Source delivers tracking events in order.
type Source interface {
	// Next returns the next event. At the end of the stream, Next returns
	// io.EOF. Errors wrapping ErrMalformed or ErrUnknownKind concern a
	// single event only; the caller may skip it and continue.
	Next(ctx context.Context) (Event, error)
}

// maxLineSize bounds the length of one recorded event.
// A mesh with 1220 vertices takes roughly 80 kB.
const maxLineSize = 16 << 20

// Replay reads a recorded session: one JSON encoded event per line.
// Empty lines and lines starting with '#' are ignored.
type Replay struct {
	sc   *bufio.Scanner
	line int
}

// NewReplay returns a Source reading events from r.
func NewReplay(r io.Reader) *Replay {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return &Replay{sc: sc}
}

// Next implements [Source].
func (r *Replay) Next(ctx context.Context) (Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return Event{}, err
			}
			return Event{}, io.EOF
		}
		r.line++

		data := bytes.TrimSpace(r.sc.Bytes())
		if len(data) == 0 || data[0] == '#' {
			continue
		}
		ev, err := DecodeEvent(data)
		if err != nil {
			return Event{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return ev, nil
	}
}

// Recoverable reports whether err concerns a single event, so that
// reading from the source can continue.
func Recoverable(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrUnknownKind)
}

// Pump reads events from src and passes them to handle until the source
// is exhausted or ctx is cancelled. Recoverable errors are passed to skip,
// which may be nil. At the end of the stream Pump returns nil.
func Pump(ctx context.Context, src Source, handle func(Event) error, skip func(error)) error {
	for {
		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		} else if Recoverable(err) {
			if skip != nil {
				skip(err)
			}
			continue
		} else if err != nil {
			return err
		}

		if err := handle(ev); err != nil {
			if !Recoverable(err) {
				return err
			}
			if skip != nil {
				skip(err)
			}
		}
	}
}
