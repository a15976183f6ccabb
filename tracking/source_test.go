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
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

const session = `# recorded session
{"kind":"added","anchor":"` + testAnchor + `"}

{"kind":"updated","anchor":"` + testAnchor + `","vertices":[[0,0,0]]}
{"kind":"updated","anchor":
{"kind":"winked","anchor":"` + testAnchor + `"}
{"kind":"removed","anchor":"` + testAnchor + `"}
`

func TestReplay(t *testing.T) {
	src := NewReplay(strings.NewReader(session))
	ctx := context.Background()

	var kinds []Kind
	var lines []string
	for {
		ev, err := src.Next(ctx)
		if err == io.EOF {
			break
		} else if Recoverable(err) {
			lines = append(lines, strings.SplitN(err.Error(), ":", 2)[0])
			continue
		} else if err != nil {
			t.Fatal(err)
		}
		kinds = append(kinds, ev.Kind)
	}

	want := []Kind{Added, Updated, Removed}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d: %s, want %s", i, kinds[i], want[i])
		}
	}
	if len(lines) != 2 || lines[0] != "line 5" || lines[1] != "line 6" {
		t.Errorf("errors reported for %v, want [line 5 line 6]", lines)
	}
}

func TestReplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReplay(strings.NewReader(session)).Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestPump(t *testing.T) {
	var handled []Kind
	skipped := 0
	err := Pump(context.Background(), NewReplay(strings.NewReader(session)),
		func(ev Event) error {
			handled = append(handled, ev.Kind)
			return nil
		},
		func(error) { skipped++ })
	if err != nil {
		t.Fatal(err)
	}
	if len(handled) != 3 || skipped != 2 {
		t.Errorf("handled %v, skipped %d", handled, skipped)
	}
}

func TestPumpHandlerError(t *testing.T) {
	fatal := errors.New("boom")
	n := 0
	err := Pump(context.Background(), NewReplay(strings.NewReader(session)),
		func(ev Event) error {
			n++
			switch n {
			case 1:
				return ErrUnknownKind
			case 2:
				return fatal
			}
			return nil
		}, nil)
	if !errors.Is(err, fatal) {
		t.Errorf("got %v, want %v", err, fatal)
	}
	if n != 2 {
		t.Errorf("handler called %d times, want 2", n)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestPumpReadError(t *testing.T) {
	err := Pump(context.Background(), NewReplay(failingReader{}),
		func(Event) error { return nil }, nil)
	if err == nil || Recoverable(err) {
		t.Errorf("got %v, want a fatal read error", err)
	}
}
