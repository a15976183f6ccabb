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

// Command export writes the synthetic sequences as recorded sessions, one
// JSON encoded event per line, for use with facemesh-replay and as input
// for tracking clients under test.
// Run from the module root directory.
package main

import (
	"bufio"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/facemesh/testcases"
	"seehuhn.de/go/facemesh/tracking"
)

const outDir = "testdata/sessions"

func main() {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, seq := range testcases.All[category] {
			name := category + "_" + seq.Name
			fileName := filepath.Join(outDir, name+".jsonl")
			if err := writeSession(fileName, name, seq); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func writeSession(fileName, name string, seq testcases.Sequence) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# %s: %d frames, %d vertices, %dx%d\n",
		name, seq.Frames, len(seq.Mesh), seq.Width, seq.Height)
	for _, ev := range seq.Events() {
		data, err := tracking.EncodeEvent(ev)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
