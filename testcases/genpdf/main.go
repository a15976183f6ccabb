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

// Command genpdf generates reference images for the overlay renderer.
// For every sequence it writes the markers of the first frame to a PDF
// file and renders this to PNG using Ghostscript. The images are read by
// TestAgainstReference in package testcases.
// Run from the module root directory.
package main

import (
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/facemesh"
	"seehuhn.de/go/facemesh/overlay"
	"seehuhn.de/go/facemesh/testcases"
)

const refDir = "testcases/testdata/reference"

func main() {
	if err := os.MkdirAll(refDir, 0755); err != nil {
		panic(err)
	}

	style := overlay.DefaultStyle()
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, seq := range testcases.All[category] {
			name := category + "_" + seq.Name
			pdfPath := filepath.Join(refDir, name+".pdf")
			pngPath := filepath.Join(refDir, name+".png")

			pairs := facemesh.ProjectMesh(nil, seq.Mesh, seq.Pose(0), seq.Camera())
			points := facemesh.AppendPoints(nil, pairs)
			err := overlay.WritePDF(pdfPath, seq.Width, seq.Height, points, style)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			if err := renderPNG(pdfPath, pngPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func renderPNG(pdfPath, pngPath string) error {
	// -r72: one pixel per PDF point, matching the surface resolution
	// -dGraphicsAlphaBits=4: 4x supersampling for anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=png16m",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
