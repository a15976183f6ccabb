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
	"image"
	stdcolor "image/color"
	"image/png"
	"io"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/facemesh"
	"seehuhn.de/go/facemesh/raster"
)

// WritePNG encodes a rendered frame as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WritePDF writes the markers of one frame as vector graphics to a
// single-page PDF file. The page measures width×height points, with one
// point per surface pixel. Points with non-finite coordinates are skipped.
func WritePDF(fileName string, width, height int, points []vec.Vec2, style MarkerStyle) error {
	paper := &pdf.Rectangle{
		URx: float64(width),
		URy: float64(height),
	}
	page, err := document.CreateSinglePage(fileName, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// PDF origin is bottom-left, surface coordinates start top-left
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(height)})

	page.SetFillColor(pdfColor(style.Fill))
	page.SetStrokeColor(pdfColor(style.Stroke))
	page.SetLineWidth(style.StrokeWidth)
	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)

	fill, stroke := paintOps(style)
	circle := &path.Data{}
	for _, p := range points {
		if !(fill || stroke) {
			break
		}
		if !facemesh.IsFinite(p) {
			continue
		}
		circle.Cmds = circle.Cmds[:0]
		circle.Coords = circle.Coords[:0]
		raster.AppendCircle(circle, p, style.Radius, false)

		if fill {
			emitPath(page, circle)
			page.Fill()
		}
		if stroke {
			emitPath(page, circle)
			page.Stroke()
		}
	}

	return page.Close()
}

// paintOps reports which parts of a marker leave visible paint.
// PDF has no alpha here, so fully transparent colours are left out.
func paintOps(style MarkerStyle) (fill, stroke bool) {
	fill = style.Fill.A > 0
	stroke = style.Stroke.A > 0 && style.StrokeWidth > 0
	return fill, stroke
}

func emitPath(page *document.Page, p *path.Data) {
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}
}

// pdfColor converts a premultiplied RGBA colour to DeviceRGB.
// PDF fills are opaque here, so alpha is only used to undo the
// premultiplication.
func pdfColor(c stdcolor.RGBA) color.Color {
	r, g, b, a := float64(c.R), float64(c.G), float64(c.B), float64(c.A)
	if a == 0 {
		return color.DeviceGray(1)
	}
	return color.DeviceRGB{r / a, g / a, b / a}
}
