/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"gowhiteboard/internal/render"
	"gowhiteboard/internal/storage"
)

// ExportBoardPDF writes the board as a single-page vector PDF at outPath.
// One command pixel maps to one PDF point. Text stays vector via the
// built-in Helvetica, no font embedding.
func ExportBoardPDF(bh *storage.BoardHandle, outPath string, opt Options) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	opt.applyDefaults()

	w := float64(opt.Width)
	h := float64(opt.Height)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
		OrientationStr: "",
	})
	pdf.SetTitle(bh.Board.Name, true)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})

	for _, c := range render.Dispatch(frameFor(bh.Board, opt)) {
		drawPDFCommand(pdf, c)
	}

	outPath, err := resolveOutPath(bh, outPath)
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawPDFCommand(pdf *gofpdf.Fpdf, c render.Command) {
	style := pdfStyle(pdf, c)
	switch c.Op {
	case render.OpRect:
		if style != "" {
			pdf.Rect(c.X, c.Y, c.W, c.H, style)
		}
	case render.OpEllipse:
		if style != "" {
			pdf.Ellipse(c.X+c.W/2, c.Y+c.H/2, c.W/2, c.H/2, 0, style)
		}
	case render.OpLine:
		if fc, ok := parseHexColor(c.Color); ok {
			pdf.SetDrawColor(int(fc.R), int(fc.G), int(fc.B))
			pdf.SetLineWidth(c.Stroke)
			pdf.Line(c.X, c.Y, c.X2, c.Y2)
		}
	case render.OpPolygon:
		if style != "" {
			pts := make([]gofpdf.PointType, len(c.Points))
			for i, p := range c.Points {
				pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
			}
			pdf.Polygon(pts, style)
		}
	case render.OpText:
		tc, ok := parseHexColor(c.Color)
		if !ok {
			tc.R, tc.G, tc.B = 0, 0, 0
		}
		pdf.SetTextColor(int(tc.R), int(tc.G), int(tc.B))
		pdf.SetFont("Helvetica", "", c.Size)
		pdf.Text(c.X, c.Y, c.Text)
	}
	pdf.SetAlpha(1, "Normal")
}

// pdfStyle configures fill/draw state for the command and returns the gofpdf
// style string ("F", "D" or "FD"); empty when the command paints nothing.
func pdfStyle(pdf *gofpdf.Fpdf, c render.Command) string {
	style := ""
	if fc, ok := parseHexColor(c.Fill); ok {
		pdf.SetFillColor(int(fc.R), int(fc.G), int(fc.B))
		if fc.A < 255 {
			pdf.SetAlpha(float64(fc.A)/255, "Normal")
		}
		style += "F"
	}
	if sc, ok := parseHexColor(c.Color); ok && c.Stroke > 0 {
		pdf.SetDrawColor(int(sc.R), int(sc.G), int(sc.B))
		pdf.SetLineWidth(c.Stroke)
		style += "D"
	}
	return style
}
