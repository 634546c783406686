/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gowhiteboard/internal/render"
	"gowhiteboard/internal/storage"
)

// ExportBoardSVG writes the board as a single SVG file at outPath. The
// command list is already in screen pixels, so the SVG coordinate space is
// 1:1 with the requested output size.
func ExportBoardSVG(bh *storage.BoardHandle, outPath string, opt Options) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	opt.applyDefaults()

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		opt.Width, opt.Height, opt.Width, opt.Height)
	wf("  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"#ffffff\"/>\n", opt.Width, opt.Height)

	for _, c := range render.Dispatch(frameFor(bh.Board, opt)) {
		writeSVGCommand(wf, c)
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}

	outPath, err := resolveOutPath(bh, outPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func writeSVGCommand(wf func(string, ...any), c render.Command) {
	fill, stroke := svgPaints(c)
	switch c.Op {
	case render.OpRect:
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" %s%s/>\n", c.X, c.Y, c.W, c.H, fill, stroke)
	case render.OpEllipse:
		wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" %s%s/>\n", c.X+c.W/2, c.Y+c.H/2, c.W/2, c.H/2, fill, stroke)
	case render.OpLine:
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" %s/>\n", c.X, c.Y, c.X2, c.Y2, stroke)
	case render.OpPolygon:
		var pts strings.Builder
		for i, p := range c.Points {
			if i > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%g,%g", p.X, p.Y)
		}
		wf("  <polygon points=\"%s\" %s%s/>\n", pts.String(), fill, stroke)
	case render.OpText:
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"%s\">%s</text>\n",
			c.X, c.Y, c.Size, svgColor(c.Color, "#000000"), escText(c.Text))
	}
}

// svgPaints renders the fill and stroke attribute fragments for a command,
// splitting 8-digit hex into color plus opacity.
func svgPaints(c render.Command) (fill, stroke string) {
	if c.Fill != "" {
		col, op := splitAlpha(c.Fill)
		fill = fmt.Sprintf("fill=\"%s\" ", col)
		if op != "" {
			fill += fmt.Sprintf("fill-opacity=\"%s\" ", op)
		}
	} else {
		fill = "fill=\"none\" "
	}
	if c.Color != "" && c.Stroke > 0 {
		col, op := splitAlpha(c.Color)
		stroke = fmt.Sprintf("stroke=\"%s\" stroke-width=\"%g\"", col, c.Stroke)
		if op != "" {
			stroke += fmt.Sprintf(" stroke-opacity=\"%s\"", op)
		}
	}
	return fill, stroke
}

func splitAlpha(hex string) (col, opacity string) {
	if len(hex) != 9 {
		return hex, ""
	}
	var a uint8
	if _, err := fmt.Sscanf(hex[7:], "%02x", &a); err != nil {
		return hex[:7], ""
	}
	return hex[:7], fmt.Sprintf("%.3f", float64(a)/255)
}

func svgColor(hex, fallback string) string {
	if hex == "" {
		return fallback
	}
	col, _ := splitAlpha(hex)
	return col
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
