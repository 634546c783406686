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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"sort"

	"gowhiteboard/internal/render"
	"gowhiteboard/internal/storage"
	"gowhiteboard/internal/viewport"
)

// ExportBoardPNG rasterizes the board into a single PNG at outPath. Relative
// paths land under <board>/exports/. Text content is not rasterized (no font
// engine here); text shapes contribute their border rectangle only — use SVG
// or PDF when text must appear in the output.
func ExportBoardPNG(bh *storage.BoardHandle, outPath string, opt Options) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	opt.applyDefaults()

	img := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	for _, c := range render.Dispatch(frameFor(bh.Board, opt)) {
		rasterize(img, c)
	}

	outPath, err := resolveOutPath(bh, outPath)
	if err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func rasterize(img *image.RGBA, c render.Command) {
	switch c.Op {
	case render.OpRect:
		if fc, ok := parseHexColor(c.Fill); ok {
			fillRect(img, c.X, c.Y, c.W, c.H, fc)
		}
		if sc, ok := parseHexColor(c.Color); ok && c.Stroke > 0 {
			strokeRect(img, c.X, c.Y, c.W, c.H, sc)
		}
	case render.OpEllipse:
		if fc, ok := parseHexColor(c.Fill); ok {
			fillEllipse(img, c.X, c.Y, c.W, c.H, fc)
		}
		if sc, ok := parseHexColor(c.Color); ok && c.Stroke > 0 {
			strokeEllipse(img, c.X, c.Y, c.W, c.H, sc)
		}
	case render.OpLine:
		if sc, ok := parseHexColor(c.Color); ok {
			drawLine(img, c.X, c.Y, c.X2, c.Y2, sc)
		}
	case render.OpPolygon:
		if fc, ok := parseHexColor(c.Fill); ok {
			fillPolygon(img, c.Points, fc)
		}
		if sc, ok := parseHexColor(c.Color); ok && c.Stroke > 0 {
			for i := range c.Points {
				p := c.Points[i]
				q := c.Points[(i+1)%len(c.Points)]
				drawLine(img, p.X, p.Y, q.X, q.Y, sc)
			}
		}
	case render.OpText:
		// skipped; see doc comment on ExportBoardPNG
	}
}

// parseHexColor accepts #rrggbb and #rrggbbaa; empty or malformed strings
// report ok=false so the caller skips that paint.
func parseHexColor(s string) (color.RGBA, bool) {
	if len(s) != 7 && len(s) != 9 {
		return color.RGBA{}, false
	}
	if s[0] != '#' {
		return color.RGBA{}, false
	}
	var r, g, b, a uint8
	var err error
	if len(s) == 9 {
		_, err = fmt.Sscanf(s[1:], "%02x%02x%02x%02x", &r, &g, &b, &a)
	} else {
		a = 255
		_, err = fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b)
	}
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, true
}

func setPx(img *image.RGBA, x, y int, col color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return
	}
	if col.A == 255 {
		img.SetRGBA(x, y, col)
		return
	}
	// source-over for translucent fills
	dst := img.RGBAAt(x, y)
	a := uint32(col.A)
	inv := 255 - a
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(col.R)*a + uint32(dst.R)*inv) / 255),
		G: uint8((uint32(col.G)*a + uint32(dst.G)*inv) / 255),
		B: uint8((uint32(col.B)*a + uint32(dst.B)*inv) / 255),
		A: 255,
	})
}

func fillRect(img *image.RGBA, x, y, w, h float64, col color.RGBA) {
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	x1, y1 := int(math.Round(x+w))-1, int(math.Round(y+h))-1
	for yy := y0; yy <= y1; yy++ {
		for xx := x0; xx <= x1; xx++ {
			setPx(img, xx, yy, col)
		}
	}
}

// strokeRect draws a 1px hairline border regardless of the command stroke
// width; adequate for proofs and keeps the rasterizer trivial.
func strokeRect(img *image.RGBA, x, y, w, h float64, col color.RGBA) {
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	x1, y1 := int(math.Round(x+w))-1, int(math.Round(y+h))-1
	for xx := x0; xx <= x1; xx++ {
		setPx(img, xx, y0, col)
		setPx(img, xx, y1, col)
	}
	for yy := y0; yy <= y1; yy++ {
		setPx(img, x0, yy, col)
		setPx(img, x1, yy, col)
	}
}

func fillEllipse(img *image.RGBA, x, y, w, h float64, col color.RGBA) {
	rx, ry := w/2, h/2
	if rx <= 0 || ry <= 0 {
		return
	}
	cx, cy := x+rx, y+ry
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	for yy := y0; yy <= y1; yy++ {
		for xx := x0; xx <= x1; xx++ {
			dx := (float64(xx) + 0.5 - cx) / rx
			dy := (float64(yy) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				setPx(img, xx, yy, col)
			}
		}
	}
}

func strokeEllipse(img *image.RGBA, x, y, w, h float64, col color.RGBA) {
	rx, ry := w/2, h/2
	if rx <= 0 || ry <= 0 {
		return
	}
	cx, cy := x+rx, y+ry
	steps := int(math.Max(32, 2*math.Pi*math.Max(rx, ry)))
	for i := 0; i < steps; i++ {
		ang := 2 * math.Pi * float64(i) / float64(steps)
		setPx(img, int(math.Round(cx+rx*math.Cos(ang))), int(math.Round(cy+ry*math.Sin(ang))), col)
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, col color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		setPx(img, int(math.Round(x0)), int(math.Round(y0)), col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		setPx(img, int(math.Round(x0+dx*t)), int(math.Round(y0+dy*t)), col)
	}
}

// fillPolygon scanline-fills with even-odd crossings. The dispatcher only
// emits triangles today, but this handles any simple polygon.
func fillPolygon(img *image.RGBA, pts []viewport.Pt, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	for yy := int(math.Floor(minY)); yy <= int(math.Ceil(maxY)); yy++ {
		sy := float64(yy) + 0.5
		var xs []float64
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if (a.Y <= sy) == (b.Y <= sy) {
				continue
			}
			xs = append(xs, a.X+(sy-a.Y)/(b.Y-a.Y)*(b.X-a.X))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xx := int(math.Ceil(xs[i] - 0.5)); float64(xx)+0.5 <= xs[i+1]; xx++ {
				setPx(img, xx, yy, col)
			}
		}
	}
}
