/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render turns a board snapshot plus the current view into a flat list
// of draw commands. Backends (Fyne canvas, PNG, SVG, PDF) replay the same
// commands, so the live canvas and every export share one transform path.
package render

import (
	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/textlayout"
	"gowhiteboard/internal/viewport"
)

// Op identifies a draw command primitive.
type Op int

const (
	OpRect Op = iota
	OpEllipse
	OpLine
	OpPolygon
	OpText
)

// Command is one screen-space draw primitive. X/Y/W/H bound rects and
// ellipses; X/Y..X2/Y2 span lines; Points holds polygon vertices. Stroke is
// in screen pixels (already zoom-compensated). Fill="" means no fill,
// Color="" means no stroke.
type Command struct {
	Op         Op
	X, Y, W, H float64
	X2, Y2     float64
	Points     []viewport.Pt
	Color      string
	Fill       string
	Stroke     float64
	Text       string
	Size       float64
}

// Frame describes one render request.
type Frame struct {
	View       domain.View
	Background Background
	Shapes     []domain.Shape
	Selected   map[string]struct{}
	Rubber     *viewport.SelectionRect
	Width      float64 // viewport extent in screen pixels
	Height     float64
}

const (
	defaultShapeColor = "#4a90d9"
	selectionColor    = "#ff8c00"
	rubberStroke      = "#3478c8"
	rubberFill        = "#3478c820"
	textColor         = "#202020"
	textSizePt        = 13.0
)

// Dispatch produces the full ordered command list for a frame: background
// first, then shapes in list order (later entries paint on top), then
// selection outlines, then the rubber-band rectangle.
func Dispatch(f Frame) []Command {
	v := viewport.Normalize(f.View)
	cmds := backgroundCommands(v, f.Background, f.Width, f.Height)
	for _, s := range f.Shapes {
		cmds = append(cmds, shapeCommands(v, s)...)
	}
	for _, s := range f.Shapes {
		if _, ok := f.Selected[s.ID]; ok {
			cmds = append(cmds, selectionOutline(v, s))
		}
	}
	if f.Rubber != nil {
		r := f.Rubber.Normalized()
		x, y := viewport.ToScreen(v, r.X, r.Y)
		cmds = append(cmds, Command{
			Op: OpRect, X: x, Y: y, W: r.W * v.Zoom, H: r.H * v.Zoom,
			Color: rubberStroke, Fill: rubberFill, Stroke: 1,
		})
	}
	return cmds
}

func shapeCommands(v domain.View, s domain.Shape) []Command {
	x, y := viewport.ToScreen(v, s.X, s.Y)
	w := s.Width * v.Zoom
	h := s.Height * v.Zoom
	col := s.Color
	if col == "" {
		col = defaultShapeColor
	}
	switch s.Kind {
	case domain.KindSquare:
		return []Command{{Op: OpRect, X: x, Y: y, W: w, H: h, Fill: col, Stroke: 0}}
	case domain.KindCircle:
		// inscribed: diameter is the smaller box dimension, centered
		d := w
		if h < d {
			d = h
		}
		return []Command{{
			Op: OpEllipse, X: x + (w-d)/2, Y: y + (h-d)/2, W: d, H: d,
			Fill: col, Stroke: 0,
		}}
	case domain.KindTriangle:
		a, b, c := viewport.TriangleVertices(s)
		pts := make([]viewport.Pt, 3)
		for i, p := range [3]viewport.Pt{a, b, c} {
			sx, sy := viewport.ToScreen(v, p.X, p.Y)
			pts[i] = viewport.Pt{X: sx, Y: sy}
		}
		return []Command{{Op: OpPolygon, Points: pts, Fill: col, Stroke: 0}}
	case domain.KindText:
		return textCommands(v, s, x, y, w, h)
	}
	return nil
}

// textCommands wraps the content into the shape box and emits one text
// command per line, clipped to the box height.
func textCommands(v domain.View, s domain.Shape, x, y, w, h float64) []Command {
	// Line breaks are computed in logical units on the measuring face; zoom
	// scales the broken lines but never re-breaks them.
	box := textlayout.WrapText(s.Content, float32(s.Width))
	size := textSizePt * v.Zoom
	lineH := float64(box.Metrics.Ascent+box.Metrics.Descent+box.Metrics.LineGap) * v.Zoom
	cmds := make([]Command, 0, len(box.Lines)+1)
	cmds = append(cmds, Command{Op: OpRect, X: x, Y: y, W: w, H: h, Color: s.Color, Stroke: 1})
	ty := y + float64(box.Metrics.Ascent)*v.Zoom
	for _, line := range box.Lines {
		if ty > y+h {
			break
		}
		cmds = append(cmds, Command{Op: OpText, X: x, Y: ty, Text: line, Size: size, Color: textColor})
		ty += lineH
	}
	return cmds
}

func selectionOutline(v domain.View, s domain.Shape) Command {
	b := viewport.ShapeBounds(s)
	x, y := viewport.ToScreen(v, b.X, b.Y)
	const pad = 3.0
	return Command{
		Op: OpRect, X: x - pad, Y: y - pad,
		W: b.W*v.Zoom + 2*pad, H: b.H*v.Zoom + 2*pad,
		Color: selectionColor, Stroke: 2,
	}
}
