//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"gowhiteboard/internal/domain"
	applog "gowhiteboard/internal/log"
	"gowhiteboard/internal/render"
	"gowhiteboard/internal/viewport"
)

// BoardCanvas is the infinite whiteboard surface. It owns an interaction
// machine and feeds it normalized intents from Fyne pointer/wheel/key
// events; drawing replays the shared command list, so what the widget shows
// is what exports produce.
type BoardCanvas struct {
	widget.BaseWidget

	machine    *viewport.Machine
	gest       *viewport.Gestures
	board      *domain.Board
	background render.Background

	dragging bool
	lastX    float64
	lastY    float64

	// OnDirty fires whenever board content changes (shape moved, text
	// edited, shape added/removed). OnEditRequest asks the host to open a
	// text editor for the shape. OnContext asks for a context menu at the
	// given screen position with the logical point attached.
	OnDirty       func()
	OnEditRequest func(id, content string)
	OnContext     func(logicalX, logicalY float64, screen fyne.Position)
	OnViewChanged func(v domain.View)
}

// NewBoardCanvas builds the widget over the given board. The board is shared
// state: the canvas writes shape positions and the view back into it.
func NewBoardCanvas(b *domain.Board) *BoardCanvas {
	c := &BoardCanvas{
		board:      b,
		gest:       viewport.NewGestures(),
		background: render.ParseBackground(b.Background),
	}
	cb := viewport.Callbacks{
		OnShapeMoved: func(id string, x, y float64) {
			for i := range c.board.Shapes {
				if c.board.Shapes[i].ID == id {
					c.board.Shapes[i].X = x
					c.board.Shapes[i].Y = y
				}
			}
			c.Refresh()
		},
		OnShapesMoved: func(ids []string, dx, dy float64) {
			if c.OnDirty != nil {
				c.OnDirty()
			}
		},
		OnViewChanged: func(v domain.View) {
			c.board.View = v
			if c.OnViewChanged != nil {
				c.OnViewChanged(v)
			}
		},
		OnContextRequest: func(lx, ly, sx, sy float64) {
			if c.OnContext != nil {
				c.OnContext(lx, ly, fyne.NewPos(float32(sx), float32(sy)))
			}
		},
		OnTextEdited: func(id, content string) {
			for i := range c.board.Shapes {
				if c.board.Shapes[i].ID == id {
					c.board.Shapes[i].Content = content
				}
			}
			if c.OnDirty != nil {
				c.OnDirty()
			}
			c.Refresh()
		},
	}
	c.machine = viewport.NewMachine(b.View, cb, applog.WithComponent("canvas"))
	c.machine.SetShapes(b.Shapes)
	c.ExtendBaseWidget(c)
	return c
}

// LoadBoard swaps the widget onto another board in place, keeping the host's
// callbacks and the current interaction mode.
func (c *BoardCanvas) LoadBoard(b *domain.Board) {
	c.board = b
	c.background = render.ParseBackground(b.Background)
	c.machine.SetShapes(b.Shapes)
	if b.View.Zoom != 0 {
		c.machine.SetView(b.View)
	}
	c.dragging = false
	c.Refresh()
}

func (c *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return &boardCanvasRenderer{bc: c, bg: bg, objects: []fyne.CanvasObject{bg}}
}

func (c *BoardCanvas) PreferredSize() fyne.Size { return fyne.NewSize(1000, 700) }

// Machine exposes the interaction machine for toolbar actions (mode switch,
// fit, selection queries).
func (c *BoardCanvas) Machine() *viewport.Machine { return c.machine }

// SetBackground switches the tiling and records it on the board.
func (c *BoardCanvas) SetBackground(name string) {
	c.background = render.ParseBackground(name)
	c.board.Background = c.background.String()
	if c.OnDirty != nil {
		c.OnDirty()
	}
	c.Refresh()
}

// AddShape inserts a new shape of the given kind at the viewport center (or
// at the given logical point when at is non-nil) and selects nothing.
func (c *BoardCanvas) AddShape(kind domain.ShapeKind, at *viewport.Pt) {
	p := c.machine.ViewportCenterLogical()
	if at != nil {
		p = *at
	}
	s := domain.Shape{
		ID:     fmt.Sprintf("s-%d", time.Now().UnixNano()),
		Kind:   kind,
		X:      p.X - 60,
		Y:      p.Y - 45,
		Width:  120,
		Height: 90,
	}
	if kind == domain.KindText {
		s.Content = "Text"
	}
	c.board.Shapes = append(c.board.Shapes, s)
	c.machine.SetShapes(c.board.Shapes)
	if c.OnDirty != nil {
		c.OnDirty()
	}
	c.Refresh()
}

// DeleteSelected removes every selected shape from the board.
func (c *BoardCanvas) DeleteSelected() {
	sel := c.machine.Selection()
	if len(sel) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(sel))
	for _, id := range sel {
		drop[id] = struct{}{}
	}
	kept := c.board.Shapes[:0]
	for _, s := range c.board.Shapes {
		if _, gone := drop[s.ID]; !gone {
			kept = append(kept, s)
		}
	}
	c.board.Shapes = kept
	c.machine.SetShapes(c.board.Shapes)
	if c.OnDirty != nil {
		c.OnDirty()
	}
	c.Refresh()
}

// CenterOnShape pans so the shape's center lands mid-viewport.
func (c *BoardCanvas) CenterOnShape(id string) {
	for _, s := range c.board.Shapes {
		if s.ID != id {
			continue
		}
		b := viewport.ShapeBounds(s)
		v := c.machine.View()
		ctr := c.machine.ViewportCenterLogical()
		v.OffsetX += (ctr.X - (b.X + b.W/2)) * v.Zoom
		v.OffsetY += (ctr.Y - (b.Y + b.H/2)) * v.Zoom
		c.machine.SetView(v)
		c.Refresh()
		return
	}
}

func (c *BoardCanvas) apply(in viewport.Intent) {
	c.machine.SetShapes(c.board.Shapes)
	c.machine.Apply(in)
	c.Refresh()
}

// Tapped is a press/release pair at one point: selection or click-through.
func (c *BoardCanvas) Tapped(e *fyne.PointEvent) {
	x, y := float64(e.Position.X), float64(e.Position.Y)
	c.apply(c.gest.PointerDown(x, y, false))
	c.apply(c.gest.PointerUp(x, y))
}

func (c *BoardCanvas) TappedSecondary(e *fyne.PointEvent) {
	x, y := float64(e.Position.X), float64(e.Position.Y)
	c.apply(c.gest.PointerDown(x, y, true))
}

// DoubleTapped opens the text editor when a text shape is under the cursor.
func (c *BoardCanvas) DoubleTapped(e *fyne.PointEvent) {
	if c.OnEditRequest == nil {
		return
	}
	lx, ly := viewport.ToLogical(c.machine.View(), float64(e.Position.X), float64(e.Position.Y))
	idx := viewport.HitTest(c.board.Shapes, lx, ly)
	if idx < 0 {
		return
	}
	if s := c.board.Shapes[idx]; s.Kind == domain.KindText {
		c.OnEditRequest(s.ID, s.Content)
	}
}

func (c *BoardCanvas) Dragged(e *fyne.DragEvent) {
	x, y := float64(e.Position.X), float64(e.Position.Y)
	if !c.dragging {
		c.dragging = true
		c.apply(c.gest.PointerDown(x-float64(e.Dragged.DX), y-float64(e.Dragged.DY), false))
	}
	c.lastX, c.lastY = x, y
	c.apply(c.gest.PointerMove(x, y))
}

func (c *BoardCanvas) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.apply(c.gest.PointerUp(c.lastX, c.lastY))
}

// Scrolled pans, or zooms about the cursor while the zoom modifier is held.
func (c *BoardCanvas) Scrolled(e *fyne.ScrollEvent) {
	c.apply(c.gest.Wheel(
		float64(e.Position.X), float64(e.Position.Y),
		float64(e.Scrolled.DX), float64(e.Scrolled.DY)))
}

// KeyDown / KeyUp / FocusLost feed modifier state; the host wires them to
// the window's key handlers.
func (c *BoardCanvas) KeyDown(name string) {
	if in, ok := c.gest.KeyDown(name); ok {
		c.apply(in)
	}
}

func (c *BoardCanvas) KeyUp(name string) {
	if in, ok := c.gest.KeyUp(name); ok {
		c.apply(in)
	}
}

func (c *BoardCanvas) FocusLost() {
	c.apply(c.gest.FocusLost())
}

// boardCanvasRenderer rebuilds Fyne canvas objects from the dispatcher's
// command list on every layout pass.
type boardCanvasRenderer struct {
	bc      *BoardCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *boardCanvasRenderer) Destroy()                     {}
func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 240) }
func (r *boardCanvasRenderer) Refresh() {
	r.Layout(r.bc.Size())
	canvas.Refresh(r.bc)
}

func (r *boardCanvasRenderer) Layout(size fyne.Size) {
	m := r.bc.machine
	m.SetViewportSize(float64(size.Width), float64(size.Height))

	r.bg.Move(fyne.NewPos(0, 0))
	r.bg.Resize(size)

	sel := make(map[string]struct{})
	for _, id := range m.Selection() {
		sel[id] = struct{}{}
	}
	f := render.Frame{
		View:       m.View(),
		Background: r.bc.background,
		Shapes:     m.Shapes(),
		Selected:   sel,
		Width:      float64(size.Width),
		Height:     float64(size.Height),
	}
	if rb, ok := m.RubberRect(); ok {
		f.Rubber = &rb
	}

	objs := []fyne.CanvasObject{r.bg}
	for _, cmd := range render.Dispatch(f) {
		objs = append(objs, objectsFor(cmd)...)
	}
	r.objects = objs
}

// objectsFor maps one draw command onto Fyne canvas primitives.
func objectsFor(c render.Command) []fyne.CanvasObject {
	switch c.Op {
	case render.OpRect:
		rect := canvas.NewRectangle(fillOrClear(c.Fill))
		rect.StrokeColor = parseColor(c.Color, color.RGBA{})
		rect.StrokeWidth = float32(c.Stroke)
		rect.Move(fyne.NewPos(float32(c.X), float32(c.Y)))
		rect.Resize(fyne.NewSize(float32(c.W), float32(c.H)))
		return []fyne.CanvasObject{rect}
	case render.OpEllipse:
		ci := canvas.NewCircle(fillOrClear(c.Fill))
		ci.StrokeColor = parseColor(c.Color, color.RGBA{})
		ci.StrokeWidth = float32(c.Stroke)
		ci.Position1 = fyne.NewPos(float32(c.X), float32(c.Y))
		ci.Position2 = fyne.NewPos(float32(c.X+c.W), float32(c.Y+c.H))
		return []fyne.CanvasObject{ci}
	case render.OpLine:
		ln := canvas.NewLine(parseColor(c.Color, color.RGBA{A: 255}))
		ln.StrokeWidth = float32(c.Stroke)
		ln.Position1 = fyne.NewPos(float32(c.X), float32(c.Y))
		ln.Position2 = fyne.NewPos(float32(c.X2), float32(c.Y2))
		return []fyne.CanvasObject{ln}
	case render.OpPolygon:
		// Fyne v2.6 has no filled polygon primitive; outline the shape with
		// lines on screen, exports carry the fill.
		col := parseColor(c.Fill, color.RGBA{A: 255})
		out := make([]fyne.CanvasObject, 0, len(c.Points))
		for i := range c.Points {
			p := c.Points[i]
			q := c.Points[(i+1)%len(c.Points)]
			ln := canvas.NewLine(col)
			ln.StrokeWidth = 2
			ln.Position1 = fyne.NewPos(float32(p.X), float32(p.Y))
			ln.Position2 = fyne.NewPos(float32(q.X), float32(q.Y))
			out = append(out, ln)
		}
		return out
	case render.OpText:
		t := canvas.NewText(c.Text, parseColor(c.Color, color.RGBA{A: 255}))
		t.TextSize = float32(c.Size)
		// command Y is the baseline, Fyne positions text by its top edge
		t.Move(fyne.NewPos(float32(c.X), float32(c.Y-c.Size)))
		return []fyne.CanvasObject{t}
	}
	return nil
}

func fillOrClear(hex string) color.Color {
	return parseColor(hex, color.RGBA{})
}

// parseColor accepts #rrggbb and #rrggbbaa; anything else yields fallback.
func parseColor(hex string, fallback color.RGBA) color.RGBA {
	var r, g, b, a uint8
	if len(hex) == 0 || hex[0] != '#' {
		return fallback
	}
	switch len(hex) {
	case 7:
		if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
			return fallback
		}
		a = 255
	case 9:
		if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return fallback
		}
	default:
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: a}
}
