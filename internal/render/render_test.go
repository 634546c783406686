/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"math"
	"testing"

	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/viewport"
)

func countOp(cmds []Command, op Op) int {
	n := 0
	for _, c := range cmds {
		if c.Op == op {
			n++
		}
	}
	return n
}

func TestParseBackground(t *testing.T) {
	if ParseBackground(" Dotted ") != BackgroundDotted {
		t.Fatalf("dotted not parsed")
	}
	if ParseBackground("nonsense") != BackgroundGrid {
		t.Fatalf("unknown name should fall back to grid")
	}
	for _, name := range Backgrounds() {
		if ParseBackground(name).String() != name {
			t.Fatalf("round trip failed for %q", name)
		}
	}
}

func TestDispatchOrdering(t *testing.T) {
	sel := viewport.SelectionRect{Start: viewport.Pt{X: 0, Y: 0}, End: viewport.Pt{X: 50, Y: 50}}
	cmds := Dispatch(Frame{
		View:       domain.DefaultView(),
		Background: BackgroundGrid,
		Shapes: []domain.Shape{
			{ID: "a", Kind: domain.KindSquare, X: 10, Y: 10, Width: 30, Height: 30},
		},
		Selected: map[string]struct{}{"a": {}},
		Rubber:   &sel,
		Width:    800, Height: 600,
	})
	if len(cmds) == 0 {
		t.Fatalf("no commands")
	}
	// background lines first, rubber rect last
	if cmds[0].Op != OpLine {
		t.Fatalf("first command should be a background line, got %v", cmds[0].Op)
	}
	last := cmds[len(cmds)-1]
	if last.Op != OpRect || last.Fill != rubberFill {
		t.Fatalf("last command should be the rubber rect, got %+v", last)
	}
}

func TestShapeCommandsTrackView(t *testing.T) {
	v := domain.View{OffsetX: 100, OffsetY: 50, Zoom: 2}
	cmds := Dispatch(Frame{
		View:   v,
		Shapes: []domain.Shape{{ID: "a", Kind: domain.KindSquare, X: 10, Y: 20, Width: 30, Height: 40}},
		Width:  800, Height: 600,
	})
	var rect *Command
	for i := range cmds {
		if cmds[i].Op == OpRect && cmds[i].Fill != "" {
			rect = &cmds[i]
			break
		}
	}
	if rect == nil {
		t.Fatalf("square rect not emitted")
	}
	if rect.X != 120 || rect.Y != 90 || rect.W != 60 || rect.H != 80 {
		t.Fatalf("rect not transformed: %+v", rect)
	}
}

func TestCircleInscribedInBox(t *testing.T) {
	cmds := Dispatch(Frame{
		View:   domain.DefaultView(),
		Shapes: []domain.Shape{{ID: "c", Kind: domain.KindCircle, X: 0, Y: 0, Width: 200, Height: 100}},
		Width:  800, Height: 600,
	})
	var ell *Command
	for i := range cmds {
		if cmds[i].Op == OpEllipse && cmds[i].Fill != "" && cmds[i].Fill != bgColor {
			ell = &cmds[i]
			break
		}
	}
	if ell == nil {
		t.Fatalf("circle not emitted")
	}
	if ell.W != 100 || ell.H != 100 || ell.X != 50 || ell.Y != 0 {
		t.Fatalf("circle not inscribed/centered: %+v", ell)
	}
}

func TestTriangleVerticesOnScreen(t *testing.T) {
	cmds := Dispatch(Frame{
		View:   domain.View{Zoom: 1},
		Shapes: []domain.Shape{{ID: "t", Kind: domain.KindTriangle, X: 0, Y: 0, Width: 100, Height: 100}},
		Width:  800, Height: 600,
	})
	var poly *Command
	for i := range cmds {
		if cmds[i].Op == OpPolygon {
			poly = &cmds[i]
			break
		}
	}
	if poly == nil || len(poly.Points) != 3 {
		t.Fatalf("triangle polygon missing: %+v", poly)
	}
	apex := poly.Points[0]
	if apex.X != 50 || apex.Y != 0 {
		t.Fatalf("apex not top-center: %+v", apex)
	}
}

func TestTextShapeEmitsLines(t *testing.T) {
	cmds := Dispatch(Frame{
		View:   domain.DefaultView(),
		Shapes: []domain.Shape{{ID: "t", Kind: domain.KindText, X: 0, Y: 0, Width: 200, Height: 100, Content: "one\ntwo"}},
		Width:  800, Height: 600,
	})
	if n := countOp(cmds, OpText); n != 2 {
		t.Fatalf("expected 2 text lines, got %d", n)
	}
}

func TestTextLineBreaksStableAcrossZoom(t *testing.T) {
	shape := domain.Shape{ID: "t", Kind: domain.KindText, X: 0, Y: 0, Width: 60, Height: 300, Content: "alpha beta gamma delta"}
	at := func(zoom float64) int {
		return countOp(Dispatch(Frame{
			View:   domain.View{Zoom: zoom},
			Shapes: []domain.Shape{shape},
			Width:  800, Height: 600,
		}), OpText)
	}
	n := at(1)
	if n < 2 {
		t.Fatalf("narrow box should wrap: %d lines", n)
	}
	if got := at(3); got != n {
		t.Fatalf("zoom changed line breaks: %d vs %d", got, n)
	}
	if got := at(0.25); got != n {
		t.Fatalf("zoom out changed line breaks: %d vs %d", got, n)
	}
}

func TestSelectionOutlinePresent(t *testing.T) {
	cmds := Dispatch(Frame{
		View:     domain.DefaultView(),
		Shapes:   []domain.Shape{{ID: "a", Kind: domain.KindSquare, X: 0, Y: 0, Width: 10, Height: 10}},
		Selected: map[string]struct{}{"a": {}},
		Width:    800, Height: 600,
	})
	found := false
	for _, c := range cmds {
		if c.Op == OpRect && c.Color == selectionColor {
			found = true
		}
	}
	if !found {
		t.Fatalf("selection outline missing")
	}
}

func TestBackgroundAlignedToOrigin(t *testing.T) {
	// with the origin at screen (100,100), a grid line must pass through it
	v := domain.View{OffsetX: 100, OffsetY: 100, Zoom: 1}
	cmds := backgroundCommands(v, BackgroundGrid, 800, 600)
	found := false
	for _, c := range cmds {
		if c.Op == OpLine && c.X == c.X2 && c.X == 100 {
			found = true
		}
	}
	if !found {
		t.Fatalf("no vertical grid line through the origin")
	}
}

func TestBackgroundSpacingScalesWithZoom(t *testing.T) {
	v := domain.View{Zoom: 2}
	cmds := backgroundCommands(v, BackgroundRuled, 800, 600)
	// collect horizontal line positions; spacing must be tileSpacing*zoom
	var ys []float64
	for _, c := range cmds {
		if c.Op == OpLine {
			ys = append(ys, c.Y)
		}
	}
	if len(ys) < 2 {
		t.Fatalf("too few ruled lines: %d", len(ys))
	}
	if d := math.Abs(ys[1] - ys[0]); d != tileSpacing*2 {
		t.Fatalf("unexpected line spacing %g", d)
	}
}

func TestAllBackgroundsProduceCommands(t *testing.T) {
	for _, name := range Backgrounds() {
		bg := ParseBackground(name)
		cmds := backgroundCommands(domain.View{OffsetX: 400, OffsetY: 300, Zoom: 1}, bg, 800, 600)
		if len(cmds) == 0 {
			t.Fatalf("background %q produced no commands", name)
		}
		if len(cmds) > maxBGCommands {
			t.Fatalf("background %q exceeded the command cap: %d", name, len(cmds))
		}
	}
}

func TestBackgroundEmptyViewport(t *testing.T) {
	if cmds := backgroundCommands(domain.DefaultView(), BackgroundGrid, 0, 0); cmds != nil {
		t.Fatalf("zero-size viewport should yield nothing")
	}
}
