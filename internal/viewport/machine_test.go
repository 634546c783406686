/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"testing"
	"time"

	"gowhiteboard/internal/domain"
)

// newTestMachine builds a machine at the identity view (logical == screen)
// so test coordinates read directly.
func newTestMachine(cb Callbacks, shapes ...domain.Shape) *Machine {
	m := NewMachine(domain.DefaultView(), cb, nil)
	m.SetViewportSize(800, 600)
	m.SetShapes(shapes)
	return m
}

func press(m *Machine, x, y float64) { m.Apply(Intent{Kind: IntentPress, X: x, Y: y}) }
func moveTo(m *Machine, x, y float64) {
	m.Apply(Intent{Kind: IntentMove, X: x, Y: y})
}
func release(m *Machine) { m.Apply(Intent{Kind: IntentRelease}) }

func shapeByID(t *testing.T, m *Machine, id string) domain.Shape {
	t.Helper()
	for _, s := range m.Shapes() {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("shape %q not found", id)
	return domain.Shape{}
}

func TestPressOnEmptyPansAndClearsSelection(t *testing.T) {
	m := newTestMachine(Callbacks{}, sq("a", 0, 0, 50, 50))
	// seed a selection via rubber band
	m.SetMode(ModeSelect)
	press(m, 0, 0)
	moveTo(m, 60, 60)
	release(m)
	if len(m.Selection()) != 1 {
		t.Fatalf("setup selection failed: %v", m.Selection())
	}
	m.SetMode(ModePan)

	press(m, 400, 400)
	if len(m.Selection()) != 0 {
		t.Fatalf("empty-area press should clear selection")
	}
	moveTo(m, 410, 395)
	release(m)
	v := m.View()
	if v.OffsetX != 10 || v.OffsetY != -5 {
		t.Fatalf("pan did not track pointer delta: %+v", v)
	}
}

func TestPanIsIncrementalAcrossMoves(t *testing.T) {
	m := newTestMachine(Callbacks{})
	press(m, 100, 100)
	moveTo(m, 110, 100)
	moveTo(m, 120, 105)
	moveTo(m, 115, 120)
	release(m)
	v := m.View()
	if v.OffsetX != 15 || v.OffsetY != 20 {
		t.Fatalf("unexpected cumulative pan: %+v", v)
	}
}

func TestDragSingleAnchorsGrabPoint(t *testing.T) {
	moved := map[string][2]float64{}
	cb := Callbacks{OnShapeMoved: func(id string, x, y float64) {
		moved[id] = [2]float64{x, y}
	}}
	m := newTestMachine(cb, sq("a", 100, 100, 50, 50))
	// grab near the shape's lower-right corner
	press(m, 140, 140)
	if !m.Selected("a") || len(m.Selection()) != 1 {
		t.Fatalf("press on unselected shape should select it exclusively")
	}
	moveTo(m, 150, 145)
	release(m)
	// origin follows by the pointer delta, not the pointer position
	got := shapeByID(t, m, "a")
	if got.X != 110 || got.Y != 105 {
		t.Fatalf("shape jumped under the pointer: %+v", got)
	}
	if p := moved["a"]; p != [2]float64{110, 105} {
		t.Fatalf("OnShapeMoved reported %v", p)
	}
}

func TestDragSingleScalesWithZoom(t *testing.T) {
	m := newTestMachine(Callbacks{}, sq("a", 0, 0, 100, 100))
	m.SetView(domain.View{Zoom: 2})
	// (100,100) on screen is logical (50,50), inside the shape
	press(m, 100, 100)
	moveTo(m, 120, 100)
	release(m)
	got := shapeByID(t, m, "a")
	// 20 screen px at zoom 2 is 10 logical units
	if got.X != 10 || got.Y != 0 {
		t.Fatalf("drag not converted to logical units: %+v", got)
	}
}

func TestDragMultiIsDriftFree(t *testing.T) {
	var batchIDs []string
	var batchDX, batchDY float64
	batches := 0
	cb := Callbacks{OnShapesMoved: func(ids []string, dx, dy float64) {
		batchIDs = append([]string(nil), ids...)
		batchDX, batchDY = dx, dy
		batches++
	}}
	m := newTestMachine(cb,
		sq("a", 0, 0, 40, 40),
		sq("b", 100, 0, 40, 40),
	)
	m.SetMode(ModeSelect)
	press(m, -10, -10)
	moveTo(m, 150, 50)
	release(m)
	if len(m.Selection()) != 2 {
		t.Fatalf("setup selection failed: %v", m.Selection())
	}

	// drag from inside "a"; a long noisy move sequence must land exactly at
	// baseline + final delta
	press(m, 20, 20)
	for i := 0; i < 50; i++ {
		moveTo(m, 20+float64(i*7%13), 20-float64(i*5%11))
	}
	moveTo(m, 53, 27) // final delta (33, 7)
	release(m)

	a := shapeByID(t, m, "a")
	b := shapeByID(t, m, "b")
	if a.X != 33 || a.Y != 7 || b.X != 133 || b.Y != 7 {
		t.Fatalf("multi-drag drifted: a=%+v b=%+v", a, b)
	}
	if batches != 1 || batchDX != 33 || batchDY != 7 {
		t.Fatalf("expected one batch with total delta, got %d batches (%g,%g)", batches, batchDX, batchDY)
	}
	if len(batchIDs) != 2 || batchIDs[0] != "a" || batchIDs[1] != "b" {
		t.Fatalf("unexpected batch ids: %v", batchIDs)
	}
}

func TestDragMultiSkipsVanishedShape(t *testing.T) {
	m := newTestMachine(Callbacks{},
		sq("a", 0, 0, 40, 40),
		sq("b", 100, 0, 40, 40),
	)
	m.SetMode(ModeSelect)
	press(m, -10, -10)
	moveTo(m, 150, 50)
	release(m)

	press(m, 20, 20)
	moveTo(m, 30, 20)
	// "b" deleted mid-gesture
	m.SetShapes([]domain.Shape{sq("a", 10, 0, 40, 40)})
	moveTo(m, 40, 20)
	release(m)
	a := shapeByID(t, m, "a")
	if a.X != 20 || a.Y != 0 {
		t.Fatalf("surviving shape mispositioned: %+v", a)
	}
}

func TestRubberBandRecomputesLive(t *testing.T) {
	m := newTestMachine(Callbacks{},
		sq("a", 10, 10, 30, 30),
		sq("b", 100, 100, 30, 30),
	)
	m.SetMode(ModeSelect)
	press(m, 0, 0)
	moveTo(m, 50, 50)
	if sel := m.Selection(); len(sel) != 1 || sel[0] != "a" {
		t.Fatalf("expected only a selected, got %v", sel)
	}
	if _, active := m.RubberRect(); !active {
		t.Fatalf("rubber rect should be active mid-gesture")
	}
	moveTo(m, 140, 140)
	if sel := m.Selection(); len(sel) != 2 {
		t.Fatalf("expected both selected, got %v", sel)
	}
	// shrinking back drops b again
	moveTo(m, 50, 50)
	if sel := m.Selection(); len(sel) != 1 || sel[0] != "a" {
		t.Fatalf("selection should shrink with the rectangle, got %v", sel)
	}
	release(m)
	if _, active := m.RubberRect(); active {
		t.Fatalf("rubber rect must clear on release")
	}
	if sel := m.Selection(); len(sel) != 1 || sel[0] != "a" {
		t.Fatalf("selection should survive release, got %v", sel)
	}
}

func TestRubberBandExtendKeepsBaseSet(t *testing.T) {
	m := newTestMachine(Callbacks{},
		sq("a", 10, 10, 30, 30),
		sq("b", 200, 200, 30, 30),
	)
	m.SetMode(ModeSelect)
	press(m, 0, 0)
	moveTo(m, 50, 50)
	release(m)

	m.Apply(Intent{Kind: IntentPress, X: 190, Y: 190, Extend: true})
	moveTo(m, 240, 240)
	release(m)
	sel := m.Selection()
	if len(sel) != 2 || sel[0] != "a" || sel[1] != "b" {
		t.Fatalf("extend should union with prior selection, got %v", sel)
	}
}

func TestHoldSelectOverridesPanMode(t *testing.T) {
	m := newTestMachine(Callbacks{}, sq("a", 10, 10, 30, 30))
	m.Apply(Intent{Kind: IntentHoldSelect})
	press(m, 0, 0)
	if _, active := m.RubberRect(); !active {
		t.Fatalf("hold-select press should start a rubber band")
	}
	moveTo(m, 50, 50)
	release(m)
	m.Apply(Intent{Kind: IntentHoldRelease})
	if sel := m.Selection(); len(sel) != 1 || sel[0] != "a" {
		t.Fatalf("unexpected selection: %v", sel)
	}
	// modifier released: empty-area press pans again
	press(m, 300, 300)
	if _, active := m.RubberRect(); active {
		t.Fatalf("rubber band should not start in pan mode")
	}
	release(m)
}

func TestModeChangeDoesNotAffectActiveGesture(t *testing.T) {
	m := newTestMachine(Callbacks{})
	press(m, 100, 100)
	m.SetMode(ModeSelect)
	moveTo(m, 120, 100)
	release(m)
	if v := m.View(); v.OffsetX != 20 {
		t.Fatalf("in-flight pan should continue after mode switch: %+v", v)
	}
}

func TestZoomIntentMidGesture(t *testing.T) {
	m := newTestMachine(Callbacks{})
	press(m, 100, 100)
	m.Apply(Intent{Kind: IntentZoom, X: 400, Y: 300, Factor: 2})
	if m.View().Zoom != 2 {
		t.Fatalf("zoom should apply mid-gesture, got %g", m.View().Zoom)
	}
	m.Apply(Intent{Kind: IntentZoom, X: 400, Y: 300, Factor: 0})
	if m.View().Zoom != 2 {
		t.Fatalf("non-positive factor must be ignored")
	}
	release(m)
}

func TestScrollIntentPansView(t *testing.T) {
	m := newTestMachine(Callbacks{})
	m.Apply(Intent{Kind: IntentScroll, DX: -30, DY: 12})
	v := m.View()
	if v.OffsetX != -30 || v.OffsetY != 12 {
		t.Fatalf("unexpected scroll pan: %+v", v)
	}
}

func TestContextRequestReportsBothCoordinateSpaces(t *testing.T) {
	var lx, ly, sx, sy float64
	m := newTestMachine(Callbacks{OnContextRequest: func(a, b, c, d float64) {
		lx, ly, sx, sy = a, b, c, d
	}})
	m.SetView(domain.View{OffsetX: 100, OffsetY: 0, Zoom: 2})
	m.Apply(Intent{Kind: IntentContext, X: 300, Y: 40})
	if lx != 100 || ly != 20 || sx != 300 || sy != 40 {
		t.Fatalf("unexpected context coords: logical (%g,%g) screen (%g,%g)", lx, ly, sx, sy)
	}
}

func TestCancelDropsGestureWithoutBatch(t *testing.T) {
	batches := 0
	m := newTestMachine(Callbacks{OnShapesMoved: func([]string, float64, float64) { batches++ }},
		sq("a", 0, 0, 40, 40),
		sq("b", 100, 0, 40, 40),
	)
	m.SetMode(ModeSelect)
	press(m, -10, -10)
	moveTo(m, 150, 50)
	release(m)

	press(m, 20, 20)
	moveTo(m, 50, 20)
	m.Apply(Intent{Kind: IntentCancel})
	if batches != 0 {
		t.Fatalf("cancel must not emit a move batch")
	}
	// next press starts clean
	press(m, 400, 400)
	if _, active := m.RubberRect(); active {
		t.Fatalf("stale gesture state after cancel")
	}
	release(m)
}

func TestEditText(t *testing.T) {
	var gotID, gotContent string
	m := newTestMachine(Callbacks{OnTextEdited: func(id, c string) { gotID, gotContent = id, c }},
		domain.Shape{ID: "t1", Kind: domain.KindText, X: 0, Y: 0, Width: 120, Height: 30, Content: "old"},
	)
	m.EditText("t1", "hello")
	if gotID != "t1" || gotContent != "hello" {
		t.Fatalf("edit not reported: %q %q", gotID, gotContent)
	}
	if s := shapeByID(t, m, "t1"); s.Content != "hello" {
		t.Fatalf("snapshot not updated: %+v", s)
	}
	m.EditText("nope", "x") // unknown id ignored
	if gotID != "t1" {
		t.Fatalf("unknown id must not fire the callback")
	}
}

func TestFitToContentEmptyCentersOrigin(t *testing.T) {
	m := newTestMachine(Callbacks{})
	m.SetView(domain.View{OffsetX: 5000, OffsetY: -3000, Zoom: 4})
	m.FitToContent()
	v := m.View()
	if v.OffsetX != 400 || v.OffsetY != 300 || v.Zoom != 1 {
		t.Fatalf("empty fit should center the origin at zoom 1: %+v", v)
	}
}

func TestFitToContentIdempotent(t *testing.T) {
	m := newTestMachine(Callbacks{},
		sq("a", -500, -200, 100, 100),
		circ("b", 900, 700, 100, 100),
	)
	m.FitToContent()
	first := m.View()
	m.FitToContent()
	if m.View() != first {
		t.Fatalf("second fit changed the view: %+v vs %+v", m.View(), first)
	}
	if first.Zoom > 1 {
		t.Fatalf("fit zoom should not exceed 1, got %g", first.Zoom)
	}
}

func TestViewportCenterLogical(t *testing.T) {
	m := newTestMachine(Callbacks{})
	m.SetView(domain.View{OffsetX: 400, OffsetY: 300, Zoom: 2})
	p := m.ViewportCenterLogical()
	if p.X != 0 || p.Y != 0 {
		t.Fatalf("expected origin at center, got %+v", p)
	}
}

func TestViewChangeDebounced(t *testing.T) {
	ch := make(chan domain.View, 8)
	m := NewMachineDebounce(domain.DefaultView(), Callbacks{
		OnViewChanged: func(v domain.View) { ch <- v },
	}, nil, 20*time.Millisecond)
	m.SetViewportSize(800, 600)

	press(m, 100, 100)
	for i := 1; i <= 10; i++ {
		moveTo(m, 100+float64(i*3), 100)
	}
	release(m)

	select {
	case v := <-ch:
		if v.OffsetX != 30 {
			t.Fatalf("debounced notification should carry the latest view: %+v", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("no notification arrived")
	}
	select {
	case v := <-ch:
		t.Fatalf("burst produced more than one notification: %+v", v)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestFlushDeliversPendingViewChange(t *testing.T) {
	ch := make(chan domain.View, 1)
	m := NewMachineDebounce(domain.DefaultView(), Callbacks{
		OnViewChanged: func(v domain.View) { ch <- v },
	}, nil, time.Hour)
	m.Apply(Intent{Kind: IntentScroll, DX: 7, DY: 0})
	m.FlushViewChange()
	select {
	case v := <-ch:
		if v.OffsetX != 7 {
			t.Fatalf("flushed wrong view: %+v", v)
		}
	default:
		t.Fatalf("flush did not deliver the pending view")
	}
	// nothing left pending
	m.FlushViewChange()
	select {
	case v := <-ch:
		t.Fatalf("second flush re-delivered: %+v", v)
	default:
	}
}
