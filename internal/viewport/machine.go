/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

// The interaction machine. All pointer state lives in one explicit state
// value that is read, transitioned, and written per event — no flags spread
// across handlers. The drag baseline is an owned value captured at drag start
// so every multi-drag update is baseline + total delta, which keeps long
// drags drift-free regardless of how many move events the host coalesces.

import (
	"log/slog"
	"time"

	"gowhiteboard/internal/domain"
)

// Mode is the persistent interaction mode toggle.
type Mode int

const (
	ModePan Mode = iota
	ModeSelect
)

func (m Mode) String() string {
	if m == ModeSelect {
		return "select"
	}
	return "pan"
}

// state is the active gesture. Exactly one is current at any time.
type state int

const (
	stateIdle state = iota
	statePanning
	stateDragSingle
	stateDragMulti
	stateRubberBand
)

func (s state) String() string {
	switch s {
	case statePanning:
		return "panning"
	case stateDragSingle:
		return "drag-single"
	case stateDragMulti:
		return "drag-multi"
	case stateRubberBand:
		return "rubber-band"
	}
	return "idle"
}

// Fit-to-content parameters: logical padding around the content box and the
// tightest zoom fit will apply.
const (
	fitPadding = 64.0
	fitMaxZoom = 1.0
)

// Callbacks are the machine's outputs. All are optional. OnShapeMoved fires
// per shape per move event (absolute position, not debounced, so rendering
// stays live). OnShapesMoved fires once at the end of a multi-drag with the
// total delta, for batch persistence. OnViewChanged is debounced.
type Callbacks struct {
	OnShapeMoved     func(id string, x, y float64)
	OnShapesMoved    func(ids []string, dx, dy float64)
	OnViewChanged    func(v domain.View)
	OnContextRequest func(logicalX, logicalY, screenX, screenY float64)
	OnTextEdited     func(id, content string)
}

// Machine owns the view state and the selection set and drives them from
// normalized intents. Hosts supply the shape list before each event cycle
// and read snapshots back; they never mutate machine state directly.
type Machine struct {
	log *slog.Logger
	cb  Callbacks

	view       domain.View
	viewportW  float64
	viewportH  float64
	mode       Mode
	holdSelect bool

	shapes    []domain.Shape
	selection map[string]struct{}

	st           state
	pressLogical Pt
	lastScreen   Pt
	dragID       string
	dragOffset   Pt
	baseline     map[string]Pt
	baselineIDs  []string
	rubber       SelectionRect
	rubberBase   map[string]struct{}

	notifier *viewNotifier
}

// NewMachine builds a machine with the given initial view (normalized; a
// malformed view falls back to the default) and callbacks. logger may be nil.
func NewMachine(initial domain.View, cb Callbacks, logger *slog.Logger) *Machine {
	return NewMachineDebounce(initial, cb, logger, DefaultNotifyDelay)
}

// NewMachineDebounce is NewMachine with an explicit view-change debounce
// delay, used by tests to shorten the quiet period.
func NewMachineDebounce(initial domain.View, cb Callbacks, logger *slog.Logger, delay time.Duration) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Machine{
		log:       logger,
		cb:        cb,
		view:      Normalize(initial),
		selection: make(map[string]struct{}),
	}
	m.notifier = newViewNotifier(delay, cb.OnViewChanged)
	return m
}

// SetShapes supplies the current ordered shape list. The machine keeps its
// own copy so in-gesture position updates stay visible to hit tests within
// the same cycle.
func (m *Machine) SetShapes(shapes []domain.Shape) {
	m.shapes = append(m.shapes[:0], shapes...)
}

// Shapes returns the machine's current snapshot of the shape list.
func (m *Machine) Shapes() []domain.Shape {
	out := make([]domain.Shape, len(m.shapes))
	copy(out, m.shapes)
	return out
}

// SetViewportSize records the on-screen viewport extent, used by fit and
// centering operations.
func (m *Machine) SetViewportSize(w, h float64) {
	m.viewportW = w
	m.viewportH = h
}

// SetMode switches the persistent mode toggle. A gesture already in progress
// is unaffected; mode is read at press time only.
func (m *Machine) SetMode(mode Mode) { m.mode = mode }

func (m *Machine) Mode() Mode { return m.mode }

// effectiveMode folds in the temporary hold-to-select modifier.
func (m *Machine) effectiveMode() Mode {
	if m.holdSelect {
		return ModeSelect
	}
	return m.mode
}

// View returns the current view state snapshot.
func (m *Machine) View() domain.View { return m.view }

// SetView replaces the view state (clamped/normalized) and notifies.
func (m *Machine) SetView(v domain.View) {
	m.view = Normalize(v)
	m.notifier.Notify(m.view)
}

// Selection returns the selected ids in shape-list order.
func (m *Machine) Selection() []string {
	out := make([]string, 0, len(m.selection))
	for _, s := range m.shapes {
		if _, ok := m.selection[s.ID]; ok {
			out = append(out, s.ID)
		}
	}
	return out
}

// Selected reports whether the shape id is in the selection set.
func (m *Machine) Selected(id string) bool {
	_, ok := m.selection[id]
	return ok
}

// RubberRect returns the live rubber-band rectangle while one is active.
func (m *Machine) RubberRect() (SelectionRect, bool) {
	return m.rubber, m.st == stateRubberBand
}

// Apply dispatches one normalized intent. Events are processed strictly in
// arrival order; the caller must not reorder moves across press/release.
func (m *Machine) Apply(in Intent) {
	switch in.Kind {
	case IntentPress:
		m.press(in.X, in.Y, in.Extend)
	case IntentMove:
		m.move(in.X, in.Y)
	case IntentRelease:
		m.release()
	case IntentZoom:
		m.zoomAt(in.X, in.Y, in.Factor)
	case IntentScroll:
		m.view = PanBy(m.view, in.DX, in.DY)
		m.notifier.Notify(m.view)
	case IntentContext:
		if m.cb.OnContextRequest != nil {
			lx, ly := ToLogical(m.view, in.X, in.Y)
			m.cb.OnContextRequest(lx, ly, in.X, in.Y)
		}
	case IntentHoldSelect:
		m.holdSelect = true
	case IntentHoldRelease:
		m.holdSelect = false
	case IntentCancel:
		m.cancel()
	}
}

// press evaluates the transition table in spec order.
func (m *Machine) press(x, y float64, extend bool) {
	lx, ly := ToLogical(m.view, x, y)
	m.pressLogical = Pt{lx, ly}
	m.lastScreen = Pt{x, y}

	idx := HitTest(m.shapes, lx, ly)
	switch {
	case idx >= 0 && m.Selected(m.shapes[idx].ID) && len(m.selection) > 1:
		m.beginDragMulti()
	case idx >= 0 && m.Selected(m.shapes[idx].ID):
		m.beginDragSingle(m.shapes[idx], lx, ly)
	case idx >= 0 && m.effectiveMode() == ModePan:
		m.selection = map[string]struct{}{m.shapes[idx].ID: {}}
		m.beginDragSingle(m.shapes[idx], lx, ly)
	case m.effectiveMode() == ModeSelect:
		m.beginRubberBand(lx, ly, extend)
	default:
		m.selection = make(map[string]struct{})
		m.st = statePanning
	}
	m.log.Debug("press", slog.String("state", m.st.String()))
}

func (m *Machine) beginDragSingle(s domain.Shape, lx, ly float64) {
	m.st = stateDragSingle
	m.dragID = s.ID
	m.dragOffset = Pt{lx - s.X, ly - s.Y}
}

// beginDragMulti snapshots the baseline position of every selected shape
// still present in the list. Ids that vanished since selection are skipped.
func (m *Machine) beginDragMulti() {
	m.st = stateDragMulti
	m.baseline = make(map[string]Pt, len(m.selection))
	m.baselineIDs = m.baselineIDs[:0]
	for _, s := range m.shapes {
		if _, ok := m.selection[s.ID]; ok {
			m.baseline[s.ID] = Pt{s.X, s.Y}
			m.baselineIDs = append(m.baselineIDs, s.ID)
		}
	}
}

func (m *Machine) beginRubberBand(lx, ly float64, extend bool) {
	m.st = stateRubberBand
	m.rubber = SelectionRect{Start: Pt{lx, ly}, End: Pt{lx, ly}}
	if extend {
		m.rubberBase = make(map[string]struct{}, len(m.selection))
		for id := range m.selection {
			m.rubberBase[id] = struct{}{}
		}
	} else {
		m.rubberBase = nil
		m.selection = make(map[string]struct{})
	}
}

func (m *Machine) move(x, y float64) {
	switch m.st {
	case statePanning:
		// Incremental is safe here: pan has no drift source beyond float
		// accumulation, which is negligible at screen scale.
		m.view = PanBy(m.view, x-m.lastScreen.X, y-m.lastScreen.Y)
		m.notifier.Notify(m.view)
	case stateDragSingle:
		lx, ly := ToLogical(m.view, x, y)
		nx := lx - m.dragOffset.X
		ny := ly - m.dragOffset.Y
		m.moveShape(m.dragID, nx, ny)
	case stateDragMulti:
		lx, ly := ToLogical(m.view, x, y)
		dx := lx - m.pressLogical.X
		dy := ly - m.pressLogical.Y
		for _, id := range m.baselineIDs {
			base := m.baseline[id]
			m.moveShape(id, base.X+dx, base.Y+dy)
		}
	case stateRubberBand:
		lx, ly := ToLogical(m.view, x, y)
		m.rubber.End = Pt{lx, ly}
		m.recomputeRubberSelection()
	}
	m.lastScreen = Pt{x, y}
}

// moveShape emits the absolute position and mirrors it into the local
// snapshot. An id no longer present is skipped silently for this frame.
func (m *Machine) moveShape(id string, x, y float64) {
	for i := range m.shapes {
		if m.shapes[i].ID == id {
			m.shapes[i].X = x
			m.shapes[i].Y = y
			if m.cb.OnShapeMoved != nil {
				m.cb.OnShapeMoved(id, x, y)
			}
			return
		}
	}
}

// recomputeRubberSelection rebuilds the selection live from the normalized
// rectangle (plus the pre-gesture set when extending).
func (m *Machine) recomputeRubberSelection() {
	sel := make(map[string]struct{})
	for id := range m.rubberBase {
		sel[id] = struct{}{}
	}
	for _, id := range ShapesInRect(m.shapes, m.rubber.Normalized()) {
		sel[id] = struct{}{}
	}
	m.selection = sel
}

// release commits the gesture and returns to idle. Only the selection set
// and the view survive; baseline and rubber rectangle are always discarded,
// wherever the pointer ended up.
func (m *Machine) release() {
	if m.st == stateDragMulti && m.cb.OnShapesMoved != nil && len(m.baselineIDs) > 0 {
		lx, ly := ToLogical(m.view, m.lastScreen.X, m.lastScreen.Y)
		ids := append([]string(nil), m.baselineIDs...)
		m.cb.OnShapesMoved(ids, lx-m.pressLogical.X, ly-m.pressLogical.Y)
	}
	if m.st != stateIdle {
		m.log.Debug("release", slog.String("state", m.st.String()), slog.Int("selected", len(m.selection)))
	}
	m.clearGesture()
}

// cancel drops an in-flight gesture (focus loss) without committing moves.
func (m *Machine) cancel() {
	m.holdSelect = false
	m.clearGesture()
}

func (m *Machine) clearGesture() {
	m.st = stateIdle
	m.dragID = ""
	m.baseline = nil
	m.baselineIDs = m.baselineIDs[:0]
	m.rubber = SelectionRect{}
	m.rubberBase = nil
}

// zoomAt is state-independent: wheel/pinch zoom may arrive mid-gesture and
// always pivots on the pointer position.
func (m *Machine) zoomAt(x, y, factor float64) {
	if factor <= 0 {
		return
	}
	m.view = ZoomAt(m.view, x, y, factor)
	m.notifier.Notify(m.view)
}

// EditText replaces a text shape's content and reports it. Unknown ids are
// ignored.
func (m *Machine) EditText(id, content string) {
	for i := range m.shapes {
		if m.shapes[i].ID == id {
			m.shapes[i].Content = content
			if m.cb.OnTextEdited != nil {
				m.cb.OnTextEdited(id, content)
			}
			return
		}
	}
}

// FitToContent reframes the view on the union of all shape bounds, or on the
// origin when the board is empty. Idempotent for an unchanged shape list.
func (m *Machine) FitToContent() {
	b, ok := ContentBounds(m.shapes)
	if !ok {
		m.view = CenterOrigin(m.viewportW, m.viewportH)
	} else {
		m.view = FitToBounds(b, m.viewportW, m.viewportH, fitPadding, fitMaxZoom)
	}
	m.notifier.Notify(m.view)
}

// CenterOnOrigin recenters logical (0,0) at the viewport center at zoom 1.
func (m *Machine) CenterOnOrigin() {
	m.view = CenterOrigin(m.viewportW, m.viewportH)
	m.notifier.Notify(m.view)
}

// ViewportCenterLogical returns the logical point at the viewport center,
// e.g. as a spawn position for new shapes.
func (m *Machine) ViewportCenterLogical() Pt {
	lx, ly := ToLogical(m.view, m.viewportW/2, m.viewportH/2)
	return Pt{lx, ly}
}

// FlushViewChange delivers any pending debounced view notification now.
func (m *Machine) FlushViewChange() { m.notifier.Flush() }
