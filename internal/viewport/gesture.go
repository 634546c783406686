/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

// Gesture normalization. Raw device events (mouse, wheel, pinch, keys) become
// transform-agnostic Intents consumed by the interaction machine. The
// normalizer tracks modifier keys so the machine never sees device specifics.

// IntentKind tags a normalized input intent.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentPress
	IntentMove
	IntentRelease
	IntentZoom
	IntentScroll
	IntentContext
	IntentHoldSelect
	IntentHoldRelease
	IntentCancel
)

// Intent is a single normalized input event. X/Y are screen coordinates.
// Factor is the multiplicative zoom step for IntentZoom; DX/DY the screen
// delta for IntentScroll. Extend records the extend-selection modifier at
// press time.
type Intent struct {
	Kind   IntentKind
	X, Y   float64
	DX, DY float64
	Factor float64
	Extend bool
}

// Key names accepted by the normalizer. Hosts map their toolkit's key events
// onto these.
const (
	KeyHoldSelect = "space"
	KeyExtend     = "shift"
	KeyZoomMod    = "control"
)

// wheelZoomRate converts one unit of wheel delta into a zoom step.
// Positive delta zooms in.
const wheelZoomRate = 0.05

// Gestures converts raw pointer/wheel/key events into Intents. It is a thin
// stateful shim: the only state it keeps is which modifiers are held.
type Gestures struct {
	extend  bool
	zoomMod bool
	hold    bool
}

func NewGestures() *Gestures { return &Gestures{} }

// PointerDown normalizes a button press. Secondary buttons become context
// requests instead of gesture starts.
func (g *Gestures) PointerDown(x, y float64, secondary bool) Intent {
	if secondary {
		return Intent{Kind: IntentContext, X: x, Y: y}
	}
	return Intent{Kind: IntentPress, X: x, Y: y, Extend: g.extend}
}

func (g *Gestures) PointerMove(x, y float64) Intent {
	return Intent{Kind: IntentMove, X: x, Y: y}
}

func (g *Gestures) PointerUp(x, y float64) Intent {
	return Intent{Kind: IntentRelease, X: x, Y: y}
}

// Wheel normalizes scroll input. With the zoom modifier held the wheel zooms
// about the pointer; otherwise it pans (shift swaps axes for horizontal pan).
func (g *Gestures) Wheel(x, y, dx, dy float64) Intent {
	if g.zoomMod {
		factor := 1 + dy*wheelZoomRate
		if factor < 0.5 {
			factor = 0.5
		}
		if factor > 2 {
			factor = 2
		}
		return Intent{Kind: IntentZoom, X: x, Y: y, Factor: factor}
	}
	if g.extend {
		dx, dy = dy, dx
	}
	return Intent{Kind: IntentScroll, X: x, Y: y, DX: dx, DY: dy}
}

// Pinch normalizes a touch pinch: scale is the gesture's relative scale
// change, centroid in screen coordinates.
func (g *Gestures) Pinch(cx, cy, scale float64) Intent {
	if scale <= 0 {
		return Intent{Kind: IntentNone}
	}
	return Intent{Kind: IntentZoom, X: cx, Y: cy, Factor: scale}
}

// KeyDown tracks modifiers and emits a hold-select intent for the designated
// key. ok is false when the event carries no intent for the machine. Key
// auto-repeat delivers the hold key repeatedly while pressed; only the first
// press emits an intent.
func (g *Gestures) KeyDown(name string) (Intent, bool) {
	switch name {
	case KeyExtend:
		g.extend = true
	case KeyZoomMod:
		g.zoomMod = true
	case KeyHoldSelect:
		if g.hold {
			return Intent{}, false
		}
		g.hold = true
		return Intent{Kind: IntentHoldSelect}, true
	}
	return Intent{}, false
}

func (g *Gestures) KeyUp(name string) (Intent, bool) {
	switch name {
	case KeyExtend:
		g.extend = false
	case KeyZoomMod:
		g.zoomMod = false
	case KeyHoldSelect:
		g.hold = false
		return Intent{Kind: IntentHoldRelease}, true
	}
	return Intent{}, false
}

// FocusLost resets modifier tracking and cancels any gesture in progress.
func (g *Gestures) FocusLost() Intent {
	g.extend = false
	g.zoomMod = false
	g.hold = false
	return Intent{Kind: IntentCancel}
}
