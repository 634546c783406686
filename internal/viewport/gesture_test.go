/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import "testing"

func TestPointerDownSecondaryIsContext(t *testing.T) {
	g := NewGestures()
	in := g.PointerDown(10, 20, true)
	if in.Kind != IntentContext || in.X != 10 || in.Y != 20 {
		t.Fatalf("unexpected intent: %+v", in)
	}
	if in := g.PointerDown(10, 20, false); in.Kind != IntentPress {
		t.Fatalf("primary press misclassified: %+v", in)
	}
}

func TestExtendModifierCapturedAtPress(t *testing.T) {
	g := NewGestures()
	if in := g.PointerDown(0, 0, false); in.Extend {
		t.Fatalf("extend should be off by default")
	}
	g.KeyDown(KeyExtend)
	if in := g.PointerDown(0, 0, false); !in.Extend {
		t.Fatalf("extend modifier not captured")
	}
	g.KeyUp(KeyExtend)
	if in := g.PointerDown(0, 0, false); in.Extend {
		t.Fatalf("extend modifier not released")
	}
}

func TestWheelPansWithoutModifier(t *testing.T) {
	g := NewGestures()
	in := g.Wheel(100, 100, 0, -3)
	if in.Kind != IntentScroll || in.DX != 0 || in.DY != -3 {
		t.Fatalf("unexpected scroll intent: %+v", in)
	}
	// shift turns vertical wheel into horizontal pan
	g.KeyDown(KeyExtend)
	in = g.Wheel(100, 100, 0, -3)
	if in.Kind != IntentScroll || in.DX != -3 || in.DY != 0 {
		t.Fatalf("axes not swapped: %+v", in)
	}
}

func TestWheelZoomsWithModifier(t *testing.T) {
	g := NewGestures()
	g.KeyDown(KeyZoomMod)
	in := g.Wheel(50, 60, 0, 2)
	if in.Kind != IntentZoom || in.X != 50 || in.Y != 60 {
		t.Fatalf("unexpected zoom intent: %+v", in)
	}
	if in.Factor != 1.1 {
		t.Fatalf("unexpected factor: %g", in.Factor)
	}
	// extreme deltas are clamped to a sane step
	if in := g.Wheel(0, 0, 0, 1000); in.Factor != 2 {
		t.Fatalf("factor not clamped high: %g", in.Factor)
	}
	if in := g.Wheel(0, 0, 0, -1000); in.Factor != 0.5 {
		t.Fatalf("factor not clamped low: %g", in.Factor)
	}
}

func TestPinch(t *testing.T) {
	g := NewGestures()
	in := g.Pinch(320, 240, 1.3)
	if in.Kind != IntentZoom || in.Factor != 1.3 || in.X != 320 {
		t.Fatalf("unexpected pinch intent: %+v", in)
	}
	if in := g.Pinch(0, 0, 0); in.Kind != IntentNone {
		t.Fatalf("non-positive scale should be dropped: %+v", in)
	}
}

func TestHoldSelectKeyRoundTrip(t *testing.T) {
	g := NewGestures()
	in, ok := g.KeyDown(KeyHoldSelect)
	if !ok || in.Kind != IntentHoldSelect {
		t.Fatalf("hold key down: %+v ok=%v", in, ok)
	}
	in, ok = g.KeyUp(KeyHoldSelect)
	if !ok || in.Kind != IntentHoldRelease {
		t.Fatalf("hold key up: %+v ok=%v", in, ok)
	}
	if _, ok := g.KeyDown("a"); ok {
		t.Fatalf("unrelated keys must carry no intent")
	}
}

func TestHoldSelectAutoRepeatEmitsOnce(t *testing.T) {
	g := NewGestures()
	if _, ok := g.KeyDown(KeyHoldSelect); !ok {
		t.Fatalf("first press must emit")
	}
	// auto-repeat delivers the key again while it is still held
	if in, ok := g.KeyDown(KeyHoldSelect); ok {
		t.Fatalf("repeat press must be silent: %+v", in)
	}
	if _, ok := g.KeyUp(KeyHoldSelect); !ok {
		t.Fatalf("release must emit")
	}
	if _, ok := g.KeyDown(KeyHoldSelect); !ok {
		t.Fatalf("press after release must emit again")
	}
	// focus loss clears the held state too
	g.FocusLost()
	if _, ok := g.KeyDown(KeyHoldSelect); !ok {
		t.Fatalf("press after focus loss must emit")
	}
}

func TestFocusLostResetsModifiers(t *testing.T) {
	g := NewGestures()
	g.KeyDown(KeyExtend)
	g.KeyDown(KeyZoomMod)
	if in := g.FocusLost(); in.Kind != IntentCancel {
		t.Fatalf("focus loss should cancel: %+v", in)
	}
	if in := g.Wheel(0, 0, 0, 1); in.Kind != IntentScroll {
		t.Fatalf("zoom modifier survived focus loss: %+v", in)
	}
	if in := g.PointerDown(0, 0, false); in.Extend {
		t.Fatalf("extend modifier survived focus loss")
	}
}
