/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math"
	"testing"

	"gowhiteboard/internal/domain"
)

func almostEq(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestScreenLogicalRoundTrip(t *testing.T) {
	views := []domain.View{
		{Zoom: 1},
		{OffsetX: 120, OffsetY: -45, Zoom: 0.25},
		{OffsetX: -9999.5, OffsetY: 12345.25, Zoom: 5},
		{OffsetX: 3.3, OffsetY: 7.7, Zoom: 0.1},
	}
	points := [][2]float64{{0, 0}, {640, 360}, {-50, 1200}, {0.5, 0.25}}
	for _, v := range views {
		for _, p := range points {
			lx, ly := ToLogical(v, p[0], p[1])
			sx, sy := ToScreen(v, lx, ly)
			if !almostEq(sx, p[0]) || !almostEq(sy, p[1]) {
				t.Fatalf("round trip failed for %+v at (%g,%g): got (%g,%g)", v, p[0], p[1], sx, sy)
			}
		}
	}
}

func TestZoomAtKeepsPivotStationary(t *testing.T) {
	v := domain.View{OffsetX: 100, OffsetY: 50, Zoom: 1.5}
	px, py := 400.0, 300.0
	beforeX, beforeY := ToLogical(v, px, py)
	for _, f := range []float64{1.25, 0.8, 2.0, 0.5} {
		v2 := ZoomAt(v, px, py, f)
		afterX, afterY := ToLogical(v2, px, py)
		if !almostEq(beforeX, afterX) || !almostEq(beforeY, afterY) {
			t.Fatalf("pivot moved under zoom %g: (%g,%g) -> (%g,%g)", f, beforeX, beforeY, afterX, afterY)
		}
	}
}

func TestZoomAtRepeatedEventsDoNotDrift(t *testing.T) {
	v := domain.View{OffsetX: 10, OffsetY: 10, Zoom: 1}
	px, py := 200.0, 200.0
	wantX, wantY := ToLogical(v, px, py)
	// Many alternating zoom steps that cancel each other out.
	for i := 0; i < 200; i++ {
		v = ZoomAt(v, px, py, 1.1)
		v = ZoomAt(v, px, py, 1/1.1)
	}
	gotX, gotY := ToLogical(v, px, py)
	if math.Abs(gotX-wantX) > 1e-6 || math.Abs(gotY-wantY) > 1e-6 {
		t.Fatalf("pivot drifted after zoom burst: want (%g,%g) got (%g,%g)", wantX, wantY, gotX, gotY)
	}
}

func TestZoomClamped(t *testing.T) {
	v := domain.View{Zoom: 1}
	v = ZoomAt(v, 0, 0, 1000)
	if v.Zoom != MaxZoom {
		t.Fatalf("zoom not clamped high: %g", v.Zoom)
	}
	v = ZoomAt(v, 0, 0, 1e-9)
	if v.Zoom != MinZoom {
		t.Fatalf("zoom not clamped low: %g", v.Zoom)
	}
}

func TestPanBy(t *testing.T) {
	v := domain.View{OffsetX: 5, OffsetY: -5, Zoom: 2}
	v2 := PanBy(v, 10, -20)
	if v2.OffsetX != 15 || v2.OffsetY != -25 || v2.Zoom != 2 {
		t.Fatalf("unexpected pan result: %+v", v2)
	}
}

func TestFitToBoundsCentersContent(t *testing.T) {
	b := R(0, 0, 100, 100)
	v := FitToBounds(b, 800, 600, 0, 10)
	// content center must land at viewport center
	sx, sy := ToScreen(v, 50, 50)
	if !almostEq(sx, 400) || !almostEq(sy, 300) {
		t.Fatalf("content center at (%g,%g), want (400,300)", sx, sy)
	}
	if v.Zoom != ClampZoom(6) { // min(8, 6) clamped to MaxZoom
		t.Fatalf("unexpected fit zoom: %g", v.Zoom)
	}
}

func TestFitToBoundsRespectsMaxZoom(t *testing.T) {
	v := FitToBounds(R(0, 0, 10, 10), 800, 600, 0, 1)
	if v.Zoom != 1 {
		t.Fatalf("fit should cap at maxZoom 1, got %g", v.Zoom)
	}
}

func TestFitToBoundsDegenerate(t *testing.T) {
	v := FitToBounds(Rect{}, 800, 600, 0, 1)
	want := CenterOrigin(800, 600)
	if v != want {
		t.Fatalf("degenerate fit: got %+v want %+v", v, want)
	}
	if want.OffsetX != 400 || want.OffsetY != 300 || want.Zoom != 1 {
		t.Fatalf("unexpected origin-centered view: %+v", want)
	}
}

func TestNormalizeRepairsView(t *testing.T) {
	if v := Normalize(domain.View{}); v != domain.DefaultView() {
		t.Fatalf("zero zoom should fall back to default, got %+v", v)
	}
	if v := Normalize(domain.View{Zoom: math.NaN()}); v != domain.DefaultView() {
		t.Fatalf("NaN zoom should fall back to default, got %+v", v)
	}
	v := Normalize(domain.View{OffsetX: math.Inf(1), OffsetY: 3, Zoom: 99})
	if v.OffsetX != 0 || v.OffsetY != 3 || v.Zoom != MaxZoom {
		t.Fatalf("unexpected repair: %+v", v)
	}
}

func TestSelectionRectNormalized(t *testing.T) {
	s := SelectionRect{Start: Pt{100, 20}, End: Pt{10, 80}}
	r := s.Normalized()
	if r.X != 10 || r.Y != 20 || r.W != 90 || r.H != 60 {
		t.Fatalf("unexpected normalized rect: %+v", r)
	}
}
