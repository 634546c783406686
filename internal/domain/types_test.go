/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"testing"
)

func TestBoardJSONRoundTrip(t *testing.T) {
	b := Board{
		Name:       "RoundTrip",
		Background: "grid",
		View:       View{OffsetX: 12, OffsetY: -8, Zoom: 1.5},
		Shapes: []Shape{
			{ID: "s1", Kind: KindSquare, X: 10, Y: 20, Width: 100, Height: 80, Color: "#ff0000"},
			{ID: "t1", Kind: KindText, X: 0, Y: 0, Width: 200, Height: 40, Content: "hello"},
		},
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Board
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != b.Name || got.Background != b.Background {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	if len(got.Shapes) != 2 || got.Shapes[0].Kind != KindSquare || got.Shapes[1].Content != "hello" {
		t.Fatalf("unexpected shapes: %+v", got.Shapes)
	}
	if got.View.Zoom != 1.5 {
		t.Fatalf("view zoom mismatch: %v", got.View.Zoom)
	}
}

func TestShapeKindValid(t *testing.T) {
	for _, k := range []ShapeKind{KindSquare, KindCircle, KindTriangle, KindText} {
		if !k.Valid() {
			t.Fatalf("kind %q should be valid", k)
		}
	}
	if ShapeKind("hexagon").Valid() {
		t.Fatalf("unknown kind reported valid")
	}
}

func TestDefaultView(t *testing.T) {
	v := DefaultView()
	if v.Zoom != 1 || v.OffsetX != 0 || v.OffsetY != 0 {
		t.Fatalf("unexpected default view: %+v", v)
	}
}
