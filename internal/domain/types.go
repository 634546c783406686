/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for a whiteboard document. The model
// serializes to a human-readable JSON manifest (board.json). It stays free of
// behavior so every other package can depend on it without cycles.

// Board is a single whiteboard document: an ordered list of shapes on an
// unbounded logical plane, plus the last saved view over that plane.
// Shape order is paint order and therefore also hit-test priority
// (later shapes draw, and hit, on top).
type Board struct {
	Name       string  `json:"name"`
	Background string  `json:"background,omitempty"` // one of the render background kinds
	View       View    `json:"view"`
	Shapes     []Shape `json:"shapes"`
}

// View is the persisted affine map from logical to screen coordinates:
// screen = logical*zoom + offset. Zoom must stay positive; consumers clamp it
// to the supported range on load rather than rejecting the document.
type View struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Zoom    float64 `json:"zoom"`
}

// DefaultView returns the identity-like view used when a manifest carries no
// usable view state: logical origin at the screen origin, zoom 1.
func DefaultView() View { return View{Zoom: 1} }

// ShapeKind enumerates the closed set of shape variants. Hit-testing and
// rendering switch exhaustively over these four values.
type ShapeKind string

const (
	KindSquare   ShapeKind = "square"
	KindCircle   ShapeKind = "circle"
	KindTriangle ShapeKind = "triangle"
	KindText     ShapeKind = "text"
)

// Valid reports whether k is one of the four known kinds.
func (k ShapeKind) Valid() bool {
	switch k {
	case KindSquare, KindCircle, KindTriangle, KindText:
		return true
	}
	return false
}

// Shape is one object on the board. (X, Y) is the logical top-left of the
// bounding box for every kind; Width/Height define that box even for Circle
// (inscribed) and Triangle (apex at top-center, base corners at the bottom).
// Content is only meaningful for KindText.
type Shape struct {
	ID      string    `json:"id"`
	Kind    ShapeKind `json:"kind"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Color   string    `json:"color,omitempty"`
	Content string    `json:"content,omitempty"`
}
