/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

// Hit-testing predicates in logical coordinates, dispatched over the closed
// shape kind set. Degenerate geometry (zero-area triangle, zero-size box)
// never divides by zero; it simply reports no hit.

import "gowhiteboard/internal/domain"

// ShapeBounds returns the logical bounding box of a shape. The box is the
// authoritative extent for every kind; Circle is inscribed in it and Triangle
// has its apex at top-center with base corners at the bottom edge.
func ShapeBounds(s domain.Shape) Rect {
	return Rect{X: s.X, Y: s.Y, W: s.Width, H: s.Height}
}

// TriangleVertices returns apex, bottom-left, bottom-right.
func TriangleVertices(s domain.Shape) (Pt, Pt, Pt) {
	return Pt{s.X + s.Width/2, s.Y},
		Pt{s.X, s.Y + s.Height},
		Pt{s.X + s.Width, s.Y + s.Height}
}

// PointInShape reports whether the logical point (x, y) lies inside the shape.
func PointInShape(x, y float64, s domain.Shape) bool {
	p := Pt{x, y}
	switch s.Kind {
	case domain.KindSquare, domain.KindText:
		return ShapeBounds(s).Contains(p)
	case domain.KindCircle:
		r := min(s.Width, s.Height) / 2
		cx := s.X + s.Width/2
		cy := s.Y + s.Height/2
		dx := x - cx
		dy := y - cy
		return dx*dx+dy*dy <= r*r
	case domain.KindTriangle:
		a, b, c := TriangleVertices(s)
		return pointInTriangle(p, a, b, c)
	}
	return false
}

// pointInTriangle uses barycentric coordinates: p is inside when u, v >= 0
// and u+v <= 1. A zero-area triangle has denom 0 and reports no hit.
func pointInTriangle(p, a, b, c Pt) bool {
	v0x, v0y := c.X-a.X, c.Y-a.Y
	v1x, v1y := b.X-a.X, b.Y-a.Y
	v2x, v2y := p.X-a.X, p.Y-a.Y

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return false
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return u >= 0 && v >= 0 && u+v <= 1
}

// RectIntersects reports whether the (normalized) rectangle overlaps the
// shape. Used by rubber-band selection.
func RectIntersects(r Rect, s domain.Shape) bool {
	switch s.Kind {
	case domain.KindSquare, domain.KindText:
		return r.Overlaps(ShapeBounds(s))
	case domain.KindCircle:
		radius := min(s.Width, s.Height) / 2
		cx := s.X + s.Width/2
		cy := s.Y + s.Height/2
		// distance from circle center to the closest point on the rect
		nx := clamp(cx, r.X, r.X+r.W)
		ny := clamp(cy, r.Y, r.Y+r.H)
		dx := cx - nx
		dy := cy - ny
		return dx*dx+dy*dy <= radius*radius
	case domain.KindTriangle:
		a, b, c := TriangleVertices(s)
		if r.Contains(a) || r.Contains(b) || r.Contains(c) {
			return true
		}
		center := Pt{r.X + r.W/2, r.Y + r.H/2}
		if pointInTriangle(center, a, b, c) {
			return true
		}
		// Bounding-box fallback. Deliberately conservative: a thin triangle
		// with a large box can report a false positive.
		return r.Overlaps(ShapeBounds(s))
	}
	return false
}

// HitTest returns the top-most shape under the logical point, or -1. Shapes
// later in the slice paint on top, so iteration runs in reverse.
func HitTest(shapes []domain.Shape, x, y float64) int {
	for i := len(shapes) - 1; i >= 0; i-- {
		if PointInShape(x, y, shapes[i]) {
			return i
		}
	}
	return -1
}

// ShapesInRect returns the ids of all shapes intersecting the rectangle, in
// list order.
func ShapesInRect(shapes []domain.Shape, r Rect) []string {
	var ids []string
	for _, s := range shapes {
		if RectIntersects(r, s) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// ContentBounds returns the union of all shape bounds. ok is false for an
// empty list.
func ContentBounds(shapes []domain.Shape) (Rect, bool) {
	if len(shapes) == 0 {
		return Rect{}, false
	}
	b := ShapeBounds(shapes[0])
	for _, s := range shapes[1:] {
		b = b.Union(ShapeBounds(s))
	}
	return b, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
