/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

// View transform operations. A domain.View maps the unbounded logical plane
// to screen pixels: screen = logical*zoom + offset. Everything here is a pure
// function from view in to view (or point) out; the interaction machine owns
// the single mutable copy.

import (
	"math"

	"gowhiteboard/internal/domain"
)

const (
	// MinZoom and MaxZoom bound the zoom factor. Requests outside the range
	// are clamped, never rejected.
	MinZoom = 0.1
	MaxZoom = 5.0
)

// ToLogical converts a screen point to logical coordinates.
func ToLogical(v domain.View, sx, sy float64) (float64, float64) {
	return (sx - v.OffsetX) / v.Zoom, (sy - v.OffsetY) / v.Zoom
}

// ToScreen converts a logical point to screen coordinates.
func ToScreen(v domain.View, lx, ly float64) (float64, float64) {
	return lx*v.Zoom + v.OffsetX, ly*v.Zoom + v.OffsetY
}

// ZoomAt rescales the view by factor while keeping the logical point under
// the screen pivot stationary. The pivot's logical position is computed from
// the incoming view before anything changes; deriving it from a half-updated
// view makes rapid wheel bursts drift.
func ZoomAt(v domain.View, pivotX, pivotY, factor float64) domain.View {
	lx, ly := ToLogical(v, pivotX, pivotY)
	nz := ClampZoom(v.Zoom * factor)
	return domain.View{
		OffsetX: pivotX - lx*nz,
		OffsetY: pivotY - ly*nz,
		Zoom:    nz,
	}
}

// PanBy translates the view by a screen-space delta. No zoom interaction.
func PanBy(v domain.View, dx, dy float64) domain.View {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

// FitToBounds computes a view that shows bounds (expanded by padding on all
// sides) centered in a viewport of the given size, zoomed no further in than
// maxZoom. A degenerate bounds yields the default view centered on origin.
func FitToBounds(bounds Rect, viewportW, viewportH, padding, maxZoom float64) domain.View {
	b := bounds.Expand(padding)
	if b.W <= 0 || b.H <= 0 || viewportW <= 0 || viewportH <= 0 {
		return CenterOrigin(viewportW, viewportH)
	}
	zoom := min(viewportW/b.W, viewportH/b.H)
	zoom = ClampZoom(min(zoom, maxZoom))
	cx := b.X + b.W/2
	cy := b.Y + b.H/2
	return domain.View{
		OffsetX: viewportW/2 - cx*zoom,
		OffsetY: viewportH/2 - cy*zoom,
		Zoom:    zoom,
	}
}

// CenterOrigin returns the view that places logical (0,0) at the viewport
// center at zoom 1.
func CenterOrigin(viewportW, viewportH float64) domain.View {
	return domain.View{OffsetX: viewportW / 2, OffsetY: viewportH / 2, Zoom: 1}
}

// ClampZoom bounds z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Normalize repairs a view restored from persistence. A non-finite or
// non-positive zoom falls back to the default view; an out-of-range zoom is
// clamped; non-finite offsets are zeroed.
func Normalize(v domain.View) domain.View {
	if !isFinite(v.Zoom) || v.Zoom <= 0 {
		return domain.DefaultView()
	}
	v.Zoom = ClampZoom(v.Zoom)
	if !isFinite(v.OffsetX) {
		v.OffsetX = 0
	}
	if !isFinite(v.OffsetY) {
		v.OffsetY = 0
	}
	return v
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
