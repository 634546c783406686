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
	"strings"

	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/viewport"
)

// Background selects the canvas background tiling. All tilings are aligned to
// the logical origin, so panning scrolls them seamlessly and zooming scales
// the tile pitch with the content.
type Background int

const (
	BackgroundGrid Background = iota
	BackgroundDotted
	BackgroundRuled
	BackgroundDiagonal
	BackgroundIsometric
	BackgroundRadar

	// BackgroundNone suppresses the tiling entirely; it is not a board
	// setting, exporters use it for shapes-only output.
	BackgroundNone Background = -1
)

var backgroundNames = []string{"grid", "dotted", "ruled", "diagonal", "isometric", "radar"}

func (b Background) String() string {
	if b < 0 || int(b) >= len(backgroundNames) {
		return "grid"
	}
	return backgroundNames[b]
}

// ParseBackground maps a config string to a Background; unknown names fall
// back to the grid.
func ParseBackground(s string) Background {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range backgroundNames {
		if n == s {
			return Background(i)
		}
	}
	return BackgroundGrid
}

// Backgrounds lists all selectable background names in display order.
func Backgrounds() []string { return append([]string(nil), backgroundNames...) }

const (
	// tileSpacing is the tile pitch in logical units.
	tileSpacing = 100.0
	bgColor     = "#c8cdd4"
	bgStroke    = 1.0
	dotRadiusPx = 1.5
	// isoSlope is tan(30°), the rise of an isometric grid line.
	isoSlope = 0.5773502691896257
	// radarSpokes is the number of radial spokes on the radar background.
	radarSpokes = 12
	// maxBGCommands caps runaway tilings on oversized viewports.
	maxBGCommands = 4096
)

// backgroundCommands produces the tiling for the visible logical extent of
// the viewport, using the same transform as shape rendering. Stroke widths
// are constant in screen pixels regardless of zoom.
func backgroundCommands(v domain.View, bg Background, vw, vh float64) []Command {
	if vw <= 0 || vh <= 0 || bg == BackgroundNone {
		return nil
	}
	lx0, ly0 := viewport.ToLogical(v, 0, 0)
	lx1, ly1 := viewport.ToLogical(v, vw, vh)

	var cmds []Command
	switch bg {
	case BackgroundDotted:
		cmds = dottedTiling(v, lx0, ly0, lx1, ly1)
	case BackgroundRuled:
		cmds = lineFamily(v, ly0, ly1, false, vw, vh)
	case BackgroundDiagonal:
		cmds = diagonalTiling(v, lx0, ly0, lx1, ly1)
	case BackgroundIsometric:
		cmds = isometricTiling(v, lx0, ly0, lx1, ly1, vw, vh)
	case BackgroundRadar:
		cmds = radarTiling(v, lx0, ly0, lx1, ly1)
	default:
		cmds = lineFamily(v, lx0, lx1, true, vw, vh)
		cmds = append(cmds, lineFamily(v, ly0, ly1, false, vw, vh)...)
	}
	if len(cmds) > maxBGCommands {
		cmds = cmds[:maxBGCommands]
	}
	return cmds
}

// lineFamily emits the vertical (or horizontal) grid lines whose logical
// coordinate lies in [lo, hi], spanning the full viewport.
func lineFamily(v domain.View, lo, hi float64, vertical bool, vw, vh float64) []Command {
	var cmds []Command
	for l := math.Ceil(lo/tileSpacing) * tileSpacing; l <= hi; l += tileSpacing {
		if vertical {
			x, _ := viewport.ToScreen(v, l, 0)
			cmds = append(cmds, Command{Op: OpLine, X: x, Y: 0, X2: x, Y2: vh, Color: bgColor, Stroke: bgStroke})
		} else {
			_, y := viewport.ToScreen(v, 0, l)
			cmds = append(cmds, Command{Op: OpLine, X: 0, Y: y, X2: vw, Y2: y, Color: bgColor, Stroke: bgStroke})
		}
		if len(cmds) >= maxBGCommands {
			break
		}
	}
	return cmds
}

func dottedTiling(v domain.View, lx0, ly0, lx1, ly1 float64) []Command {
	var cmds []Command
	for lx := math.Ceil(lx0/tileSpacing) * tileSpacing; lx <= lx1; lx += tileSpacing {
		for ly := math.Ceil(ly0/tileSpacing) * tileSpacing; ly <= ly1; ly += tileSpacing {
			x, y := viewport.ToScreen(v, lx, ly)
			cmds = append(cmds, Command{
				Op: OpEllipse, X: x - dotRadiusPx, Y: y - dotRadiusPx,
				W: 2 * dotRadiusPx, H: 2 * dotRadiusPx, Fill: bgColor,
			})
			if len(cmds) >= maxBGCommands {
				return cmds
			}
		}
	}
	return cmds
}

// diagonalTiling draws the family of 45° lines x+y = k*spacing crossing the
// visible extent.
func diagonalTiling(v domain.View, lx0, ly0, lx1, ly1 float64) []Command {
	var cmds []Command
	lo := lx0 + ly0
	hi := lx1 + ly1
	for c := math.Ceil(lo/tileSpacing) * tileSpacing; c <= hi; c += tileSpacing {
		// endpoints where the line x+y=c crosses the left and right edges
		x1, y1 := viewport.ToScreen(v, lx0, c-lx0)
		x2, y2 := viewport.ToScreen(v, lx1, c-lx1)
		cmds = append(cmds, Command{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Color: bgColor, Stroke: bgStroke})
		if len(cmds) >= maxBGCommands {
			break
		}
	}
	return cmds
}

// isometricTiling draws verticals plus the two ±30° line families used for
// isometric sketching.
func isometricTiling(v domain.View, lx0, ly0, lx1, ly1, vw, vh float64) []Command {
	cmds := lineFamily(v, lx0, lx1, true, vw, vh)
	// family y - s*x = c and y + s*x = c
	for _, sign := range []float64{1, -1} {
		s := isoSlope * sign
		lo := math.Min(ly0-s*lx0, ly0-s*lx1)
		hi := math.Max(ly1-s*lx0, ly1-s*lx1)
		for c := math.Ceil(lo/tileSpacing) * tileSpacing; c <= hi; c += tileSpacing {
			x1, y1 := viewport.ToScreen(v, lx0, c+s*lx0)
			x2, y2 := viewport.ToScreen(v, lx1, c+s*lx1)
			cmds = append(cmds, Command{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Color: bgColor, Stroke: bgStroke})
			if len(cmds) >= maxBGCommands {
				return cmds
			}
		}
	}
	return cmds
}

// radarTiling draws concentric circles about the logical origin plus evenly
// spaced spokes, out to the farthest visible corner.
func radarTiling(v domain.View, lx0, ly0, lx1, ly1 float64) []Command {
	maxR := 0.0
	for _, p := range [4]viewport.Pt{{X: lx0, Y: ly0}, {X: lx1, Y: ly0}, {X: lx0, Y: ly1}, {X: lx1, Y: ly1}} {
		if r := math.Hypot(p.X, p.Y); r > maxR {
			maxR = r
		}
	}
	var cmds []Command
	for r := tileSpacing; r <= maxR; r += tileSpacing {
		x, y := viewport.ToScreen(v, -r, -r)
		d := 2 * r * v.Zoom
		cmds = append(cmds, Command{Op: OpEllipse, X: x, Y: y, W: d, H: d, Color: bgColor, Stroke: bgStroke})
		if len(cmds) >= maxBGCommands {
			return cmds
		}
	}
	ox, oy := viewport.ToScreen(v, 0, 0)
	for i := 0; i < radarSpokes; i++ {
		ang := 2 * math.Pi * float64(i) / radarSpokes
		ex, ey := viewport.ToScreen(v, maxR*math.Cos(ang), maxR*math.Sin(ang))
		cmds = append(cmds, Command{Op: OpLine, X: ox, Y: oy, X2: ex, Y2: ey, Color: bgColor, Stroke: bgStroke})
	}
	return cmds
}
