/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes a board to PNG, SVG or PDF by replaying the same
// draw commands the live canvas uses, so exports match the screen pixel
// for pixel modulo rasterization.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/render"
	"gowhiteboard/internal/storage"
	"gowhiteboard/internal/viewport"
)

// Options is shared by all exporters.
// - Width/Height: output surface in pixels (points for PDF); defaults apply when <= 0.
// - View: when nil, the view is fitted to the board content with Padding.
// - OmitBackground: drop the background tiling, shapes only.
//
//nolint:revive // keep fields explicit for clarity
type Options struct {
	Width          int
	Height         int
	View           *domain.View
	Padding        float64
	MaxZoom        float64
	OmitBackground bool
}

const (
	defaultExportWidth  = 1600
	defaultExportHeight = 1000
	defaultExportPad    = 48.0
	defaultExportZoom   = 1.0
)

func (o *Options) applyDefaults() {
	if o.Width <= 0 {
		o.Width = defaultExportWidth
	}
	if o.Height <= 0 {
		o.Height = defaultExportHeight
	}
	if o.Padding <= 0 {
		o.Padding = defaultExportPad
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = defaultExportZoom
	}
}

// frameFor builds the render frame for a board under the resolved view.
// Selection and rubber band never appear in exports.
func frameFor(b domain.Board, opt Options) render.Frame {
	w := float64(opt.Width)
	h := float64(opt.Height)
	var v domain.View
	switch {
	case opt.View != nil:
		v = viewport.Normalize(*opt.View)
	default:
		if bounds, ok := viewport.ContentBounds(b.Shapes); ok {
			v = viewport.FitToBounds(bounds, w, h, opt.Padding, opt.MaxZoom)
		} else {
			v = viewport.CenterOrigin(w, h)
		}
	}
	f := render.Frame{View: v, Shapes: b.Shapes, Width: w, Height: h}
	if !opt.OmitBackground {
		f.Background = render.ParseBackground(b.Background)
	} else {
		f.Background = render.BackgroundNone
	}
	return f
}

// resolveOutPath places relative paths under the board's exports folder and
// ensures the parent directory exists.
func resolveOutPath(bh *storage.BoardHandle, outPath string) (string, error) {
	if outPath == "" {
		return "", fmt.Errorf("output path is empty")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(bh.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	return outPath, nil
}
