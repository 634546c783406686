/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - If OutDir is empty or relative, outputs land under
//     <board>/exports/<preset>/.
//   - Files are named board.(png|svg|pdf) inside OutDir.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset         PresetName
	Formats        []string // allowed: png, svg, pdf; empty means preset defaults
	OutDir         string
	Width          int          // when > 0 overrides the preset output size
	Height         int          // when > 0 overrides the preset output size
	View           *domain.View // when set, export this exact view instead of fitting
	OmitBackground bool
}

// BatchExport runs exports according to the given preset.
func BatchExport(bh *storage.BoardHandle, opt BatchOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(bh.Root, "exports", baseOut)
	}

	w, h := presetSize(opt.Preset)
	if opt.Width > 0 {
		w = opt.Width
	}
	if opt.Height > 0 {
		h = opt.Height
	}
	eo := Options{Width: w, Height: h, View: opt.View, OmitBackground: opt.OmitBackground}

	for _, f := range formats {
		out := filepath.Join(baseOut, "board."+f)
		switch f {
		case "png":
			if err := ExportBoardPNG(bh, out, eo); err != nil {
				return fmt.Errorf("png: %w", err)
			}
		case "svg":
			if err := ExportBoardSVG(bh, out, eo); err != nil {
				return fmt.Errorf("svg: %w", err)
			}
		case "pdf":
			if err := ExportBoardPDF(bh, out, eo); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"png"}
	}
}

// presetSize picks the output surface; print doubles the web size for a
// denser raster.
func presetSize(p PresetName) (w, h int) {
	switch p {
	case PresetPrint:
		return 2 * defaultExportWidth, 2 * defaultExportHeight
	default:
		return defaultExportWidth, defaultExportHeight
	}
}
