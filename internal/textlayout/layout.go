/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures and wraps text shape content. All advances come
// from a single measuring face, either the built-in reference face or a user
// font installed with UseFontFile, so line breaks are identical on canvas and
// in exports.
package textlayout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested face size in points. Zero means the default
// text size.
type FontSpec struct {
	SizePt float32
}

// Metrics provides the resolved face's vertical metrics in pixels.
type Metrics struct {
	Ascent, Descent, LineGap float32
}

// TextBox is wrapped text: one string per line plus the box extent and the
// face metrics the caller needs to place baselines.
type TextBox struct {
	Lines   []string
	Width   float32
	Height  float32
	Metrics Metrics
}

// Provider maps a FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider is the reference face: x/image basicfont Face7x13, fixed
// advance, no file I/O. It ignores the requested size.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(m.Descent.Round()),
		LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// active is the provider WrapText measures with. Single-threaded UI model:
// installed once at startup, before any frame is produced.
var active Provider = BasicProvider{}

// UseProvider installs the measuring provider. nil restores the reference
// face.
func UseProvider(p Provider) {
	if p == nil {
		active = BasicProvider{}
		return
	}
	active = p
}

// WrapText breaks content into lines no wider than maxWidth pixels, splitting
// on spaces. Newlines always break; a word wider than maxWidth gets a line of
// its own; maxWidth <= 0 disables width wrapping. The result always has at
// least one line.
func WrapText(content string, maxWidth float32) TextBox {
	face, met := active.Resolve(FontSpec{})
	d := &font.Drawer{Face: face}
	lineH := met.Ascent + met.Descent + met.LineGap
	box := TextBox{Metrics: met}

	flush := func(line string, w float32) {
		box.Lines = append(box.Lines, line)
		if w > box.Width {
			box.Width = w
		}
		box.Height += lineH
	}

	spaceW := advance(d, " ")
	for _, para := range strings.Split(content, "\n") {
		line, lineW := "", float32(0)
		for _, word := range strings.Fields(para) {
			w := advance(d, word)
			switch {
			case line == "":
				line, lineW = word, w
			case maxWidth > 0 && lineW+spaceW+w > maxWidth:
				flush(line, lineW)
				line, lineW = word, w
			default:
				line += " " + word
				lineW += spaceW + w
			}
		}
		flush(line, lineW)
	}
	return box
}

func advance(d *font.Drawer, s string) float32 {
	return float32(d.MeasureString(s) >> 6) // fixed.Int26_6 to px
}
