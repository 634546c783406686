/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// defaultSizePt is the face size used when a FontSpec carries none. Matches
// the canvas text size.
const defaultSizePt = 13

// OpenTypeProvider resolves faces from a single parsed TTF/OTF font. Faces
// are cached per size; the mutex covers the cache, since Resolve is reached
// from both the canvas and export paths.
type OpenTypeProvider struct {
	mu    sync.Mutex
	font  *opentype.Font
	dpi   float64
	faces map[float32]font.Face
}

// LoadFont parses the font file at path into a provider.
func LoadFont(path string) (*OpenTypeProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &OpenTypeProvider{font: f, dpi: 72, faces: make(map[float32]font.Face)}, nil
}

// Resolve returns a face at the requested size, building and caching it on
// first use. If face construction fails the reference face is used instead.
func (p *OpenTypeProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	size := spec.SizePt
	if size <= 0 {
		size = defaultSizePt
	}
	p.mu.Lock()
	face, ok := p.faces[size]
	if !ok {
		var err error
		face, err = opentype.NewFace(p.font, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     p.dpi,
			Hinting: font.HintingFull,
		})
		if err != nil {
			p.mu.Unlock()
			return BasicProvider{}.Resolve(spec)
		}
		p.faces[size] = face
	}
	p.mu.Unlock()

	m := face.Metrics()
	return face, Metrics{
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(m.Descent.Round()),
		LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// UseFontFile loads the font at path and installs it as the measuring
// provider. On error the current provider stays in place.
func UseFontFile(path string) error {
	p, err := LoadFont(path)
	if err != nil {
		return err
	}
	UseProvider(p)
	return nil
}
