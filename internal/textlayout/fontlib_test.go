/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFontMissingFile(t *testing.T) {
	if _, err := LoadFont(filepath.Join(t.TempDir(), "nope.ttf")); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}

func TestLoadFontRejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(p, []byte("not a font"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFont(p); err == nil {
		t.Fatalf("expected parse error for garbage font file")
	}
}

func TestUseFontFileFailureKeepsProvider(t *testing.T) {
	before := WrapText("stable", 0)
	if err := UseFontFile(filepath.Join(t.TempDir(), "nope.ttf")); err == nil {
		t.Fatalf("expected error for missing font file")
	}
	if got := WrapText("stable", 0); got.Width != before.Width || got.Metrics != before.Metrics {
		t.Fatalf("provider changed after failed load: %+v vs %+v", got, before)
	}
}
