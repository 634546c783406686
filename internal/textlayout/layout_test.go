/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "testing"

func TestWrapTextBreaksAtWidth(t *testing.T) {
	// Face7x13 advances 7px per glyph: "Hello world from Go" cannot fit in 50px.
	box := WrapText("Hello world from Go", 50)
	if len(box.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(box.Lines))
	}
	if box.Width <= 0 || box.Width > 50 {
		t.Fatalf("line width out of range: %v", box.Width)
	}
	if box.Height <= 0 {
		t.Fatalf("expected positive height: %+v", box)
	}
}

func TestWrapTextNewlinesAlwaysBreak(t *testing.T) {
	box := WrapText("first line\nsecond", 0)
	if len(box.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(box.Lines))
	}
	if box.Lines[0] != "first line" || box.Lines[1] != "second" {
		t.Fatalf("unexpected lines: %q", box.Lines)
	}
}

func TestWrapTextEmptyContent(t *testing.T) {
	box := WrapText("", 100)
	if len(box.Lines) != 1 || box.Lines[0] != "" {
		t.Fatalf("empty content should yield one empty line: %q", box.Lines)
	}
	if box.Width != 0 {
		t.Fatalf("empty content should measure zero width: %v", box.Width)
	}
}

func TestWrapTextOverlongWordGetsOwnLine(t *testing.T) {
	box := WrapText("hi incomprehensible hi", 50)
	if len(box.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(box.Lines), box.Lines)
	}
	if box.Lines[1] != "incomprehensible" {
		t.Fatalf("overlong word split: %q", box.Lines)
	}
}

func TestUseProviderNilRestoresReferenceFace(t *testing.T) {
	ref := WrapText("reference", 0)
	UseProvider(nil)
	if got := WrapText("reference", 0); got.Width != ref.Width || got.Metrics != ref.Metrics {
		t.Fatalf("reference face not restored: %+v vs %+v", got, ref)
	}
}
