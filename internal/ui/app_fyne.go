//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gowhiteboard/internal/config"
	"gowhiteboard/internal/crash"
	"gowhiteboard/internal/domain"
	applog "gowhiteboard/internal/log"
	"gowhiteboard/internal/render"
	"gowhiteboard/internal/storage"
	"gowhiteboard/internal/textlayout"
	"gowhiteboard/internal/viewport"
)

// Run starts the desktop whiteboard. boardDir, when non-empty, is opened
// immediately; otherwise the app starts on a fresh unsaved board.
func Run(boardDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var bh *storage.BoardHandle
	defer func() { crash.Recover(bh) }()

	cfg, _, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	if cfg.Canvas.FontPath != "" {
		if err := textlayout.UseFontFile(cfg.Canvas.FontPath); err != nil {
			l.Warn("canvas font unavailable, using built-in face", slog.Any("err", err))
		}
	}

	fyneApp := app.NewWithID("gowhiteboard")
	w := fyneApp.NewWindow("Go Whiteboard")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	zoomLabel := widget.NewLabel("100%")

	board := domain.Board{
		Name:       "Untitled",
		Background: cfg.Canvas.Background,
		View:       domain.DefaultView(),
	}
	bc := NewBoardCanvas(&board)
	if strings.EqualFold(cfg.Canvas.DefaultMode, "select") {
		bc.Machine().SetMode(viewport.ModeSelect)
	}

	dirty := false
	markDirty := func() {
		dirty = true
		status.SetText("Modified")
	}
	bc.OnDirty = markDirty

	saveBoard := func() {
		if bh == nil {
			status.SetText("No board directory yet; use Save As")
			return
		}
		bh.Board = board
		if err := storage.Save(bh); err != nil {
			dialog.ShowError(err, w)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := storage.UpdateIndex(ctx, bh.Root, bh.Board); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		dirty = false
		status.SetText(fmt.Sprintf("Saved %s", bh.Root))
	}

	// debounced view persistence: remember where the user left off
	bc.OnViewChanged = func(v domain.View) {
		zoomLabel.SetText(fmt.Sprintf("%.0f%%", v.Zoom*100))
		if bh == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := storage.SaveViewSnapshot(ctx, bh, v, time.Now().UTC()); err != nil {
			l.Warn("view snapshot failed", slog.Any("err", err))
		}
	}

	bc.OnEditRequest = func(id, content string) {
		entry := widget.NewMultiLineEntry()
		entry.SetText(content)
		dialog.ShowCustomConfirm("Edit Text", "Save", "Cancel", entry, func(ok bool) {
			if !ok {
				return
			}
			bc.Machine().EditText(id, entry.Text)
		}, w)
	}

	bc.OnContext = func(lx, ly float64, at fyne.Position) {
		pt := viewport.Pt{X: lx, Y: ly}
		items := []*fyne.MenuItem{
			fyne.NewMenuItem("Add square", func() { bc.AddShape(domain.KindSquare, &pt) }),
			fyne.NewMenuItem("Add circle", func() { bc.AddShape(domain.KindCircle, &pt) }),
			fyne.NewMenuItem("Add triangle", func() { bc.AddShape(domain.KindTriangle, &pt) }),
			fyne.NewMenuItem("Add text", func() { bc.AddShape(domain.KindText, &pt) }),
		}
		if len(bc.Machine().Selection()) > 0 {
			items = append(items, fyne.NewMenuItemSeparator(),
				fyne.NewMenuItem("Delete selection", bc.DeleteSelected))
		}
		menu := fyne.NewMenu("", items...)
		widget.ShowPopUpMenuAtPosition(menu, w.Canvas(), at)
	}

	openBoard := func(dir string) {
		h, err := storage.Open(dir)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		bh = h
		board = h.Board
		if board.View.Zoom == 0 {
			board.View = domain.DefaultView()
		}
		bc.LoadBoard(&board)
		dirty = false
		addRecentBoard(prefs, dir)
		registerInCatalog(l, board.Name, dir)
		w.SetTitle(fmt.Sprintf("Go Whiteboard — %s", board.Name))
		status.SetText(fmt.Sprintf("Opened %s", dir))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if rebuilt, err := storage.DetectAndRebuildIndex(ctx, dir, board); err != nil {
			l.Warn("index check failed", slog.Any("err", err))
		} else if rebuilt {
			l.Info("search index rebuilt", slog.String("root", dir))
		}
	}

	modeSelect := widget.NewSelect([]string{"pan", "select"}, func(s string) {
		if s == "select" {
			bc.Machine().SetMode(viewport.ModeSelect)
		} else {
			bc.Machine().SetMode(viewport.ModePan)
		}
		status.SetText(fmt.Sprintf("Mode: %s", s))
	})
	modeSelect.SetSelected(bc.Machine().Mode().String())

	bgSelect := widget.NewSelect(render.Backgrounds(), func(s string) {
		bc.SetBackground(s)
	})
	bgSelect.SetSelected(bc.background.String())

	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Search text…")
	searchEntry.OnSubmitted = func(q string) {
		if bh == nil || strings.TrimSpace(q) == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := storage.Search(ctx, bh.Root, storage.SearchQuery{Text: q, Kinds: []string{"shape_text"}})
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if len(res) == 0 {
			status.SetText("No matches")
			return
		}
		status.SetText(fmt.Sprintf("%d match(es)", len(res)))
		bc.CenterOnShape(res[0].ShapeID)
	}

	toolbar := container.NewHBox(
		widget.NewButton("New", func() {
			board = domain.Board{Name: "Untitled", Background: cfg.Canvas.Background, View: domain.DefaultView()}
			bh = nil
			bc.LoadBoard(&board)
			w.SetTitle("Go Whiteboard")
			status.SetText("New board")
		}),
		widget.NewButton("Open…", func() {
			dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
				if err != nil || uri == nil {
					return
				}
				openBoard(uri.Path())
			}, w)
		}),
		widget.NewButton("Save", saveBoard),
		widget.NewButton("Save As…", func() {
			dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
				if err != nil || uri == nil {
					return
				}
				dir := uri.Path()
				h, err := storage.InitBoard(dir, board)
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				bh = h
				dirty = false
				addRecentBoard(prefs, dir)
				registerInCatalog(l, board.Name, dir)
				status.SetText(fmt.Sprintf("Saved %s", dir))
			}, w)
		}),
		widget.NewSeparator(),
		widget.NewButton("Square", func() { bc.AddShape(domain.KindSquare, nil) }),
		widget.NewButton("Circle", func() { bc.AddShape(domain.KindCircle, nil) }),
		widget.NewButton("Triangle", func() { bc.AddShape(domain.KindTriangle, nil) }),
		widget.NewButton("Text", func() { bc.AddShape(domain.KindText, nil) }),
		widget.NewSeparator(),
		modeSelect,
		bgSelect,
		widget.NewButton("Fit", func() {
			bc.Machine().FitToContent()
			bc.Refresh()
		}),
		zoomLabel,
		searchEntry,
	)

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, bc))

	// modifier keys feed the gesture normalizer; only the desktop driver
	// reports key up events
	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(e *fyne.KeyEvent) {
			if n := gestureKeyName(e.Name); n != "" {
				bc.KeyDown(n)
			}
		})
		dc.SetOnKeyUp(func(e *fyne.KeyEvent) {
			if n := gestureKeyName(e.Name); n != "" {
				bc.KeyUp(n)
			}
		})
	}

	w.SetCloseIntercept(func() {
		prefs.SetInt("window.width", int(w.Canvas().Size().Width))
		prefs.SetInt("window.height", int(w.Canvas().Size().Height))
		bc.Machine().FlushViewChange()
		if dirty && bh != nil {
			dialog.ShowConfirm("Unsaved changes", "Save before closing?", func(save bool) {
				if save {
					saveBoard()
				}
				w.Close()
			}, w)
			return
		}
		w.Close()
	})

	if boardDir != "" {
		openBoard(boardDir)
	} else if recents := loadRecentBoards(prefs); len(recents) > 0 {
		status.SetText(fmt.Sprintf("Ready — last board: %s", recents[0]))
	}

	w.ShowAndRun()
	return nil
}

// gestureKeyName maps Fyne key names onto the normalizer's identifiers.
func gestureKeyName(k fyne.KeyName) string {
	switch k {
	case fyne.KeySpace:
		return viewport.KeyHoldSelect
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return viewport.KeyExtend
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return viewport.KeyZoomMod
	}
	return ""
}

// registerInCatalog records the board in the user-scoped catalog; failures
// only log, the catalog is a convenience.
func registerInCatalog(l *slog.Logger, name, dir string) {
	base, err := os.UserConfigDir()
	if err != nil {
		l.Warn("no user config dir", slog.Any("err", err))
		return
	}
	path := filepath.Join(base, "GoWhiteboard", "catalog.sqlite")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Warn("catalog dir", slog.Any("err", err))
		return
	}
	cat, err := storage.OpenCatalog(path)
	if err != nil {
		l.Warn("open catalog", slog.Any("err", err))
		return
	}
	defer func() { _ = cat.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := cat.RegisterBoard(ctx, name, dir); err != nil {
		l.Warn("register board", slog.Any("err", err))
	}
}

const recentPrefsKey = "recent.boards"
const recentMax = 10

func loadRecentBoards(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentBoards(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	p.SetString(recentPrefsKey, strings.Join(items, "\n"))
}

func addRecentBoard(p fyne.Preferences, path string) {
	items := loadRecentBoards(p)
	out := []string{path}
	for _, it := range items {
		if it != path {
			out = append(out, it)
		}
	}
	saveRecentBoards(p, out)
}
