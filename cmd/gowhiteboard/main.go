/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gowhiteboard/internal/backend"
	"gowhiteboard/internal/bundle"
	"gowhiteboard/internal/config"
	"gowhiteboard/internal/crash"
	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/export"
	applog "gowhiteboard/internal/log"
	"gowhiteboard/internal/storage"
	"gowhiteboard/internal/textlayout"
	"gowhiteboard/internal/ui"
	"gowhiteboard/internal/version"
)

func usage() {
	fmt.Println("Go Whiteboard")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gowhiteboard version|-v|--version          Show version")
	fmt.Println("  gowhiteboard init <dir> <name>             Create a new board at <dir> with name <name>")
	fmt.Println("  gowhiteboard open <dir>                    Open board at <dir> and print summary")
	fmt.Println("  gowhiteboard save <dir>                    Save board at <dir> (creates backup)")
	fmt.Println("  gowhiteboard export <dir> <png|svg|pdf|web|print> [out]")
	fmt.Println("                                             Export the board to a file or preset directory")
	fmt.Println("  gowhiteboard search <dir> <query>          Search board text via the local index")
	fmt.Println("  gowhiteboard bundle <dir> <zip>            Pack the board into a portable .zip bundle")
	fmt.Println("  gowhiteboard unbundle <zip> <dir>          Unpack a bundle into a new board directory")
	fmt.Println("  gowhiteboard serve                         Run the board sync server (GWB_PG_DSN, GWB_AUTH_SECRET)")
	fmt.Println("  gowhiteboard ui [<dir>]                    Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var bh *storage.BoardHandle
	defer func() { crash.Recover(bh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Go Whiteboard")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init board", slog.String("root", abs), slog.String("name", name))
			b := domain.Board{Name: name, Background: "grid", View: domain.DefaultView()}
			h, err := storage.InitBoard(abs, b)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			fmt.Println("Created board at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args[2])
			bh = h
			fmt.Printf("Opened board: %s\n", h.Board.Name)
			fmt.Printf("Shapes: %d\n", len(h.Board.Shapes))
			fmt.Printf("Background: %s  Zoom: %.2f\n", h.Board.Background, h.Board.View.Zoom)
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args[2])
			bh = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := storage.UpdateIndex(ctx, h.Root, h.Board); err != nil {
				l.Warn("index update failed", slog.Any("err", err))
			}
			fmt.Println("Saved board and created a backup of previous manifest (if any).")
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and a format or preset")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args[2])
			bh = h
			out := ""
			if len(args) >= 5 {
				out = args[4]
			}
			// exports wrap text with the same face the canvas uses
			if cfg, _, err := config.Load(); err == nil && cfg.Canvas.FontPath != "" {
				if err := textlayout.UseFontFile(cfg.Canvas.FontPath); err != nil {
					l.Warn("canvas font unavailable, using built-in face", slog.Any("err", err))
				}
			}
			if err := runExport(h, args[3], out); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Export complete.")
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args[2])
			bh = h
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			res, err := storage.Search(ctx, h.Root, storage.SearchQuery{Text: args[3]})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range res {
				if r.ShapeID != "" {
					fmt.Printf("%s\t%s\t%s\n", r.Kind, r.ShapeID, r.Snippet)
				} else {
					fmt.Printf("%s\t\t%s\n", r.Kind, r.Snippet)
				}
			}
			fmt.Printf("%d result(s)\n", len(res))
			return
		case "bundle":
			if len(args) < 4 {
				fmt.Println("bundle requires <dir> and <zip>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			if err := bundle.Export(abs, args[3]); err != nil {
				l.Error("bundle failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote bundle", args[3])
			return
		case "unbundle":
			if len(args) < 4 {
				fmt.Println("unbundle requires <zip> and <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[3])
			n, err := bundle.Import(args[2], abs)
			if err != nil {
				l.Error("unbundle failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Unpacked %d file(s) into %s\n", n, abs)
			return
		case "serve":
			if err := backend.Start(); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func mustOpen(l *slog.Logger, dir string) *storage.BoardHandle {
	abs, _ := filepath.Abs(dir)
	l.Info("open board", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}

// runExport dispatches on a single format name or a batch preset.
func runExport(h *storage.BoardHandle, what, out string) error {
	switch what {
	case "png":
		if out == "" {
			out = "board.png"
		}
		return export.ExportBoardPNG(h, out, export.Options{})
	case "svg":
		if out == "" {
			out = "board.svg"
		}
		return export.ExportBoardSVG(h, out, export.Options{})
	case "pdf":
		if out == "" {
			out = "board.pdf"
		}
		return export.ExportBoardPDF(h, out, export.Options{})
	case "web", "print":
		return export.BatchExport(h, export.BatchOptions{Preset: export.PresetName(what), OutDir: out})
	}
	return fmt.Errorf("unknown export format or preset %q", what)
}
