/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "gowhiteboard/internal/log"
	"gowhiteboard/internal/storage"
)

// manifestName identifies a board bundle; it is skipped on import.
const manifestName = "bundle.manifest.txt"

// Export zips a board directory into a single portable .zip bundle. The
// archive carries board.json plus the exports/ tree and a small manifest file
// at the root for quick human inspection. The search index and backups stay
// out: both are derived state and rebuilt on the receiving side.
func Export(boardRoot string, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("bundle"), "export").With(slog.String("board", boardRoot))
	if strings.TrimSpace(boardRoot) == "" {
		return errors.New("boardRoot is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	// refuse to bundle a directory that is not a board
	bh, err := storage.Open(boardRoot)
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := fmt.Sprintf("Go Whiteboard Bundle\nCreated: %s\nBoard: %s\nShapes: %d\n\nContents carry board.json and the board's /exports directory.\n",
		time.Now().Format(time.RFC3339), bh.Board.Name, len(bh.Board.Shapes))
	w, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	if err := addFile(zw, bh.ManifestPath, storage.ManifestFileName); err != nil {
		return fmt.Errorf("add board manifest: %w", err)
	}
	added++

	exportsDir := filepath.Join(boardRoot, "exports")
	err = filepath.Walk(exportsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(boardRoot, path)
		if err != nil {
			return err
		}
		if err := addFile(zw, path, filepath.ToSlash(rel)); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	l.Info("bundle exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

func addFile(zw *zip.Writer, path, zipName string) error {
	fw, err := zw.Create(zipName)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = io.Copy(fw, f)
	return err
}

// Import extracts a bundle into destRoot and scaffolds it as a board
// directory. A destination that already holds a board manifest is refused so
// an existing board is never clobbered. Returns the count of files written
// (the bundle's own manifest is not counted).
func Import(zipPath string, destRoot string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("bundle"), "import").With(slog.String("dest", destRoot))
	if strings.TrimSpace(zipPath) == "" {
		return 0, errors.New("zipPath is required")
	}
	if strings.TrimSpace(destRoot) == "" {
		return 0, errors.New("destRoot is required")
	}
	if _, err := os.Stat(filepath.Join(destRoot, storage.ManifestFileName)); err == nil {
		return 0, fmt.Errorf("destination already holds a board: %s", destRoot)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("open bundle: %w", err)
	}
	defer func() { _ = r.Close() }()

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return 0, fmt.Errorf("ensure dest root: %w", err)
	}

	installed := 0
	for _, f := range r.File {
		name := f.Name
		if name == manifestName {
			continue
		}
		// entries must stay inside destRoot
		clean := filepath.Clean(filepath.FromSlash(name))
		if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
			l.Warn("skip entry outside bundle root", slog.String("name", name))
			continue
		}
		targetPath := filepath.Join(destRoot, clean)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return installed, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return installed, err
		}
		rc, err := f.Open()
		if err != nil {
			return installed, err
		}
		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			_ = rc.Close()
			return installed, err
		}
		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return installed, err
		}
		_ = out.Close()
		_ = rc.Close()
		installed++
	}

	// opening validates the extracted manifest and scaffolds missing subdirs
	bh, err := storage.Open(destRoot)
	if err != nil {
		return installed, fmt.Errorf("bundle did not contain a valid board: %w", err)
	}
	if err := storage.SaveAs(bh, destRoot); err != nil {
		return installed, fmt.Errorf("scaffold imported board: %w", err)
	}
	l.Info("bundle imported", slog.Int("files", installed), slog.String("board", bh.Board.Name))
	return installed, nil
}
