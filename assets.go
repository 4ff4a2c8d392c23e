// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// InstallAssets copies every file of fsys into dir, keeping relative paths,
// so that asset:// URLs in a style resolve against the engine's asset path.
// Existing files are overwritten. It returns the number of files written.
//
// Example with embed.FS:
//
//	//go:embed assets
//	var assets embed.FS
//	sub, _ := fs.Sub(assets, "assets")
//	m, err := maplibreui.New(512, 512, &maplibreui.Options{Assets: sub})
func InstallAssets(dir string, fsys fs.FS) (int, error) {
	count := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, readErr := fs.ReadFile(fsys, p)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", p, readErr)
		}
		dst := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("installing assets into %s: %w", dir, err)
	}
	return count, nil
}
