// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultCachePath = "./cache"
	defaultAssetPath = "./assets"
)

// Options for creating a Map. All fields are optional.
type Options struct {
	BaseDir       string        // Directory containing the bridge shared library. Defaults to working directory, then the executable's.
	CachePath     string        // Engine tile/resource cache. Default ./cache.
	AssetPath     string        // Root for asset:// URLs. Default ./assets.
	PixelRatio    float64       // Default 1.
	RenderTimeout time.Duration // Upper bound on RenderFrame. Zero waits until the engine completes.
	Debug         bool          // Enable engine debug logging in the bridge library.

	// Assets, when set, is copied into AssetPath before the engine starts.
	Assets fs.FS

	// GL replaces the go-gl implementation used by the offscreen target.
	GL GL
	// Library replaces the native engine library.
	Library Library
	// Loops is the run loop context. Defaults to a process-wide one.
	Loops *RunLoops
}

// LoadOptions reads Options from a TOML file. Durations use Go syntax
// ("1500ms", "2s").
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options %s: %w", path, err)
	}
	var f optionsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing options %s: %w", path, err)
	}
	opts := Options{
		BaseDir:    f.BaseDir,
		CachePath:  f.CachePath,
		AssetPath:  f.AssetPath,
		PixelRatio: f.PixelRatio,
		Debug:      f.Debug,
	}
	if f.RenderTimeout != "" {
		d, err := time.ParseDuration(f.RenderTimeout)
		if err != nil {
			return nil, fmt.Errorf("options %s: render_timeout: %w", path, err)
		}
		opts.RenderTimeout = d
	}
	return &opts, nil
}

type optionsFile struct {
	BaseDir       string  `toml:"base_dir"`
	CachePath     string  `toml:"cache_path"`
	AssetPath     string  `toml:"asset_path"`
	PixelRatio    float64 `toml:"pixel_ratio"`
	RenderTimeout string  `toml:"render_timeout"`
	Debug         bool    `toml:"debug"`
}

// resolveOpts returns a copy of opts with defaults filled in. Library and GL
// are left nil when unset; New resolves them once the bridge library is loaded.
func resolveOpts(opts *Options) Options {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.CachePath == "" {
		o.CachePath = defaultCachePath
	}
	if o.AssetPath == "" {
		o.AssetPath = defaultAssetPath
	}
	if o.PixelRatio <= 0 {
		o.PixelRatio = 1
	}
	if o.Loops == nil {
		o.Loops = defaultRunLoops
	}
	if o.BaseDir == "" {
		o.BaseDir, _ = os.Getwd()
		if _, err := os.Stat(filepath.Join(o.BaseDir, bridgeLibName())); err != nil {
			if exe, _ := os.Executable(); exe != "" {
				o.BaseDir = filepath.Dir(exe)
			}
		}
	}
	return o
}
