// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import "sync"

// Handle identifies a Map across a foreign-function boundary. Zero is never
// a valid handle.
type Handle uint64

// Flat boundary over Map. These functions forward arguments and nothing
// else; every result is a plain value or a success flag. Unknown handles
// (including handles already passed to Destroy) yield zero values.
var (
	handlesMu  sync.Mutex
	handleNext Handle
	handles    = map[Handle]*Map{}
)

func lookup(h Handle) *Map {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	return handles[h]
}

// Create builds a Map with default options and returns its handle, or 0 on
// failure.
func Create(width, height uint32) Handle {
	return CreateWithOptions(width, height, nil)
}

// CreateWithOptions is Create with explicit options.
func CreateWithOptions(width, height uint32, opts *Options) Handle {
	m, err := New(width, height, opts)
	if err != nil {
		Logger().Error("failed to create map", "width", width, "height", height, "err", err)
		return 0
	}
	handlesMu.Lock()
	defer handlesMu.Unlock()
	handleNext++
	handles[handleNext] = m
	return handleNext
}

// Destroy closes the map and invalidates h.
func Destroy(h Handle) {
	handlesMu.Lock()
	m := handles[h]
	delete(handles, h)
	handlesMu.Unlock()
	if m != nil {
		m.Close()
	}
}

func SetCamera(h Handle, latitude, longitude, zoom float64) {
	if m := lookup(h); m != nil {
		m.SetCamera(latitude, longitude, zoom)
	}
}

func SetBearing(h Handle, bearing float64) {
	if m := lookup(h); m != nil {
		m.SetBearing(bearing)
	}
}

func SetPitch(h Handle, pitch float64) {
	if m := lookup(h); m != nil {
		m.SetPitch(pitch)
	}
}

func SetStyle(h Handle, styleJSON string) bool {
	if m := lookup(h); m != nil {
		return m.SetStyle(styleJSON)
	}
	return false
}

func RenderFrame(h Handle) bool {
	if m := lookup(h); m != nil {
		return m.RenderFrame()
	}
	return false
}

func GetTextureID(h Handle) uint32 {
	if m := lookup(h); m != nil {
		return m.TextureID()
	}
	return 0
}

func GetTextureWidth(h Handle) uint32 {
	if m := lookup(h); m != nil {
		return m.TextureWidth()
	}
	return 0
}

func GetTextureHeight(h Handle) uint32 {
	if m := lookup(h); m != nil {
		return m.TextureHeight()
	}
	return 0
}

func ScreenToGeographic(h Handle, x, y float64) (latitude, longitude float64) {
	if m := lookup(h); m != nil {
		return m.ScreenToGeographic(x, y)
	}
	return 0, 0
}

func GeographicToScreen(h Handle, latitude, longitude float64) (x, y float64) {
	if m := lookup(h); m != nil {
		return m.GeographicToScreen(latitude, longitude)
	}
	return 0, 0
}
