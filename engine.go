// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Latitude, Longitude float64
}

// ScreenCoordinate is a pixel position in the offscreen target, origin at
// the top-left corner.
type ScreenCoordinate struct {
	X, Y float64
}

// CameraOptions describes a camera jump. Nil fields keep their current value
// in the engine.
type CameraOptions struct {
	Center  *LatLng
	Zoom    *float64
	Bearing *float64
	Pitch   *float64
}

// MapMode selects how the engine produces frames.
type MapMode int32

const (
	MapModeContinuous MapMode = iota
	MapModeStatic
	MapModeTile
)

// EngineConfig is what the engine is constructed with. Resource paths are
// fixed for the engine's lifetime.
type EngineConfig struct {
	Width, Height uint32
	PixelRatio    float64
	Mode          MapMode
	CachePath     string
	AssetPath     string
}

// Engine is one map instance of the embedded rendering engine.
type Engine interface {
	// JumpTo applies the set fields of opts immediately, without animation.
	JumpTo(opts CameraOptions)
	// LoadStyle parses a style document. Resource fetching continues
	// asynchronously after it returns.
	LoadStyle(styleJSON string) error
	// RenderStill starts a still render. done is called once, from the run
	// loop of the constructing thread, with nil on success.
	RenderStill(done func(error))
	LatLngForPixel(p ScreenCoordinate) LatLng
	PixelForLatLng(ll LatLng) ScreenCoordinate
	Close()
}

// RunLoop is the engine's per-thread event loop.
type RunLoop interface {
	// RunOnce processes pending events without blocking.
	RunOnce()
}

// Library constructs engine objects. The native implementation is backed by
// the mbgl bridge shared library.
type Library interface {
	// CurrentRunLoop returns the calling thread's run loop, or nil.
	CurrentRunLoop() RunLoop
	// NewRunLoop creates a run loop and installs it for the calling thread.
	NewRunLoop() RunLoop
	NewEngine(cfg EngineConfig, frontend Frontend, observer Observer) (Engine, error)
}
