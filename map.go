// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSize is returned by New for a zero width or height.
	ErrInvalidSize = errors.New("maplibreui: width and height must be non-zero")
	// ErrRenderTimeout is logged when a still render exceeds Options.RenderTimeout.
	ErrRenderTimeout = errors.New("maplibreui: render timed out")
	// ErrStyleLoad wraps engine-side style failures.
	ErrStyleLoad = errors.New("maplibreui: style load failed")
)

// renderPollInterval paces run loop pumping while a still render is pending.
const renderPollInterval = time.Millisecond

// Map is one embedded map rendered into an offscreen GL texture.
//
// A Map is bound to the OS thread that created it: the engine, its run loop
// and the GL context all are. Every method must be called from that thread.
// Nothing in Map checks this.
type Map struct {
	target   *OffscreenTarget
	frontend *targetFrontend
	observer *mapObserver
	engine   Engine
	loop     RunLoop

	renderTimeout time.Duration
	closed        bool
}

// New creates a map of width x height pixels in still-render mode. The GL
// context the texture should live in must be current on the calling thread.
// The texture content is undefined until the first RenderFrame.
func New(width, height uint32, opts *Options) (*Map, error) {
	if width == 0 || height == 0 {
		return nil, ErrInvalidSize
	}
	o := resolveOpts(opts)
	if o.Library == nil {
		if err := initBridge(o.BaseDir, o.Debug); err != nil {
			return nil, fmt.Errorf("bridge: %w", err)
		}
		o.Library = nativeLibrary{}
	}
	if o.GL == nil {
		g, err := DefaultGL()
		if err != nil {
			return nil, err
		}
		o.GL = g
	}

	if o.Assets != nil {
		n, err := InstallAssets(o.AssetPath, o.Assets)
		if err != nil {
			return nil, err
		}
		Logger().Debug("installed assets", "dir", o.AssetPath, "files", n)
	}

	loop := o.Loops.Ensure(o.Library)
	target := NewOffscreenTarget(o.GL, width, height)
	m := &Map{
		target:        target,
		frontend:      &targetFrontend{target: target},
		observer:      &mapObserver{},
		loop:          loop,
		renderTimeout: o.RenderTimeout,
	}
	engine, err := o.Library.NewEngine(EngineConfig{
		Width:      width,
		Height:     height,
		PixelRatio: o.PixelRatio,
		Mode:       MapModeStatic,
		CachePath:  o.CachePath,
		AssetPath:  o.AssetPath,
	}, m.frontend, m.observer)
	if err != nil {
		target.Destroy()
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	m.engine = engine
	Logger().Debug("map created", "width", width, "height", height, "texture", target.Texture())
	return m, nil
}

// SetCamera jumps to the given center and zoom. Bearing and pitch are kept.
func (m *Map) SetCamera(latitude, longitude, zoom float64) {
	if m.engine == nil {
		return
	}
	m.engine.JumpTo(CameraOptions{
		Center: &LatLng{Latitude: latitude, Longitude: longitude},
		Zoom:   &zoom,
	})
}

// SetBearing rotates the camera to bearing degrees.
func (m *Map) SetBearing(bearing float64) {
	if m.engine == nil {
		return
	}
	m.engine.JumpTo(CameraOptions{Bearing: &bearing})
}

// SetPitch tilts the camera to pitch degrees.
func (m *Map) SetPitch(pitch float64) {
	if m.engine == nil {
		return
	}
	m.engine.JumpTo(CameraOptions{Pitch: &pitch})
}

// SetStyle loads a style document. It returns once the document is parsed;
// sources and sprites keep loading in the background, so the next frame may
// show a partially loaded style. Failures are logged and reported as false.
func (m *Map) SetStyle(styleJSON string) bool {
	if m.engine == nil {
		return false
	}
	m.observer.takeLoadErr()
	err := m.engine.LoadStyle(styleJSON)
	if err == nil {
		err = m.observer.takeLoadErr()
	}
	if err != nil {
		Logger().Error("failed to load style", "err", fmt.Errorf("%w: %w", ErrStyleLoad, err))
		return false
	}
	return true
}

// RenderFrame renders one still frame into the texture and blocks until the
// engine reports completion. With no RenderTimeout a stalled engine stalls
// the caller.
func (m *Map) RenderFrame() bool {
	if m.engine == nil {
		return false
	}
	start := time.Now()
	done := make(chan error, 1)
	m.engine.RenderStill(func(err error) {
		select {
		case done <- err:
		default:
		}
	})
	err := m.wait(done)
	if m.target.Active() {
		m.target.Deactivate()
	}
	if err != nil {
		Logger().Error("failed to render frame", "err", err)
		return false
	}
	Logger().Debug("frame rendered", "elapsed", time.Since(start))
	return true
}

// wait pumps the run loop until done fires; the engine delivers the
// completion from that loop.
func (m *Map) wait(done <-chan error) error {
	var deadline time.Time
	if m.renderTimeout > 0 {
		deadline = time.Now().Add(m.renderTimeout)
	}
	for {
		select {
		case err := <-done:
			return err
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrRenderTimeout
		}
		m.loop.RunOnce()
		select {
		case err := <-done:
			return err
		default:
			time.Sleep(renderPollInterval)
		}
	}
}

// TextureID returns the GL texture holding the map, or 0 if the offscreen
// target could not be created. It is valid until Close.
func (m *Map) TextureID() uint32 {
	return m.target.Texture()
}

// TextureWidth returns the texture width in pixels.
func (m *Map) TextureWidth() uint32 {
	return m.target.Width()
}

// TextureHeight returns the texture height in pixels.
func (m *Map) TextureHeight() uint32 {
	return m.target.Height()
}

// ReadPixels copies the last rendered frame into dst as RGBA, top row first.
// dst must hold TextureWidth*TextureHeight*4 bytes.
func (m *Map) ReadPixels(dst []byte) bool {
	return m.target.ReadPixels(dst)
}

// ScreenToGeographic projects a pixel of the texture to a coordinate using
// the current camera. It returns (0, 0) when there is no engine.
func (m *Map) ScreenToGeographic(x, y float64) (latitude, longitude float64) {
	if m.engine == nil {
		return 0, 0
	}
	ll := m.engine.LatLngForPixel(ScreenCoordinate{X: x, Y: y})
	return ll.Latitude, ll.Longitude
}

// GeographicToScreen projects a coordinate to a pixel of the texture. It
// returns (0, 0) when there is no engine.
func (m *Map) GeographicToScreen(latitude, longitude float64) (x, y float64) {
	if m.engine == nil {
		return 0, 0
	}
	p := m.engine.PixelForLatLng(LatLng{Latitude: latitude, Longitude: longitude})
	return p.X, p.Y
}

// Close destroys the engine and then the offscreen target. The texture ID
// is invalid afterwards and the Map must not be used again.
func (m *Map) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.engine != nil {
		m.engine.Close()
		m.engine = nil
	}
	m.target.Destroy()
}
