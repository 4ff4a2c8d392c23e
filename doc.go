// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Package maplibreui renders MapLibre Native maps into an offscreen OpenGL
// texture that a host UI can display like any other image.
//
// The engine is reached through a small C bridge library loaded with purego,
// so no cgo is needed. Each [Map] owns one engine instance and one offscreen
// framebuffer with a fixed-size RGBA color texture.
//
// Basic usage:
//
//	// A GL context must be current on this thread.
//	m, err := maplibreui.New(512, 512, nil)
//	if err != nil { ... }
//	defer m.Close()
//
//	if !m.SetStyle(styleJSON) { ... }
//	m.SetCamera(48.8566, 2.3522, 11)
//	m.SetBearing(30)
//	m.SetPitch(45)
//
//	if m.RenderFrame() {
//	    tex := m.TextureID() // GL texture name, valid until Close
//	    ...
//	}
//
//	lat, lon := m.ScreenToGeographic(256, 256)
//	x, y := m.GeographicToScreen(lat, lon)
//
// RenderFrame blocks until the engine reports the still render complete.
// SetStyle returns once the document is parsed; tiles and sprites keep
// loading inside the engine. Set [Options.RenderTimeout] to bound the wait.
//
// Thread affinity: the engine, its run loop and the GL context are bound to
// the OS thread that created the Map. All calls must come from that thread.
// The package locks the main goroutine to the main thread at init.
//
// Flat boundary:
//
// [Create], [Destroy], [SetCamera], [RenderFrame], [GetTextureID] and the
// other package-level functions mirror the Map methods over integer
// [Handle]s for callers across a foreign-function boundary.
//
// Ebiten:
//
// [View] copies the rendered frame into an *ebiten.Image every Update and
// adds drag-to-pan, wheel zoom and animated [View.FlyTo].
//
// Logging is silent by default; see [SetLogger].
//
// Requirements: the bridge shared library (mbgl_bridge.dll on Windows,
// libmbgl_bridge.so on Linux, libmbgl_bridge.dylib on macOS) must be present
// next to the executable or in [Options.BaseDir].
package maplibreui
