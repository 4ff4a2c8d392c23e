// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

func init() {
	// The engine, its run loop and the GL context are bound to the thread
	// that created them; keep the main goroutine on the main thread.
	runtime.LockOSThread()
}

// Camera field mask for mbgl_map_jump_to.
const (
	jumpCenter  = 1 << 0
	jumpZoom    = 1 << 1
	jumpBearing = 1 << 2
	jumpPitch   = 1 << 3
)

// Frontend events delivered through the frontend callback.
const (
	frontendRenderBegin = 0
	frontendRenderEnd   = 1
	frontendUpdate      = 2
	frontendReset       = 3
)

// Observer events delivered through the observer callback.
const (
	observerCameraWillChange = iota
	observerCameraIsChanging
	observerCameraDidChange
	observerWillStartLoadingMap
	observerDidFinishLoadingMap
	observerDidFailLoadingMap
	observerWillStartRenderingFrame
	observerDidFinishRenderingFrame
	observerWillStartRenderingMap
	observerDidFinishRenderingMap
	observerDidFinishLoadingStyle
	observerSourceChanged
	observerDidBecomeIdle
	observerStyleImageMissing
	observerCanRemoveUnusedStyleImage
)

const errBufSize = 2048

var (
	mbglInit              func(debug int32) int32
	mbglRunLoopCurrent    func() uintptr
	mbglRunLoopNew        func() uintptr
	mbglRunLoopRunOnce    func(loop uintptr)
	mbglMapNew            func(width, height uint32, pixelRatio float64, mode int32, cachePath, assetPath string, ctx, frontendCb, observerCb uintptr) uintptr
	mbglMapDestroy        func(m uintptr)
	mbglMapJumpTo         func(m uintptr, fields uint32, lat, lon, zoom, bearing, pitch float64)
	mbglStyleLoadJSON     func(m uintptr, styleJSON string, errBuf *byte, errBufLen int32) int32
	mbglMapRenderStill    func(m uintptr, ctx, cb uintptr)
	mbglMapLatLngForPixel func(m uintptr, x, y float64, out *float64)
	mbglMapPixelForLatLng func(m uintptr, lat, lon float64, out *float64)
)

// C trampolines, created once. purego callbacks are never freed, so every
// map shares them and is looked up by its context id.
var (
	frontendCallback    uintptr
	observerCallback    uintptr
	renderStillCallback uintptr
)

var (
	bridgeOnce sync.Once
	initErr    error
)

// initBridge loads the bridge library from baseDir and initializes the
// engine once per process.
func initBridge(baseDir string, debug bool) error {
	bridgeOnce.Do(func() {
		if err := doInitBridge(baseDir); err != nil {
			initErr = err
			return
		}
		d := int32(0)
		if debug {
			d = 1
		}
		if rc := mbglInit(d); rc != 0 {
			initErr = fmt.Errorf("mbgl_init failed with code %d", rc)
			return
		}
		frontendCallback = purego.NewCallback(onFrontendEvent)
		observerCallback = purego.NewCallback(onObserverEvent)
		renderStillCallback = purego.NewCallback(onRenderStill)
	})
	return initErr
}

func resolveAllSymbols(handle uintptr) error {
	for _, reg := range []struct {
		fptr interface{}
		name string
	}{
		{&mbglInit, "mbgl_init"},
		{&mbglRunLoopCurrent, "mbgl_run_loop_current"},
		{&mbglRunLoopNew, "mbgl_run_loop_new"},
		{&mbglRunLoopRunOnce, "mbgl_run_loop_run_once"},
		{&mbglMapNew, "mbgl_map_new"},
		{&mbglMapDestroy, "mbgl_map_destroy"},
		{&mbglMapJumpTo, "mbgl_map_jump_to"},
		{&mbglStyleLoadJSON, "mbgl_style_load_json"},
		{&mbglMapRenderStill, "mbgl_map_render_still"},
		{&mbglMapLatLngForPixel, "mbgl_map_lat_lng_for_pixel"},
		{&mbglMapPixelForLatLng, "mbgl_map_pixel_for_lat_lng"},
	} {
		if err := registerSymbol(reg.fptr, handle, reg.name); err != nil {
			return fmt.Errorf("%s: %w (recompile %s)", reg.name, err, bridgeLibName())
		}
	}
	return nil
}

func registerSymbol(fptr interface{}, handle uintptr, name string) error {
	sym, err := getSymbolAddr(handle, name)
	if err != nil {
		return err
	}
	purego.RegisterFunc(fptr, sym)
	return nil
}

// goString copies a NUL-terminated C string owned by the bridge.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
