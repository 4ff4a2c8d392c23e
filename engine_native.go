// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"errors"
	"fmt"
	"sync"
)

// nativeLibrary is the Library backed by the bridge shared library. initBridge
// must have succeeded before it is used.
type nativeLibrary struct{}

func (nativeLibrary) CurrentRunLoop() RunLoop {
	if h := mbglRunLoopCurrent(); h != 0 {
		return nativeRunLoop(h)
	}
	return nil
}

func (nativeLibrary) NewRunLoop() RunLoop {
	return nativeRunLoop(mbglRunLoopNew())
}

func (nativeLibrary) NewEngine(cfg EngineConfig, frontend Frontend, observer Observer) (Engine, error) {
	e := &nativeEngine{frontend: frontend, observer: observer}
	id := registerNative(e)
	e.id = id
	e.handle = mbglMapNew(cfg.Width, cfg.Height, cfg.PixelRatio, int32(cfg.Mode),
		cfg.CachePath, cfg.AssetPath, id, frontendCallback, observerCallback)
	if e.handle == 0 {
		unregisterNative(id)
		return nil, fmt.Errorf("mbgl_map_new failed for %dx%d", cfg.Width, cfg.Height)
	}
	return e, nil
}

type nativeRunLoop uintptr

func (l nativeRunLoop) RunOnce() {
	mbglRunLoopRunOnce(uintptr(l))
}

type nativeEngine struct {
	handle   uintptr
	id       uintptr
	frontend Frontend
	observer Observer
	pending  func(error)
}

func (e *nativeEngine) JumpTo(opts CameraOptions) {
	var fields uint32
	var lat, lon, zoom, bearing, pitch float64
	if opts.Center != nil {
		fields |= jumpCenter
		lat, lon = opts.Center.Latitude, opts.Center.Longitude
	}
	if opts.Zoom != nil {
		fields |= jumpZoom
		zoom = *opts.Zoom
	}
	if opts.Bearing != nil {
		fields |= jumpBearing
		bearing = *opts.Bearing
	}
	if opts.Pitch != nil {
		fields |= jumpPitch
		pitch = *opts.Pitch
	}
	mbglMapJumpTo(e.handle, fields, lat, lon, zoom, bearing, pitch)
}

func (e *nativeEngine) LoadStyle(styleJSON string) error {
	var buf [errBufSize]byte
	if rc := mbglStyleLoadJSON(e.handle, styleJSON, &buf[0], errBufSize); rc != 0 {
		return errors.New(cString(buf[:]))
	}
	return nil
}

func (e *nativeEngine) RenderStill(done func(error)) {
	e.pending = done
	mbglMapRenderStill(e.handle, e.id, renderStillCallback)
}

func (e *nativeEngine) LatLngForPixel(p ScreenCoordinate) LatLng {
	var out [2]float64
	mbglMapLatLngForPixel(e.handle, p.X, p.Y, &out[0])
	return LatLng{Latitude: out[0], Longitude: out[1]}
}

func (e *nativeEngine) PixelForLatLng(ll LatLng) ScreenCoordinate {
	var out [2]float64
	mbglMapPixelForLatLng(e.handle, ll.Latitude, ll.Longitude, &out[0])
	return ScreenCoordinate{X: out[0], Y: out[1]}
}

func (e *nativeEngine) Close() {
	if e.handle == 0 {
		return
	}
	mbglMapDestroy(e.handle)
	e.handle = 0
	unregisterNative(e.id)
}

// Maps reachable from the C trampolines, keyed by the context id handed to
// the bridge.
var (
	nativeMu   sync.Mutex
	nativeNext uintptr
	nativeMaps = map[uintptr]*nativeEngine{}
)

func registerNative(e *nativeEngine) uintptr {
	nativeMu.Lock()
	defer nativeMu.Unlock()
	nativeNext++
	nativeMaps[nativeNext] = e
	return nativeNext
}

func unregisterNative(id uintptr) {
	nativeMu.Lock()
	delete(nativeMaps, id)
	nativeMu.Unlock()
}

func lookupNative(id uintptr) *nativeEngine {
	nativeMu.Lock()
	defer nativeMu.Unlock()
	return nativeMaps[id]
}

func onFrontendEvent(ctx, event uintptr) uintptr {
	e := lookupNative(ctx)
	if e == nil {
		return 0
	}
	switch event {
	case frontendRenderBegin:
		e.frontend.BeginRender()
	case frontendRenderEnd:
		e.frontend.EndRender()
	case frontendUpdate:
		e.frontend.Update()
	case frontendReset:
		e.frontend.Reset()
	}
	return 0
}

func onObserverEvent(ctx, event, arg, msg uintptr) uintptr {
	e := lookupNative(ctx)
	if e == nil {
		return 1
	}
	return dispatchObserver(e.observer, event, arg, goString(msg))
}

// dispatchObserver maps a bridge observer event onto o. The return value is
// only meaningful for observerCanRemoveUnusedStyleImage.
func dispatchObserver(o Observer, event, arg uintptr, msg string) uintptr {
	switch event {
	case observerCameraWillChange:
		o.OnCameraWillChange(CameraChangeMode(arg))
	case observerCameraIsChanging:
		o.OnCameraIsChanging()
	case observerCameraDidChange:
		o.OnCameraDidChange(CameraChangeMode(arg))
	case observerWillStartLoadingMap:
		o.OnWillStartLoadingMap()
	case observerDidFinishLoadingMap:
		o.OnDidFinishLoadingMap()
	case observerDidFailLoadingMap:
		o.OnDidFailLoadingMap(MapLoadError(arg), msg)
	case observerWillStartRenderingFrame:
		o.OnWillStartRenderingFrame()
	case observerDidFinishRenderingFrame:
		// bit 0: full render, bit 1: needs repaint
		o.OnDidFinishRenderingFrame(RenderMode(arg&1), arg&2 != 0)
	case observerWillStartRenderingMap:
		o.OnWillStartRenderingMap()
	case observerDidFinishRenderingMap:
		o.OnDidFinishRenderingMap(RenderMode(arg))
	case observerDidFinishLoadingStyle:
		o.OnDidFinishLoadingStyle()
	case observerSourceChanged:
		o.OnSourceChanged(msg)
	case observerDidBecomeIdle:
		o.OnDidBecomeIdle()
	case observerStyleImageMissing:
		o.OnStyleImageMissing(msg)
	case observerCanRemoveUnusedStyleImage:
		if o.OnCanRemoveUnusedStyleImage(msg) {
			return 1
		}
	}
	return 0
}

func onRenderStill(ctx, errMsg uintptr) uintptr {
	e := lookupNative(ctx)
	if e == nil || e.pending == nil {
		return 0
	}
	done := e.pending
	e.pending = nil
	if errMsg != 0 {
		done(errors.New(goString(errMsg)))
	} else {
		done(nil)
	}
	return 0
}

// cString returns the bytes of buf up to the first NUL.
func cString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
