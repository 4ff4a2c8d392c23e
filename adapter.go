// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import "fmt"

// CameraChangeMode tells whether a camera change is animated.
type CameraChangeMode int32

const (
	CameraChangeImmediate CameraChangeMode = iota
	CameraChangeAnimated
)

// RenderMode distinguishes partial from fully loaded renders.
type RenderMode int32

const (
	RenderModePartial RenderMode = iota
	RenderModeFull
)

// MapLoadError classifies engine load failures.
type MapLoadError int32

const (
	StyleParseError MapLoadError = iota
	StyleLoadError
	NotFoundError
	UnknownError
)

func (e MapLoadError) String() string {
	switch e {
	case StyleParseError:
		return "style parse error"
	case StyleLoadError:
		return "style load error"
	case NotFoundError:
		return "not found"
	default:
		return "unknown error"
	}
}

// Observer receives the engine's lifecycle notifications. Embed NopObserver
// and override only the hooks you need.
type Observer interface {
	OnCameraWillChange(mode CameraChangeMode)
	OnCameraIsChanging()
	OnCameraDidChange(mode CameraChangeMode)
	OnWillStartLoadingMap()
	OnDidFinishLoadingMap()
	OnDidFailLoadingMap(kind MapLoadError, msg string)
	OnWillStartRenderingFrame()
	OnDidFinishRenderingFrame(mode RenderMode, needsRepaint bool)
	OnWillStartRenderingMap()
	OnDidFinishRenderingMap(mode RenderMode)
	OnDidFinishLoadingStyle()
	OnSourceChanged(sourceID string)
	OnDidBecomeIdle()
	OnStyleImageMissing(imageID string)
	OnCanRemoveUnusedStyleImage(imageID string) bool
}

// NopObserver ignores every notification. Unused style images are always
// reported as removable.
type NopObserver struct{}

func (NopObserver) OnCameraWillChange(CameraChangeMode)        {}
func (NopObserver) OnCameraIsChanging()                        {}
func (NopObserver) OnCameraDidChange(CameraChangeMode)         {}
func (NopObserver) OnWillStartLoadingMap()                     {}
func (NopObserver) OnDidFinishLoadingMap()                     {}
func (NopObserver) OnDidFailLoadingMap(MapLoadError, string)   {}
func (NopObserver) OnWillStartRenderingFrame()                 {}
func (NopObserver) OnDidFinishRenderingFrame(RenderMode, bool) {}
func (NopObserver) OnWillStartRenderingMap()                   {}
func (NopObserver) OnDidFinishRenderingMap(RenderMode)         {}
func (NopObserver) OnDidFinishLoadingStyle()                   {}
func (NopObserver) OnSourceChanged(string)                     {}
func (NopObserver) OnDidBecomeIdle()                           {}
func (NopObserver) OnStyleImageMissing(string)                 {}
func (NopObserver) OnCanRemoveUnusedStyleImage(string) bool    { return true }

// mapObserver keeps the most recent load failure so SetStyle can turn it into
// a failed result.
type mapObserver struct {
	NopObserver
	loadErr error
}

func (o *mapObserver) OnDidFailLoadingMap(kind MapLoadError, msg string) {
	o.loadErr = fmt.Errorf("%s: %s", kind, msg)
	Logger().Warn("map load failed", "kind", kind.String(), "msg", msg)
}

// takeLoadErr returns and clears the recorded failure.
func (o *mapObserver) takeLoadErr() error {
	err := o.loadErr
	o.loadErr = nil
	return err
}

// Frontend is the engine's render driver. The engine brackets each draw
// with BeginRender and EndRender.
type Frontend interface {
	BeginRender()
	EndRender()
	Update()
	Reset()
}

// targetFrontend binds the offscreen target around engine draws. Every
// render is a full still render, so update and reset are ignored.
type targetFrontend struct {
	target *OffscreenTarget
}

func (f *targetFrontend) BeginRender() { f.target.Activate() }
func (f *targetFrontend) EndRender()   { f.target.Deactivate() }
func (f *targetFrontend) Update()      {}
func (f *targetFrontend) Reset()       {}
