// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// fakeGL tracks live GL objects so tests can check for leaks.
type fakeGL struct {
	next         uint32
	textures     map[uint32]bool
	framebuffers map[uint32]bool
	bound        uint32
	viewport     [4]int32
	incomplete   bool
	fill         func(dst []byte) // fills ReadPixels output
}

func newFakeGL() *fakeGL {
	return &fakeGL{textures: map[uint32]bool{}, framebuffers: map[uint32]bool{}}
}

func (g *fakeGL) GenFramebuffer() uint32 {
	g.next++
	g.framebuffers[g.next] = true
	return g.next
}

func (g *fakeGL) GenTexture() uint32 {
	g.next++
	g.textures[g.next] = true
	return g.next
}

func (g *fakeGL) AllocTexture(uint32, int32, int32) {}

func (g *fakeGL) AttachColor(fbo, tex uint32) bool {
	return !g.incomplete && g.framebuffers[fbo] && g.textures[tex]
}

func (g *fakeGL) BindFramebuffer(fbo uint32) { g.bound = fbo }

func (g *fakeGL) Viewport(x, y, w, h int32) { g.viewport = [4]int32{x, y, w, h} }

func (g *fakeGL) ReadPixels(width, height int32, dst []byte) {
	if g.fill != nil {
		g.fill(dst[:int(width)*int(height)*4])
	}
}

func (g *fakeGL) DeleteTexture(tex uint32) { delete(g.textures, tex) }

func (g *fakeGL) DeleteFramebuffer(fbo uint32) { delete(g.framebuffers, fbo) }

func (g *fakeGL) live() (framebuffers, textures int) {
	return len(g.framebuffers), len(g.textures)
}

// fakeLoop runs posted tasks on RunOnce.
type fakeLoop struct {
	tasks []func()
	runs  int
}

func (l *fakeLoop) post(f func()) { l.tasks = append(l.tasks, f) }

func (l *fakeLoop) RunOnce() {
	l.runs++
	tasks := l.tasks
	l.tasks = nil
	for _, f := range tasks {
		f()
	}
}

// fakeLibrary simulates per-thread run loops with an explicit thread id.
type fakeLibrary struct {
	thread    int
	loops     map[int]*fakeLoop
	engines   []*fakeEngine
	engineErr error
	// configure runs on every new engine before it is returned.
	configure func(*fakeEngine)
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{loops: map[int]*fakeLoop{}}
}

func (l *fakeLibrary) CurrentRunLoop() RunLoop {
	if loop, ok := l.loops[l.thread]; ok {
		return loop
	}
	return nil
}

func (l *fakeLibrary) NewRunLoop() RunLoop {
	loop := &fakeLoop{}
	l.loops[l.thread] = loop
	return loop
}

func (l *fakeLibrary) NewEngine(cfg EngineConfig, frontend Frontend, observer Observer) (Engine, error) {
	if l.engineErr != nil {
		return nil, l.engineErr
	}
	e := &fakeEngine{
		cfg:      cfg,
		frontend: frontend,
		observer: observer,
		loop:     l.loops[l.thread],
	}
	if l.configure != nil {
		l.configure(e)
	}
	l.engines = append(l.engines, e)
	return e, nil
}

// fakeEngine keeps a camera and projects with plain Web Mercator, ignoring
// bearing and pitch.
type fakeEngine struct {
	cfg      EngineConfig
	frontend Frontend
	observer Observer
	loop     *fakeLoop

	center               LatLng
	zoom, bearing, pitch float64
	jumps                []CameraOptions
	style                string
	renders              int
	renderErr            error
	hang                 bool // never complete renders
	abortMidRender       bool // fail between BeginRender and EndRender
	closed               bool
}

func (e *fakeEngine) JumpTo(opts CameraOptions) {
	e.jumps = append(e.jumps, opts)
	if opts.Center != nil {
		e.center = *opts.Center
	}
	if opts.Zoom != nil {
		e.zoom = *opts.Zoom
	}
	if opts.Bearing != nil {
		e.bearing = *opts.Bearing
	}
	if opts.Pitch != nil {
		e.pitch = *opts.Pitch
	}
}

func (e *fakeEngine) LoadStyle(styleJSON string) error {
	var doc struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal([]byte(styleJSON), &doc); err != nil {
		return fmt.Errorf("style parse: %w", err)
	}
	if doc.Version != 8 {
		e.observer.OnDidFailLoadingMap(StyleParseError, fmt.Sprintf("unsupported version %d", doc.Version))
		return nil
	}
	e.style = styleJSON
	return nil
}

func (e *fakeEngine) RenderStill(done func(error)) {
	if e.hang {
		return
	}
	e.loop.post(func() {
		e.renders++
		e.frontend.BeginRender()
		if e.abortMidRender {
			done(errors.New("context lost"))
			return
		}
		e.frontend.EndRender()
		done(e.renderErr)
	})
}

func (e *fakeEngine) worldSize() float64 {
	return 512 * math.Exp2(e.zoom)
}

func (e *fakeEngine) project(ll LatLng) (float64, float64) {
	ws := e.worldSize()
	x := (ll.Longitude + 180) / 360 * ws
	phi := ll.Latitude * math.Pi / 180
	y := (1 - math.Log(math.Tan(phi/2+math.Pi/4))/math.Pi) / 2 * ws
	return x, y
}

func (e *fakeEngine) PixelForLatLng(ll LatLng) ScreenCoordinate {
	x, y := e.project(ll)
	cx, cy := e.project(e.center)
	return ScreenCoordinate{
		X: x - cx + float64(e.cfg.Width)/2,
		Y: y - cy + float64(e.cfg.Height)/2,
	}
}

func (e *fakeEngine) LatLngForPixel(p ScreenCoordinate) LatLng {
	ws := e.worldSize()
	cx, cy := e.project(e.center)
	x := p.X - float64(e.cfg.Width)/2 + cx
	y := p.Y - float64(e.cfg.Height)/2 + cy
	lon := x/ws*360 - 180
	n := math.Pi * (1 - 2*y/ws)
	lat := math.Atan(math.Sinh(n)) * 180 / math.Pi
	return LatLng{Latitude: lat, Longitude: lon}
}

func (e *fakeEngine) Close() { e.closed = true }

const minimalStyle = `{"version": 8, "sources": {}, "layers": []}`

// newTestMap builds a Map on fakes with its own run loop context.
func newTestMap(width, height uint32, opts *Options) (*Map, *fakeGL, *fakeLibrary, error) {
	g := newFakeGL()
	lib := newFakeLibrary()
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.GL == nil {
		o.GL = g
	}
	if o.Library == nil {
		o.Library = lib
	}
	if o.Loops == nil {
		o.Loops = NewRunLoops()
	}
	m, err := New(width, height, &o)
	return m, g, lib, err
}
