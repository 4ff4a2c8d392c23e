// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	wheelZoomStep = 0.25
	minZoom       = 0
	maxZoom       = 22
)

// flight animates the camera by issuing one camera jump per Update.
type flight struct {
	lat, lon, zoom *gween.Tween
}

// View shows a Map as an Ebiten texture. The map is rendered every Update
// and read back into the image, so the Map's GL context has to be current
// on the thread running the game loop.
type View struct {
	m       *Map
	texture *ebiten.Image
	pixels  []byte

	width  int
	height int

	// Bounds in screen coordinates for input routing, as in SetBounds.
	BoundsX, BoundsY, BoundsW, BoundsH int

	// Interactive enables drag-to-pan and wheel zoom inside Bounds.
	Interactive bool

	lat, lon, zoom float64
	dragging       bool
	anchor         LatLng
	flight         *flight

	closed bool
}

// NewView wraps m. The View owns m and closes it in Close.
func NewView(m *Map) *View {
	w, h := int(m.TextureWidth()), int(m.TextureHeight())
	return &View{
		m:       m,
		texture: ebiten.NewImage(w, h),
		pixels:  make([]byte, w*h*4),
		width:   w,
		height:  h,
	}
}

// Map returns the wrapped map.
func (v *View) Map() *Map {
	return v.m
}

// SetBounds sets the screen rectangle the view is drawn at. Use (0,0,0,0)
// to accept input anywhere.
func (v *View) SetBounds(x, y, w, h int) {
	v.BoundsX, v.BoundsY, v.BoundsW, v.BoundsH = x, y, w, h
}

// SetCamera jumps immediately and cancels any running FlyTo.
func (v *View) SetCamera(latitude, longitude, zoom float64) {
	v.flight = nil
	v.jump(latitude, longitude, zoom)
}

// Camera returns the center and zoom last issued by this view.
func (v *View) Camera() (latitude, longitude, zoom float64) {
	return v.lat, v.lon, v.zoom
}

// FlyTo animates center and zoom over duration seconds. A nil easeFn means
// ease.OutCubic.
func (v *View) FlyTo(latitude, longitude, zoom float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	v.flight = &flight{
		lat:  gween.New(float32(v.lat), float32(latitude), duration, easeFn),
		lon:  gween.New(float32(v.lon), float32(longitude), duration, easeFn),
		zoom: gween.New(float32(v.zoom), float32(zoom), duration, easeFn),
	}
}

// Flying reports whether a FlyTo is in progress.
func (v *View) Flying() bool {
	return v.flight != nil
}

func (v *View) jump(latitude, longitude, zoom float64) {
	v.lat, v.lon, v.zoom = latitude, longitude, zoom
	v.m.SetCamera(latitude, longitude, zoom)
}

// advance steps a running flight by dt seconds.
func (v *View) advance(dt float32) {
	f := v.flight
	if f == nil {
		return
	}
	lat, doneLat := f.lat.Update(dt)
	lon, doneLon := f.lon.Update(dt)
	zoom, doneZoom := f.zoom.Update(dt)
	v.jump(float64(lat), float64(lon), float64(zoom))
	if doneLat && doneLon && doneZoom {
		v.flight = nil
	}
}

// Update should be called every frame from the game's Update. It advances
// camera animation, handles input, renders the map and copies it into the
// texture.
func (v *View) Update() error {
	if v.closed {
		return nil
	}
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	v.advance(1 / float32(tps))
	if v.Interactive {
		v.forwardInput()
	}
	if v.m.RenderFrame() {
		v.copyPixels()
	}
	return nil
}

func (v *View) inBounds(mx, my int) bool {
	if v.BoundsW <= 0 || v.BoundsH <= 0 {
		return true
	}
	return mx >= v.BoundsX && mx < v.BoundsX+v.BoundsW &&
		my >= v.BoundsY && my < v.BoundsY+v.BoundsH
}

// local converts a cursor position to texture pixels.
func (v *View) local(mx, my int) (float64, float64) {
	if v.BoundsW <= 0 {
		return float64(mx), float64(my)
	}
	return float64(mx - v.BoundsX), float64(my - v.BoundsY)
}

func (v *View) forwardInput() {
	mx, my := ebiten.CursorPosition()
	x, y := v.local(mx, my)

	if v.inBounds(mx, my) && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.flight = nil
		v.dragging = true
		v.anchor.Latitude, v.anchor.Longitude = v.m.ScreenToGeographic(x, y)
	}
	if v.dragging {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			v.dragging = false
		} else {
			v.panTo(x, y)
		}
	}

	if !v.inBounds(mx, my) {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		zoom := v.zoom + dy*wheelZoomStep
		zoom = min(max(zoom, minZoom), maxZoom)
		v.flight = nil
		v.jump(v.lat, v.lon, zoom)
	}
}

// panTo moves the center so the drag anchor sits under pixel (x, y).
func (v *View) panTo(x, y float64) {
	lat, lon := v.m.ScreenToGeographic(x, y)
	v.jump(v.lat+v.anchor.Latitude-lat, v.lon+v.anchor.Longitude-lon, v.zoom)
}

func (v *View) copyPixels() {
	if !v.m.ReadPixels(v.pixels) {
		return
	}
	v.texture.WritePixels(v.pixels)
}

// GetTexture returns the Ebiten image holding the last rendered frame.
func (v *View) GetTexture() *ebiten.Image {
	return v.texture
}

// Close releases the map and the texture. The View must not be used
// afterwards.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.m.Close()
	v.texture.Deallocate()
}
