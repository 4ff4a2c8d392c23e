// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs routes the package logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestNewReportsRequestedSize(t *testing.T) {
	sizes := []struct{ w, h uint32 }{
		{1, 1},
		{256, 256},
		{800, 600},
		{333, 1024},
		{4096, 2160},
	}
	for _, s := range sizes {
		m, _, _, err := newTestMap(s.w, s.h, nil)
		require.NoError(t, err)
		assert.Equal(t, s.w, m.TextureWidth())
		assert.Equal(t, s.h, m.TextureHeight())
		m.Close()
	}
}

func TestNewConfiguresStillEngine(t *testing.T) {
	m, _, lib, err := newTestMap(300, 200, &Options{CachePath: "/tmp/tiles", PixelRatio: 2})
	require.NoError(t, err)
	defer m.Close()

	require.Len(t, lib.engines, 1)
	cfg := lib.engines[0].cfg
	assert.Equal(t, MapModeStatic, cfg.Mode)
	assert.Equal(t, uint32(300), cfg.Width)
	assert.Equal(t, uint32(200), cfg.Height)
	assert.Equal(t, 2.0, cfg.PixelRatio)
	assert.Equal(t, "/tmp/tiles", cfg.CachePath)
	assert.Equal(t, defaultAssetPath, cfg.AssetPath)
}

func TestNewRejectsZeroSize(t *testing.T) {
	_, g, _, err := newTestMap(0, 128, nil)
	assert.ErrorIs(t, err, ErrInvalidSize)
	fbos, texs := g.live()
	assert.Zero(t, fbos)
	assert.Zero(t, texs)
}

func TestNewEngineFailureReleasesTarget(t *testing.T) {
	g := newFakeGL()
	lib := newFakeLibrary()
	lib.engineErr = errors.New("no context")

	_, err := New(64, 64, &Options{GL: g, Library: lib, Loops: NewRunLoops()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no context")
	fbos, texs := g.live()
	assert.Zero(t, fbos)
	assert.Zero(t, texs)
}

func TestSetStyle(t *testing.T) {
	m, _, lib, err := newTestMap(256, 256, nil)
	require.NoError(t, err)
	defer m.Close()
	logs := captureLogs(t)

	assert.True(t, m.SetStyle(minimalStyle))
	assert.Equal(t, minimalStyle, lib.engines[0].style)

	assert.False(t, m.SetStyle(`{"version": 8, "layers": [`))
	assert.Contains(t, logs.String(), "failed to load style")

	assert.False(t, m.SetStyle(""))
	assert.True(t, m.SetStyle(minimalStyle), "a later valid style still loads")
}

func TestSetStyleObserverFailure(t *testing.T) {
	m, _, _, err := newTestMap(256, 256, nil)
	require.NoError(t, err)
	defer m.Close()
	logs := captureLogs(t)

	assert.False(t, m.SetStyle(`{"version": 7}`))
	assert.Contains(t, logs.String(), "unsupported version 7")

	// The failure is consumed and does not leak into the next load.
	assert.True(t, m.SetStyle(minimalStyle))
}

func TestRenderBeforeStyle(t *testing.T) {
	m, g, lib, err := newTestMap(128, 128, nil)
	require.NoError(t, err)
	defer m.Close()

	assert.True(t, m.RenderFrame())
	assert.NotZero(t, m.TextureID())
	assert.Equal(t, 1, lib.engines[0].renders)
	assert.Zero(t, g.bound, "default framebuffer restored after render")
	assert.Equal(t, [4]int32{0, 0, 128, 128}, g.viewport)
}

func TestRenderPumpsRunLoop(t *testing.T) {
	m, _, lib, err := newTestMap(64, 64, nil)
	require.NoError(t, err)
	defer m.Close()

	require.True(t, m.RenderFrame())
	require.True(t, m.RenderFrame())
	loop := lib.loops[0]
	assert.GreaterOrEqual(t, loop.runs, 2)
	assert.Empty(t, loop.tasks)
}

func TestRenderFailure(t *testing.T) {
	m, g, lib, err := newTestMap(64, 64, nil)
	require.NoError(t, err)
	defer m.Close()
	logs := captureLogs(t)

	lib.engines[0].renderErr = errors.New("glyphs unavailable")
	assert.False(t, m.RenderFrame())
	assert.Contains(t, logs.String(), "glyphs unavailable")
	assert.Zero(t, g.bound)

	lib.engines[0].renderErr = nil
	assert.True(t, m.RenderFrame())
}

func TestRenderFailureMidDrawDeactivatesTarget(t *testing.T) {
	m, g, lib, err := newTestMap(64, 64, nil)
	require.NoError(t, err)
	defer m.Close()

	lib.engines[0].abortMidRender = true
	assert.False(t, m.RenderFrame())
	assert.False(t, m.target.Active())
	assert.Zero(t, g.bound)
}

func TestRenderTimeout(t *testing.T) {
	m, _, lib, err := newTestMap(64, 64, &Options{RenderTimeout: 20 * time.Millisecond})
	require.NoError(t, err)
	defer m.Close()
	logs := captureLogs(t)

	lib.engines[0].hang = true
	start := time.Now()
	assert.False(t, m.RenderFrame())
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Contains(t, logs.String(), ErrRenderTimeout.Error())
}

func TestCameraJumpsOnlyTouchGivenFields(t *testing.T) {
	m, _, lib, err := newTestMap(256, 256, nil)
	require.NoError(t, err)
	defer m.Close()
	e := lib.engines[0]

	m.SetBearing(45)
	m.SetPitch(30)
	m.SetCamera(10, 20, 5)

	require.Len(t, e.jumps, 3)
	assert.Nil(t, e.jumps[0].Center)
	assert.Nil(t, e.jumps[0].Zoom)
	assert.Nil(t, e.jumps[0].Pitch)
	assert.Nil(t, e.jumps[1].Bearing)
	assert.Nil(t, e.jumps[2].Bearing)
	assert.Nil(t, e.jumps[2].Pitch)

	assert.Equal(t, LatLng{Latitude: 10, Longitude: 20}, e.center)
	assert.Equal(t, 5.0, e.zoom)
	assert.Equal(t, 45.0, e.bearing)
	assert.Equal(t, 30.0, e.pitch)
}

func TestProjectionRoundTrip(t *testing.T) {
	const w, h = 512, 384
	m, _, _, err := newTestMap(w, h, nil)
	require.NoError(t, err)
	defer m.Close()

	cameras := []struct{ lat, lon, zoom float64 }{
		{0, 0, 2},
		{48.8566, 2.3522, 11},
		{-34.6037, -58.3816, 14.5},
	}
	for _, c := range cameras {
		m.SetCamera(c.lat, c.lon, c.zoom)
		lat, lon := m.ScreenToGeographic(w/2, h/2)
		assert.InDelta(t, c.lat, lat, 1e-6)
		assert.InDelta(t, c.lon, lon, 1e-6)

		x, y := m.GeographicToScreen(lat, lon)
		assert.InDelta(t, w/2, x, 0.5)
		assert.InDelta(t, h/2, y, 0.5)

		lat, lon = m.ScreenToGeographic(10, 300)
		x, y = m.GeographicToScreen(lat, lon)
		assert.InDelta(t, 10, x, 0.5)
		assert.InDelta(t, 300, y, 0.5)
	}
}

func TestProjectionWithoutEngine(t *testing.T) {
	m := &Map{target: NewOffscreenTarget(newFakeGL(), 8, 8)}
	lat, lon := m.ScreenToGeographic(4, 4)
	assert.Zero(t, lat)
	assert.Zero(t, lon)
	x, y := m.GeographicToScreen(51.5, -0.12)
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.False(t, m.SetStyle(minimalStyle))
	assert.False(t, m.RenderFrame())
}

func TestLifecycleReleasesResources(t *testing.T) {
	m, g, lib, err := newTestMap(256, 256, nil)
	require.NoError(t, err)

	fbos, texs := g.live()
	assert.Equal(t, 1, fbos)
	assert.Equal(t, 1, texs)

	m.SetCamera(0, 0, 2)
	assert.True(t, m.RenderFrame())
	m.Close()

	fbos, texs = g.live()
	assert.Zero(t, fbos)
	assert.Zero(t, texs)
	assert.True(t, lib.engines[0].closed)
	assert.Zero(t, m.TextureID())

	m.Close()
	fbos, texs = g.live()
	assert.Zero(t, fbos)
	assert.Zero(t, texs)
}

func TestIncompleteFramebuffer(t *testing.T) {
	logs := captureLogs(t)
	g := newFakeGL()
	g.incomplete = true

	m, _, _, err := newTestMap(64, 64, &Options{GL: g})
	require.NoError(t, err, "construction still succeeds")
	assert.Zero(t, m.TextureID())
	assert.Equal(t, uint32(64), m.TextureWidth())
	assert.Contains(t, logs.String(), "offscreen framebuffer not complete")
	assert.False(t, m.ReadPixels(make([]byte, 64*64*4)))

	m.Close()
	fbos, texs := g.live()
	assert.Zero(t, fbos)
	assert.Zero(t, texs)
}

func TestReadPixels(t *testing.T) {
	g := newFakeGL()
	g.fill = func(dst []byte) {
		// bottom row first: row 0 of GL is the bottom of the image
		for i := range dst {
			dst[i] = byte(i / (2 * 4))
		}
	}
	m, _, _, err := newTestMap(2, 3, &Options{GL: g})
	require.NoError(t, err)
	defer m.Close()

	dst := make([]byte, 2*3*4)
	require.True(t, m.ReadPixels(dst))
	assert.Equal(t, byte(2), dst[0], "top row comes from the last GL row")
	assert.Equal(t, byte(0), dst[len(dst)-1])
	assert.Zero(t, g.bound)

	assert.False(t, m.ReadPixels(make([]byte, 4)), "short buffer")
}

func TestAssetsInstalledOnNew(t *testing.T) {
	dir := t.TempDir()
	fsys := assetFS()
	m, _, _, err := newTestMap(32, 32, &Options{AssetPath: dir, Assets: fsys})
	require.NoError(t, err)
	defer m.Close()
	assert.FileExists(t, dir+"/sprites/sprite.json")
}
