// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Example: a MapLibre map drawn inside an Ebiten game. Drag to pan, scroll to
// zoom, press 1-3 to fly between cities.
package main

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	maplibreui "github.com/YindSoft/maplibre-ebitengine-port"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

//go:embed style.json
var styleJSON string

const (
	screenWidth  = 800
	screenHeight = 600
)

type city struct {
	name           string
	lat, lon, zoom float64
}

var cities = []city{
	{"Buenos Aires", -34.6037, -58.3816, 11},
	{"Paris", 48.8566, 2.3522, 12},
	{"Tokyo", 35.6762, 139.6503, 11},
}

type Game struct {
	view *maplibreui.View
	err  error
	city int
}

func findBaseDir() string {
	for _, dir := range []string{".", ".."} {
		for _, name := range []string{"libmbgl_bridge.so", "libmbgl_bridge.dylib", "mbgl_bridge.dll"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}
	}
	return ""
}

// init creates the map on the game thread, where Ebiten's GL context is current.
func (g *Game) init() error {
	m, err := maplibreui.New(screenWidth, screenHeight, &maplibreui.Options{BaseDir: findBaseDir()})
	if err != nil {
		return fmt.Errorf("map: %w", err)
	}
	if !m.SetStyle(styleJSON) {
		m.Close()
		return errors.New("style rejected")
	}
	g.view = maplibreui.NewView(m)
	g.view.Interactive = true
	g.view.SetBounds(0, 0, screenWidth, screenHeight)
	c := cities[0]
	g.view.SetCamera(c.lat, c.lon, c.zoom)
	return nil
}

func (g *Game) Update() error {
	if g.view == nil {
		if err := g.init(); err != nil {
			return err
		}
	}
	for i, key := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3} {
		if inpututil.IsKeyJustPressed(key) {
			g.city = i
			c := cities[i]
			g.view.FlyTo(c.lat, c.lon, c.zoom, 2, ease.InOutQuad)
		}
	}
	return g.view.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.view == nil {
		return
	}
	screen.DrawImage(g.view.GetTexture(), nil)
	lat, lon, zoom := g.view.Camera()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  %s  %.4f, %.4f  z%.2f",
		ebiten.ActualFPS(), cities[g.city].name, lat, lon, zoom))
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	logFile, err := os.Create("logs.log")
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
		maplibreui.SetLogger(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	game := &Game{}
	defer func() {
		if game.view != nil {
			game.view.Close()
		}
	}()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("maplibreui - Ebiten + MapLibre demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	// The bridge draws with GL on the calling thread, so the game loop must run
	// on the main thread with the OpenGL backend.
	if err := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{
		GraphicsLibrary: ebiten.GraphicsLibraryOpenGL,
		SingleThread:    true,
	}); err != nil {
		log.Fatalf("run: %v", err)
	}
}
