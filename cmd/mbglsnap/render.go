// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	maplibreui "github.com/YindSoft/maplibre-ebitengine-port"
)

// renderOptions holds flags for the render command.
type renderOptions struct {
	*rootOptions
	Style   string
	Out     string
	Width   uint32
	Height  uint32
	Lat     float64
	Lon     float64
	Zoom    float64
	Bearing float64
	Pitch   float64
}

func newRenderCommand(root *rootOptions) *cobra.Command {
	opts := &renderOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one still frame",
		Long: `Render one still frame of a style and write it as PNG.

Example:
  mbglsnap render --style style.json --lat 48.8566 --lon 2.3522 --zoom 11 --out paris.png
  mbglsnap render --config bridge.toml --style style.json --pitch 45 --bearing 30`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Style, "style", "", "style JSON file (required)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "map.png", "output PNG")
	cmd.Flags().Uint32Var(&opts.Width, "width", 512, "image width in pixels")
	cmd.Flags().Uint32Var(&opts.Height, "height", 512, "image height in pixels")
	cmd.Flags().Float64Var(&opts.Lat, "lat", 0, "center latitude")
	cmd.Flags().Float64Var(&opts.Lon, "lon", 0, "center longitude")
	cmd.Flags().Float64Var(&opts.Zoom, "zoom", 1, "zoom level")
	cmd.Flags().Float64Var(&opts.Bearing, "bearing", 0, "bearing in degrees")
	cmd.Flags().Float64Var(&opts.Pitch, "pitch", 0, "pitch in degrees")
	_ = cmd.MarkFlagRequired("style")

	return cmd
}

func runRender(opts *renderOptions) error {
	bridgeOpts, err := loadOptions(opts.rootOptions)
	if err != nil {
		return err
	}
	style, err := os.ReadFile(opts.Style)
	if err != nil {
		return fmt.Errorf("reading style: %w", err)
	}

	win, err := headlessContext()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer win.Destroy()

	m, err := maplibreui.New(opts.Width, opts.Height, bridgeOpts)
	if err != nil {
		return err
	}
	defer m.Close()

	if !m.SetStyle(string(style)) {
		return errors.New("style rejected by engine")
	}
	m.SetCamera(opts.Lat, opts.Lon, opts.Zoom)
	m.SetBearing(opts.Bearing)
	m.SetPitch(opts.Pitch)
	if !m.RenderFrame() {
		return errors.New("render failed")
	}

	img := image.NewRGBA(image.Rect(0, 0, int(opts.Width), int(opts.Height)))
	if !m.ReadPixels(img.Pix) {
		return errors.New("reading pixels failed")
	}
	if err := writePNG(opts.Out, img); err != nil {
		return err
	}
	slog.Info("wrote image", "path", opts.Out, "width", opts.Width, "height", opts.Height)
	return nil
}

// headlessContext makes a GL 3.3 core context current through a hidden window.
func headlessContext() (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	win, err := glfw.CreateWindow(16, 16, "mbglsnap", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating hidden window: %w", err)
	}
	win.MakeContextCurrent()
	return win, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
