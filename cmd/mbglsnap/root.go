// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	maplibreui "github.com/YindSoft/maplibre-ebitengine-port"
)

// rootOptions holds global flags.
type rootOptions struct {
	Verbose bool
	Config  string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "mbglsnap",
		Short: "Render MapLibre styles to images",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(l)
			maplibreui.SetLogger(l)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "TOML file with bridge options")

	cmd.AddCommand(newRenderCommand(opts))
	return cmd
}

// loadOptions reads --config if given.
func loadOptions(root *rootOptions) (*maplibreui.Options, error) {
	if root.Config == "" {
		return &maplibreui.Options{}, nil
	}
	return maplibreui.LoadOptions(root.Config)
}
