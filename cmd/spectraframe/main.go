// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command spectraframe drives the picture frame: it renders the current
// image to the e-paper panel, previews it in a terminal, or imports an
// image from a memory card into the local cache.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/spectraframe/spectraframe/battery"
	"github.com/spectraframe/spectraframe/config"
	"github.com/spectraframe/spectraframe/fetch"
	"github.com/spectraframe/spectraframe/frame"
	"github.com/spectraframe/spectraframe/gdep133c02"
	"github.com/spectraframe/spectraframe/store"
	"github.com/spectraframe/spectraframe/termsink"
)

const defaultConfig = "/etc/spectraframe.json"

func main() {
	app := &cli.App{
		Name:    "spectraframe",
		Usage:   "Spectra 6 e-paper picture frame",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				EnvVars: []string{"SPECTRAFRAME_CONFIG"},
				Value:   defaultConfig,
				Usage:   "path to configuration file",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "override the configured image URL",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "override the configured cache directory",
			},
			&cli.Float64Flag{
				Name:  "battery-volts",
				Usage: "pack voltage to show in the corner badge (0 hides it)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "increase verbosity",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "Render the current image to the panel and hibernate",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "spi", Value: "", Usage: "SPI port name"},
					&cli.StringFlag{Name: "dc", Value: "GPIO25", Usage: "data/command pin"},
					&cli.StringFlag{Name: "rst", Value: "GPIO17", Usage: "reset pin"},
					&cli.StringFlag{Name: "cs0", Value: "GPIO8", Usage: "left driver IC chip select"},
					&cli.StringFlag{Name: "cs1", Value: "GPIO7", Usage: "right driver IC chip select"},
					&cli.StringFlag{Name: "busy", Value: "GPIO24", Usage: "busy pin"},
				},
				Action: renderAction,
			},
			{
				Name:  "preview",
				Usage: "Render the current image to the terminal",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "step", Value: 16, Usage: "print every Nth pixel"},
				},
				Action: previewAction,
			},
			{
				Name:      "import",
				Usage:     "Import an image from a mounted card into the cache",
				ArgsUsage: "DIRECTORY",
				Action:    importAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", log.LstdFlags)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if u := c.String("url"); u != "" {
		cfg.ImageURL = u
	}
	if d := c.String("cache-dir"); d != "" {
		cfg.CacheDir = d
	}
	return cfg, nil
}

// newRenderer wires the collaborators around a display.
func newRenderer(c *cli.Context, disp frame.Display, logger *log.Logger) (*frame.Renderer, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	st, err := store.New(cfg.CacheDir, logger)
	if err != nil {
		return nil, err
	}

	r := &frame.Renderer{
		Display: disp,
		Store:   st,
		Fetcher: fetch.New(2*time.Minute, logger),
		Config:  cfg,
		Logger:  logger,
		Overlays: []frame.Overlay{
			{Text: sourceInfo(st, cfg), Corner: frame.BottomLeft},
		},
	}
	if v := c.Float64("battery-volts"); v > 0 {
		r.Overlays = append(r.Overlays, frame.Overlay{
			Text:   battery.Status(v),
			Corner: frame.BottomRight,
		})
	}
	return r, nil
}

// sourceInfo is the bottom-left badge text: where this frame came from.
func sourceInfo(st *store.Store, cfg *config.Config) string {
	if _, ok := st.CachedPath(); ok {
		return "local image"
	}
	if u, err := url.Parse(cfg.ImageURL); err == nil && u.Host != "" {
		return u.Host
	}
	return ""
}

func runRender(c *cli.Context, disp frame.Display, logger *log.Logger) error {
	r, err := newRenderer(c, disp, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	status, err := r.Render(context.Background())
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("render: %v, next wake in %ds", status, r.Config.RefreshSeconds)
	return nil
}

func renderAction(c *cli.Context) error {
	logger := newLogger(c)

	if _, err := host.Init(); err != nil {
		return cli.Exit(err, 1)
	}

	port, err := spireg.Open(c.String("spi"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer port.Close()

	pins := make(map[string]gpio.PinIO, 5)
	for _, name := range []string{"dc", "rst", "cs0", "cs1", "busy"} {
		p := gpioreg.ByName(c.String(name))
		if p == nil {
			return cli.Exit(fmt.Errorf("no such pin %q", c.String(name)), 1)
		}
		pins[name] = p
	}

	disp, err := gdep133c02.New(port,
		pins["dc"], pins["rst"], pins["cs0"], pins["cs1"], pins["busy"],
		&gdep133c02.EPD13in3)
	if err != nil {
		return cli.Exit(err, 1)
	}

	return runRender(c, disp, logger)
}

func previewAction(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	disp := termsink.New(&termsink.Opts{
		Width:      gdep133c02.EPD13in3.Width,
		Height:     gdep133c02.EPD13in3.Height,
		Step:       c.Int("step"),
		Saturation: cfg.Saturation,
	})

	return runRender(c, disp, logger)
}

func importAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowSubcommandHelpAndExit(c, 1)
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	st, err := store.New(cfg.CacheDir, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := st.Import(c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
