// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epcal shows a month calendar on a 2.13 inch e-paper panel and keeps its
// clock up to date.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/term"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epcal/calendar"
	"github.com/GermanBionicSystems/epcal/epd"
	"github.com/GermanBionicSystems/epcal/fonts"
	"github.com/GermanBionicSystems/epcal/ggcanvas"
	"github.com/GermanBionicSystems/epcal/internal/app"
	"github.com/GermanBionicSystems/epcal/internal/config"
	"github.com/GermanBionicSystems/epcal/internal/logging"
	"github.com/GermanBionicSystems/epcal/preview"
	"github.com/GermanBionicSystems/epcal/termview"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type flags struct {
	config string
	once   bool
	at     uint64
	png    string
	debug  bool
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.config, "config", config.DefaultFile, "path of the TOML configuration file")
	flag.BoolVar(&f.once, "once", false, "draw a single page and exit")
	flag.Uint64Var(&f.at, "at", 0, "Unix timestamp of the page, implies -once; default is now")
	flag.StringVar(&f.png, "png", "", "render the page to this PNG file instead of the sinks")
	flag.BoolVar(&f.debug, "debug", false, "enable debug logging")
	flag.Parse()
	return f
}

func run() error {
	f := parseFlags()
	fs := afero.NewOsFs()

	cfg, closer, err := loadConfig(fs, f.config, f.debug, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	page, err := app.NewPage(cfg)
	if err != nil {
		return err
	}

	fontSet, err := app.LoadFonts(fs, &cfg.Fonts)
	if err != nil {
		return err
	}

	var ts uint32
	if f.at != 0 {
		if f.at > math.MaxUint32 {
			return fmt.Errorf("-at %d does not fit 32 bits", f.at)
		}
		ts = uint32(f.at)
		f.once = true
	}

	if f.png != "" {
		if f.at == 0 {
			ts = uint32(time.Now().Unix())
		}
		return renderPNG(fs, f.png, page, fontSet, ts)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, cleanup, err := openSinks(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var sink *preview.Sink
	if cfg.Preview.Listen != "" && !f.once {
		l := page.Layout()
		sink = preview.New(&preview.Options{Width: l.Width, Height: l.Height})
		sinks = append(sinks, sink)
	}

	if len(sinks) == 0 {
		return errors.New("no display configured")
	}

	r := app.NewRunner(&app.Options{
		Page:      page,
		Fonts:     fontSet,
		Interval:  cfg.Refresh.Interval.Std(),
		FullEvery: cfg.Refresh.FullEvery,
		Fast:      cfg.Refresh.Fast,
		Sinks:     sinks,
	})

	if f.once {
		t := time.Now()
		if f.at != 0 {
			t = time.Unix(int64(ts), 0)
		}
		return r.Update(t)
	}

	var srv *app.Server
	if sink != nil {
		srv = app.NewServer(sink, r)
	}

	log.Info().Str("config", f.config).Stringer("timezone", page.Location()).Msg("epcal started")
	return app.Run(ctx, r, srv, cfg.Preview.Listen)
}

// loadConfig reads the configuration with console logging already in place,
// then applies the configured logging. console defaults to stderr.
func loadConfig(fs afero.Fs, path string, debug bool, console io.Writer) (*config.Values, io.Closer, error) {
	closer, err := logging.Setup(logging.Options{Debug: debug, Console: console})
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(fs, path)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}

	if cfg.Log.Debug || cfg.Log.File != "" {
		_ = closer.Close()
		closer, err = logging.Setup(logging.Options{
			Debug:   debug || cfg.Log.Debug,
			File:    cfg.Log.File,
			Console: console,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	return cfg, closer, nil
}

// renderPNG writes the page for ts to path.
func renderPNG(fs afero.Fs, path string, page *calendar.Page, fontSet *fonts.Set, ts uint32) error {
	l := page.Layout()
	c := ggcanvas.New(l.Width, l.Height, fontSet)
	if err := page.Render(c, ts); err != nil {
		return err
	}

	out, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := c.EncodePNG(out); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	log.Info().Str("path", path).Stringer("fields", calendar.Decompose(ts, page.Location())).Msg("page written")
	return nil
}

// openSinks opens the configured panel and terminal view. The returned
// function puts the panel to sleep and releases the SPI port.
func openSinks(cfg *config.Values) ([]display.Drawer, func(), error) {
	var sinks []display.Drawer
	cleanup := func() {}

	if cfg.Preview.Terminal {
		l := cfg.Layout
		sinks = append(sinks, termview.New(&termview.Opts{
			Width:  l.Width,
			Height: l.Height,
			Scale:  cfg.Preview.TerminalScale,
			Home:   term.IsTerminal(int(os.Stdout.Fd())),
		}))
	}

	if cfg.Display.Driver != config.DriverEPD {
		return sinks, cleanup, nil
	}

	corner, err := app.Corner(cfg.Display.Origin)
	if err != nil {
		return nil, nil, err
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}

	port, err := spireg.Open(cfg.Display.SPIPort)
	if err != nil {
		return nil, nil, err
	}

	opts := epd.EPD2in13
	opts.Origin = corner

	dev, err := epd.NewHat(port, &opts)
	if err != nil {
		_ = port.Close()
		return nil, nil, err
	}
	if err := dev.Init(); err != nil {
		_ = port.Close()
		return nil, nil, err
	}

	log.Info().Stringer("panel", dev).Msg("panel ready")

	cleanup = func() {
		if err := dev.Sleep(); err != nil {
			log.Error().Err(err).Msg("panel sleep failed")
		}
		_ = port.Close()
	}

	return append(sinks, dev), cleanup, nil
}
