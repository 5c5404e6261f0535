// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package app ties the calendar page to its sinks and keeps it up to date.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/epcal/calendar"
	"github.com/GermanBionicSystems/epcal/canvas"
	"github.com/GermanBionicSystems/epcal/epd"
	"github.com/GermanBionicSystems/epcal/fonts"
)

// Panel is a sink which supports several refresh modes, like an e-paper
// display.
type Panel interface {
	display.Drawer
	SetMode(epd.Mode) error
}

// Options for NewRunner.
type Options struct {
	Page  *calendar.Page
	Fonts *fonts.Set
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	// Interval between updates. Defaults to one minute.
	Interval time.Duration
	// FullEvery is the number of partial refreshes between two full ones.
	// Zero disables partial refreshes.
	FullEvery int
	// Fast selects epd.Fast for full refreshes.
	Fast  bool
	Sinks []display.Drawer
}

// Status describes the last update.
type Status struct {
	Updates uint64
	Last    time.Time
	Fields  calendar.Fields
	Mode    epd.Mode
	Err     error
}

// Runner renders the page into a 1-bit frame and sends it to every sink.
type Runner struct {
	page      *calendar.Page
	clock     clockwork.Clock
	interval  time.Duration
	fullEvery int
	fullMode  epd.Mode
	sinks     []display.Drawer

	frame  *image1bit.VerticalLSB
	canvas *canvas.Raster

	// Refresh bookkeeping, only touched by Update.
	drawn    bool
	lastDate [3]int
	partials int

	mu     sync.Mutex
	status Status
}

// NewRunner returns a Runner. It panics if opts.Page is nil.
func NewRunner(opts *Options) *Runner {
	if opts.Page == nil {
		panic("app: NewRunner without a page")
	}

	l := opts.Page.Layout()
	frame := image1bit.NewVerticalLSB(image.Rect(0, 0, l.Width, l.Height))

	r := &Runner{
		page:      opts.Page,
		clock:     opts.Clock,
		interval:  opts.Interval,
		fullEvery: opts.FullEvery,
		fullMode:  epd.Full,
		sinks:     opts.Sinks,
		frame:     frame,
		canvas:    canvas.NewRaster(frame, opts.Fonts),
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.interval <= 0 {
		r.interval = time.Minute
	}
	if opts.Fast {
		r.fullMode = epd.Fast
	}
	return r
}

// Frame returns the buffer holding the last rendered page.
func (r *Runner) Frame() image.Image {
	return r.frame
}

// Status returns the outcome of the last update.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// mode picks the refresh mode for a page showing f.
func (r *Runner) mode(f calendar.Fields) epd.Mode {
	date := [3]int{f.Year, f.Month, f.Day}
	if !r.drawn || date != r.lastDate || r.fullEvery == 0 || r.partials >= r.fullEvery {
		return r.fullMode
	}
	return epd.Partial
}

// Update renders the page for t and draws it on every sink. A failing sink
// does not keep the others from being updated.
func (r *Runner) Update(t time.Time) error {
	f := calendar.FieldsOf(t.In(r.page.Location()))

	if err := r.page.RenderFields(r.canvas, f); err != nil {
		return r.finish(t, f, 0, err)
	}

	mode := r.mode(f)

	var errs []error
	for _, s := range r.sinks {
		if p, ok := s.(Panel); ok {
			if err := p.SetMode(mode); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", s, err))
				continue
			}
		}
		if err := s.Draw(r.frame.Bounds(), r.frame, image.Point{}); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
		}
	}

	r.drawn = true
	r.lastDate = [3]int{f.Year, f.Month, f.Day}
	if mode == epd.Partial {
		r.partials++
	} else {
		r.partials = 0
	}

	return r.finish(t, f, mode, errors.Join(errs...))
}

func (r *Runner) finish(t time.Time, f calendar.Fields, mode epd.Mode, err error) error {
	r.mu.Lock()
	r.status.Updates++
	r.status.Last = t
	r.status.Fields = f
	r.status.Mode = mode
	r.status.Err = err
	r.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Stringer("fields", f).Msg("page update failed")
	} else {
		log.Info().Stringer("fields", f).Stringer("mode", mode).Msg("page updated")
	}
	return err
}

// next returns the first interval boundary after now.
func (r *Runner) next(now time.Time) time.Time {
	return now.Truncate(r.interval).Add(r.interval)
}

// Run updates the page immediately and then at every interval boundary
// until ctx is done. Update errors are logged and do not stop the loop.
func (r *Runner) Run(ctx context.Context) error {
	now := r.clock.Now()
	_ = r.Update(now)

	for {
		timer := r.clock.NewTimer(r.next(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.Chan():
		}

		now = r.clock.Now()
		_ = r.Update(now)
	}
}
