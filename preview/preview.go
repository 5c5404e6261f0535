// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview provides a display sink which serves the last drawn frame
// over HTTP, either as a single image or as an endless stream.
//
// The stream uses "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG) framing
// which browsers render inline. PNG is used by default as it suits the
// black and white pages; JPEG can be selected via Options.Format or the
// "format" URL parameter.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"periph.io/x/conn/v3/display"
)

// Options for preview sinks.
type Options struct {
	// Width and height of the frame.
	Width, Height int

	// Format streamed to clients not asking for one. Defaults to PNG.
	Format Format
}

// Sink keeps a grayscale copy of the frame and pushes every change to the
// connected stream clients.
type Sink struct {
	defaultFormat Format

	mu       sync.Mutex
	buffer   *image.Gray
	frames   uint64
	updated  time.Time
	clients  map[*client]struct{}
	snapshot map[Format][]byte
}

var _ display.Drawer = (*Sink)(nil)

// New creates a sink showing a blank white frame.
func New(opt *Options) *Sink {
	buffer := image.NewGray(image.Rect(0, 0, opt.Width, opt.Height))
	draw.Draw(buffer, buffer.Bounds(), image.White, image.Point{}, draw.Src)

	format := opt.Format
	if format == "" {
		format = PNG
	}

	return &Sink{
		defaultFormat: format,
		buffer:        buffer,
		clients:       map[*client]struct{}{},
		snapshot:      map[Format][]byte{},
	}
}

// String returns the name of the device.
func (s *Sink) String() string {
	return "preview"
}

// Halt implements conn.Resource and ends all running streams.
func (s *Sink) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}

	return nil
}

// ColorModel implements display.Drawer.
func (s *Sink) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer.
func (s *Sink) Bounds() image.Rectangle {
	return s.buffer.Bounds()
}

// Draw implements display.Drawer.
func (s *Sink) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draw.Draw(s.buffer, dstRect, src, srcPts, draw.Src)
	s.frames++
	s.updated = time.Now()
	clear(s.snapshot)

	for c := range s.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}

	return nil
}

// Stats returns the number of Draw calls and the time of the last one.
func (s *Sink) Stats() (frames uint64, updated time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames, s.updated
}

// Snapshot returns a copy of the current frame.
func (s *Sink) Snapshot() *image.Gray {
	s.mu.Lock()
	defer s.mu.Unlock()

	img := image.NewGray(s.buffer.Bounds())
	copy(img.Pix, s.buffer.Pix)
	return img
}

// encoded returns the current frame in format. The result must not be
// modified.
func (s *Sink) encoded(format Format) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.snapshot[format]; ok {
		return data, nil
	}

	data, err := encode(s.buffer, format)
	if err != nil {
		return nil, err
	}
	s.snapshot[format] = data
	return data, nil
}
