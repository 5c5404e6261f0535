// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package canvas defines the drawing surface the calendar page is rendered
// on, and a raster implementation backed by any draw.Image.
//
// Coordinates are in pixels with the origin at the top-left corner. Corner
// coordinates of lines and rectangles are inclusive.
package canvas

import (
	"fmt"

	"github.com/GermanBionicSystems/epcal/fonts"
)

// Color is one of the two colors of a monochrome e-paper panel.
type Color uint8

const (
	// White is the paper (background) color.
	White Color = iota
	// Black is the ink (foreground) color.
	Black
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	if c == Black {
		return 0, 0, 0, 0xffff
	}
	return 0xffff, 0xffff, 0xffff, 0xffff
}

// Invert returns the other color.
func (c Color) Invert() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// LineStyle selects how a line is plotted.
type LineStyle uint8

const (
	// Solid lines set every pixel.
	Solid LineStyle = iota
	// Dotted lines set every third pixel.
	Dotted
)

func (s LineStyle) String() string {
	switch s {
	case Solid:
		return "Solid"
	case Dotted:
		return "Dotted"
	}
	return fmt.Sprintf("LineStyle(%d)", uint8(s))
}

// Canvas is a mutable drawing surface. Implementations are not safe for
// concurrent use.
type Canvas interface {
	// Clear fills the whole surface with c.
	Clear(c Color)
	// DrawLine draws a one pixel wide line from (x0, y0) to (x1, y1).
	DrawLine(x0, y0, x1, y1 int, c Color, style LineStyle)
	// FillRect fills the rectangle with corners (x0, y0) and (x1, y1).
	FillRect(x0, y0, x1, y1 int, c Color)
	// DrawText draws text with its top-left corner at (x, y). The text box
	// is painted in bg, the glyphs in fg.
	DrawText(x, y int, size fonts.Size, text string, fg, bg Color)
}
