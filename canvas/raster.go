// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package canvas

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/GermanBionicSystems/epcal/fonts"
)

// Raster is a Canvas drawing into a draw.Image, typically an
// image1bit.VerticalLSB sized to the panel. Drawing outside the image bounds
// is clipped.
type Raster struct {
	dst   draw.Image
	fonts *fonts.Set
}

// NewRaster returns a Canvas drawing into dst using the faces of fs. A nil
// fs uses fonts.Default.
func NewRaster(dst draw.Image, fs *fonts.Set) *Raster {
	if fs == nil {
		fs = fonts.Default()
	}
	return &Raster{dst: dst, fonts: fs}
}

// Image returns the destination image.
func (r *Raster) Image() draw.Image {
	return r.dst
}

// Clear implements Canvas.
func (r *Raster) Clear(c Color) {
	draw.Draw(r.dst, r.dst.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// DrawLine implements Canvas using Bresenham's algorithm.
func (r *Raster) DrawLine(x0, y0, x1, y1 int, c Color, style LineStyle) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for n := 0; ; n++ {
		if style == Solid || n%3 == 0 {
			r.set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// FillRect implements Canvas.
func (r *Raster) FillRect(x0, y0, x1, y1 int, c Color) {
	draw.Draw(r.dst, inclusiveRect(x0, y0, x1, y1), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// inclusiveRect converts two inclusive corners in any order to a rectangle.
func inclusiveRect(x0, y0, x1, y1 int) image.Rectangle {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return image.Rect(x0, y0, x1+1, y1+1)
}

// DrawText implements Canvas. ASCII runs use the ASCII face of size, other
// runs the wide face; both share one baseline.
func (r *Raster) DrawText(x, y int, size fonts.Size, text string, fg, bg Color) {
	m := r.fonts.Metrics(size)
	dot := fixed.P(x, y+m.Ascent)

	for _, run := range fonts.Split(text) {
		face := r.fonts.Face(size, run.Wide)
		adv := font.MeasureString(face, run.Text)

		box := image.Rect(dot.X.Floor(), y, (dot.X + adv).Ceil(), y+m.Height)
		draw.Draw(r.dst, box, &image.Uniform{C: bg}, image.Point{}, draw.Src)

		d := font.Drawer{
			Dst:  r.dst,
			Src:  &image.Uniform{C: fg},
			Face: face,
			Dot:  dot,
		}
		d.DrawString(run.Text)
		dot = d.Dot
	}
}

func (r *Raster) set(x, y int, c Color) {
	if image.Pt(x, y).In(r.dst.Bounds()) {
		r.dst.Set(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ Canvas = (*Raster)(nil)
