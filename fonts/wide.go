// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fonts

import (
	"image"
	"image/draw"

	"golang.org/x/image/font/basicfont"
)

const (
	wideSize    = 12
	wideAscent  = 10
	wideDescent = wideSize - wideAscent
)

// wideGlyphs holds 12x12 bitmaps for the wide runes needed by the page.
// '#' marks a set pixel. Row 10 is the first row below the baseline.
var wideGlyphs = []struct {
	r    rune
	rows [wideSize]string
}{
	{'日', [wideSize]string{
		"..#######...",
		"..#.....#...",
		"..#.....#...",
		"..#.....#...",
		"..#######...",
		"..#.....#...",
		"..#.....#...",
		"..#.....#...",
		"..#######...",
		"..#.....#...",
		"............",
		"............",
	}},
	{'一', [wideSize]string{
		"............",
		"............",
		"............",
		"............",
		"............",
		".##########.",
		"............",
		"............",
		"............",
		"............",
		"............",
		"............",
	}},
	{'二', [wideSize]string{
		"............",
		"............",
		"..########..",
		"............",
		"............",
		"............",
		"............",
		"............",
		".##########.",
		"............",
		"............",
		"............",
	}},
	{'三', [wideSize]string{
		"............",
		"..########..",
		"............",
		"............",
		"............",
		"...######...",
		"............",
		"............",
		"............",
		".##########.",
		"............",
		"............",
	}},
	{'四', [wideSize]string{
		"............",
		".##########.",
		".#..#..#..#.",
		".#..#..#..#.",
		".#..#..#..#.",
		".#.#...#..#.",
		".##.....###.",
		".#........#.",
		".#........#.",
		".##########.",
		"............",
		"............",
	}},
	{'五', [wideSize]string{
		"............",
		".##########.",
		".....#......",
		".....#......",
		"..#######...",
		".....#..#...",
		"....#...#...",
		"....#...#...",
		"...#....#...",
		".##########.",
		"............",
		"............",
	}},
	{'六', [wideSize]string{
		".....#......",
		"......#.....",
		"............",
		".##########.",
		"............",
		"...#....#...",
		"...#.....#..",
		"..#......#..",
		".#........#.",
		"............",
		"............",
		"............",
	}},
	{'年', [wideSize]string{
		"...#........",
		"..#########.",
		".#....#.....",
		"......#.....",
		"..########..",
		"..#...#.....",
		"..#...#.....",
		".##########.",
		"......#.....",
		"......#.....",
		"......#.....",
		"............",
	}},
	{'月', [wideSize]string{
		"..########..",
		"..#......#..",
		"..#......#..",
		"..########..",
		"..#......#..",
		"..#......#..",
		"..########..",
		".#.......#..",
		".#.......#..",
		"#.......##..",
		"............",
		"............",
	}},
}

// Wide12 is a 12x12 bitmap face covering the CJK runes drawn on the
// calendar page: the weekday labels and the year/month markers of the title.
// Runes it does not cover are not drawn.
var Wide12 = newWideFace()

func newWideFace() *basicfont.Face {
	mask := image.NewAlpha(image.Rect(0, 0, wideSize, wideSize*len(wideGlyphs)))
	ranges := make([]basicfont.Range, 0, len(wideGlyphs))

	for i, g := range wideGlyphs {
		for y, row := range g.rows {
			for x := 0; x < len(row); x++ {
				if row[x] == '#' {
					mask.Pix[mask.PixOffset(x, i*wideSize+y)] = 0xff
				}
			}
		}
		ranges = append(ranges, basicfont.Range{Low: g.r, High: g.r + 1, Offset: i})
	}

	return &basicfont.Face{
		Advance: wideSize,
		Width:   wideSize,
		Height:  wideSize,
		Ascent:  wideAscent,
		Descent: wideDescent,
		Mask:    mask,
		Ranges:  ranges,
	}
}

// Compact7x11 is basicfont.Face7x13 with the top row and the last descender
// row removed. Digits are unaffected; it fits inside a 12 pixel grid cell.
var Compact7x11 = trim(basicfont.Face7x13, 1, 1)

// trim returns a copy of src whose glyph cells lose top rows above the
// ascent and bottom rows below the descent.
func trim(src *basicfont.Face, top, bottom int) *basicfont.Face {
	pitch := src.Ascent + src.Descent
	b := src.Mask.Bounds()
	n := b.Dy() / pitch
	newPitch := pitch - top - bottom

	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), n*newPitch))
	for i := 0; i < n; i++ {
		dst := image.Rect(0, i*newPitch, b.Dx(), (i+1)*newPitch)
		draw.Draw(mask, dst, src.Mask, image.Pt(b.Min.X, b.Min.Y+i*pitch+top), draw.Src)
	}

	return &basicfont.Face{
		Advance: src.Advance,
		Width:   src.Width,
		Height:  newPitch,
		Ascent:  src.Ascent - top,
		Descent: src.Descent - bottom,
		Left:    src.Left,
		Mask:    mask,
		Ranges:  src.Ranges,
	}
}
