// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fonts

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
)

// Size selects one of the two text sizes used on the page.
type Size uint8

const (
	// Small is used for weekday labels and day numbers.
	Small Size = iota
	// Large is used for the title and the time footer.
	Large

	numSizes
)

func (s Size) String() string {
	switch s {
	case Small:
		return "Small"
	case Large:
		return "Large"
	}
	return fmt.Sprintf("Size(%d)", uint8(s))
}

// Metrics holds the pixel metrics of a text line drawn at a given size,
// combining the ASCII and wide faces.
type Metrics struct {
	Ascent  int
	Descent int
	Height  int
}

// Set holds an ASCII and an optional wide face for every Size.
type Set struct {
	ascii [numSizes]font.Face
	wide  [numSizes]font.Face
}

// Default returns the built-in bitmap faces: Compact7x11 and
// inconsolata.Regular8x16 for ASCII, Wide12 for CJK runes at both sizes.
func Default() *Set {
	s := &Set{}
	s.ascii[Small] = Compact7x11
	s.ascii[Large] = inconsolata.Regular8x16
	s.wide[Small] = Wide12
	s.wide[Large] = Wide12
	return s
}

// SetASCII replaces the ASCII face used at size.
func (s *Set) SetASCII(size Size, f font.Face) {
	s.ascii[size] = f
}

// SetWide replaces the wide face used at size. A nil face makes wide runes
// fall back to the ASCII face.
func (s *Set) SetWide(size Size, f font.Face) {
	s.wide[size] = f
}

// Face returns the face drawing runes of the given class at size.
func (s *Set) Face(size Size, wide bool) font.Face {
	if wide && s.wide[size] != nil {
		return s.wide[size]
	}
	return s.ascii[size]
}

// Metrics returns the line metrics for size. The line is tall enough for
// both faces sharing one baseline.
func (s *Set) Metrics(size Size) Metrics {
	var m Metrics
	for _, f := range []font.Face{s.ascii[size], s.wide[size]} {
		if f == nil {
			continue
		}
		fm := f.Metrics()
		if a := fm.Ascent.Ceil(); a > m.Ascent {
			m.Ascent = a
		}
		if d := fm.Descent.Ceil(); d > m.Descent {
			m.Descent = d
		}
	}
	m.Height = m.Ascent + m.Descent
	return m
}

// Width returns the advance of s in pixels when drawn at size.
func (s *Set) Width(size Size, text string) int {
	w := 0
	for _, r := range Split(text) {
		w += font.MeasureString(s.Face(size, r.Wide), r.Text).Ceil()
	}
	return w
}

// Run is a maximal sequence of runes drawn with the same face.
type Run struct {
	Text string
	Wide bool
}

// Split cuts text into runs of ASCII and non-ASCII runes.
func Split(text string) []Run {
	var runs []Run
	start := 0
	for i, r := range text {
		wide := r >= utf8.RuneSelf
		if i == 0 {
			runs = append(runs, Run{Wide: wide})
			continue
		}
		if last := &runs[len(runs)-1]; last.Wide != wide {
			last.Text = text[start:i]
			start = i
			runs = append(runs, Run{Wide: wide})
		}
	}
	if len(runs) > 0 {
		runs[len(runs)-1].Text = text[start:]
	}
	return runs
}
