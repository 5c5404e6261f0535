// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fonts provides the font faces used to draw the calendar page.
//
// Text is drawn with two faces at once: an ASCII face for digits and Latin
// text, and a wide face for the CJK glyphs used by the title and the weekday
// header. Set picks the face per rune.
//
// The built-in faces are bitmap fonts built on
// golang.org/x/image/font/basicfont and therefore render crisply on 1-bit
// e-paper panels. TrueType faces can be loaded with LoadTrueType.
package fonts
