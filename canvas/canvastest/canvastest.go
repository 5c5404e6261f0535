// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package canvastest is meant to be used to test code drawing on a
// canvas.Canvas.
package canvastest

import (
	"fmt"

	"github.com/GermanBionicSystems/epcal/canvas"
	"github.com/GermanBionicSystems/epcal/fonts"
)

// Kind identifies the canvas method an Op was recorded from.
type Kind uint8

const (
	Clear Kind = iota
	Line
	Rect
	Text
)

func (k Kind) String() string {
	switch k {
	case Clear:
		return "Clear"
	case Line:
		return "Line"
	case Rect:
		return "Rect"
	case Text:
		return "Text"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Op is a single recorded drawing call. Fields not used by the call are
// left at their zero value.
type Op struct {
	Kind           Kind
	X0, Y0, X1, Y1 int
	Color          canvas.Color
	Background     canvas.Color
	Style          canvas.LineStyle
	Size           fonts.Size
	Text           string
}

func (o Op) String() string {
	switch o.Kind {
	case Clear:
		return fmt.Sprintf("Clear(%s)", o.Color)
	case Line:
		return fmt.Sprintf("Line(%d,%d-%d,%d %s %s)", o.X0, o.Y0, o.X1, o.Y1, o.Color, o.Style)
	case Rect:
		return fmt.Sprintf("Rect(%d,%d-%d,%d %s)", o.X0, o.Y0, o.X1, o.Y1, o.Color)
	case Text:
		return fmt.Sprintf("Text(%d,%d %s %q %s/%s)", o.X0, o.Y0, o.Size, o.Text, o.Color, o.Background)
	}
	return o.Kind.String()
}

// Recorder implements canvas.Canvas and records every call.
type Recorder struct {
	Ops []Op
}

// Clear implements canvas.Canvas.
func (r *Recorder) Clear(c canvas.Color) {
	r.Ops = append(r.Ops, Op{Kind: Clear, Color: c})
}

// DrawLine implements canvas.Canvas.
func (r *Recorder) DrawLine(x0, y0, x1, y1 int, c canvas.Color, style canvas.LineStyle) {
	r.Ops = append(r.Ops, Op{Kind: Line, X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c, Style: style})
}

// FillRect implements canvas.Canvas.
func (r *Recorder) FillRect(x0, y0, x1, y1 int, c canvas.Color) {
	r.Ops = append(r.Ops, Op{Kind: Rect, X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c})
}

// DrawText implements canvas.Canvas.
func (r *Recorder) DrawText(x, y int, size fonts.Size, text string, fg, bg canvas.Color) {
	r.Ops = append(r.Ops, Op{Kind: Text, X0: x, Y0: y, Size: size, Text: text, Color: fg, Background: bg})
}

// Filter returns the recorded ops of the given kind, in order.
func (r *Recorder) Filter(k Kind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}

// Reset discards all recorded ops.
func (r *Recorder) Reset() {
	r.Ops = nil
}

var _ canvas.Canvas = (*Recorder)(nil)
