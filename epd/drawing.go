// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"image"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// transfer describes one Draw call.
type transfer struct {
	// RAM planes to write, in order.
	planes  []byte
	devSize image.Point
	origin  Corner
	buffer  *image1bit.VerticalLSB
	dstRect image.Rectangle
	src     image.Image
	srcPts  image.Point
}

// area holds the rectangles derived from a transfer.
type area struct {
	// Shift applied to logical buffer positions so that the physical (0,0)
	// lands on a byte boundary of the rotated buffer.
	bufferOffset image.Point

	// Destination in the buffer, in pixels.
	bufferRect image.Rectangle

	// Destination in panel RAM in pixels, rotated to match the origin.
	panelRect image.Rectangle

	// panelRect widened to whole bytes horizontally.
	memRect image.Rectangle
}

func (t *transfer) area() area {
	a := area{
		bufferRect: image.Rectangle{Max: t.devSize}.Intersect(t.dstRect),
	}

	if t.origin != TopLeft && t.buffer != nil {
		a.bufferOffset.Y = t.buffer.Bounds().Dy() - t.devSize.Y
		if t.origin != TopRight {
			a.bufferOffset.X = t.buffer.Bounds().Dx() - t.devSize.X
		}
	}

	if a.bufferRect.Empty() {
		return a
	}

	r := a.bufferRect
	switch t.origin {
	case TopLeft:
		a.panelRect = r
	case TopRight:
		a.panelRect = image.Rect(t.devSize.Y-r.Max.Y, r.Min.X, t.devSize.Y-r.Min.Y, r.Max.X)
	case BottomRight:
		a.panelRect = image.Rect(t.devSize.X-r.Max.X, t.devSize.Y-r.Max.Y, t.devSize.X-r.Min.X, t.devSize.Y-r.Min.Y)
	case BottomLeft:
		a.panelRect = image.Rect(r.Min.Y, t.devSize.X-r.Max.X, r.Max.Y, t.devSize.X-r.Min.X)
	}

	a.bufferRect = a.bufferRect.Add(a.bufferOffset)
	a.memRect = image.Rect(a.panelRect.Min.X/8, a.panelRect.Min.Y, (a.panelRect.Max.X+7)/8, a.panelRect.Max.Y)

	return a
}

// bufferPos maps a panel pixel to its logical position.
func (t *transfer) bufferPos(x, y int) image.Point {
	switch t.origin {
	case TopRight:
		return image.Pt(y, t.devSize.Y-x-1)
	case BottomRight:
		return image.Pt(t.devSize.X-x-1, t.devSize.Y-y-1)
	case BottomLeft:
		return image.Pt(t.devSize.X-y-1, x)
	}
	return image.Pt(x, y)
}

// sendPlane writes the area of the buffer into one RAM plane. A set bit is a
// white pixel.
func (t *transfer) sendPlane(ctrl controller, plane byte, a *area) {
	if a.memRect.Empty() {
		return
	}

	setMemoryArea(ctrl, a.memRect)
	ctrl.sendCommand(plane)

	row := make([]byte, a.memRect.Dx())

	for y := a.memRect.Min.Y; y < a.memRect.Max.Y; y++ {
		for i := range row {
			row[i] = 0

			for bit := 0; bit < 8; bit++ {
				pos := t.bufferPos((a.memRect.Min.X+i)*8+bit, y).Add(a.bufferOffset)

				if t.buffer.BitAt(pos.X, pos.Y) {
					row[i] |= 0x80 >> bit
				}
			}
		}

		ctrl.sendData(row)
	}
}

// drawImage updates the buffer and sends the changed area to every plane. It
// reports whether anything was sent.
func drawImage(ctrl controller, t *transfer) bool {
	a := t.area()

	if a.memRect.Empty() {
		return false
	}

	// The buffer is kept in logical orientation. Rotation happens while
	// sending.
	draw.Src.Draw(t.buffer, a.bufferRect, t.src, t.srcPts)

	for _, plane := range t.planes {
		t.sendPlane(ctrl, plane, &a)
	}

	return true
}
