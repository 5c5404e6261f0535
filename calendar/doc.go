// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package calendar renders a month calendar page for a monochrome e-paper
// panel.
//
// A page shows, top to bottom: the "<year>年<month>月" title, a row of
// weekday labels starting on Sunday, a 7x6 grid with the day numbers of the
// month, and the current time as "HH:MM". The current day is highlighted by
// inverting its cell.
//
// Page only issues drawing calls against a canvas.Canvas. Transferring the
// result to a panel is left to the caller, typically by drawing a
// canvas.Raster image into a display.Drawer.
package calendar
