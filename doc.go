// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epcal renders month calendar pages for small e-paper panels.
//
// The calendar package lays the page out on any canvas.Canvas. The epd
// package drives SSD1680 based 2.13 inch panels, preview and termview show
// the same frames over HTTP and in a terminal.
//
// The epcal command in cmd/epcal ties them together.
package epcal
