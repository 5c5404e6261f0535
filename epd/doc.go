// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd controls 2.13 inch black and white e-paper panels driven by a
// Solomon SSD1680 controller, such as the Waveshare 2.13 inch HAT V3 and V4.
//
// The panel has 122x250 pixels. Three refresh modes are supported: a full
// refresh which flashes the whole panel, a fast full refresh and a partial
// refresh which only redraws changed pixels. Partial refreshes leave small
// artifacts behind over time, so callers should do a full refresh every now
// and then.
//
// Datasheet:
// https://files.waveshare.com/upload/5/59/2.13inch_e-Paper_V3_Specificition.pdf
//
// Product page:
// https://www.waveshare.com/wiki/2.13inch_e-Paper_HAT_Manual
package epd
