// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fonts

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// GoMono is the name accepted by LoadTrueType for the embedded Go Mono font.
const GoMono = "gomono"

// LoadTrueType parses the TrueType font at path and returns a face of the
// given pixel size. Hinting is enabled to keep strokes on the pixel grid of
// 1-bit panels. The path GoMono loads the embedded Go Mono font.
func LoadTrueType(fs afero.Fs, path string, size float64) (font.Face, error) {
	var data []byte
	if path == GoMono {
		data = gomono.TTF
	} else {
		var err error
		if data, err = afero.ReadFile(fs, path); err != nil {
			return nil, fmt.Errorf("fonts: failed to read %q: %w", path, err)
		}
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: failed to parse %q: %w", path, err)
	}

	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
