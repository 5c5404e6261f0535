// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/GermanBionicSystems/epcal/calendar"
	"github.com/GermanBionicSystems/epcal/epd"
	"github.com/GermanBionicSystems/epcal/fonts"
	"github.com/GermanBionicSystems/epcal/internal/config"
)

// wideSmallSize is the pixel size of a TrueType wide face used for the small
// text.
const wideSmallSize = 12

var corners = map[string]epd.Corner{
	"top-left":     epd.TopLeft,
	"top-right":    epd.TopRight,
	"bottom-right": epd.BottomRight,
	"bottom-left":  epd.BottomLeft,
}

// Corner parses a display origin name.
func Corner(origin string) (epd.Corner, error) {
	c, ok := corners[origin]
	if !ok {
		return 0, fmt.Errorf("app: unknown display origin %q", origin)
	}
	return c, nil
}

// LoadFonts returns the default faces with the configured TrueType fonts
// applied.
func LoadFonts(fs afero.Fs, cfg *config.Fonts) (*fonts.Set, error) {
	set := fonts.Default()

	if cfg.ASCIITTF != "" {
		f, err := fonts.LoadTrueType(fs, cfg.ASCIITTF, cfg.Size)
		if err != nil {
			return nil, err
		}
		set.SetASCII(fonts.Large, f)
	}

	if cfg.WideTTF != "" {
		small, err := fonts.LoadTrueType(fs, cfg.WideTTF, wideSmallSize)
		if err != nil {
			return nil, err
		}
		large, err := fonts.LoadTrueType(fs, cfg.WideTTF, cfg.Size)
		if err != nil {
			return nil, err
		}
		set.SetWide(fonts.Small, small)
		set.SetWide(fonts.Large, large)
	}

	return set, nil
}

// NewPage returns the page described by cfg.
func NewPage(cfg *config.Values) (*calendar.Page, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	layout := cfg.Layout.Calendar()
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return calendar.New(&layout, loc), nil
}
