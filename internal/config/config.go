// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the epcal TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/GermanBionicSystems/epcal/calendar"
)

const (
	// DefaultFile is the configuration file name looked up when none is
	// given.
	DefaultFile = "epcal.toml"

	DriverEPD  = "epd2in13"
	DriverNone = "none"
)

// Values holds the whole configuration.
type Values struct {
	// Timezone is an IANA zone name. Empty uses the system zone.
	Timezone string  `toml:"timezone" validate:"omitempty,timezone"`
	Refresh  Refresh `toml:"refresh"`
	Display  Display `toml:"display"`
	Preview  Preview `toml:"preview"`
	Fonts    Fonts   `toml:"fonts"`
	Layout   Layout  `toml:"layout"`
	Log      Log     `toml:"log"`
}

type Refresh struct {
	// Interval between page updates. Updates happen on multiples of the
	// interval.
	Interval Duration `toml:"interval" validate:"dmin=1s"`
	// FullEvery forces a flashing full refresh after this many partial ones.
	// Zero disables partial refreshes.
	FullEvery int `toml:"full_every" validate:"gte=0"`
	// Fast uses the fast waveform for full refreshes.
	Fast bool `toml:"fast"`
}

type Display struct {
	Driver  string `toml:"driver" validate:"oneof=epd2in13 none"`
	SPIPort string `toml:"spi_port"`
	Origin  string `toml:"origin" validate:"oneof=top-left top-right bottom-right bottom-left"`
}

type Preview struct {
	// Listen is the address of the HTTP preview. Empty disables it.
	Listen        string `toml:"listen" validate:"omitempty,hostname_port"`
	Terminal      bool   `toml:"terminal"`
	TerminalScale int    `toml:"terminal_scale" validate:"gte=1,lte=8"`
}

type Fonts struct {
	// ASCIITTF replaces the large ASCII face. "gomono" selects the built-in
	// Go Mono font.
	ASCIITTF string `toml:"ascii_ttf,omitempty"`
	// WideTTF replaces the wide face of both sizes.
	WideTTF string `toml:"wide_ttf,omitempty"`
	// Size in pixels of the large faces loaded from TTF files.
	Size float64 `toml:"size" validate:"gte=6,lte=64"`
}

// Layout mirrors calendar.Layout.
type Layout struct {
	Width      int `toml:"width" validate:"gt=0"`
	Height     int `toml:"height" validate:"gt=0"`
	TitleX     int `toml:"title_x"`
	TitleY     int `toml:"title_y"`
	HeaderY    int `toml:"header_y"`
	GridX      int `toml:"grid_x"`
	GridY      int `toml:"grid_y"`
	CellWidth  int `toml:"cell_width"`
	CellHeight int `toml:"cell_height"`
	TextInsetX int `toml:"text_inset_x"`
	DayInsetY  int `toml:"day_inset_y"`
	FooterX    int `toml:"footer_x"`
	FooterY    int `toml:"footer_y"`
}

type Log struct {
	Debug bool `toml:"debug"`
	// File additionally writes logs to a rotated file.
	File string `toml:"file,omitempty"`
}

// Calendar returns the layout as used by the calendar package.
func (l *Layout) Calendar() calendar.Layout {
	return calendar.Layout(*l)
}

// Location resolves the configured time zone.
func (v *Values) Location() (*time.Location, error) {
	if v.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return loc, nil
}

// Defaults returns the built-in configuration.
func Defaults() Values {
	return Values{
		Refresh: Refresh{
			Interval:  Duration(time.Minute),
			FullEvery: 60,
		},
		Display: Display{
			Driver: DriverEPD,
			Origin: "top-right",
		},
		Preview: Preview{
			Listen:        "localhost:8321",
			TerminalScale: 2,
		},
		Fonts: Fonts{
			Size: 16,
		},
		Layout: Layout(calendar.DefaultLayout),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("dmin", validateMinDuration)
	return v
}

// validateMinDuration checks a Duration against a minimum given as a
// time.ParseDuration string.
func validateMinDuration(fl validator.FieldLevel) bool {
	minimum, err := time.ParseDuration(fl.Param())
	if err != nil {
		return false
	}
	return time.Duration(fl.Field().Int()) >= minimum
}

// Validate checks v for consistency.
func (v *Values) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	l := v.Layout.Calendar()
	if err := l.Validate(); err != nil {
		return fmt.Errorf("config: layout: %w", err)
	}
	return nil
}

// Load reads the file at path on top of the defaults. A missing file is
// created with the defaults.
func Load(fs afero.Fs, path string) (*Values, error) {
	vals := Defaults()

	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("saving new default config")
		if err := Save(fs, path, &vals); err != nil {
			return nil, err
		}
		return &vals, nil
	} else if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &vals); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if err := vals.Validate(); err != nil {
		return nil, err
	}

	return &vals, nil
}

// Save writes v to path, creating the parent directory.
func Save(fs afero.Fs, path string, v *Values) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("config: failed to marshal: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: failed to create config directory: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}
