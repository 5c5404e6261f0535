// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/epcal/canvas"
	"github.com/GermanBionicSystems/epcal/fonts"
)

const (
	// Columns and Rows of the day grid.
	Columns = 7
	Rows    = 6

	foreground = canvas.Black
	background = canvas.White
)

// Layout holds the pixel geometry of a page.
type Layout struct {
	// Width and Height of the page.
	Width, Height int

	// Top-left corner of the title text.
	TitleX, TitleY int

	// Top of the weekday label row.
	HeaderY int

	// Top-left corner of the grid and the size of one cell.
	GridX, GridY          int
	CellWidth, CellHeight int

	// Offset of weekday labels and day numbers from the left cell border.
	TextInsetX int
	// Offset of day numbers from the top cell border.
	DayInsetY int

	// Top-left corner of the time text.
	FooterX, FooterY int
}

// DefaultLayout fits a 2.13 inch panel used in landscape orientation
// (250x122 pixels) with the default fonts.
var DefaultLayout = Layout{
	Width:      250,
	Height:     122,
	TitleX:     72,
	TitleY:     0,
	HeaderY:    18,
	GridX:      10,
	GridY:      32,
	CellWidth:  28,
	CellHeight: 12,
	TextInsetX: 8,
	DayInsetY:  1,
	FooterX:    150,
	FooterY:    106,
}

// GridWidth returns the width of the grid in pixels.
func (l *Layout) GridWidth() int {
	return Columns * l.CellWidth
}

// GridHeight returns the height of the grid in pixels.
func (l *Layout) GridHeight() int {
	return Rows * l.CellHeight
}

// Validate checks that the grid has usable cells and that the grid, title
// and footer start on the page.
func (l *Layout) Validate() error {
	if l.CellWidth < 3 || l.CellHeight < 3 {
		return fmt.Errorf("calendar: cell %dx%d too small", l.CellWidth, l.CellHeight)
	}
	if l.GridX < 0 || l.GridY < 0 || l.GridX+l.GridWidth() >= l.Width || l.GridY+l.GridHeight() >= l.Height {
		return fmt.Errorf("calendar: grid at (%d,%d) size %dx%d does not fit a %dx%d page",
			l.GridX, l.GridY, l.GridWidth()+1, l.GridHeight()+1, l.Width, l.Height)
	}
	if l.HeaderY >= l.GridY || l.FooterY <= l.GridY+l.GridHeight() {
		return errors.New("calendar: header and footer must be above and below the grid")
	}
	if l.TitleY < 0 || l.FooterY >= l.Height {
		return fmt.Errorf("calendar: title at y=%d or footer at y=%d outside a %d high page", l.TitleY, l.FooterY, l.Height)
	}
	return nil
}

// Page renders calendar pages. It keeps no state between renders.
type Page struct {
	layout Layout
	loc    *time.Location
}

// New returns a Page using layout and showing times in loc. A nil layout
// uses DefaultLayout, a nil loc UTC.
func New(layout *Layout, loc *time.Location) *Page {
	p := &Page{layout: DefaultLayout, loc: loc}
	if layout != nil {
		p.layout = *layout
	}
	if p.loc == nil {
		p.loc = time.UTC
	}
	return p
}

// Layout returns the geometry used by p.
func (p *Page) Layout() Layout {
	return p.layout
}

// Location returns the time zone used to break timestamps down.
func (p *Page) Location() *time.Location {
	return p.loc
}

// Render draws the page for the Unix timestamp ts onto c.
func (p *Page) Render(c canvas.Canvas, ts uint32) error {
	return p.RenderFields(c, Decompose(ts, p.loc))
}

// RenderTime draws the page for t, converted to the page location, onto c.
func (p *Page) RenderTime(c canvas.Canvas, t time.Time) error {
	return p.RenderFields(c, FieldsOf(t.In(p.loc)))
}

// RenderFields clears c and draws the page for f. f.Day is highlighted when
// it is a day of f.Month.
func (p *Page) RenderFields(c canvas.Canvas, f Fields) error {
	count, err := DaysInMonth(f.Year, f.Month)
	if err != nil {
		return err
	}
	if f.FirstWeekday < 0 || f.FirstWeekday >= Columns {
		return fmt.Errorf("%w: %d", ErrWeekdayOutOfRange, f.FirstWeekday)
	}

	c.Clear(background)
	p.drawTitle(c, f.Year, f.Month)
	p.drawWeekHeader(c)
	p.drawGrid(c)
	p.drawDates(c, f.FirstWeekday, count, f.Day)
	p.drawFooter(c, f.Hour, f.Minute)

	return nil
}

func (p *Page) drawTitle(c canvas.Canvas, year, month int) {
	c.DrawText(p.layout.TitleX, p.layout.TitleY, fonts.Large, fmt.Sprintf("%d年%d月", year, month), foreground, background)
}

func (p *Page) drawWeekHeader(c canvas.Canvas) {
	l := &p.layout
	for i, label := range WeekdayLabels {
		x := l.GridX + i*l.CellWidth + l.TextInsetX
		c.DrawText(x, l.HeaderY, fonts.Small, label, foreground, background)
	}
}

func (p *Page) drawGrid(c canvas.Canvas) {
	l := &p.layout
	right := l.GridX + l.GridWidth()
	bottom := l.GridY + l.GridHeight()

	for i := 0; i <= Rows; i++ {
		y := l.GridY + i*l.CellHeight
		c.DrawLine(l.GridX, y, right, y, foreground, canvas.Solid)
	}
	for i := 0; i <= Columns; i++ {
		x := l.GridX + i*l.CellWidth
		c.DrawLine(x, l.GridY, x, bottom, foreground, canvas.Solid)
	}
}

// drawDates draws count day numbers starting in column first. current is
// highlighted when it is within 1..count.
func (p *Page) drawDates(c canvas.Canvas, first, count, current int) {
	l := &p.layout
	row, col := 0, first

	for day := 1; day <= count; day++ {
		x := l.GridX + col*l.CellWidth
		y := l.GridY + row*l.CellHeight
		label := fmt.Sprint(day)

		if day == current {
			c.FillRect(x+1, y+1, x+l.CellWidth-1, y+l.CellHeight-1, foreground)
			c.DrawText(x+l.TextInsetX, y+l.DayInsetY, fonts.Small, label, background, foreground)
		} else {
			c.DrawText(x+l.TextInsetX, y+l.DayInsetY, fonts.Small, label, foreground, background)
		}

		col++
		if col == Columns {
			col = 0
			row++
		}
	}
}

func (p *Page) drawFooter(c canvas.Canvas, hour, minute int) {
	c.DrawText(p.layout.FooterX, p.layout.FooterY, fonts.Large, fmt.Sprintf("%02d:%02d", hour, minute), foreground, background)
}
