// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrMonthOutOfRange is returned for months outside 1..12.
var ErrMonthOutOfRange = errors.New("calendar: month out of range")

// ErrWeekdayOutOfRange is returned for first weekdays outside 0..6.
var ErrWeekdayOutOfRange = errors.New("calendar: weekday out of range")

// monthDays is indexed by [leap][month-1].
var monthDays = [2][12]int{
	{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31},
	{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31},
}

// WeekdayLabels are the column labels of the grid. Index 0 is Sunday, the
// same numbering as time.Weekday.
var WeekdayLabels = [7]string{"日", "一", "二", "三", "四", "五", "六"}

// Fields is a timestamp broken down into the values shown on a page.
type Fields struct {
	Year   int
	Month  int // 1..12
	Day    int // 1..31
	Hour   int // 0..23
	Minute int // 0..59

	// FirstWeekday is the weekday of the first day of Month, 0 for Sunday.
	FirstWeekday int
}

func (f Fields) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d (first weekday %d)", f.Year, f.Month, f.Day, f.Hour, f.Minute, f.FirstWeekday)
}

// IsLeapYear reports whether year has 366 days in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of month in year.
func DaysInMonth(year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	leap := 0
	if IsLeapYear(year) {
		leap = 1
	}
	return monthDays[leap][month-1], nil
}

// FirstWeekday returns the weekday of the first day of month in year, 0 for
// Sunday through 6 for Saturday.
func FirstWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// FieldsOf breaks t down in its own location.
func FieldsOf(t time.Time) Fields {
	year, month, day := t.Date()
	return Fields{
		Year:         year,
		Month:        int(month),
		Day:          day,
		Hour:         t.Hour(),
		Minute:       t.Minute(),
		FirstWeekday: FirstWeekday(year, int(month)),
	}
}

// Decompose breaks the Unix timestamp ts down in loc. A nil loc means UTC.
func Decompose(ts uint32, loc *time.Location) Fields {
	if loc == nil {
		loc = time.UTC
	}
	return FieldsOf(time.Unix(int64(ts), 0).In(loc))
}

// CellAt returns the grid cell of day when the month starts on weekday
// first.
func CellAt(first, day int) (row, col int) {
	idx := first + day - 1
	return idx / 7, idx % 7
}
