// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"fmt"
	"time"
)

// Date is a calendar date without clock time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

func (v Date) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Date) Copy() Value {
	return x
}

func (d Date) Equals(v Value) bool {
	return d == v
}

func (Date) Primitive() bool {
	return true
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare returns -1, 0 or +1 comparing year, month and day in that order.
func (d Date) Compare(e Date) int {
	switch {
	case d.Year != e.Year:
		return sign(d.Year - e.Year)
	case d.Month != e.Month:
		return sign(int(d.Month) - int(e.Month))
	}
	return sign(d.Day - e.Day)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Time is a clock time without date or zone.
type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func TimeOf(t time.Time) Time {
	h, m, s := t.Clock()
	return Time{h, m, s, t.Nanosecond()}
}

func (v Time) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Time) Copy() Value {
	return x
}

func (t Time) Equals(v Value) bool {
	return t == v
}

func (Time) Primitive() bool {
	return true
}

func (t Time) String() string {
	if t.Nanosecond != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%09d", t.Hour, t.Minute, t.Second, t.Nanosecond)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t Time) Compare(u Time) int {
	switch {
	case t.Hour != u.Hour:
		return sign(t.Hour - u.Hour)
	case t.Minute != u.Minute:
		return sign(t.Minute - u.Minute)
	case t.Second != u.Second:
		return sign(t.Second - u.Second)
	}
	return sign(t.Nanosecond - u.Nanosecond)
}

func sign(i int) int {
	switch {
	case i < 0:
		return -1
	case i > 0:
		return 1
	}
	return 0
}
