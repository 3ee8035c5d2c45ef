// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/karmarun/formula/fvm/cast"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
	"golang.org/x/text/collate"
)

// relation is one binary comparator. format renders a failure from the
// operand and the test, in that order.
type relation struct {
	format string
	holds  func(e env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error)
}

func notRelated(phrase string) string {
	return "%s is not " + phrase + " %s."
}

// ordering turns a three-way comparison into a relation over one axis.
func ordering(phrase string, axis func(env.Environment, xpr.Tag, val.Value, val.Value) (int, err.Error), accept func(int) bool) relation {
	return relation{notRelated(phrase), func(e env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
		c, x := axis(e, tag, a, b)
		if x != nil {
			return false, x
		}
		return accept(c), nil
	}}
}

func eq(c int) bool  { return c == 0 }
func ne(c int) bool  { return c != 0 }
func lt(c int) bool  { return c < 0 }
func gt(c int) bool  { return c > 0 }
func lte(c int) bool { return c <= 0 }
func gte(c int) bool { return c >= 0 }

var relations map[xpr.Tag]relation

func init() {
	relations = map[xpr.Tag]relation{
		xpr.TagIsEqualTo:    ordering("equal to", amounts, eq),
		xpr.TagIsNotEqualTo: withFormat("%s is equal to %s.", ordering("", amounts, ne)),
		xpr.TagIsMoreThan:   ordering("more than", amounts, gt),
		xpr.TagIsLessThan:   ordering("less than", amounts, lt),
		xpr.TagIsAtLeast:    ordering("at least", amounts, gte),
		xpr.TagIsAtMost:     ordering("at most", amounts, lte),

		xpr.TagIsAlphabeticallyEqualTo:    ordering("alphabetically equal to", alphabetically, eq),
		xpr.TagIsAlphabeticallyBefore:     ordering("alphabetically before", alphabetically, lt),
		xpr.TagIsAlphabeticallyAfter:      ordering("alphabetically after", alphabetically, gt),
		xpr.TagIsAlphabeticallyAtOrBefore: ordering("alphabetically at or before", alphabetically, lte),
		xpr.TagIsAlphabeticallyAtOrAfter:  ordering("alphabetically at or after", alphabetically, gte),

		xpr.TagIsSameDate:       ordering("the same date as", dates, eq),
		xpr.TagIsBeforeDate:     ordering("before", dates, lt),
		xpr.TagIsAfterDate:      ordering("after", dates, gt),
		xpr.TagIsOnOrBeforeDate: ordering("on or before", dates, lte),
		xpr.TagIsOnOrAfterDate:  ordering("on or after", dates, gte),

		xpr.TagIsSameDateTime:       ordering("the same date-time as", dateTimes, eq),
		xpr.TagIsBeforeDateTime:     ordering("before", dateTimes, lt),
		xpr.TagIsAfterDateTime:      ordering("after", dateTimes, gt),
		xpr.TagIsAtOrBeforeDateTime: ordering("at or before", dateTimes, lte),
		xpr.TagIsAtOrAfterDateTime:  ordering("at or after", dateTimes, gte),

		xpr.TagIsSameTime:       ordering("the same time as", times, eq),
		xpr.TagIsBeforeTime:     ordering("before", times, lt),
		xpr.TagIsAfterTime:      ordering("after", times, gt),
		xpr.TagIsAtOrBeforeTime: ordering("at or before", times, lte),
		xpr.TagIsAtOrAfterTime:  ordering("at or after", times, gte),

		xpr.TagIsLengthEqualTo:    ordering("equal in length to", lengths, eq),
		xpr.TagIsLengthNotEqualTo: withFormat("%s is equal in length to %s.", ordering("", lengths, ne)),
		xpr.TagIsShorterThan:      ordering("shorter than", lengths, lt),
		xpr.TagIsLongerThan:       ordering("longer than", lengths, gt),
		xpr.TagIsLengthAtLeast:    ordering("at least as long as", lengths, gte),
		xpr.TagIsLengthAtMost:     ordering("at most as long as", lengths, lte),

		xpr.TagIsIdenticalTo: {notRelated("identical to"), func(_ env.Environment, _ xpr.Tag, a, b val.Value) (bool, err.Error) {
			return a.Equals(b), nil
		}},

		xpr.TagIsSubsetOf:     {notRelated("a subset of"), subsetOf},
		xpr.TagIsSupersetOf:   {notRelated("a superset of"), supersetOf},
		xpr.TagIsDisjointFrom: {notRelated("disjoint from"), disjointFrom},
		xpr.TagOverlaps:       {"%s does not overlap %s.", overlaps},
		xpr.TagIsMemberOf:     {notRelated("a member of"), memberOf},

		xpr.TagMatches:          {"%s does not match %s.", matches},
		xpr.TagDoesNotMatch:     {"%s matches %s.", doesNotMatch},
		xpr.TagStartsWith:       {"%s does not start with %s.", startsWith},
		xpr.TagEndsWith:         {"%s does not end with %s.", endsWith},
		xpr.TagContains:         {"%s does not contain %s.", contains},
		xpr.TagResemblesFuzzily: {"%s does not resemble %s.", resemblesFuzzily},
	}
}

func withFormat(format string, r relation) relation {
	r.format = format
	return r
}

func compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func amounts(_ env.Environment, tag xpr.Tag, a, b val.Value) (int, err.Error) {
	x, ok := number(a)
	if !ok {
		return 0, err.OperandTypeError{Tag: string(tag), Expected: "number", Actual: a}
	}
	y, ok := number(b)
	if !ok {
		return 0, err.OperandTypeError{Tag: string(tag), Expected: "number", Actual: b}
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, err.OperandTypeError{Tag: string(tag), Expected: "finite number", Actual: a}
	}
	return compare(x, y), nil
}

// alphabetically compares with the collation of the environment's language.
// Collators are not safe for concurrent use, so each call builds its own.
func alphabetically(e env.Environment, tag xpr.Tag, a, b val.Value) (int, err.Error) {
	x, ok := a.(val.String)
	if !ok {
		return 0, err.OperandTypeError{Tag: string(tag), Expected: "string", Actual: a}
	}
	y, ok := b.(val.String)
	if !ok {
		return 0, err.OperandTypeError{Tag: string(tag), Expected: "string", Actual: b}
	}
	c := collate.New(e.Language, collate.Loose)
	return c.CompareString(string(x), string(y)), nil
}

// dates compares calendar fields; date-times are projected to their date
// in the environment's zone.
func dates(e env.Environment, tag xpr.Tag, a, b val.Value) (int, err.Error) {
	x, f := date(e, tag, a)
	if f != nil {
		return 0, f
	}
	y, f := date(e, tag, b)
	if f != nil {
		return 0, f
	}
	return x.Compare(y), nil
}

func date(e env.Environment, tag xpr.Tag, v val.Value) (val.Date, err.Error) {
	switch v := v.(type) {
	case val.Date:
		return v, nil
	case val.DateTime:
		return val.DateOf(v.In(e.Calendar())), nil
	case val.String:
		if r := cast.To(xpr.DatatypeDate, v); r.Ok() {
			return r.Value.(val.Date), nil
		}
	}
	return val.Date{}, err.OperandTypeError{Tag: string(tag), Expected: "date", Actual: v}
}

// dateTimes compares instants; dates stand for midnight in the
// environment's zone.
func dateTimes(e env.Environment, tag xpr.Tag, a, b val.Value) (int, err.Error) {
	x, f := instant(e, tag, a)
	if f != nil {
		return 0, f
	}
	y, f := instant(e, tag, b)
	if f != nil {
		return 0, f
	}
	switch {
	case x.Before(y):
		return -1, nil
	case x.After(y):
		return 1, nil
	}
	return 0, nil
}

func instant(e env.Environment, tag xpr.Tag, v val.Value) (time.Time, err.Error) {
	switch v := v.(type) {
	case val.DateTime:
		return v.Time, nil
	case val.Date:
		return v.In(e.Calendar()), nil
	case val.String:
		if r := cast.To(xpr.DatatypeDateTime, v); r.Ok() {
			return r.Value.(val.DateTime).Time, nil
		}
	}
	return time.Time{}, err.OperandTypeError{Tag: string(tag), Expected: "date-time", Actual: v}
}

// times compares clock fields; date-times are projected to their clock
// time in the environment's zone.
func times(e env.Environment, tag xpr.Tag, a, b val.Value) (int, err.Error) {
	x, f := clock(e, tag, a)
	if f != nil {
		return 0, f
	}
	y, f := clock(e, tag, b)
	if f != nil {
		return 0, f
	}
	return x.Compare(y), nil
}

func clock(e env.Environment, tag xpr.Tag, v val.Value) (val.Time, err.Error) {
	switch v := v.(type) {
	case val.Time:
		return v, nil
	case val.DateTime:
		return val.TimeOf(v.In(e.Calendar())), nil
	case val.String:
		if r := cast.To(xpr.DatatypeTime, v); r.Ok() {
			return r.Value.(val.Time), nil
		}
	}
	return val.Time{}, err.OperandTypeError{Tag: string(tag), Expected: "time", Actual: v}
}

// lengths compares the operand's length with a numeric test or with the
// test's own length.
func lengths(_ env.Environment, tag xpr.Tag, a, b val.Value) (int, err.Error) {
	x, ok := length(a)
	if !ok {
		return 0, err.OperandTypeError{Tag: string(tag), Expected: "string or list", Actual: a}
	}
	if n, ok := number(b); ok {
		return compare(float64(x), n), nil
	}
	y, ok := length(b)
	if !ok {
		return 0, err.OperandTypeError{Tag: string(tag), Expected: "length", Actual: b}
	}
	return compare(float64(x), float64(y)), nil
}

func length(v val.Value) (int, bool) {
	switch v := v.(type) {
	case val.String:
		return utf8.RuneCountInString(string(v)), true
	case val.List:
		return len(v), true
	case val.Set:
		return len(v), true
	case val.Map:
		return v.Len(), true
	}
	return 0, false
}
