// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"math"

	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// predicate checks the runtime shape of a value. shape completes the
// sentence "<value> is not <shape>."
type predicate struct {
	shape string
	holds func(val.Value) bool
}

func is(t val.Type) func(val.Value) bool {
	return func(v val.Value) bool {
		return v.Type().Is(t)
	}
}

var predicates = map[xpr.Tag]predicate{
	xpr.TagIsBoolean: {"a boolean", is(val.TypeBool)},
	xpr.TagIsNumber: {"a number", func(v val.Value) bool {
		f, ok := number(v)
		return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
	}},
	xpr.TagIsInteger: {"an integer", func(v val.Value) bool {
		f, ok := number(v)
		return ok && !math.IsInf(f, 0) && f == math.Trunc(f)
	}},
	xpr.TagIsString:   {"a string", is(val.TypeString)},
	xpr.TagIsDate:     {"a date", is(val.TypeDate)},
	xpr.TagIsDateTime: {"a date-time", is(val.TypeDateTime)},
	xpr.TagIsTime:     {"a time", is(val.TypeTime)},
	xpr.TagIsList:     {"a list", is(val.TypeList | val.TypeSet)},
	xpr.TagIsEmpty: {"empty", func(v val.Value) bool {
		n, ok := length(v)
		return ok && n == 0
	}},
	xpr.TagIsNotEmpty: {"non-empty", func(v val.Value) bool {
		n, ok := length(v)
		return !ok || n > 0
	}},
	xpr.TagIsTrue:  {"true", func(v val.Value) bool { return v.Equals(val.Bool(true)) }},
	xpr.TagIsFalse: {"false", func(v val.Value) bool { return v.Equals(val.Bool(false)) }},
}
