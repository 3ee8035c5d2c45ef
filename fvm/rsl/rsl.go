// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package rsl holds the outcome of evaluating an operation node: either a
// value (Right) or an ordered, non-empty list of diagnostics (Left).
package rsl

import (
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
)

// Diagnostic is either a failure or a sibling Result carried along for
// display. Exactly one of Error and Context is set.
type Diagnostic struct {
	Error   err.Error
	Context *Result
}

type Diagnostics []Diagnostic

// Result is Right when Diagnostics is empty and Left otherwise.
// Value is meaningless on a Left.
type Result struct {
	Value       val.Value
	Diagnostics Diagnostics
}

func Right(v val.Value) Result {
	return Result{Value: v}
}

// Left panics when called without diagnostics; an empty Left would read as Right.
func Left(ds ...Diagnostic) Result {
	if len(ds) == 0 {
		panic("rsl: Left without diagnostics")
	}
	return Result{Value: val.Null, Diagnostics: ds}
}

// Failure is shorthand for Left(Fail(e)).
func Failure(e err.Error) Result {
	return Left(Fail(e))
}

func Fail(e err.Error) Diagnostic {
	return Diagnostic{Error: e}
}

func Carry(r Result) Diagnostic {
	return Diagnostic{Context: &r}
}

func (r Result) Ok() bool {
	return len(r.Diagnostics) == 0
}

// Errors returns every failure in r, including those inside carried Results,
// in order of appearance.
func (r Result) Errors() []err.Error {
	out := make([]err.Error, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		if d.Error != nil {
			out = append(out, d.Error)
			continue
		}
		if d.Context != nil {
			out = append(out, d.Context.Errors()...)
		}
	}
	return out
}

// Encode returns the serializable form of r:
// {tag: "Right", value} or {tag: "Left", errors: [...]}.
func (r Result) Encode() val.Value {
	if r.Ok() {
		m := val.NewMap(2)
		m.Set("tag", val.String("Right"))
		m.Set("value", orNull(r.Value))
		return m
	}
	errs := make(val.List, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d.Encode()
	}
	m := val.NewMap(2)
	m.Set("tag", val.String("Left"))
	m.Set("errors", errs)
	return m
}

func (d Diagnostic) Encode() val.Value {
	if d.Error != nil {
		return d.Error.Value()
	}
	if d.Context != nil {
		return d.Context.Encode()
	}
	return val.Null
}

func (r Result) String() string {
	if r.Ok() {
		return "Right(" + err.ValueToHuman(r.Value) + ")"
	}
	out := "Left("
	for i, d := range r.Diagnostics {
		if i > 0 {
			out += ", "
		}
		out += d.String()
	}
	return out + ")"
}

func (d Diagnostic) String() string {
	if d.Error != nil {
		return d.Error.Message()
	}
	if d.Context != nil {
		return d.Context.String()
	}
	return "<empty>"
}

// Both combines two independently evaluated sides. It returns ok when both
// are Right. Otherwise the failure carries the other side along: a failed a
// is followed by all of b, a failed b is preceded by a.
func Both(a, b Result) (Result, bool) {
	switch {
	case !a.Ok():
		ds := make(Diagnostics, 0, len(a.Diagnostics)+1)
		ds = append(ds, a.Diagnostics...)
		ds = append(ds, Carry(b))
		return Left(ds...), false
	case !b.Ok():
		ds := make(Diagnostics, 0, len(b.Diagnostics)+1)
		ds = append(ds, Carry(a))
		ds = append(ds, b.Diagnostics...)
		return Left(ds...), false
	}
	return Result{}, true
}

// Accumulate folds next into acc. Two Rights are joined by combine; once
// acc is Left, later operands are still appended so the report covers
// every operand.
func Accumulate(acc, next Result, combine func(a, b val.Value) Result) Result {
	switch {
	case acc.Ok() && next.Ok():
		r := combine(acc.Value, next.Value)
		if r.Ok() {
			return r
		}
		return Left(append(Diagnostics{Carry(acc)}, r.Diagnostics...)...)
	case acc.Ok():
		return Left(append(Diagnostics{Carry(acc)}, next.Diagnostics...)...)
	case next.Ok():
		return Left(append(acc.Diagnostics[:len(acc.Diagnostics):len(acc.Diagnostics)], Carry(next))...)
	}
	return Left(append(acc.Diagnostics[:len(acc.Diagnostics):len(acc.Diagnostics)], next.Diagnostics...)...)
}

// Fold accumulates rs onto seed. A failing first operand is reported alone,
// without the seed carried in front of it.
func Fold(seed Result, rs []Result, combine func(a, b val.Value) Result) Result {
	acc, pristine := seed, true
	for _, r := range rs {
		if pristine && !r.Ok() {
			acc, pristine = r, false
			continue
		}
		acc, pristine = Accumulate(acc, r, combine), false
	}
	return acc
}

func orNull(v val.Value) val.Value {
	if v == nil {
		return val.Null
	}
	return v
}
