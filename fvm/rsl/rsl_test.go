// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rsl

import (
	"testing"

	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
)

func add(a, b val.Value) Result {
	return Right(a.(val.Float) + b.(val.Float))
}

func missing(tag string) Result {
	return Failure(err.MissingValueError{Tag: tag})
}

func TestLeftRequiresDiagnostics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Left() must panic")
		}
	}()
	Left()
}

func TestBoth(t *testing.T) {
	{
		_, ok := Both(Right(val.Float(1)), Right(val.Float(2)))
		if !ok {
			t.Fatal("case 1: two Rights are ok")
		}
	}
	{
		r, ok := Both(missing("a"), Right(val.Float(2)))
		if ok || len(r.Diagnostics) != 2 || r.Diagnostics[0].Error == nil || r.Diagnostics[1].Context == nil {
			t.Fatalf("case 2: a failed left side is followed by the right side, got %s", r)
		}
	}
	{
		r, ok := Both(Right(val.Float(1)), missing("b"))
		if ok || len(r.Diagnostics) != 2 || r.Diagnostics[0].Context == nil || r.Diagnostics[1].Error == nil {
			t.Fatalf("case 3: a failed right side is preceded by the left side, got %s", r)
		}
	}
}

func TestFold(t *testing.T) {
	seed := Right(val.Float(0))
	{
		r := Fold(seed, []Result{Right(val.Float(1)), Right(val.Float(2))}, add)
		if !r.Ok() || !r.Value.Equals(val.Float(3)) {
			t.Fatalf("case 1: got %s", r)
		}
	}
	{
		r := Fold(seed, []Result{missing("a"), Right(val.Float(2)), missing("c")}, add)
		if len(r.Diagnostics) != 3 {
			t.Fatalf("case 2: got %s", r)
		}
		if e := r.Errors(); len(e) != 2 || e[0].Type() != "a" || e[1].Type() != "c" {
			t.Fatalf("case 2: errors out of order: %s", r)
		}
	}
	{
		r := Fold(seed, nil, add)
		if !r.Ok() || !r.Value.Equals(val.Float(0)) {
			t.Fatalf("case 3: an empty fold is its seed, got %s", r)
		}
	}
}

func TestErrorsFlattensContext(t *testing.T) {
	inner := Left(Fail(err.MissingValueError{Tag: "x"}), Carry(Right(val.Float(1))))
	outer := Left(Carry(inner), Fail(err.ZeroDivisionError{Tag: "y"}))
	errs := outer.Errors()
	if len(errs) != 2 || errs[0].Type() != "x" || errs[1].Type() != "y" {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestEncode(t *testing.T) {
	{
		m := Right(val.Float(1)).Encode().(val.Map)
		if !m.Key("tag").Equals(val.String("Right")) || !m.Key("value").Equals(val.Float(1)) {
			t.Fatalf("case 1: got %s", m)
		}
	}
	{
		m := Left(Carry(Right(val.Float(1))), Fail(err.MissingValueError{Tag: "x"})).Encode().(val.Map)
		errs := m.Key("errors").(val.List)
		if !m.Key("tag").Equals(val.String("Left")) || len(errs) != 2 {
			t.Fatalf("case 2: got %s", m)
		}
		if !errs[1].(val.Map).Key("error").Equals(val.String("MissingValueError")) {
			t.Fatalf("case 2: got %s", errs[1])
		}
	}
	{
		s := Left(Carry(Right(val.Float(12))), Fail(err.ZeroDivisionError{Tag: "Divide"})).String()
		if s != "Left(Right(12), Divide: division by zero.)" {
			t.Fatalf("case 3: got %q", s)
		}
	}
}
