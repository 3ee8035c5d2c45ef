// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"context"
	"testing"

	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/op"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
	"github.com/kr/pretty"
)

func num(f float64) xpr.Expression {
	return op.Constant(val.Float(f))
}

func str(s string) xpr.Expression {
	return op.Constant(val.String(s))
}

func list(vs ...val.Value) xpr.Expression {
	return op.Constant(val.List(vs))
}

func evaluate(f Evaluator) rsl.Result {
	return f(context.Background(), val.Null, nil)
}

func expectRight(t *testing.T, label string, r rsl.Result, v val.Value) {
	t.Helper()
	if !r.Ok() {
		t.Fatalf("%s: expected Right(%v), got %s", label, v, r)
	}
	if !r.Value.Equals(v) {
		t.Fatalf("%s: expected Right(%v), got %s\n%s", label, v, r, pretty.Sprint(r.Value))
	}
}

func expectFailure(t *testing.T, label string, r rsl.Result, name string) err.Error {
	t.Helper()
	if r.Ok() {
		t.Fatalf("%s: expected %s, got %s", label, name, r)
	}
	for _, e := range r.Errors() {
		if err.Name(e) == name {
			return e
		}
	}
	t.Fatalf("%s: expected %s, got %s", label, name, r)
	return nil
}

func TestOperationFoldsOperands(t *testing.T) {
	vm := VirtualMachine{}
	{
		r := evaluate(vm.Operation(op.Add(num(1), num(2), num(3))))
		expectRight(t, "case 1", r, val.Float(6))
	}
	{
		r := evaluate(vm.Operation(op.Multiply(num(2), num(3), num(4))))
		expectRight(t, "case 2", r, val.Float(24))
	}
	{
		r := evaluate(vm.Operation(op.Add()))
		expectRight(t, "case 3", r, val.Float(0))
	}
	{
		r := evaluate(vm.Operation(op.Add(num(1), op.Undefined(), num(3))))
		if r.Ok() || len(r.Diagnostics) != 3 {
			t.Fatalf("case 4: expected three diagnostics, got %s", r)
		}
		if c := r.Diagnostics[0].Context; c == nil || !c.Ok() || !c.Value.Equals(val.Float(1)) {
			t.Fatalf("case 4: expected Right(1) first, got %s", r)
		}
		if _, ok := r.Diagnostics[1].Error.(err.MissingValueError); !ok {
			t.Fatalf("case 4: expected MissingValueError second, got %s", r)
		}
		if c := r.Diagnostics[2].Context; c == nil || !c.Ok() || !c.Value.Equals(val.Float(3)) {
			t.Fatalf("case 4: expected Right(3) last, got %s", r)
		}
	}
	{
		r := evaluate(vm.Operation(op.Add(op.Undefined(), num(2))))
		if len(r.Diagnostics) != 2 || r.Diagnostics[0].Error == nil {
			t.Fatalf("case 5: a failing first operand is reported alone, got %s", r)
		}
	}
	{
		r := evaluate(vm.Operation(op.Add(str("x"))))
		expectFailure(t, "case 6", r, "OperandTypeError")
	}
}

func TestBinaryDomainErrorCarriesLeftSide(t *testing.T) {
	vm := VirtualMachine{}
	r := evaluate(vm.Operation(op.Divide(num(12), num(0))))
	if r.Ok() || len(r.Diagnostics) != 2 {
		t.Fatalf("expected two diagnostics, got %s", r)
	}
	if c := r.Diagnostics[0].Context; c == nil || !c.Value.Equals(val.Float(12)) {
		t.Fatalf("expected Right(12) first, got %s", r)
	}
	if _, ok := r.Diagnostics[1].Error.(err.ZeroDivisionError); !ok {
		t.Fatalf("expected ZeroDivisionError, got %s", r)
	}
}

func TestComparisonFailureMessage(t *testing.T) {
	vm := VirtualMachine{}
	{
		r := evaluate(vm.Comparison(op.IsMoreThan(num(7), num(9))))
		e := expectFailure(t, "case 1", r, "RelationError")
		if e.Message() != "7 is not more than 9." {
			t.Fatalf("case 1: unexpected message %q", e.Message())
		}
	}
	{
		r := evaluate(vm.Comparison(op.IsMoreThan(num(9), num(7))))
		expectRight(t, "case 2", r, val.Float(9))
	}
	{
		r := evaluate(vm.Comparison(op.IsNotEqualTo(num(1), num(1))))
		e := expectFailure(t, "case 3", r, "RelationError")
		if e.Message() != "1 is equal to 1." {
			t.Fatalf("case 3: unexpected message %q", e.Message())
		}
	}
}

func TestTernary(t *testing.T) {
	vm := VirtualMachine{}
	{
		x := op.Ternary(op.IsMoreThan(num(9), num(7)), str("yes"), str("no"))
		expectRight(t, "case 1", evaluate(vm.Operation(x)), val.String("yes"))
		expectRight(t, "case 2", evaluate(vm.Comparison(x)), val.String("yes"))
	}
	{
		x := op.Ternary(op.IsMoreThan(num(1), num(7)), str("yes"), str("no"))
		expectRight(t, "case 3", evaluate(vm.Operation(x)), val.String("no"))
	}
	{
		x := op.Ternary(op.IsMoreThan(num(1), num(7)), str("yes"), op.Undefined())
		r := evaluate(vm.Operation(x))
		if len(r.Diagnostics) != 2 {
			t.Fatalf("case 4: expected two diagnostics, got %s", r)
		}
		if _, ok := r.Diagnostics[0].Error.(err.MissingValueError); !ok {
			t.Fatalf("case 4: expected MissingValueError first, got %s", r)
		}
		if c := r.Diagnostics[1].Context; c == nil || !c.Value.Equals(val.String("yes")) {
			t.Fatalf("case 4: expected other branch carried, got %s", r)
		}
	}
}

func TestUnknownAndMalformedNodes(t *testing.T) {
	vm := VirtualMachine{}
	{
		x := xpr.ExpressionFromValue(val.MapFromMap(map[string]val.Value{"tag": val.String("Nope")}))
		r := evaluate(vm.Comparison(x))
		e := expectFailure(t, "case 1", r, "UnknownOperationError")
		if e.Message() != `Comparison "Nope" does not exist.` {
			t.Fatalf("case 1: unexpected message %q", e.Message())
		}
	}
	{
		r := evaluate(vm.Operation(nil))
		e := expectFailure(t, "case 2", r, "UnknownOperationError")
		if e.Message() != `Operation "undefined" does not exist.` {
			t.Fatalf("case 2: unexpected message %q", e.Message())
		}
	}
	{
		r := evaluate(vm.Operation(xpr.Unary{Kind: xpr.TagAdd, Operand: num(1)}))
		expectFailure(t, "case 3", r, "MalformedOperationError")
	}
	{
		x := xpr.ExpressionFromValue(val.MapFromMap(map[string]val.Value{
			"tag": val.String("FromElement"),
		}))
		r := evaluate(vm.Operation(x))
		expectFailure(t, "case 4", r, "MalformedOperationError")
	}
}

func TestInterpretersAcceptEitherFamily(t *testing.T) {
	vm := VirtualMachine{}
	expectRight(t, "case 1", evaluate(vm.Operation(op.IsMoreThan(num(9), num(7)))), val.Float(9))
	expectRight(t, "case 2", evaluate(vm.Comparison(op.Add(num(1), num(2)))), val.Float(3))
	expectRight(t, "case 3", evaluate(vm.Comparison(op.IsMoreThan(op.Add(num(5), num(5)), num(7)))), val.Float(10))
}

func TestGuardRecoversPanics(t *testing.T) {
	f := guard(num(1), func(context.Context, val.Value, env.Locals) rsl.Result {
		panic("boom")
	})
	expectFailure(t, "guard", evaluate(f), "PrimitiveError")
}

func TestConditional(t *testing.T) {
	vm := VirtualMachine{}
	ctx := context.Background()
	cases := []struct {
		x      xpr.Expression
		expect bool
	}{
		{op.IsMoreThan(num(9), num(7)), true},
		{op.IsMoreThan(num(7), num(9)), false},
		{op.Constant(val.Bool(false)), false},
		{op.Constant(val.Bool(true)), true},
		{str("anything"), true},
		{op.Undefined(), false},
		{op.IsFalse(op.Constant(val.Bool(false))), false},
	}
	for i, c := range cases {
		if got := vm.Conditional(c.x)(ctx, val.Null, nil); got != c.expect {
			t.Fatalf("case %d: expected %v, got %v", i+1, c.expect, got)
		}
	}
}

func TestDispatchTablesAreComplete(t *testing.T) {
	for _, tag := range xpr.OperatorTags {
		if _, ok := operators[tag]; !ok {
			t.Errorf("operator %s has no compiler", tag)
		}
	}
	for _, tag := range xpr.ComparatorTags {
		if _, ok := comparators[tag]; !ok {
			t.Errorf("comparator %s has no compiler", tag)
		}
	}
	for _, tag := range xpr.FoldTags {
		_, seeded := foldSeeds[tag]
		_, ok := foldFunctions[tag]
		if !seeded || !ok {
			t.Errorf("fold %s is incomplete", tag)
		}
	}
	for _, tag := range xpr.AggregateTags {
		if _, ok := aggregators[tag]; !ok {
			t.Errorf("aggregate %s has no function", tag)
		}
	}
	for _, tag := range xpr.BinaryOperatorTags {
		if _, ok := binaryFunctions[tag]; !ok {
			t.Errorf("binary operator %s has no function", tag)
		}
	}
	for _, tag := range xpr.UnaryTags {
		if _, ok := unaryFunctions[tag]; !ok {
			t.Errorf("unary operator %s has no function", tag)
		}
	}
	for _, tag := range xpr.RoundingTags {
		if _, ok := roundings[tag]; !ok {
			t.Errorf("rounding %s has no rounder", tag)
		}
	}
	for _, tag := range xpr.ComparisonTags {
		if _, ok := relations[tag]; !ok {
			t.Errorf("comparison %s has no relation", tag)
		}
	}
	for _, tag := range xpr.PredicateTags {
		if _, ok := predicates[tag]; !ok {
			t.Errorf("predicate %s has no check", tag)
		}
	}
}
