// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"math"
	"testing"

	"github.com/karmarun/formula/fvm/op"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

func expectApprox(t *testing.T, label string, vm VirtualMachine, x xpr.Expression, f float64) {
	t.Helper()
	r := evaluate(vm.Operation(x))
	if !r.Ok() {
		t.Fatalf("%s: expected Right(%v), got %s", label, f, r)
	}
	g, ok := r.Value.(val.Float)
	if !ok || math.Abs(float64(g)-f) > 1e-9 {
		t.Fatalf("%s: expected Right(%v), got %s", label, f, r)
	}
}

func TestBinaryOperators(t *testing.T) {
	vm := VirtualMachine{}
	expectApprox(t, "subtract", vm, op.Subtract(num(10), num(4)), 6)
	expectApprox(t, "divide", vm, op.Divide(num(7), num(2)), 3.5)
	expectApprox(t, "power", vm, op.Power(num(2), num(10)), 1024)
	expectApprox(t, "square root", vm, op.Root(num(16), num(2)), 4)
	expectApprox(t, "odd root of negative", vm, op.Root(num(-8), num(3)), -2)
	expectApprox(t, "modulo", vm, op.Modulo(num(-7), num(3)), 2)
	expectApprox(t, "remainder", vm, op.Remainder(num(-7), num(3)), -1)

	expectFailure(t, "zeroth root", evaluate(vm.Operation(op.Root(num(4), num(0)))), "ZerothRootError")
	expectFailure(t, "modulo by zero", evaluate(vm.Operation(op.Modulo(num(7), num(0)))), "ZeroDivisionError")
	expectFailure(t, "even root of negative", evaluate(vm.Operation(op.Root(num(-4), num(2)))), "NonFiniteResultError")
	expectFailure(t, "overflow", evaluate(vm.Operation(op.Power(num(10), num(400)))), "NonFiniteResultError")

	{
		r := evaluate(vm.Operation(op.Subtract(op.Undefined(), op.Undefined())))
		if len(r.Errors()) != 2 {
			t.Fatalf("both sides must be reported, got %s", r)
		}
	}
}

func TestUnaryOperators(t *testing.T) {
	vm := VirtualMachine{}
	expectApprox(t, "sign", vm, op.Sign(num(-3)), -1)
	expectApprox(t, "absolute", vm, op.AbsoluteValue(num(-2.5)), 2.5)
	expectApprox(t, "reciprocal", vm, op.Reciprocal(num(4)), 0.25)
	expectApprox(t, "exponential", vm, op.Exponential(num(0)), 1)
	expectApprox(t, "logarithm", vm, op.NaturalLogarithm(num(math.E)), 1)
	expectApprox(t, "cosine", vm, op.Cosine(num(0)), 1)

	{
		r := evaluate(vm.Operation(op.Reciprocal(num(0))))
		expectFailure(t, "reciprocal of zero", r, "ZeroDivisionError")
		if len(r.Diagnostics) != 1 {
			t.Fatalf("unary domain errors are reported alone, got %s", r)
		}
	}
	expectFailure(t, "square root of negative", evaluate(vm.Operation(op.SquareRoot(num(-1)))), "NonFiniteResultError")
	expectFailure(t, "logarithm of zero", evaluate(vm.Operation(op.NaturalLogarithm(num(0)))), "NonFiniteResultError")
	expectApprox(t, "integer operand", vm, op.Sign(op.Constant(val.Int64(7))), 1)
}

func TestAggregates(t *testing.T) {
	vm := VirtualMachine{}
	expectApprox(t, "max flattens lists", vm, op.Max(num(1), list(val.Float(5), val.Float(2))), 5)
	expectApprox(t, "min", vm, op.Min(num(4), num(-1), num(3)), -1)
	expectApprox(t, "mean", vm, op.Mean(num(1), num(2), num(3), num(4)), 2.5)
	expectApprox(t, "median odd", vm, op.Median(num(3), num(1), num(2)), 2)
	expectApprox(t, "median even", vm, op.Median(num(4), num(1), num(3), num(2)), 2.5)
	expectApprox(t, "mode", vm, op.Mode(num(1), num(3), num(2), num(3), num(2)), 3)
	expectApprox(t, "standard deviation", vm, op.StandardDeviation(num(2), num(4), num(4), num(4), num(5), num(5), num(7), num(9)), 2)
	expectApprox(t, "root mean square", vm, op.RootMeanSquare(num(3), num(4)), math.Sqrt(12.5))
	expectApprox(t, "hypotenuse", vm, op.Hypotenuse(num(3), num(4)), 5)

	expectFailure(t, "no operands", evaluate(vm.Operation(op.Max())), "EmptyListError")
	expectFailure(t, "empty list", evaluate(vm.Operation(op.Mean(list()))), "EmptyListError")
	expectFailure(t, "non-number element", evaluate(vm.Operation(op.Max(list(val.String("x"))))), "OperandTypeError")
	{
		r := evaluate(vm.Operation(op.Max(num(1), op.Undefined(), op.Undefined())))
		if len(r.Errors()) != 1 {
			t.Fatalf("aggregates stop at the first failure, got %s", r)
		}
	}
}

func TestRounding(t *testing.T) {
	vm := VirtualMachine{}
	cases := []struct {
		x      xpr.Expression
		expect float64
	}{
		{op.Round(num(2.675), 2), 2.68},
		{op.Round(num(2.5), 0), 3},
		{op.Round(num(-2.5), 0), -2},
		{op.Round(num(1234.5), -2), 1200},
		{op.RoundUp(num(1.001), 2), 1.01},
		{op.RoundUp(num(-1.009), 2), -1},
		{op.RoundDown(num(-1.001), 2), -1.01},
		{op.RoundDown(num(1.009), 2), 1},
		{op.Truncate(num(-1.009), 2), -1},
		{op.Truncate(num(7.9), 0), 7},
	}
	for i, c := range cases {
		r := evaluate(vm.Operation(c.x))
		if !r.Ok() || !r.Value.Equals(val.Float(c.expect)) {
			t.Fatalf("case %d: expected %v, got %s", i+1, c.expect, r)
		}
	}
}

func TestProportionedRate(t *testing.T) {
	vm := VirtualMachine{}
	pairs := list(
		val.List{val.Float(100), val.Float(0.1)},
		val.List{val.Null, val.Float(0.2)},
	)
	expectApprox(t, "first band", vm, op.ProportionedRate(num(50), pairs), 0.1)
	expectApprox(t, "two bands", vm, op.ProportionedRate(num(150), pairs), 20.0/150.0)
	expectApprox(t, "zero amount", vm, op.ProportionedRate(num(0), pairs), 0.1)

	maps := list(
		val.MapFromMap(map[string]val.Value{"threshold": val.Float(1000), "rate": val.Float(0)}),
		val.MapFromMap(map[string]val.Value{"rate": val.Float(0.5)}),
	)
	expectApprox(t, "map bands", vm, op.ProportionedRate(num(2000), maps), 0.25)

	expectFailure(t, "not a list", evaluate(vm.Operation(op.ProportionedRate(num(1), str("x")))), "RateTableError")
	expectFailure(t, "descending", evaluate(vm.Operation(op.ProportionedRate(num(1), list(
		val.List{val.Float(100), val.Float(0.1)},
		val.List{val.Float(50), val.Float(0.2)},
	)))), "RateTableError")
	expectFailure(t, "above last threshold", evaluate(vm.Operation(op.ProportionedRate(num(150), list(
		val.List{val.Float(100), val.Float(0.1)},
	)))), "RateTableError")
	expectFailure(t, "negative amount", evaluate(vm.Operation(op.ProportionedRate(num(-1), pairs))), "RateTableError")
}
