// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"context"
	"math"

	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// domain names the failure of a numeric primitive outside its domain.
type domain int

const (
	inDomain domain = iota
	zeroDivision
	zerothRoot
)

func (d domain) failure(x xpr.Expression) err.Error {
	switch d {
	case zeroDivision:
		return err.ZeroDivisionError{Tag: string(x.Tag()), Node: xpr.ValueFromExpression(x)}
	case zerothRoot:
		return err.ZerothRootError{Tag: string(x.Tag()), Node: xpr.ValueFromExpression(x)}
	}
	return nil
}

// numeric narrows a Right to a Float, converting integers.
func numeric(tag xpr.Tag, r rsl.Result) rsl.Result {
	if !r.Ok() {
		return r
	}
	if f, ok := number(r.Value); ok {
		return rsl.Right(val.Float(f))
	}
	return rsl.Failure(err.OperandTypeError{Tag: string(tag), Expected: "number", Actual: r.Value})
}

func number(v val.Value) (float64, bool) {
	switch v := v.(type) {
	case val.Float:
		return float64(v), true
	case val.Int64:
		return float64(v), true
	}
	return 0, false
}

// finite wraps f unless it is NaN or infinite.
func finite(x xpr.Expression, f float64) rsl.Result {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return rsl.Failure(err.NonFiniteResultError{Tag: string(x.Tag()), Node: xpr.ValueFromExpression(x)})
	}
	return rsl.Right(val.Float(f))
}

var foldSeeds = map[xpr.Tag]float64{
	xpr.TagAdd:      0,
	xpr.TagMultiply: 1,
}

var foldFunctions = map[xpr.Tag]func(a, b float64) float64{
	xpr.TagAdd:      func(a, b float64) float64 { return a + b },
	xpr.TagMultiply: func(a, b float64) float64 { return a * b },
}

// fold evaluates every operand and folds them onto the kind's identity.
// A failed operand does not stop the fold; all failures are reported.
func (vm VirtualMachine) fold(x xpr.Fold) Evaluator {
	operands := vm.operations(x.Operands)
	seed, f := foldSeeds[x.Kind], foldFunctions[x.Kind]
	combine := func(a, b val.Value) rsl.Result {
		return finite(x, f(float64(a.(val.Float)), float64(b.(val.Float))))
	}
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		rs := make([]rsl.Result, len(operands), len(operands))
		for i, operand := range operands {
			rs[i] = numeric(x.Kind, operand(ctx, argument, locals))
		}
		return rsl.Fold(rsl.Right(val.Float(seed)), rs, combine)
	}
}

var binaryFunctions = map[xpr.Tag]func(a, b float64) (float64, domain){
	xpr.TagDivide: func(a, b float64) (float64, domain) {
		if b == 0 {
			return 0, zeroDivision
		}
		return a / b, inDomain
	},
	xpr.TagSubtract: func(a, b float64) (float64, domain) {
		return a - b, inDomain
	},
	xpr.TagPower: func(a, b float64) (float64, domain) {
		return math.Pow(a, b), inDomain
	},
	xpr.TagRoot: func(a, b float64) (float64, domain) {
		if b == 0 {
			return 0, zerothRoot
		}
		// odd roots of negative radicands are real
		if a < 0 && b == math.Trunc(b) && math.Mod(b, 2) != 0 {
			return -math.Pow(-a, 1/b), inDomain
		}
		return math.Pow(a, 1/b), inDomain
	},
	xpr.TagModulo: func(a, b float64) (float64, domain) {
		if b == 0 {
			return 0, zeroDivision
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, inDomain
	},
	xpr.TagRemainder: func(a, b float64) (float64, domain) {
		if b == 0 {
			return 0, zeroDivision
		}
		return math.Mod(a, b), inDomain
	},
}

// binary evaluates both sides unconditionally. A domain error is reported
// next to the resolved left side.
func (vm VirtualMachine) binary(x xpr.Expression, l, r xpr.Expression) Evaluator {
	left, right := vm.Operation(l), vm.Operation(r)
	tag := x.Tag()
	f := binaryFunctions[tag]
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		a := numeric(tag, left(ctx, argument, locals))
		b := numeric(tag, right(ctx, argument, locals))
		if r, ok := rsl.Both(a, b); !ok {
			return r
		}
		v, d := f(float64(a.Value.(val.Float)), float64(b.Value.(val.Float)))
		if d != inDomain {
			return rsl.Left(rsl.Carry(a), rsl.Fail(d.failure(x)))
		}
		return finite(x, v)
	}
}

var unaryFunctions = map[xpr.Tag]func(float64) (float64, domain){
	xpr.TagSine:                 total(math.Sin),
	xpr.TagCosine:               total(math.Cos),
	xpr.TagTangent:              total(math.Tan),
	xpr.TagArcSine:              total(math.Asin),
	xpr.TagArcCosine:            total(math.Acos),
	xpr.TagArcTangent:           total(math.Atan),
	xpr.TagHyperbolicSine:       total(math.Sinh),
	xpr.TagHyperbolicCosine:     total(math.Cosh),
	xpr.TagHyperbolicTangent:    total(math.Tanh),
	xpr.TagArcHyperbolicSine:    total(math.Asinh),
	xpr.TagArcHyperbolicCosine:  total(math.Acosh),
	xpr.TagArcHyperbolicTangent: total(math.Atanh),
	xpr.TagSign: total(func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		}
		return 0
	}),
	xpr.TagReciprocal: func(f float64) (float64, domain) {
		if f == 0 {
			return 0, zeroDivision
		}
		return 1 / f, inDomain
	},
	xpr.TagAbsoluteValue:    total(math.Abs),
	xpr.TagSquareRoot:       total(math.Sqrt),
	xpr.TagNaturalLogarithm: total(math.Log),
	xpr.TagExponential:      total(math.Exp),
}

// total lifts a primitive without domain errors; out of range input shows
// up as NaN or infinity instead.
func total(f func(float64) float64) func(float64) (float64, domain) {
	return func(g float64) (float64, domain) {
		return f(g), inDomain
	}
}

func (vm VirtualMachine) unary(x xpr.Unary) Evaluator {
	operand := vm.Operation(x.Operand)
	f := unaryFunctions[x.Kind]
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		r := numeric(x.Kind, operand(ctx, argument, locals))
		if !r.Ok() {
			return r
		}
		v, d := f(float64(r.Value.(val.Float)))
		if d != inDomain {
			return rsl.Failure(d.failure(x))
		}
		return finite(x, v)
	}
}
