// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"context"
	"sync"

	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// and evaluates every operand in order. It is Right with the last
// operand's value when all succeed; otherwise every failure is reported.
func (vm VirtualMachine) and(x xpr.And) Evaluator {
	operands := vm.comparisons(x.Operands)
	last := func(_, b val.Value) rsl.Result {
		return rsl.Right(b)
	}
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		rs := make([]rsl.Result, len(operands), len(operands))
		for i, operand := range operands {
			rs[i] = operand(ctx, argument, locals)
		}
		return rsl.Fold(rsl.Right(val.Bool(true)), rs, last)
	}
}

// or evaluates all operands concurrently and returns the first Right in
// source order. When all fail, their diagnostics are concatenated in order.
func (vm VirtualMachine) or(x xpr.Or) Evaluator {
	operands := vm.comparisons(x.Operands)
	if len(operands) == 0 {
		return fail(err.MalformedOperationError{Tag: string(xpr.TagOr), Problem: "no operands", Node: xpr.ValueFromExpression(x)})
	}
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		rs := make([]rsl.Result, len(operands), len(operands))
		wg := sync.WaitGroup{}
		wg.Add(len(operands))
		for i, operand := range operands {
			go func(i int, operand Evaluator) {
				defer wg.Done()
				rs[i] = operand(ctx, argument, locals)
			}(i, operand)
		}
		wg.Wait()
		ds := make(rsl.Diagnostics, 0, len(rs))
		for _, r := range rs {
			if r.Ok() {
				return r
			}
			ds = append(ds, r.Diagnostics...)
		}
		return rsl.Left(ds...)
	}
}

// ternary evaluates all three parts. A failed selected branch reports its
// errors followed by the other branch's Result.
func (vm VirtualMachine) ternary(family string, x xpr.Ternary) Evaluator {
	condition := vm.Comparison(x.Condition)
	ifTrue, ifFalse := vm.compile(family, x.IfTrue), vm.compile(family, x.IfFalse)
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		c := condition(ctx, argument, locals)
		t := ifTrue(ctx, argument, locals)
		f := ifFalse(ctx, argument, locals)
		chosen, other := f, t
		if holds(c) {
			chosen, other = t, f
		}
		if chosen.Ok() {
			return chosen
		}
		ds := make(rsl.Diagnostics, 0, len(chosen.Diagnostics)+1)
		ds = append(ds, chosen.Diagnostics...)
		ds = append(ds, rsl.Carry(other))
		return rsl.Left(ds...)
	}
}

// comparison evaluates operand and test, always both, and applies the
// kind's relation. Its value on success is the operand's.
func (vm VirtualMachine) comparison(x xpr.Comparison) Evaluator {
	operand, test := vm.Comparison(x.Operand), vm.Comparison(x.Test)
	rel := relations[x.Kind]
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		a := operand(ctx, argument, locals)
		b := test(ctx, argument, locals)
		if r, ok := rsl.Both(a, b); !ok {
			return r
		}
		ok, e := rel.holds(vm.Env, x.Kind, a.Value, b.Value)
		if e != nil {
			return rsl.Failure(e)
		}
		if !ok {
			return rsl.Failure(err.RelationError{Tag: string(x.Kind), Format: rel.format, Operand: a.Value, Test: b.Value})
		}
		return rsl.Right(a.Value)
	}
}

func (vm VirtualMachine) predicate(x xpr.Predicate) Evaluator {
	operand := vm.Comparison(x.Operand)
	p := predicates[x.Kind]
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		r := operand(ctx, argument, locals)
		if !r.Ok() {
			return r
		}
		if !p.holds(r.Value) {
			return rsl.Failure(err.PredicateError{Tag: string(x.Kind), Shape: p.shape, Operand: r.Value})
		}
		return r
	}
}
