// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package fvm compiles operation trees into evaluators. The operator
// interpreter (Operation) and the comparator interpreter (Comparison) hand
// nodes of the other family to each other, so either accepts any tree.
package fvm

import (
	"context"
	"fmt"

	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

const (
	familyOperation  = "Operation"
	familyComparison = "Comparison"
)

// VirtualMachine holds no mutable state; one value may evaluate any number
// of trees concurrently.
type VirtualMachine struct {
	Env env.Environment
}

// Evaluator resolves a compiled tree against a call argument. locals may be nil.
type Evaluator func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result

// Condition is the boolean projection of an Evaluator.
type Condition func(ctx context.Context, argument val.Value, locals env.Locals) bool

// Operation compiles x with the operator table. Undefined and unknown
// nodes compile to an evaluator that always fails.
func (vm VirtualMachine) Operation(x xpr.Expression) Evaluator {
	return vm.compile(familyOperation, x)
}

// Comparison compiles x with the comparator table.
func (vm VirtualMachine) Comparison(x xpr.Expression) Evaluator {
	return vm.compile(familyComparison, x)
}

// Conditional holds iff the comparison succeeds with a value other than false.
func (vm VirtualMachine) Conditional(x xpr.Expression) Condition {
	f := vm.Comparison(x)
	return func(ctx context.Context, argument val.Value, locals env.Locals) bool {
		return holds(f(ctx, argument, locals))
	}
}

func holds(r rsl.Result) bool {
	return r.Ok() && !r.Value.Equals(val.Bool(false))
}

func (vm VirtualMachine) compile(family string, x xpr.Expression) Evaluator {

	if x == nil {
		return fail(err.UnknownOperationError{Family: family, Tag: string(xpr.Undefined), Node: val.Null})
	}

	if x, ok := x.(xpr.Invalid); ok {
		if x.Problem == "" {
			log.Debugf(`%s "%s" does not exist`, family, x.Name)
			return fail(err.UnknownOperationError{Family: family, Tag: string(x.Name), Node: orNull(x.Source)})
		}
		return fail(err.MalformedOperationError{Tag: string(x.Name), Problem: x.Problem, Node: orNull(x.Source)})
	}

	tag := x.Tag()

	switch {
	case tag == xpr.TagTernary:
		if t, ok := x.(xpr.Ternary); ok {
			return guard(x, vm.ternary(family, t))
		}
		return misshapen(x)
	case tag.IsInjector():
		return guard(x, vm.injector(x))
	case tag.IsOperator():
		if c, ok := operators[tag]; ok {
			return guard(x, c(vm, x))
		}
	case tag.IsComparator():
		if c, ok := comparators[tag]; ok {
			return guard(x, c(vm, x))
		}
	}

	log.Debugf(`%s "%s" has no evaluator`, family, tag)
	return fail(err.UnknownOperationError{Family: family, Tag: string(tag), Node: xpr.ValueFromExpression(x)})
}

func (vm VirtualMachine) operations(xs []xpr.Expression) []Evaluator {
	fs := make([]Evaluator, len(xs), len(xs))
	for i, x := range xs {
		fs[i] = vm.Operation(x)
	}
	return fs
}

func (vm VirtualMachine) comparisons(xs []xpr.Expression) []Evaluator {
	fs := make([]Evaluator, len(xs), len(xs))
	for i, x := range xs {
		fs[i] = vm.Comparison(x)
	}
	return fs
}

// compiler builds the evaluator of one node shape.
type compiler func(vm VirtualMachine, x xpr.Expression) Evaluator

// misshapen is returned by compilers handed a node whose struct does not
// fit its tag, e.g. a Unary carrying the tag "Add".
func misshapen(x xpr.Expression) Evaluator {
	return fail(err.MalformedOperationError{
		Tag:     string(x.Tag()),
		Problem: fmt.Sprintf("tag does not fit node shape %T", x),
		Node:    xpr.ValueFromExpression(x),
	})
}

// fail returns an evaluator that yields e without looking at its input.
func fail(e err.Error) Evaluator {
	return func(context.Context, val.Value, env.Locals) rsl.Result {
		return rsl.Failure(e)
	}
}

// guard converts panics escaping a primitive into a PrimitiveError.
func guard(x xpr.Expression, f Evaluator) Evaluator {
	return func(ctx context.Context, argument val.Value, locals env.Locals) (r rsl.Result) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Warnf(`recovered from panic in %s: %v`, x.Tag(), rec)
				r = rsl.Failure(err.PrimitiveError{Tag: string(x.Tag()), Problem: fmt.Sprintf("%v", rec), Node: xpr.ValueFromExpression(x)})
			}
		}()
		return f(ctx, argument, locals)
	}
}

func orNull(v val.Value) val.Value {
	if v == nil {
		return val.Null
	}
	return v
}
