// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"github.com/karmarun/formula/fvm/xpr"
)

// operators and comparators are the dispatch tables. They are keyed by tag;
// the tests check them against xpr.OperatorTags and xpr.ComparatorTags.
var (
	operators   = make(map[xpr.Tag]compiler, len(xpr.OperatorTags))
	comparators = make(map[xpr.Tag]compiler, len(xpr.ComparatorTags))
)

func init() {

	for _, t := range xpr.FoldTags {
		operators[t] = compileFold
	}
	for _, t := range xpr.AggregateTags {
		operators[t] = compileAggregate
	}
	operators[xpr.TagDivide] = compileBinary
	operators[xpr.TagSubtract] = compileBinary
	operators[xpr.TagPower] = compileBinary
	operators[xpr.TagRoot] = compileBinary
	operators[xpr.TagModulo] = compileBinary
	operators[xpr.TagRemainder] = compileBinary
	for _, t := range xpr.UnaryTags {
		operators[t] = compileUnary
	}
	for _, t := range xpr.RoundingTags {
		operators[t] = compileRounding
	}
	operators[xpr.TagProportionedRate] = compileProportionedRate

	comparators[xpr.TagAnd] = compileAnd
	comparators[xpr.TagOr] = compileOr
	for _, t := range xpr.ComparisonTags {
		comparators[t] = compileComparison
	}
	for _, t := range xpr.PredicateTags {
		comparators[t] = compilePredicate
	}
}

func compileFold(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.Fold); ok {
		return vm.fold(x)
	}
	return misshapen(x)
}

func compileAggregate(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.Aggregate); ok {
		return vm.aggregate(x)
	}
	return misshapen(x)
}

func compileBinary(vm VirtualMachine, x xpr.Expression) Evaluator {
	switch y := x.(type) {
	case xpr.Divide:
		return vm.binary(x, y.Dividend, y.Divisor)
	case xpr.Subtract:
		return vm.binary(x, y.Minuend, y.Subtrahend)
	case xpr.Power:
		return vm.binary(x, y.Base, y.Exponent)
	case xpr.Root:
		return vm.binary(x, y.Radicand, y.Index)
	case xpr.Modulo:
		return vm.binary(x, y.Dividend, y.Divisor)
	case xpr.Remainder:
		return vm.binary(x, y.Dividend, y.Divisor)
	}
	return misshapen(x)
}

func compileUnary(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.Unary); ok {
		return vm.unary(x)
	}
	return misshapen(x)
}

func compileRounding(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.Rounding); ok {
		return vm.rounding(x)
	}
	return misshapen(x)
}

func compileProportionedRate(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.ProportionedRate); ok {
		return vm.proportionedRate(x)
	}
	return misshapen(x)
}

func compileAnd(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.And); ok {
		return vm.and(x)
	}
	return misshapen(x)
}

func compileOr(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.Or); ok {
		return vm.or(x)
	}
	return misshapen(x)
}

func compileComparison(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.Comparison); ok {
		return vm.comparison(x)
	}
	return misshapen(x)
}

func compilePredicate(vm VirtualMachine, x xpr.Expression) Evaluator {
	if x, ok := x.(xpr.Predicate); ok {
		return vm.predicate(x)
	}
	return misshapen(x)
}
