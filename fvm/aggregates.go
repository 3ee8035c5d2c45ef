// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"context"
	"math"
	"sort"

	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// aggregators receive at least one value.
var aggregators = map[xpr.Tag]func([]float64) float64{
	xpr.TagMax: func(fs []float64) float64 {
		m := fs[0]
		for _, f := range fs[1:] {
			m = math.Max(m, f)
		}
		return m
	},
	xpr.TagMin: func(fs []float64) float64 {
		m := fs[0]
		for _, f := range fs[1:] {
			m = math.Min(m, f)
		}
		return m
	},
	xpr.TagMean: mean,
	xpr.TagMedian: func(fs []float64) float64 {
		s := append([]float64(nil), fs...)
		sort.Float64s(s)
		if n := len(s); n%2 == 0 {
			return (s[n/2-1] + s[n/2]) / 2
		}
		return s[len(s)/2]
	},
	xpr.TagMode: func(fs []float64) float64 {
		counts := make(map[float64]int, len(fs))
		for _, f := range fs {
			counts[f]++
		}
		mode, most := fs[0], 0
		for _, f := range fs {
			if counts[f] > most { // earliest value wins ties
				mode, most = f, counts[f]
			}
		}
		return mode
	},
	xpr.TagStandardDeviation: func(fs []float64) float64 {
		m, sum := mean(fs), 0.0
		for _, f := range fs {
			sum += (f - m) * (f - m)
		}
		return math.Sqrt(sum / float64(len(fs)))
	},
	xpr.TagRootMeanSquare: func(fs []float64) float64 {
		sum := 0.0
		for _, f := range fs {
			sum += f * f
		}
		return math.Sqrt(sum / float64(len(fs)))
	},
	xpr.TagHypotenuse: func(fs []float64) float64 {
		h := 0.0
		for _, f := range fs {
			h = math.Hypot(h, f)
		}
		return h
	},
}

func mean(fs []float64) float64 {
	sum := 0.0
	for _, f := range fs {
		sum += f
	}
	return sum / float64(len(fs))
}

// aggregate collects operand values, flattening lists one level, and stops
// at the first failing operand.
func (vm VirtualMachine) aggregate(x xpr.Aggregate) Evaluator {
	operands := vm.operations(x.Operands)
	f := aggregators[x.Kind]
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		fs := make([]float64, 0, len(operands))
		for _, operand := range operands {
			r := operand(ctx, argument, locals)
			if !r.Ok() {
				return r
			}
			vs := val.List{r.Value}
			if l, ok := r.Value.(val.List); ok {
				vs = l
			}
			for _, v := range vs {
				n, ok := number(v)
				if !ok {
					return rsl.Failure(err.OperandTypeError{Tag: string(x.Kind), Expected: "number", Actual: v})
				}
				fs = append(fs, n)
			}
		}
		if len(fs) == 0 {
			return rsl.Failure(err.EmptyListError{Tag: string(x.Kind), Node: xpr.ValueFromExpression(x)})
		}
		return finite(x, f(fs))
	}
}
