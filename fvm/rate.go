// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// band applies rate to the part of an amount between the previous band's
// threshold and this one. A nil threshold is open-ended.
type band struct {
	threshold *apd.Decimal
	rate      *apd.Decimal
}

var rateContext = apd.BaseContext.WithPrecision(34)

func (vm VirtualMachine) proportionedRate(x xpr.ProportionedRate) Evaluator {
	amount, table := vm.Operation(x.Amount), vm.Operation(x.Table)
	tag := string(x.Tag())
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		a := numeric(x.Tag(), amount(ctx, argument, locals))
		t := table(ctx, argument, locals)
		if r, ok := rsl.Both(a, t); !ok {
			return r
		}
		bands, problem := parseBands(t.Value)
		if problem != "" {
			return rsl.Failure(err.RateTableError{Tag: tag, Problem: problem, Table: t.Value})
		}
		f, problem := blend(bands, float64(a.Value.(val.Float)))
		if problem != "" {
			return rsl.Failure(err.RateTableError{Tag: tag, Problem: problem, Table: t.Value})
		}
		return finite(x, f)
	}
}

// parseBands accepts [[threshold, rate], ...] and [{threshold, rate}, ...].
func parseBands(v val.Value) ([]band, string) {
	l, ok := v.(val.List)
	if !ok {
		return nil, "table must be a list of bands"
	}
	if len(l) == 0 {
		return nil, "table has no bands"
	}
	bands := make([]band, 0, len(l))
	for i, w := range l {
		var threshold, rate val.Value
		switch w := w.(type) {
		case val.List:
			if len(w) != 2 {
				return nil, fmt.Sprintf("band %d must have a threshold and a rate", i)
			}
			threshold, rate = w[0], w[1]
		case val.Map:
			threshold, rate = orNull(w.Key("threshold")), w.Key("rate")
		default:
			return nil, fmt.Sprintf("band %d must be a pair or a map", i)
		}
		b := band{}
		r, ok := decimal(rate)
		if !ok {
			return nil, fmt.Sprintf("rate of band %d is not a number", i)
		}
		b.rate = r
		if threshold != val.Null {
			t, ok := decimal(threshold)
			if !ok {
				return nil, fmt.Sprintf("threshold of band %d is not a number", i)
			}
			if t.Sign() <= 0 {
				return nil, fmt.Sprintf("threshold of band %d must be positive", i)
			}
			if i > 0 && bands[i-1].threshold.Cmp(t) >= 0 {
				return nil, "thresholds must be ascending"
			}
			b.threshold = t
		} else if i != len(l)-1 {
			return nil, "only the last band may be open-ended"
		}
		bands = append(bands, b)
	}
	return bands, ""
}

// blend returns Σ portion·rate / amount, or the first band's rate for a
// zero amount.
func blend(bands []band, amount float64) (float64, string) {
	a := new(apd.Decimal)
	if _, e := a.SetFloat64(amount); e != nil {
		return 0, "amount is not a finite number"
	}
	if a.Sign() < 0 {
		return 0, "amount must not be negative"
	}
	if a.IsZero() {
		f, _ := bands[0].rate.Float64()
		return f, ""
	}
	last := bands[len(bands)-1]
	if last.threshold != nil && a.Cmp(last.threshold) > 0 {
		return 0, "amount exceeds the last threshold"
	}
	sum, lower := new(apd.Decimal), new(apd.Decimal)
	for _, b := range bands {
		upper := a
		if b.threshold != nil && b.threshold.Cmp(a) < 0 {
			upper = b.threshold
		}
		portion := new(apd.Decimal)
		rateContext.Sub(portion, upper, lower)
		if portion.Sign() <= 0 {
			break
		}
		product := new(apd.Decimal)
		rateContext.Mul(product, portion, b.rate)
		rateContext.Add(sum, sum, product)
		if b.threshold == nil {
			break
		}
		lower = b.threshold
	}
	out := new(apd.Decimal)
	if _, e := rateContext.Quo(out, sum, a); e != nil {
		return 0, e.Error()
	}
	f, e := out.Float64()
	if e != nil {
		return 0, e.Error()
	}
	return f, ""
}

func decimal(v val.Value) (*apd.Decimal, bool) {
	f, ok := number(v)
	if !ok {
		return nil, false
	}
	d := new(apd.Decimal)
	if _, e := d.SetFloat64(f); e != nil {
		return nil, false
	}
	return d, true
}
