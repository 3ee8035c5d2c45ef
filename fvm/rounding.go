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

// roundings map a tag to the apd rounder applied at the requested exponent.
// Round adds half a unit first and floors, so halves go towards +∞.
var roundings = map[xpr.Tag]apd.Rounder{
	xpr.TagRound:     apd.RoundFloor,
	xpr.TagRoundUp:   apd.RoundCeiling,
	xpr.TagRoundDown: apd.RoundFloor,
	xpr.TagTruncate:  apd.RoundDown,
}

func (vm VirtualMachine) rounding(x xpr.Rounding) Evaluator {
	operand := vm.Operation(x.Operand)
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		r := numeric(x.Kind, operand(ctx, argument, locals))
		if !r.Ok() {
			return r
		}
		f, e := round(x.Kind, float64(r.Value.(val.Float)), x.Places)
		if e != nil {
			return rsl.Failure(err.PrimitiveError{Tag: string(x.Kind), Problem: e.Error(), Node: xpr.ValueFromExpression(x)})
		}
		return finite(x, f)
	}
}

// round works on the shortest decimal representation of f, so 2.675
// rounds to 2.68 even though its binary value is slightly below.
func round(kind xpr.Tag, f float64, places int) (float64, error) {
	d := new(apd.Decimal)
	if _, e := d.SetFloat64(f); e != nil {
		return 0, e
	}
	precision := int(d.NumDigits()) + int(d.Exponent) + places + 2
	if precision < 16 {
		precision = 16
	}
	c := apd.BaseContext.WithPrecision(uint32(precision))
	c.Rounding = roundings[kind]
	if kind == xpr.TagRound {
		half := apd.New(5, -1-int32(places))
		if _, e := c.Add(d, d, half); e != nil {
			return 0, e
		}
	}
	out := new(apd.Decimal)
	if _, e := c.Quantize(out, d, -int32(places)); e != nil {
		return 0, fmt.Errorf("rounding to %d places: %w", places, e)
	}
	return out.Float64()
}
