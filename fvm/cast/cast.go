// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package cast converts raw injected values into the semantic datatype an
// operation expects. Casts never panic; every failure is a CastError.
package cast

import (
	"fmt"

	"github.com/karmarun/formula/codec/json"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// caster converts v or returns a one-line problem description.
type caster func(v val.Value) (val.Value, string)

var casters map[xpr.Datatype]caster

func init() {
	casters = map[xpr.Datatype]caster{
		xpr.DatatypeBoolean:  toBoolean,
		xpr.DatatypeFloat:    toFloat,
		xpr.DatatypeInteger:  toInteger,
		xpr.DatatypeAmount:   toAmount,
		xpr.DatatypeString:   toString,
		xpr.DatatypeDate:     toDate,
		xpr.DatatypeDateTime: toDateTime,
		xpr.DatatypeTime:     toTime,
		xpr.DatatypeDuration: toDuration,
		xpr.DatatypeURL:      toURL,
		xpr.DatatypeList:     toList,
		xpr.DatatypeJSON:     toJSON,
	}
}

// To casts an already typed value, e.g. a constant or the call argument.
// Values of the target runtime type pass through; strings are parsed.
func To(d xpr.Datatype, v val.Value) (r rsl.Result) {
	if v == nil || v == val.Null {
		return rsl.Failure(err.CastError{Datatype: string(d), Input: val.Null, Problem: "value is missing"})
	}
	c, ok := casters[d]
	if !ok {
		return rsl.Failure(err.CastError{Datatype: string(d), Input: v, Problem: "unknown datatype"})
	}
	defer func() {
		if rec := recover(); rec != nil {
			r = rsl.Failure(err.CastError{Datatype: string(d), Input: v, Problem: fmt.Sprintf("%v", rec)})
		}
	}()
	w, problem := c(v)
	if problem != "" {
		return rsl.Failure(err.CastError{Datatype: string(d), Input: v, Problem: problem})
	}
	return rsl.Right(w)
}

// Text casts raw text read from a document, a store, the location or a
// remote body. Unlike To, the json datatype parses its input.
func Text(d xpr.Datatype, s string) rsl.Result {
	if d != xpr.DatatypeJSON {
		return To(d, val.String(s))
	}
	v, e := json.Decode(json.JSON(s))
	if e != nil {
		return rsl.Failure(err.CastError{Datatype: string(d), Input: val.String(s), Problem: "malformed JSON", Child_: e})
	}
	return rsl.Right(v)
}

// Supported reports whether d has a caster.
func Supported(d xpr.Datatype) bool {
	_, ok := casters[d]
	return ok
}
