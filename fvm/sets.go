// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// setOf builds a set from a list, a set or the runes of a string. Any other
// value is an InvalidSetError naming the comparator.
func setOf(tag xpr.Tag, v val.Value) (val.Set, err.Error) {
	switch v := v.(type) {
	case val.Set:
		return v, nil
	case val.List:
		return val.SetFromList(v), nil
	case val.String:
		rs := []rune(string(v))
		l := make(val.List, len(rs), len(rs))
		for i, r := range rs {
			l[i] = val.String(r)
		}
		return val.SetFromList(l), nil
	}
	return nil, err.InvalidSetError{Tag: string(tag), Input: v}
}

func setsOf(tag xpr.Tag, a, b val.Value) (val.Set, val.Set, err.Error) {
	x, e := setOf(tag, a)
	if e != nil {
		return nil, nil, e
	}
	y, e := setOf(tag, b)
	if e != nil {
		return nil, nil, e
	}
	return x, y, nil
}

// includes reports whether every element of y is in x.
func includes(x, y val.Set) bool {
	for _, v := range y {
		if !x.Has(v) {
			return false
		}
	}
	return true
}

func intersects(x, y val.Set) bool {
	for _, v := range x {
		if y.Has(v) {
			return true
		}
	}
	return false
}

func subsetOf(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	x, y, e := setsOf(tag, a, b)
	if e != nil {
		return false, e
	}
	return includes(y, x), nil
}

func supersetOf(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	x, y, e := setsOf(tag, a, b)
	if e != nil {
		return false, e
	}
	return includes(x, y), nil
}

func disjointFrom(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	x, y, e := setsOf(tag, a, b)
	if e != nil {
		return false, e
	}
	return !intersects(x, y), nil
}

func overlaps(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	x, y, e := setsOf(tag, a, b)
	if e != nil {
		return false, e
	}
	return intersects(x, y), nil
}

// memberOf holds when the operand is an element of the test collection.
func memberOf(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	y, e := setOf(tag, b)
	if e != nil {
		return false, e
	}
	return y.Has(a), nil
}
