// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

func texts(tag xpr.Tag, a, b val.Value) (string, string, err.Error) {
	x, ok := a.(val.String)
	if !ok {
		return "", "", err.OperandTypeError{Tag: string(tag), Expected: "string", Actual: a}
	}
	y, ok := b.(val.String)
	if !ok {
		return "", "", err.OperandTypeError{Tag: string(tag), Expected: "string", Actual: b}
	}
	return string(x), string(y), nil
}

// pattern compiles the test as an RE2 regular expression.
func pattern(tag xpr.Tag, a, b val.Value) (string, *regexp.Regexp, err.Error) {
	s, p, e := texts(tag, a, b)
	if e != nil {
		return "", nil, e
	}
	re, x := regexp.Compile(p)
	if x != nil {
		return "", nil, err.PatternError{Tag: string(tag), Pattern: p, Problem: x.Error()}
	}
	return s, re, nil
}

func matches(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	s, re, e := pattern(tag, a, b)
	if e != nil {
		return false, e
	}
	return re.MatchString(s), nil
}

func doesNotMatch(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	s, re, e := pattern(tag, a, b)
	if e != nil {
		return false, e
	}
	return !re.MatchString(s), nil
}

func startsWith(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	if l, ok := a.(val.List); ok {
		return len(l) > 0 && val.Same(l[0], b), nil
	}
	s, p, e := texts(tag, a, b)
	if e != nil {
		return false, e
	}
	return strings.HasPrefix(s, p), nil
}

func endsWith(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	if l, ok := a.(val.List); ok {
		return len(l) > 0 && val.Same(l[len(l)-1], b), nil
	}
	s, p, e := texts(tag, a, b)
	if e != nil {
		return false, e
	}
	return strings.HasSuffix(s, p), nil
}

// contains looks for a substring in strings and for an element in lists.
// List elements compare as set members do.
func contains(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	if l, ok := a.(val.List); ok {
		for _, v := range l {
			if val.Same(v, b) {
				return true, nil
			}
		}
		return false, nil
	}
	s, p, e := texts(tag, a, b)
	if e != nil {
		return false, e
	}
	return strings.Contains(s, p), nil
}

// resemblesFuzzily holds when the test's characters occur in the operand in
// order, ignoring case and diacritics, or when the two differ by a few edits.
func resemblesFuzzily(_ env.Environment, tag xpr.Tag, a, b val.Value) (bool, err.Error) {
	s, p, e := texts(tag, a, b)
	if e != nil {
		return false, e
	}
	if fuzzy.MatchNormalizedFold(p, s) {
		return true, nil
	}
	budget := utf8.RuneCountInString(p) / 4
	if budget < 1 {
		budget = 1
	}
	return fuzzy.LevenshteinDistance(strings.ToLower(s), strings.ToLower(p)) <= budget, nil
}
