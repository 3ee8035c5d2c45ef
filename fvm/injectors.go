// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"context"
	"strconv"
	"strings"

	"github.com/karmarun/formula/codec/json"
	"github.com/karmarun/formula/fvm/cast"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// source resolves the raw value of an injector. Sources reading text
// return a val.String and set text, so the json datatype parses it.
type source func(ctx context.Context, argument val.Value) (v val.Value, text bool, e err.Error)

// injector checks the locals first, then asks the live source. Either way
// the result is cast to the node's datatype.
func (vm VirtualMachine) injector(x xpr.Expression) Evaluator {
	node := xpr.ValueFromExpression(x)
	tag := string(x.Tag())
	datatype := x.Datatype()
	key, overridable := xpr.LocalKey(x)
	resolve := vm.source(x, node)
	return func(ctx context.Context, argument val.Value, locals env.Locals) rsl.Result {
		if overridable {
			if v, ok := locals.Lookup(key); ok {
				log.Tracef(`%s "%s" taken from locals`, tag, key)
				return typed(tag, node, datatype, v, isTextSource(x))
			}
		}
		v, text, e := resolve(ctx, argument)
		if e != nil {
			return rsl.Failure(e)
		}
		return typed(tag, node, datatype, v, text)
	}
}

// typed casts v; missing values and empty text fail before the cast.
func typed(tag string, node val.Value, d xpr.Datatype, v val.Value, text bool) rsl.Result {
	if v == nil || v == val.Null {
		return rsl.Failure(err.MissingValueError{Tag: tag, Node: node})
	}
	s, isString := v.(val.String)
	if text && isString {
		if s == "" && d != xpr.DatatypeString {
			return rsl.Failure(err.MissingValueError{Tag: tag, Node: node})
		}
		return cast.Text(d, string(s))
	}
	return cast.To(d, v)
}

func isTextSource(x xpr.Expression) bool {
	switch x.(type) {
	case xpr.FromElement, xpr.FromLocalStorage, xpr.FromSessionStorage, xpr.FromQueryString, xpr.FromPathSegment:
		return true
	}
	return false
}

func (vm VirtualMachine) source(x xpr.Expression, node val.Value) source {
	tag := string(x.Tag())
	unavailable := func(name string) source {
		return func(context.Context, val.Value) (val.Value, bool, err.Error) {
			return nil, false, err.SourceUnavailableError{Tag: tag, Source: name, Node: node}
		}
	}
	switch x := x.(type) {

	case xpr.Constant:
		return func(context.Context, val.Value) (val.Value, bool, err.Error) {
			return x.Value, false, nil
		}

	case xpr.FromArgument:
		return func(_ context.Context, argument val.Value) (val.Value, bool, err.Error) {
			if x.Key == "" {
				return argument, false, nil
			}
			m, ok := argument.(val.Map)
			if !ok {
				return nil, false, err.KeyNotFoundError{Tag: tag, Key: x.Key, Problem: "argument is not a map", Node: node}
			}
			v, ok := m.Get(x.Key)
			if !ok {
				return nil, false, err.KeyNotFoundError{Tag: tag, Key: x.Key, Node: node}
			}
			return v, false, nil
		}

	case xpr.FromElement:
		if vm.Env.Document == nil {
			return unavailable("document")
		}
		document := vm.Env.Document
		return func(context.Context, val.Value) (val.Value, bool, err.Error) {
			s, ok := document.Value(x.Selector)
			if !ok {
				return nil, false, err.SelectorNotFoundError{Tag: tag, Selector: x.Selector, Node: node}
			}
			return val.String(s), true, nil
		}

	case xpr.FromLocalStorage:
		return vm.store(tag, "localStorage", vm.Env.Local, x.Key, node)

	case xpr.FromSessionStorage:
		return vm.store(tag, "sessionStorage", vm.Env.Session, x.Key, node)

	case xpr.FromQueryString:
		if vm.Env.Location == nil {
			return unavailable("location")
		}
		location := vm.Env.Location
		return func(context.Context, val.Value) (val.Value, bool, err.Error) {
			s, ok := location.Query(x.Key)
			if !ok {
				return nil, false, err.KeyNotFoundError{Tag: tag, Key: x.Key, Node: node}
			}
			return val.String(s), true, nil
		}

	case xpr.FromPathSegment:
		if vm.Env.Location == nil {
			return unavailable("location")
		}
		location := vm.Env.Location
		return func(context.Context, val.Value) (val.Value, bool, err.Error) {
			s, ok := location.Segment(x.Index)
			if !ok {
				return nil, false, err.SegmentNotFoundError{Tag: tag, Index: x.Index, Path: location.Path(), Node: node}
			}
			return val.String(s), true, nil
		}

	case xpr.FromRemote:
		if vm.Env.Fetcher == nil {
			return unavailable("network")
		}
		fetcher := vm.Env.Fetcher
		return func(ctx context.Context, _ val.Value) (val.Value, bool, err.Error) {
			body, e := fetcher.Fetch(ctx, x.URL)
			if e != nil {
				return nil, false, err.FetchError{Tag: tag, URL: x.URL, Problem: e.Error(), Node: node}
			}
			v, f := json.Decode(body)
			if f != nil {
				if x.Path != "" {
					return nil, false, err.FetchError{Tag: tag, URL: x.URL, Problem: "body is not JSON, cannot follow path", Node: node}
				}
				return val.String(body), true, nil
			}
			w, ok := follow(v, x.Path)
			if !ok {
				return nil, false, err.KeyNotFoundError{Tag: tag, Key: x.Path, Node: node}
			}
			return w, false, nil
		}

	case xpr.FromLookupTable:
		if vm.Env.Tables == nil {
			return unavailable("lookupTables")
		}
		tables := vm.Env.Tables
		return func(ctx context.Context, _ val.Value) (val.Value, bool, err.Error) {
			row, ok, e := tables.Row(ctx, x.Table, x.Row)
			if e != nil {
				return nil, false, err.KeyNotFoundError{Tag: tag, Key: x.Table + "/" + x.Row, Problem: e.Error(), Node: node}
			}
			if !ok {
				return nil, false, err.KeyNotFoundError{Tag: tag, Key: x.Table + "/" + x.Row, Node: node}
			}
			m, ok := row.(val.Map)
			if !ok {
				return nil, false, err.KeyNotFoundError{Tag: tag, Key: x.Column, Problem: "row is not a map", Node: node}
			}
			v, ok := m.Get(x.Column)
			if !ok {
				return nil, false, err.KeyNotFoundError{Tag: tag, Key: x.Column, Node: node}
			}
			return v, false, nil
		}

	}
	return unavailable(tag)
}

func (vm VirtualMachine) store(tag, name string, store env.Store, key string, node val.Value) source {
	if store == nil {
		return func(context.Context, val.Value) (val.Value, bool, err.Error) {
			return nil, false, err.SourceUnavailableError{Tag: tag, Source: name, Node: node}
		}
	}
	return func(context.Context, val.Value) (val.Value, bool, err.Error) {
		s, ok, e := store.Get(key)
		if e != nil {
			return nil, false, err.KeyNotFoundError{Tag: tag, Key: key, Problem: e.Error(), Node: node}
		}
		if !ok {
			return nil, false, err.KeyNotFoundError{Tag: tag, Key: key, Node: node}
		}
		return val.String(s), true, nil
	}
}

// follow walks a dotted path through maps and lists; list steps are indexes.
func follow(v val.Value, path string) (val.Value, bool) {
	if path == "" {
		return v, true
	}
	for _, step := range strings.Split(path, ".") {
		switch w := v.(type) {
		case val.Map:
			u, ok := w.Get(step)
			if !ok {
				return nil, false
			}
			v = u
		case val.List:
			i, e := strconv.Atoi(step)
			if e != nil || i < 0 || i >= len(w) {
				return nil, false
			}
			v = w[i]
		default:
			return nil, false
		}
	}
	return v, true
}
