// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package api

import (
	"fmt"
	"net/http"

	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/dom"
	"github.com/karmarun/formula/fvm"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// evaluation is a decoded request body:
//
//	{expression | tree, argument, locals, location, document}
//
// expression is an operation tree, tree the key of a stored one. location
// is a URL and document an HTML page; both replace the handler's
// environment for this call only.
type evaluation struct {
	expression xpr.Expression
	argument   val.Value
	locals     env.Locals
	env        env.Environment
}

func (h *Handler) evaluate(rw http.ResponseWriter, rq *http.Request, cdc codec.Interface, route string, payload Payload) {

	body, ke := cdc.Decode(payload)
	if ke != nil {
		writeError(rw, cdc, http.StatusBadRequest, err.RequestError{Problem: "failed decoding request body", Child_: ke})
		return
	}

	ev, status, ke := h.evaluation(body)
	if ke != nil {
		writeError(rw, cdc, status, ke)
		return
	}

	vm := fvm.VirtualMachine{Env: ev.env}
	ctx := rq.Context()

	var out val.Value
	switch route {
	case OperationPrefix:
		out = vm.Operation(ev.expression)(ctx, ev.argument, ev.locals).Encode()
	case ComparisonPrefix:
		out = vm.Comparison(ev.expression)(ctx, ev.argument, ev.locals).Encode()
	case ConditionalPrefix:
		out = val.Bool(vm.Conditional(ev.expression)(ctx, ev.argument, ev.locals))
	case DependenciesPrefix:
		out = dependencies(ev.expression)
	}

	rw.Write(cdc.Encode(out))
}

func (h *Handler) evaluation(body val.Value) (evaluation, int, err.Error) {

	m, ok := body.(val.Map)
	if !ok {
		return evaluation{}, http.StatusBadRequest, err.RequestError{Problem: "request body must be a map"}
	}

	ev := evaluation{argument: val.Null, env: h.Env}

	if v, ok := m.Get("expression"); ok {
		ev.expression = xpr.ExpressionFromValue(v)
	} else if v, ok := m.Get("tree"); ok {
		key, ok := v.(val.String)
		if !ok {
			return ev, http.StatusBadRequest, err.RequestError{Problem: `field "tree" must be a string`}
		}
		x, status, ke := h.tree(string(key))
		if ke != nil {
			return ev, status, ke
		}
		ev.expression = x
	} else {
		return ev, http.StatusBadRequest, err.RequestError{Problem: `one of the fields "expression" and "tree" is required`}
	}

	if v, ok := m.Get("argument"); ok {
		ev.argument = v
	}

	if v, ok := m.Get("locals"); ok && v != val.Null {
		lm, ok := v.(val.Map)
		if !ok {
			return ev, http.StatusBadRequest, err.RequestError{Problem: `field "locals" must be a map`}
		}
		ev.locals = make(env.Locals, lm.Len())
		lm.ForEach(func(k string, v val.Value) bool {
			ev.locals[k] = v
			return true
		})
	}

	if v, ok := m.Get("location"); ok && v != val.Null {
		s, ok := v.(val.String)
		if !ok {
			return ev, http.StatusBadRequest, err.RequestError{Problem: `field "location" must be a string`}
		}
		l, e := env.ParseLocation(string(s))
		if e != nil {
			return ev, http.StatusBadRequest, err.RequestError{Problem: fmt.Sprintf(`field "location": %s`, e)}
		}
		ev.env.Location = l
	}

	if v, ok := m.Get("document"); ok && v != val.Null {
		s, ok := v.(val.String)
		if !ok {
			return ev, http.StatusBadRequest, err.RequestError{Problem: `field "document" must be a string`}
		}
		d, e := dom.ParseString(string(s))
		if e != nil {
			return ev, http.StatusBadRequest, err.RequestError{Problem: fmt.Sprintf(`field "document": %s`, e)}
		}
		ev.env.Document = d
	}

	return ev, http.StatusOK, nil
}

func dependencies(x xpr.Expression) val.List {
	deps := xpr.Dependencies(x)
	out := make(val.List, len(deps), len(deps))
	for i, d := range deps {
		out[i] = val.MapFromMap(map[string]val.Value{
			"source": val.String(d.Source),
			"key":    val.String(d.Key),
		})
	}
	return out
}

func (h *Handler) storeTree(rw http.ResponseWriter, cdc codec.Interface, payload Payload) {
	body, ke := cdc.Decode(payload)
	if ke != nil {
		writeError(rw, cdc, http.StatusBadRequest, err.RequestError{Problem: "failed decoding request body", Child_: ke})
		return
	}
	m, ok := body.(val.Map)
	if !ok {
		writeError(rw, cdc, http.StatusBadRequest, err.RequestError{Problem: "request body must be a map"})
		return
	}
	v, ok := m.Get("expression")
	if !ok {
		writeError(rw, cdc, http.StatusBadRequest, err.RequestError{Problem: `field "expression" is required`})
		return
	}
	x := xpr.ExpressionFromValue(v)
	if x == nil {
		writeError(rw, cdc, http.StatusBadRequest, err.RequestError{Problem: `field "expression" must not be null`})
		return
	}
	if inv, ok := firstInvalid(x); ok {
		problem := inv.Problem
		if problem == "" {
			problem = "unknown operation"
		}
		writeError(rw, cdc, http.StatusBadRequest, err.RequestError{Problem: fmt.Sprintf(`invalid tree at "%s": %s`, inv.Name, problem)})
		return
	}
	key, e := h.Trees.Put(x)
	if e != nil {
		log.Errorf("storing tree: %s", e)
		writeError(rw, cdc, http.StatusInternalServerError, err.InternalError{Problem: "failed storing tree"})
		return
	}
	rw.WriteHeader(http.StatusCreated)
	rw.Write(cdc.Encode(val.MapFromMap(map[string]val.Value{"key": val.String(key)})))
}

// firstInvalid finds a node that did not decode; such trees are not stored.
func firstInvalid(x xpr.Expression) (xpr.Invalid, bool) {
	found, ok := xpr.Invalid{}, false
	x.Transform(func(y xpr.Expression) xpr.Expression {
		if inv, is := y.(xpr.Invalid); is && !ok {
			found, ok = inv, true
		}
		return y
	})
	return found, ok
}

func (h *Handler) loadTree(rw http.ResponseWriter, cdc codec.Interface, key string) {
	x, status, ke := h.tree(key)
	if ke != nil {
		writeError(rw, cdc, status, ke)
		return
	}
	rw.Write(cdc.Encode(xpr.ValueFromExpression(x)))
}

func (h *Handler) tree(key string) (xpr.Expression, int, err.Error) {
	if h.Trees == nil {
		return nil, http.StatusNotFound, err.RequestError{Problem: "tree storage is not configured"}
	}
	x, ok, e := h.Trees.Get(key)
	if e != nil {
		log.Errorf("loading tree %s: %s", key, e)
		return nil, http.StatusInternalServerError, err.InternalError{Problem: "failed loading tree"}
	}
	if !ok {
		return nil, http.StatusNotFound, err.RequestError{Problem: fmt.Sprintf(`tree "%s" does not exist`, key)}
	}
	return x, http.StatusOK, nil
}
