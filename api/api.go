// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package api serves the evaluation engine over HTTP. Request and response
// bodies are values in the codec named by the X-Formula-Codec header.
package api

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/definitions"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/xpr"
	"github.com/karmarun/formula/metrics"

	_ "github.com/karmarun/formula/codec/binary"
	_ "github.com/karmarun/formula/codec/json"
	_ "github.com/karmarun/formula/codec/yaml"
)

var version = `1.0.0`

type Payload []byte

func (p Payload) Close() {
	copy(p, ZeroPayload)
	PayloadPool.Put(p[:MaxPayloadBytes])
}

const MaxPayloadBytes = 1 * 1024 * 1024 // 1MB

var (
	PayloadPool = &sync.Pool{
		New: func() interface{} {
			return make(Payload, MaxPayloadBytes, MaxPayloadBytes)
		},
	}
	ZeroPayload = make(Payload, MaxPayloadBytes, MaxPayloadBytes)
)

const (
	OperationPrefix    = `operation`
	ComparisonPrefix   = `comparison`
	ConditionalPrefix  = `conditional`
	DependenciesPrefix = `dependencies`
	TreesPrefix        = `trees`
	MetricsPrefix      = `metrics`
)

// TreeStore persists operation trees under content keys; see db.Trees.
type TreeStore interface {
	Put(xpr.Expression) (string, error)
	Get(key string) (xpr.Expression, bool, error)
}

// Handler evaluates trees against Env. Requests may replace the document
// and location of Env per call. Nil Trees disables the trees endpoints;
// an empty SecretHash disables the secret check.
type Handler struct {
	Env        env.Environment
	Trees      TreeStore
	SecretHash []byte
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, rq *http.Request) {

	// CORS headers for browsers
	rw.Header().Set("Access-Control-Allow-Headers", rq.Header.Get("Access-Control-Request-Headers"))
	rw.Header().Set("Access-Control-Allow-Methods", rq.Header.Get("Access-Control-Request-Method"))
	rw.Header().Set("Access-Control-Allow-Origin", "*")

	if rq.Method == http.MethodOptions {
		return // CORS pre-flight
	}

	path := strings.Trim(path.Clean(rq.URL.Path), "/")

	if rq.Method == http.MethodGet && path == "" { // k8s health checks
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte(`formula ` + version))
		return
	}

	name := rq.Header.Get(definitions.CodecHeader)
	if name == "" {
		name = definitions.DefaultCodec
	}
	cdc := codec.Get(name)
	if cdc == nil {
		msg := fmt.Sprintf(`invalid codec requested (%s header). available codecs: %s`, definitions.CodecHeader, strings.Join(codec.Available(), ", "))
		rw.WriteHeader(http.StatusBadRequest)
		rw.Write([]byte(msg))
		return
	}

	defer func() {
		if v := recover(); v != nil {
			log.Errorf("%s %s panicked: %v\n%s", rq.Method, rq.URL.Path, v, debug.Stack())
			writeError(rw, cdc, http.StatusInternalServerError, err.InternalError{Problem: "request handler failed"})
		}
	}()

	if ke := h.authorize(rq); ke != nil {
		writeError(rw, cdc, http.StatusForbidden, ke)
		return
	}

	route, rest := path, ""
	if i := strings.IndexByte(path, '/'); i >= 0 {
		route, rest = path[:i], path[i+1:]
	}

	switch route {
	case OperationPrefix, ComparisonPrefix, ConditionalPrefix, DependenciesPrefix:
		defer metrics.Get("api." + route).Since(time.Now())
		if !h.method(rw, cdc, rq, http.MethodPost) || !h.leaf(rw, cdc, rest) {
			return
		}
		payload, ok := readPayload(rw, cdc, rq)
		if !ok {
			return
		}
		defer payload.Close()
		h.evaluate(rw, rq, cdc, route, payload)

	case TreesPrefix:
		defer metrics.Get("api." + route).Since(time.Now())
		if h.Trees == nil {
			writeError(rw, cdc, http.StatusNotFound, err.RequestError{Problem: "tree storage is not configured"})
			return
		}
		if rest == "" {
			if !h.method(rw, cdc, rq, http.MethodPost) {
				return
			}
			payload, ok := readPayload(rw, cdc, rq)
			if !ok {
				return
			}
			defer payload.Close()
			h.storeTree(rw, cdc, payload)
			return
		}
		key, extra := rest, ""
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			key, extra = rest[:i], rest[i+1:]
		}
		if !h.method(rw, cdc, rq, http.MethodGet) || !h.leaf(rw, cdc, extra) {
			return
		}
		h.loadTree(rw, cdc, key)

	case MetricsPrefix:
		if !h.method(rw, cdc, rq, http.MethodGet) || !h.leaf(rw, cdc, rest) {
			return
		}
		rw.Write(cdc.Encode(metrics.Snapshot()))

	default:
		writeError(rw, cdc, http.StatusNotFound, err.RequestError{Problem: fmt.Sprintf(`no such endpoint "/%s"`, path)})
	}
}

func (h *Handler) method(rw http.ResponseWriter, cdc codec.Interface, rq *http.Request, method string) bool {
	if rq.Method == method {
		return true
	}
	rw.Header().Set("Allow", method)
	writeError(rw, cdc, http.StatusMethodNotAllowed, err.RequestError{Problem: fmt.Sprintf(`method %s not allowed, use %s`, rq.Method, method)})
	return false
}

// leaf rejects trailing path segments.
func (h *Handler) leaf(rw http.ResponseWriter, cdc codec.Interface, rest string) bool {
	if rest == "" {
		return true
	}
	writeError(rw, cdc, http.StatusNotFound, err.RequestError{Problem: fmt.Sprintf(`unexpected path segment "%s"`, rest)})
	return false
}

func writeError(rw http.ResponseWriter, cdc codec.Interface, status int, e err.Error) {
	rw.WriteHeader(status)
	rw.Write(cdc.Encode(e.Value()))
}

var errPayloadTooLarge = fmt.Errorf(`request body exceeds %d bytes`, MaxPayloadBytes)

// readPayload answers the request itself when the body cannot be read.
func readPayload(rw http.ResponseWriter, cdc codec.Interface, rq *http.Request) (Payload, bool) {
	payload, e := payloadFromRequest(rq)
	if e == errPayloadTooLarge {
		writeError(rw, cdc, http.StatusRequestEntityTooLarge, err.RequestError{Problem: e.Error()})
		return nil, false
	}
	if e != nil {
		writeError(rw, cdc, http.StatusBadRequest, err.RequestError{Problem: "reading request body: " + e.Error()})
		return nil, false
	}
	return payload, true
}

func payloadFromRequest(rq *http.Request) (Payload, error) {
	defer rq.Body.Close()
	return payloadFromReader(rq.Body)
}

func payloadFromReader(r io.Reader) (Payload, error) {
	payload := PayloadPool.Get().(Payload)
	n, e := io.ReadFull(r, payload)
	switch e {
	case io.EOF, io.ErrUnexpectedEOF:
		return payload[:n], nil // we're done
	case nil:
		// buffer full, the body must end here
		if m, _ := r.Read(make([]byte, 1)); m == 0 {
			return payload[:n], nil
		}
		e = errPayloadTooLarge
	}
	payload.Close()
	return nil, e
}
