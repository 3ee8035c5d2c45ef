// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/fvm"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/rsl"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
	"github.com/kr/pretty"

	_ "github.com/karmarun/formula/codec/json"
	_ "github.com/karmarun/formula/codec/yaml"
)

const (
	modeOperation   = "operation"
	modeComparison  = "comparison"
	modeConditional = "conditional"
)

const help = `<json tree>           evaluate a tree in the current mode
:arg <json>           set the call argument
:local <key> <json>   set a local value, without <json> remove it
:locals               show the local values
:mode [operation|comparison|conditional]
:load <file>          evaluate a .json or .yaml tree
:deps [<json tree>]   show the external values a tree reads, default the last tree
:quit
`

var commands = []string{":arg", ":deps", ":help", ":load", ":local", ":locals", ":mode", ":quit"}

type session struct {
	vm       fvm.VirtualMachine
	argument val.Value
	locals   env.Locals
	mode     string
	last     xpr.Expression
	out      io.Writer
}

func newSession(vm fvm.VirtualMachine, out io.Writer) *session {
	return &session{vm: vm, argument: val.Null, locals: env.Locals{}, mode: modeOperation, out: out}
}

func (s *session) complete(line string) []string {
	if !strings.HasPrefix(line, ":") || strings.Contains(line, " ") {
		return nil
	}
	out := []string{}
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// handle executes one line and reports whether the session ends.
func (s *session) handle(line string) bool {

	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		s.evaluateSource(line, "json")
		return false
	}

	command, rest := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		command, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch command {
	case ":quit", ":q":
		return true

	case ":help":
		fmt.Fprint(s.out, help)

	case ":arg":
		v, ok := s.decode(rest, "json")
		if !ok {
			return false
		}
		s.argument = v

	case ":local":
		key, source := rest, ""
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			key, source = rest[:i], strings.TrimSpace(rest[i+1:])
		}
		if key == "" {
			fmt.Fprintln(s.out, "usage: :local <key> <json>")
			return false
		}
		if source == "" {
			delete(s.locals, key)
			return false
		}
		v, ok := s.decode(source, "json")
		if !ok {
			return false
		}
		s.locals[key] = v

	case ":locals":
		keys := make([]string, 0, len(s.locals))
		for k := range s.locals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(s.out, "%s = %s\n", k, s.locals[k])
		}

	case ":mode":
		switch rest {
		case "":
		case modeOperation, modeComparison, modeConditional:
			s.mode = rest
		default:
			fmt.Fprintf(s.out, "unknown mode %q\n", rest)
			return false
		}
		fmt.Fprintln(s.out, s.mode)

	case ":load":
		bs, e := os.ReadFile(rest)
		if e != nil {
			fmt.Fprintln(s.out, e)
			return false
		}
		name := strings.TrimPrefix(filepath.Ext(rest), ".")
		if name == "yml" {
			name = "yaml"
		}
		s.evaluateSource(string(bs), name)

	case ":deps":
		x := s.last
		if rest != "" {
			v, ok := s.decode(rest, "json")
			if !ok {
				return false
			}
			x = xpr.ExpressionFromValue(v)
		}
		pretty.Fprintf(s.out, "%# v\n", xpr.Dependencies(x))

	default:
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", command)
	}

	return false
}

func (s *session) decode(source, name string) (val.Value, bool) {
	cdc := codec.Get(name)
	if cdc == nil {
		fmt.Fprintf(s.out, "no codec %q, available: %s\n", name, strings.Join(codec.Available(), ", "))
		return nil, false
	}
	v, ke := cdc.Decode([]byte(source))
	if ke != nil {
		fmt.Fprintln(s.out, ke.Message())
		return nil, false
	}
	return v, true
}

func (s *session) evaluateSource(source, name string) {
	v, ok := s.decode(source, name)
	if !ok {
		return
	}
	s.last = xpr.ExpressionFromValue(v)
	s.evaluate(s.last)
}

func (s *session) evaluate(x xpr.Expression) {
	ctx := context.Background()
	switch s.mode {
	case modeConditional:
		fmt.Fprintln(s.out, s.vm.Conditional(x)(ctx, s.argument, s.locals))
	case modeComparison:
		s.print(s.vm.Comparison(x)(ctx, s.argument, s.locals))
	default:
		s.print(s.vm.Operation(x)(ctx, s.argument, s.locals))
	}
}

func (s *session) print(r rsl.Result) {
	if r.Ok() {
		fmt.Fprintln(s.out, r.Value)
		return
	}
	fmt.Fprintln(s.out, r)
}
