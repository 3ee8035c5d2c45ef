// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/karmarun/formula/codec/json"
	"github.com/karmarun/formula/codec/yaml"
	"github.com/karmarun/formula/fvm"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/op"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

func testSession() (*session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	vm := fvm.VirtualMachine{Env: env.Environment{Local: env.NewMemoryStore(map[string]string{"qty": "3"})}}
	return newSession(vm, out), out
}

func source(x xpr.Expression) string {
	return string(json.Encode(xpr.ValueFromExpression(x)))
}

// lines runs each input and returns the output it produced.
func lines(s *session, out *bytes.Buffer, inputs ...string) []string {
	outputs := make([]string, len(inputs))
	for i, in := range inputs {
		out.Reset()
		s.handle(in)
		outputs[i] = strings.TrimSpace(out.String())
	}
	return outputs
}

func TestEvaluate(t *testing.T) {
	s, out := testSession()

	add := source(op.Add(op.FromArgumentOf(xpr.DatatypeFloat, "a"), op.FromLocalStorage(xpr.DatatypeFloat, "qty")))
	got := lines(s, out,
		add,
		`:arg {"a": 4}`,
		add,
		`:local qty 10`,
		add,
		`:local qty`,
		add,
	)
	if !strings.HasPrefix(got[0], "Left(") {
		t.Fatalf("case 0: %s", got[0])
	}
	expected := []string{"", "7", "", "14", "", "7"}
	for i, e := range expected {
		if got[i+1] != e {
			t.Fatalf("case %d: expected %q, have %q", i+1, e, got[i+1])
		}
	}
}

func TestModes(t *testing.T) {
	s, out := testSession()

	more := source(op.IsMoreThan(op.Constant(val.Float(2)), op.Constant(val.Float(1))))
	less := source(op.IsMoreThan(op.Constant(val.Float(1)), op.Constant(val.Float(2))))

	got := lines(s, out, ":mode", ":mode conditional", more, less, ":mode comparison", less, ":mode sideways")
	if got[0] != "operation" || got[1] != "conditional" {
		t.Fatalf("modes: %v", got[:2])
	}
	if got[2] != "true" || got[3] != "false" {
		t.Fatalf("conditional: %v", got[2:4])
	}
	if !strings.Contains(got[5], "1 is not more than 2.") {
		t.Fatalf("comparison: %s", got[5])
	}
	if got[6] != `unknown mode "sideways"` {
		t.Fatalf("bad mode: %s", got[6])
	}
}

func TestCommands(t *testing.T) {
	s, out := testSession()

	x := op.Add(op.FromQueryString(xpr.DatatypeFloat, "n"), op.FromLocalStorage(xpr.DatatypeFloat, "qty"))
	got := lines(s, out,
		`:local b 2`,
		`:local a "x"`,
		`:locals`,
		source(x),
		`:deps`,
		`:frobnicate`,
		`{"tag": `,
		`:local`,
	)
	if got[2] != "a = \"x\"\nb = 2" {
		t.Fatalf("locals: %q", got[2])
	}
	if !strings.Contains(got[4], `"localStorage"`) || !strings.Contains(got[4], `"queryString"`) {
		t.Fatalf("deps: %s", got[4])
	}
	if !strings.HasPrefix(got[5], "unknown command :frobnicate") {
		t.Fatalf("unknown: %s", got[5])
	}
	if got[6] == "" {
		t.Fatalf("decode error not reported")
	}
	if got[7] != "usage: :local <key> <json>" {
		t.Fatalf("usage: %s", got[7])
	}
	if !s.handle(":quit") {
		t.Fatalf(":quit did not end the session")
	}
}

func TestLoad(t *testing.T) {
	s, out := testSession()
	dir := t.TempDir()

	x := xpr.ValueFromExpression(op.Multiply(op.Constant(val.Float(6)), op.Constant(val.Float(7))))
	if e := os.WriteFile(filepath.Join(dir, "tree.yaml"), yaml.Encode(x), 0600); e != nil {
		t.Fatal(e)
	}
	if e := os.WriteFile(filepath.Join(dir, "tree.json"), json.Encode(x), 0600); e != nil {
		t.Fatal(e)
	}

	got := lines(s, out, ":load "+filepath.Join(dir, "tree.yaml"), ":load "+filepath.Join(dir, "tree.json"), ":load "+filepath.Join(dir, "missing.json"))
	if got[0] != "42" || got[1] != "42" {
		t.Fatalf("load: %v", got[:2])
	}
	if got[2] == "" {
		t.Fatalf("missing file not reported")
	}
}

func TestComplete(t *testing.T) {
	s, _ := testSession()
	if c := s.complete(":lo"); strings.Join(c, ",") != ":load,:local,:locals" {
		t.Fatalf("complete: %v", c)
	}
	if c := s.complete("{"); c != nil {
		t.Fatalf("complete: %v", c)
	}
}
