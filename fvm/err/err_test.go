// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"strings"
	"testing"
	"time"

	"github.com/karmarun/formula/fvm/val"
)

func TestValueToHuman(t *testing.T) {
	cases := []struct {
		v      val.Value
		expect string
	}{
		{nil, "undefined"},
		{val.Null, "null"},
		{val.Float(7), "7"},
		{val.Float(0.1), "0.1"},
		{val.Int64(-3), "-3"},
		{val.String("a"), `"a"`},
		{val.Bool(true), "true"},
		{val.Date{Year: 2020, Month: time.March, Day: 1}, "2020-03-01"},
		{val.Duration(90 * time.Second), "1m30s"},
		{val.List{val.Float(1), val.String("b")}, `[1, "b"]`},
		{val.List{val.Float(1), val.Float(2), val.Float(3), val.Float(4), val.Float(5), val.Float(6), val.Float(7), val.Float(8), val.Float(9)}, "[...9 values]"},
		{val.MapFromMap(map[string]val.Value{"k": val.Float(1)}), `{"k": 1}`},
	}
	for i, c := range cases {
		if got := ValueToHuman(c.v); got != c.expect {
			t.Errorf("case %d: expected %s, got %s", i+1, c.expect, got)
		}
	}
}

func TestRecord(t *testing.T) {
	e := CastError{Datatype: "float", Input: val.String("x"), Problem: "malformed number", Child_: CodecError{Codec: "json", Offset: 3, Problem: "unexpected end of input"}}
	m := e.Value().(val.Map)
	expect := map[string]val.Value{
		"tag":       val.String("Error"),
		"type":      val.String("float"),
		"error":     val.String("CastError"),
		"operation": val.String("x"),
	}
	for k, v := range expect {
		if !m.Key(k).Equals(v) {
			t.Errorf("field %s: expected %v, got %v", k, v, m.Key(k))
		}
	}
	if _, ok := m.Get("child"); !ok {
		t.Error("child must be recorded")
	}
	if !strings.HasPrefix(e.Message(), `"x" is not a valid float: malformed number.`) {
		t.Errorf("unexpected message %q", e.Message())
	}
	if !strings.HasPrefix(e.String(), "Cast Error\n==========\n") {
		t.Errorf("unexpected banner %q", e.String())
	}
	if e.Error() != e.String() {
		t.Error("Error must proxy String")
	}
}

func TestMessages(t *testing.T) {
	cases := []struct {
		e      Error
		expect string
	}{
		{UnknownOperationError{Family: "Operation", Tag: "Nope"}, `Operation "Nope" does not exist.`},
		{ZeroDivisionError{Tag: "Divide"}, "Divide: division by zero."},
		{RelationError{Tag: "IsMoreThan", Format: "%s is not more than %s.", Operand: val.Float(7), Test: val.Float(9)}, "7 is not more than 9."},
		{PredicateError{Tag: "IsString", Shape: "a string", Operand: val.Float(1)}, "1 is not a string."},
		{KeyNotFoundError{Tag: "FromLocalStorage", Key: "k", Problem: "disk on fire"}, `FromLocalStorage: key "k" could not be read: disk on fire.`},
	}
	for i, c := range cases {
		if got := c.e.Message(); got != c.expect {
			t.Errorf("case %d: expected %q, got %q", i+1, c.expect, got)
		}
		if Name(c.e) == "Error" {
			t.Errorf("case %d: %T has no name", i+1, c.e)
		}
	}
}
