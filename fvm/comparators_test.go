// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fvm

import (
	"context"
	"testing"
	"time"

	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/op"
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

func TestAnd(t *testing.T) {
	vm := VirtualMachine{}
	{
		r := evaluate(vm.Comparison(op.And(op.IsMoreThan(num(9), num(7)), op.IsLessThan(num(1), num(2)))))
		expectRight(t, "case 1", r, val.Float(1))
	}
	{
		r := evaluate(vm.Comparison(op.And()))
		expectRight(t, "case 2", r, val.Bool(true))
	}
	{
		r := evaluate(vm.Comparison(op.And(op.IsMoreThan(num(1), num(2)), op.IsLessThan(num(3), num(2)))))
		if len(r.Errors()) != 2 {
			t.Fatalf("case 3: every failing operand must be reported, got %s", r)
		}
	}
	{
		r := evaluate(vm.Comparison(op.And(op.IsMoreThan(num(9), num(7)), op.IsLessThan(num(3), num(2)))))
		if len(r.Diagnostics) != 2 || r.Diagnostics[0].Context == nil {
			t.Fatalf("case 4: the passing prefix must be carried, got %s", r)
		}
	}
}

func TestOr(t *testing.T) {
	vm := VirtualMachine{}
	{
		r := evaluate(vm.Comparison(op.Or(op.IsMoreThan(num(1), num(2)), op.IsMoreThan(num(3), num(2)), op.IsMoreThan(num(4), num(2)))))
		expectRight(t, "case 1", r, val.Float(3))
	}
	{
		r := evaluate(vm.Comparison(op.Or(op.IsMoreThan(num(1), num(2)), op.IsMoreThan(num(2), num(3)))))
		errs := r.Errors()
		if len(errs) != 2 || errs[0].Message() != "1 is not more than 2." || errs[1].Message() != "2 is not more than 3." {
			t.Fatalf("case 2: failures must be reported in order, got %s", r)
		}
	}
	expectFailure(t, "case 3", evaluate(vm.Comparison(op.Or())), "MalformedOperationError")
}

func TestOrderings(t *testing.T) {
	vm := VirtualMachine{}
	date := op.Constant(val.Date{Year: 2020, Month: time.January, Day: 1})
	late := op.Constant(val.DateTime{Time: time.Date(2020, time.January, 1, 23, 30, 0, 0, time.UTC)})
	passing := []xpr.Expression{
		op.IsEqualTo(num(2), op.Constant(val.Int64(2))),
		op.IsAtLeast(num(2), num(2)),
		op.IsAtMost(num(1), num(2)),
		op.IsAlphabeticallyBefore(str("apple"), str("Banana")),
		op.IsAlphabeticallyEqualTo(str("resume"), str("Résumé")),
		op.IsAlphabeticallyAtOrAfter(str("b"), str("a")),
		op.IsBeforeDate(date, str("2020-02-01")),
		op.IsSameDate(late, date),
		op.IsOnOrAfterDate(str("2020-01-01"), date),
		op.IsBeforeDateTime(str("2020-01-01T10:00:00+02:00"), str("2020-01-01T09:00:00Z")),
		op.IsAtOrAfterDateTime(late, date),
		op.IsBeforeTime(str("09:00"), str("17:30")),
		op.IsSameTime(late, str("23:30")),
		op.IsLongerThan(str("hello"), num(3)),
		op.IsLengthEqualTo(list(val.Float(1), val.Float(2)), str("ab")),
		op.IsShorterThan(str("äö"), num(3)),
		op.IsIdenticalTo(list(val.Float(1), val.String("a")), list(val.Float(1), val.String("a"))),
	}
	for i, x := range passing {
		if r := evaluate(vm.Comparison(x)); !r.Ok() {
			t.Errorf("passing case %d (%s): %s", i+1, x.Tag(), r)
		}
	}
	failing := []xpr.Expression{
		op.IsLessThan(num(2), num(2)),
		op.IsAlphabeticallyAfter(str("a"), str("b")),
		op.IsAfterDateTime(str("2020-01-01T10:00:00+02:00"), str("2020-01-01T09:00:00Z")),
		op.IsLengthNotEqualTo(str("ab"), num(2)),
		op.IsIdenticalTo(num(1), op.Constant(val.Int64(1))),
	}
	for _, x := range failing {
		expectFailure(t, "failing case "+string(x.Tag()), evaluate(vm.Comparison(x)), "RelationError")
	}
	expectFailure(t, "not a number", evaluate(vm.Comparison(op.IsMoreThan(str("x"), num(1)))), "OperandTypeError")
	expectFailure(t, "not a date", evaluate(vm.Comparison(op.IsBeforeDate(str("soon"), date))), "OperandTypeError")
}

func TestDatesUseEnvironmentZone(t *testing.T) {
	late := op.Constant(val.DateTime{Time: time.Date(2020, time.January, 1, 23, 30, 0, 0, time.UTC)})
	date := op.Constant(val.Date{Year: 2020, Month: time.January, Day: 1})
	vm := VirtualMachine{Env: env.Environment{Zone: time.FixedZone("CET", 3600)}}
	expectFailure(t, "zone", evaluate(vm.Comparison(op.IsSameDate(late, date))), "RelationError")
	expectRight(t, "zone", evaluate(vm.Comparison(op.IsAfterDate(late, date))), late.(xpr.Constant).Value)
}

func TestSets(t *testing.T) {
	vm := VirtualMachine{}
	one, two, three := val.Float(1), val.Float(2), val.Float(3)
	passing := []xpr.Expression{
		op.IsSubsetOf(list(one, two), list(one, two, three)),
		op.IsSupersetOf(list(one, two, three), list(three)),
		op.IsDisjointFrom(list(one), list(two)),
		op.Overlaps(str("abc"), str("cde")),
		op.IsMemberOf(num(2), list(one, two, three)),
		op.IsMemberOf(str("b"), str("abc")),
	}
	for i, x := range passing {
		if r := evaluate(vm.Comparison(x)); !r.Ok() {
			t.Errorf("passing case %d (%s): %s", i+1, x.Tag(), r)
		}
	}
	expectFailure(t, "superset", evaluate(vm.Comparison(op.IsSupersetOf(list(one), list(one, two)))), "RelationError")
	expectFailure(t, "overlap", evaluate(vm.Comparison(op.Overlaps(list(one), list(two)))), "RelationError")
	expectFailure(t, "invalid set", evaluate(vm.Comparison(op.IsSubsetOf(num(1), list(one)))), "InvalidSetError")
}

func TestSetsCompareNumbersByMagnitude(t *testing.T) {
	vm := VirtualMachine{}
	allowed := list(val.Float(1), val.Float(2), val.Float(3))
	{
		qty := op.FromArgumentOf(xpr.DatatypeInteger, "qty")
		argument := val.MapFromMap(map[string]val.Value{"qty": val.Float(2)})
		r := vm.Comparison(op.IsMemberOf(qty, allowed))(context.Background(), argument, nil)
		expectRight(t, "integer member", r, val.Int64(2))
	}
	passing := []xpr.Expression{
		op.IsSubsetOf(list(val.Int64(2)), allowed),
		op.IsSupersetOf(allowed, list(val.Int64(3), val.Int64(1))),
		op.Overlaps(list(val.Int64(3), val.Int64(7)), allowed),
		op.IsMemberOf(op.Constant(val.Int64(1)), allowed),
		op.Contains(allowed, op.Constant(val.Int64(2))),
		op.StartsWith(allowed, op.Constant(val.Int64(1))),
		op.EndsWith(list(val.Int64(1), val.Int64(3)), num(3)),
	}
	for i, x := range passing {
		if r := evaluate(vm.Comparison(x)); !r.Ok() {
			t.Errorf("passing case %d (%s): %s", i+1, x.Tag(), r)
		}
	}
	expectFailure(t, "fraction", evaluate(vm.Comparison(op.IsMemberOf(num(2.5), allowed))), "RelationError")
	expectFailure(t, "disjoint", evaluate(vm.Comparison(op.IsDisjointFrom(list(val.Int64(2)), allowed))), "RelationError")
}

func TestSetsOfNestedLists(t *testing.T) {
	vm := VirtualMachine{}
	a := val.List{val.List{val.Float(1)}, val.Float(2)}
	b := val.List{val.List{val.Float(1), val.Float(2)}}
	expectFailure(t, "nested member", evaluate(vm.Comparison(op.IsMemberOf(op.Constant(a), list(b)))), "RelationError")
	expectFailure(t, "nested subset", evaluate(vm.Comparison(op.IsSubsetOf(list(a), list(b)))), "RelationError")
	expectRight(t, "nested member", evaluate(vm.Comparison(op.IsMemberOf(op.Constant(b), list(a, b)))), b)
	{
		c := val.List{val.List{val.Int64(1)}, val.Int64(2)}
		expectRight(t, "mixed nested member", evaluate(vm.Comparison(op.IsMemberOf(op.Constant(c), list(a)))), c)
	}
}

func TestPatterns(t *testing.T) {
	vm := VirtualMachine{}
	passing := []xpr.Expression{
		op.Matches(str("abc123"), str(`^[a-z]+\d+$`)),
		op.DoesNotMatch(str("abc"), str(`\d`)),
		op.StartsWith(str("formula"), str("form")),
		op.EndsWith(list(val.Float(1), val.Float(3)), num(3)),
		op.Contains(str("haystack"), str("st")),
		op.Contains(list(val.String("a"), val.String("b")), str("b")),
		op.ResemblesFuzzily(str("Zürich"), str("zrch")),
		op.ResemblesFuzzily(str("color"), str("colour")),
	}
	for i, x := range passing {
		if r := evaluate(vm.Comparison(x)); !r.Ok() {
			t.Errorf("passing case %d (%s): %s", i+1, x.Tag(), r)
		}
	}
	{
		r := evaluate(vm.Comparison(op.StartsWith(str("formula"), str("mula"))))
		e := expectFailure(t, "starts with", r, "RelationError")
		if e.Message() != `"formula" does not start with "mula".` {
			t.Fatalf("starts with: unexpected message %q", e.Message())
		}
	}
	expectFailure(t, "contains", evaluate(vm.Comparison(op.Contains(list(val.String("a")), str("c")))), "RelationError")
	expectFailure(t, "resembles", evaluate(vm.Comparison(op.ResemblesFuzzily(str("kitten"), str("sitting")))), "RelationError")
	expectFailure(t, "bad pattern", evaluate(vm.Comparison(op.Matches(str("x"), str("(")))), "PatternError")
}

func TestPredicates(t *testing.T) {
	vm := VirtualMachine{}
	passing := []xpr.Expression{
		op.IsBoolean(op.Constant(val.Bool(true))),
		op.IsNumber(num(1)),
		op.IsInteger(num(2)),
		op.IsInteger(op.Constant(val.Int64(2))),
		op.IsString(str("")),
		op.IsDate(op.Constant(val.Date{Year: 2020, Month: time.March, Day: 3})),
		op.IsDateTime(op.Constant(val.DateTime{Time: time.Unix(0, 0).UTC()})),
		op.IsTime(op.Constant(val.Time{Hour: 12})),
		op.IsList(list()),
		op.IsEmpty(str("")),
		op.IsNotEmpty(list(val.Float(1))),
		op.IsTrue(op.Constant(val.Bool(true))),
		op.IsFalse(op.Constant(val.Bool(false))),
	}
	for i, x := range passing {
		if r := evaluate(vm.Comparison(x)); !r.Ok() {
			t.Errorf("passing case %d (%s): %s", i+1, x.Tag(), r)
		}
	}
	{
		r := evaluate(vm.Comparison(op.IsInteger(num(1.5))))
		e := expectFailure(t, "integer", r, "PredicateError")
		if e.Message() != "1.5 is not an integer." {
			t.Fatalf("integer: unexpected message %q", e.Message())
		}
	}
	expectFailure(t, "string", evaluate(vm.Comparison(op.IsString(num(1)))), "PredicateError")
	expectFailure(t, "not empty", evaluate(vm.Comparison(op.IsNotEmpty(list()))), "PredicateError")
	expectFailure(t, "false", evaluate(vm.Comparison(op.IsFalse(op.Constant(val.Bool(true))))), "PredicateError")
	expectFailure(t, "missing", evaluate(vm.Comparison(op.IsString(op.Undefined()))), "MissingValueError")
}
