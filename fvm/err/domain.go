// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"

	"github.com/karmarun/formula/fvm/val"
)

// ZeroDivisionError is returned by Divide, Modulo, Remainder and Reciprocal.
type ZeroDivisionError struct {
	Tag  string
	Node val.Value
}

func (ZeroDivisionError) name() string { return "ZeroDivisionError" }

func (e ZeroDivisionError) Value() val.Value {
	return Record(e)
}
func (e ZeroDivisionError) Error() string {
	return e.String()
}
func (e ZeroDivisionError) String() string {
	return banner("Zero Division Error", "Operation", e.Tag)
}
func (e ZeroDivisionError) Child() Error {
	return nil
}
func (e ZeroDivisionError) Type() string {
	return e.Tag
}
func (e ZeroDivisionError) Message() string {
	return fmt.Sprintf(`%s: division by zero.`, e.Tag)
}
func (e ZeroDivisionError) Operation() val.Value {
	return orNull(e.Node)
}

type ZerothRootError struct {
	Tag  string
	Node val.Value
}

func (ZerothRootError) name() string { return "ZerothRootError" }

func (e ZerothRootError) Value() val.Value {
	return Record(e)
}
func (e ZerothRootError) Error() string {
	return e.String()
}
func (e ZerothRootError) String() string {
	return banner("Zeroth Root Error", "Operation", e.Tag)
}
func (e ZerothRootError) Child() Error {
	return nil
}
func (e ZerothRootError) Type() string {
	return e.Tag
}
func (e ZerothRootError) Message() string {
	return fmt.Sprintf(`%s: the 0th root is undefined.`, e.Tag)
}
func (e ZerothRootError) Operation() val.Value {
	return orNull(e.Node)
}

type EmptyListError struct {
	Tag  string
	Node val.Value
}

func (EmptyListError) name() string { return "EmptyListError" }

func (e EmptyListError) Value() val.Value {
	return Record(e)
}
func (e EmptyListError) Error() string {
	return e.String()
}
func (e EmptyListError) String() string {
	return banner("Empty List Error", "Operation", e.Tag)
}
func (e EmptyListError) Child() Error {
	return nil
}
func (e EmptyListError) Type() string {
	return e.Tag
}
func (e EmptyListError) Message() string {
	return fmt.Sprintf(`%s: no values to aggregate.`, e.Tag)
}
func (e EmptyListError) Operation() val.Value {
	return orNull(e.Node)
}

// RateTableError is returned by ProportionedRate for unusable band tables
// and for amounts outside a closed table.
type RateTableError struct {
	Tag     string
	Problem string
	Table   val.Value
}

func (RateTableError) name() string { return "RateTableError" }

func (e RateTableError) Value() val.Value {
	return Record(e)
}
func (e RateTableError) Error() string {
	return e.String()
}
func (e RateTableError) String() string {
	return banner("Rate Table Error", "Table", show(e.Table), "Problem", e.Problem)
}
func (e RateTableError) Child() Error {
	return nil
}
func (e RateTableError) Type() string {
	return e.Tag
}
func (e RateTableError) Message() string {
	return fmt.Sprintf(`%s: %s.`, e.Tag, e.Problem)
}
func (e RateTableError) Operation() val.Value {
	return orNull(e.Table)
}

// OperandTypeError is returned when a resolved operand has a runtime type
// the operation cannot work with.
type OperandTypeError struct {
	Tag      string
	Expected string
	Actual   val.Value
}

func (OperandTypeError) name() string { return "OperandTypeError" }

func (e OperandTypeError) Value() val.Value {
	return Record(e)
}
func (e OperandTypeError) Error() string {
	return e.String()
}
func (e OperandTypeError) String() string {
	return banner("Operand Type Error", "Expected", e.Expected, "Actual", show(e.Actual))
}
func (e OperandTypeError) Child() Error {
	return nil
}
func (e OperandTypeError) Type() string {
	return e.Tag
}
func (e OperandTypeError) Message() string {
	return fmt.Sprintf(`%s: %s is not a %s.`, e.Tag, show(e.Actual), e.Expected)
}
func (e OperandTypeError) Operation() val.Value {
	return orNull(e.Actual)
}

// NonFiniteResultError is returned when a numeric primitive produced NaN or
// an infinity, e.g. ArcSine(2) or NaturalLogarithm(-1).
type NonFiniteResultError struct {
	Tag  string
	Node val.Value
}

func (NonFiniteResultError) name() string { return "NonFiniteResultError" }

func (e NonFiniteResultError) Value() val.Value {
	return Record(e)
}
func (e NonFiniteResultError) Error() string {
	return e.String()
}
func (e NonFiniteResultError) String() string {
	return banner("Non-Finite Result Error", "Operation", e.Tag)
}
func (e NonFiniteResultError) Child() Error {
	return nil
}
func (e NonFiniteResultError) Type() string {
	return e.Tag
}
func (e NonFiniteResultError) Message() string {
	return fmt.Sprintf(`%s: result is not a finite number.`, e.Tag)
}
func (e NonFiniteResultError) Operation() val.Value {
	return orNull(e.Node)
}
