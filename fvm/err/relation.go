// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"

	"github.com/karmarun/formula/fvm/val"
)

// RelationError is returned by a binary comparator whose relation does not
// hold. Format receives the rendered operand and test, in that order.
type RelationError struct {
	Tag     string
	Format  string
	Operand val.Value
	Test    val.Value
}

func (RelationError) name() string { return "RelationError" }

func (e RelationError) Value() val.Value {
	return Record(e)
}
func (e RelationError) Error() string {
	return e.String()
}
func (e RelationError) String() string {
	return banner("Relation Error", "Comparison", e.Tag, "Problem", e.Message())
}
func (e RelationError) Child() Error {
	return nil
}
func (e RelationError) Type() string {
	return e.Tag
}
func (e RelationError) Message() string {
	return fmt.Sprintf(e.Format, show(e.Operand), show(e.Test))
}
func (e RelationError) Operation() val.Value {
	return orNull(e.Operand)
}

// InvalidSetError is returned when a set comparator receives a value no set
// can be built from.
type InvalidSetError struct {
	Tag   string
	Input val.Value
}

func (InvalidSetError) name() string { return "InvalidSetError" }

func (e InvalidSetError) Value() val.Value {
	return Record(e)
}
func (e InvalidSetError) Error() string {
	return e.String()
}
func (e InvalidSetError) String() string {
	return banner("Invalid Set Error", "Comparison", e.Tag, "Value", show(e.Input))
}
func (e InvalidSetError) Child() Error {
	return nil
}
func (e InvalidSetError) Type() string {
	return e.Tag
}
func (e InvalidSetError) Message() string {
	return fmt.Sprintf(`%s: %s is not a collection.`, e.Tag, show(e.Input))
}
func (e InvalidSetError) Operation() val.Value {
	return orNull(e.Input)
}

type PatternError struct {
	Tag     string
	Pattern string
	Problem string
}

func (PatternError) name() string { return "PatternError" }

func (e PatternError) Value() val.Value {
	return Record(e)
}
func (e PatternError) Error() string {
	return e.String()
}
func (e PatternError) String() string {
	return banner("Pattern Error", "Pattern", e.Pattern, "Problem", e.Problem)
}
func (e PatternError) Child() Error {
	return nil
}
func (e PatternError) Type() string {
	return e.Tag
}
func (e PatternError) Message() string {
	return fmt.Sprintf(`%s: invalid pattern "%s": %s.`, e.Tag, e.Pattern, e.Problem)
}
func (e PatternError) Operation() val.Value {
	return val.String(e.Pattern)
}

// PredicateError is returned by a type or shape predicate that does not hold.
type PredicateError struct {
	Tag     string
	Shape   string
	Operand val.Value
}

func (PredicateError) name() string { return "PredicateError" }

func (e PredicateError) Value() val.Value {
	return Record(e)
}
func (e PredicateError) Error() string {
	return e.String()
}
func (e PredicateError) String() string {
	return banner("Predicate Error", "Predicate", e.Tag, "Problem", e.Message())
}
func (e PredicateError) Child() Error {
	return nil
}
func (e PredicateError) Type() string {
	return e.Tag
}
func (e PredicateError) Message() string {
	return fmt.Sprintf(`%s is not %s.`, show(e.Operand), e.Shape)
}
func (e PredicateError) Operation() val.Value {
	return orNull(e.Operand)
}
