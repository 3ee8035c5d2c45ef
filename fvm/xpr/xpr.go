// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package xpr defines the operation node model: one struct per node shape,
// builders, and the mapping to and from serialized values.
package xpr

import (
	"github.com/karmarun/formula/fvm/val"
)

// Expression is implemented by the node types of this package only.
// A nil Expression is an undefined node.
type Expression interface {
	Tag() Tag
	Datatype() Datatype
	Transform(f func(Expression) Expression) Expression
	expression()
}

// TransformIdentity is the identity function for Expressions
func TransformIdentity(x Expression) Expression {
	return x
}

func transform(x Expression, f func(Expression) Expression) Expression {
	if x == nil {
		return nil
	}
	return x.Transform(f)
}

func transformAll(xs []Expression, f func(Expression) Expression) []Expression {
	c := make([]Expression, len(xs), len(xs))
	for i, x := range xs {
		c[i] = transform(x, f)
	}
	return c
}

func datatypeOf(x Expression, fallback Datatype) Datatype {
	if x == nil {
		return fallback
	}
	return x.Datatype()
}

// Invalid stands for a serialized node that could not be decoded. An empty
// Problem means the tag itself is unknown.
type Invalid struct {
	Name    Tag
	Problem string
	Source  val.Value
}

func (x Invalid) Tag() Tag           { return x.Name }
func (x Invalid) Datatype() Datatype { return DatatypeJSON }
func (Invalid) expression()          {}

func (x Invalid) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

// Fold is Add or Multiply.
type Fold struct {
	Kind     Tag
	Operands []Expression
}

func (x Fold) Tag() Tag           { return x.Kind }
func (x Fold) Datatype() Datatype { return DatatypeFloat }
func (Fold) expression()          {}

func (x Fold) Transform(f func(Expression) Expression) Expression {
	return f(Fold{x.Kind, transformAll(x.Operands, f)})
}

// Aggregate is one of the statistical n-ary operators.
type Aggregate struct {
	Kind     Tag
	Operands []Expression
}

func (x Aggregate) Tag() Tag           { return x.Kind }
func (x Aggregate) Datatype() Datatype { return DatatypeFloat }
func (Aggregate) expression()          {}

func (x Aggregate) Transform(f func(Expression) Expression) Expression {
	return f(Aggregate{x.Kind, transformAll(x.Operands, f)})
}

type Divide struct {
	Dividend Expression
	Divisor  Expression
}

func (Divide) Tag() Tag           { return TagDivide }
func (Divide) Datatype() Datatype { return DatatypeFloat }
func (Divide) expression()        {}

func (x Divide) Transform(f func(Expression) Expression) Expression {
	return f(Divide{transform(x.Dividend, f), transform(x.Divisor, f)})
}

type Subtract struct {
	Minuend    Expression
	Subtrahend Expression
}

func (Subtract) Tag() Tag           { return TagSubtract }
func (Subtract) Datatype() Datatype { return DatatypeFloat }
func (Subtract) expression()        {}

func (x Subtract) Transform(f func(Expression) Expression) Expression {
	return f(Subtract{transform(x.Minuend, f), transform(x.Subtrahend, f)})
}

type Power struct {
	Base     Expression
	Exponent Expression
}

func (Power) Tag() Tag           { return TagPower }
func (Power) Datatype() Datatype { return DatatypeFloat }
func (Power) expression()        {}

func (x Power) Transform(f func(Expression) Expression) Expression {
	return f(Power{transform(x.Base, f), transform(x.Exponent, f)})
}

type Root struct {
	Radicand Expression
	Index    Expression
}

func (Root) Tag() Tag           { return TagRoot }
func (Root) Datatype() Datatype { return DatatypeFloat }
func (Root) expression()        {}

func (x Root) Transform(f func(Expression) Expression) Expression {
	return f(Root{transform(x.Radicand, f), transform(x.Index, f)})
}

// Modulo takes the sign of the divisor.
type Modulo struct {
	Dividend Expression
	Divisor  Expression
}

func (Modulo) Tag() Tag           { return TagModulo }
func (Modulo) Datatype() Datatype { return DatatypeFloat }
func (Modulo) expression()        {}

func (x Modulo) Transform(f func(Expression) Expression) Expression {
	return f(Modulo{transform(x.Dividend, f), transform(x.Divisor, f)})
}

// Remainder takes the sign of the dividend.
type Remainder struct {
	Dividend Expression
	Divisor  Expression
}

func (Remainder) Tag() Tag           { return TagRemainder }
func (Remainder) Datatype() Datatype { return DatatypeFloat }
func (Remainder) expression()        {}

func (x Remainder) Transform(f func(Expression) Expression) Expression {
	return f(Remainder{transform(x.Dividend, f), transform(x.Divisor, f)})
}

type Unary struct {
	Kind    Tag
	Operand Expression
}

func (x Unary) Tag() Tag           { return x.Kind }
func (x Unary) Datatype() Datatype { return DatatypeFloat }
func (Unary) expression()          {}

func (x Unary) Transform(f func(Expression) Expression) Expression {
	return f(Unary{x.Kind, transform(x.Operand, f)})
}

// Rounding rounds Operand to Places decimal places. Negative Places round
// to tens, hundreds and so on.
type Rounding struct {
	Kind    Tag
	Operand Expression
	Places  int
}

func (x Rounding) Tag() Tag           { return x.Kind }
func (x Rounding) Datatype() Datatype { return DatatypeFloat }
func (Rounding) expression()          {}

func (x Rounding) Transform(f func(Expression) Expression) Expression {
	return f(Rounding{x.Kind, transform(x.Operand, f), x.Places})
}

// ProportionedRate blends the rates of the bands in Table over Amount.
type ProportionedRate struct {
	Amount Expression
	Table  Expression
}

func (ProportionedRate) Tag() Tag           { return TagProportionedRate }
func (ProportionedRate) Datatype() Datatype { return DatatypeFloat }
func (ProportionedRate) expression()        {}

func (x ProportionedRate) Transform(f func(Expression) Expression) Expression {
	return f(ProportionedRate{transform(x.Amount, f), transform(x.Table, f)})
}

type And struct {
	Operands []Expression
}

func (And) Tag() Tag { return TagAnd }
func (And) expression() {}

func (x And) Datatype() Datatype {
	if len(x.Operands) == 0 {
		return DatatypeBoolean
	}
	return datatypeOf(x.Operands[len(x.Operands)-1], DatatypeJSON)
}

func (x And) Transform(f func(Expression) Expression) Expression {
	return f(And{transformAll(x.Operands, f)})
}

type Or struct {
	Operands []Expression
}

func (Or) Tag() Tag { return TagOr }
func (Or) expression() {}

func (x Or) Datatype() Datatype {
	if len(x.Operands) == 0 {
		return DatatypeBoolean
	}
	return datatypeOf(x.Operands[0], DatatypeJSON)
}

func (x Or) Transform(f func(Expression) Expression) Expression {
	return f(Or{transformAll(x.Operands, f)})
}

// Ternary evaluates Condition as a conditional and selects a branch.
// Both branches are evaluated.
type Ternary struct {
	Condition Expression
	IfTrue    Expression
	IfFalse   Expression
}

func (Ternary) Tag() Tag { return TagTernary }
func (Ternary) expression() {}

func (x Ternary) Datatype() Datatype {
	return datatypeOf(x.IfTrue, DatatypeJSON)
}

func (x Ternary) Transform(f func(Expression) Expression) Expression {
	return f(Ternary{transform(x.Condition, f), transform(x.IfTrue, f), transform(x.IfFalse, f)})
}

// Comparison relates Operand to Test. Its value on success is Operand's.
type Comparison struct {
	Kind    Tag
	Operand Expression
	Test    Expression
}

func (x Comparison) Tag() Tag { return x.Kind }
func (Comparison) expression() {}

func (x Comparison) Datatype() Datatype {
	return datatypeOf(x.Operand, DatatypeJSON)
}

func (x Comparison) Transform(f func(Expression) Expression) Expression {
	return f(Comparison{x.Kind, transform(x.Operand, f), transform(x.Test, f)})
}

// Predicate checks the type or shape of Operand. Its value on success is Operand's.
type Predicate struct {
	Kind    Tag
	Operand Expression
}

func (x Predicate) Tag() Tag { return x.Kind }
func (Predicate) expression() {}

func (x Predicate) Datatype() Datatype {
	return datatypeOf(x.Operand, DatatypeJSON)
}

func (x Predicate) Transform(f func(Expression) Expression) Expression {
	return f(Predicate{x.Kind, transform(x.Operand, f)})
}
