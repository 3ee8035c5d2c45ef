// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package op has one builder per operation tag. Builders take the operand
// first, then the test, divisor, exponent and so on.
package op

import (
	"github.com/karmarun/formula/fvm/val"
	"github.com/karmarun/formula/fvm/xpr"
)

// Constant builds a constant whose datatype is inferred from v.
func Constant(v val.Value) xpr.Expression {
	if v == nil {
		v = val.Null
	}
	return xpr.Constant{Value: v, Type: xpr.DatatypeOf(v)}
}

func ConstantOf(d xpr.Datatype, v val.Value) xpr.Expression {
	if v == nil {
		v = val.Null
	}
	return xpr.Constant{Value: v, Type: d}
}

// Undefined is a constant without value; it resolves to a missing value.
func Undefined() xpr.Expression {
	return xpr.Constant{Value: val.Null, Type: xpr.DatatypeJSON}
}

// FromArgument reads the whole argument when key is empty. Its json
// datatype passes any argument through unchanged.
func FromArgument(key string) xpr.Expression {
	return xpr.FromArgument{Key: key, Type: xpr.DatatypeJSON}
}

func FromArgumentOf(d xpr.Datatype, key string) xpr.Expression {
	return xpr.FromArgument{Key: key, Type: d}
}

func FromElement(d xpr.Datatype, selector string) xpr.Expression {
	return xpr.FromElement{Selector: selector, Type: d}
}

func FromLocalStorage(d xpr.Datatype, key string) xpr.Expression {
	return xpr.FromLocalStorage{Key: key, Type: d}
}

func FromSessionStorage(d xpr.Datatype, key string) xpr.Expression {
	return xpr.FromSessionStorage{Key: key, Type: d}
}

func FromQueryString(d xpr.Datatype, key string) xpr.Expression {
	return xpr.FromQueryString{Key: key, Type: d}
}

func FromPathSegment(d xpr.Datatype, index int) xpr.Expression {
	return xpr.FromPathSegment{Index: index, Type: d}
}

func FromRemote(d xpr.Datatype, url, path string) xpr.Expression {
	return xpr.FromRemote{URL: url, Path: path, Type: d}
}

func FromLookupTable(d xpr.Datatype, table, row, column string) xpr.Expression {
	return xpr.FromLookupTable{Table: table, Row: row, Column: column, Type: d}
}

func Add(operands ...xpr.Expression) xpr.Expression {
	return xpr.Fold{Kind: xpr.TagAdd, Operands: operands}
}

func Multiply(operands ...xpr.Expression) xpr.Expression {
	return xpr.Fold{Kind: xpr.TagMultiply, Operands: operands}
}

func Max(operands ...xpr.Expression) xpr.Expression {
	return xpr.Aggregate{Kind: xpr.TagMax, Operands: operands}
}

func Min(operands ...xpr.Expression) xpr.Expression {
	return xpr.Aggregate{Kind: xpr.TagMin, Operands: operands}
}

func Mean(operands ...xpr.Expression) xpr.Expression {
	return xpr.Aggregate{Kind: xpr.TagMean, Operands: operands}
}

func Median(operands ...xpr.Expression) xpr.Expression {
	return xpr.Aggregate{Kind: xpr.TagMedian, Operands: operands}
}

func Mode(operands ...xpr.Expression) xpr.Expression {
	return xpr.Aggregate{Kind: xpr.TagMode, Operands: operands}
}

func StandardDeviation(operands ...xpr.Expression) xpr.Expression {
	return xpr.Aggregate{Kind: xpr.TagStandardDeviation, Operands: operands}
}

func RootMeanSquare(operands ...xpr.Expression) xpr.Expression {
	return xpr.Aggregate{Kind: xpr.TagRootMeanSquare, Operands: operands}
}

func Hypotenuse(operands ...xpr.Expression) xpr.Expression {
	return xpr.Aggregate{Kind: xpr.TagHypotenuse, Operands: operands}
}

func Divide(dividend, divisor xpr.Expression) xpr.Expression {
	return xpr.Divide{Dividend: dividend, Divisor: divisor}
}

func Subtract(minuend, subtrahend xpr.Expression) xpr.Expression {
	return xpr.Subtract{Minuend: minuend, Subtrahend: subtrahend}
}

func Power(base, exponent xpr.Expression) xpr.Expression {
	return xpr.Power{Base: base, Exponent: exponent}
}

func Root(radicand, index xpr.Expression) xpr.Expression {
	return xpr.Root{Radicand: radicand, Index: index}
}

func Modulo(dividend, divisor xpr.Expression) xpr.Expression {
	return xpr.Modulo{Dividend: dividend, Divisor: divisor}
}

func Remainder(dividend, divisor xpr.Expression) xpr.Expression {
	return xpr.Remainder{Dividend: dividend, Divisor: divisor}
}

func Sine(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagSine, Operand: operand}
}

func Cosine(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagCosine, Operand: operand}
}

func Tangent(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagTangent, Operand: operand}
}

func ArcSine(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagArcSine, Operand: operand}
}

func ArcCosine(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagArcCosine, Operand: operand}
}

func ArcTangent(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagArcTangent, Operand: operand}
}

func HyperbolicSine(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagHyperbolicSine, Operand: operand}
}

func HyperbolicCosine(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagHyperbolicCosine, Operand: operand}
}

func HyperbolicTangent(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagHyperbolicTangent, Operand: operand}
}

func ArcHyperbolicSine(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagArcHyperbolicSine, Operand: operand}
}

func ArcHyperbolicCosine(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagArcHyperbolicCosine, Operand: operand}
}

func ArcHyperbolicTangent(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagArcHyperbolicTangent, Operand: operand}
}

func Sign(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagSign, Operand: operand}
}

func Reciprocal(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagReciprocal, Operand: operand}
}

func AbsoluteValue(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagAbsoluteValue, Operand: operand}
}

func SquareRoot(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagSquareRoot, Operand: operand}
}

func NaturalLogarithm(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagNaturalLogarithm, Operand: operand}
}

func Exponential(operand xpr.Expression) xpr.Expression {
	return xpr.Unary{Kind: xpr.TagExponential, Operand: operand}
}

func Round(operand xpr.Expression, places int) xpr.Expression {
	return xpr.Rounding{Kind: xpr.TagRound, Operand: operand, Places: places}
}

func RoundUp(operand xpr.Expression, places int) xpr.Expression {
	return xpr.Rounding{Kind: xpr.TagRoundUp, Operand: operand, Places: places}
}

func RoundDown(operand xpr.Expression, places int) xpr.Expression {
	return xpr.Rounding{Kind: xpr.TagRoundDown, Operand: operand, Places: places}
}

func Truncate(operand xpr.Expression, places int) xpr.Expression {
	return xpr.Rounding{Kind: xpr.TagTruncate, Operand: operand, Places: places}
}

func ProportionedRate(amount, table xpr.Expression) xpr.Expression {
	return xpr.ProportionedRate{Amount: amount, Table: table}
}

func And(operands ...xpr.Expression) xpr.Expression {
	return xpr.And{Operands: operands}
}

func Or(operands ...xpr.Expression) xpr.Expression {
	return xpr.Or{Operands: operands}
}

func Ternary(condition, ifTrue, ifFalse xpr.Expression) xpr.Expression {
	return xpr.Ternary{Condition: condition, IfTrue: ifTrue, IfFalse: ifFalse}
}

func IsEqualTo(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsEqualTo, Operand: operand, Test: test}
}

func IsNotEqualTo(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsNotEqualTo, Operand: operand, Test: test}
}

func IsMoreThan(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsMoreThan, Operand: operand, Test: test}
}

func IsLessThan(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsLessThan, Operand: operand, Test: test}
}

func IsAtLeast(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAtLeast, Operand: operand, Test: test}
}

func IsAtMost(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAtMost, Operand: operand, Test: test}
}

func IsAlphabeticallyEqualTo(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAlphabeticallyEqualTo, Operand: operand, Test: test}
}

func IsAlphabeticallyBefore(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAlphabeticallyBefore, Operand: operand, Test: test}
}

func IsAlphabeticallyAfter(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAlphabeticallyAfter, Operand: operand, Test: test}
}

func IsAlphabeticallyAtOrBefore(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAlphabeticallyAtOrBefore, Operand: operand, Test: test}
}

func IsAlphabeticallyAtOrAfter(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAlphabeticallyAtOrAfter, Operand: operand, Test: test}
}

func IsSameDate(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsSameDate, Operand: operand, Test: test}
}

func IsBeforeDate(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsBeforeDate, Operand: operand, Test: test}
}

func IsAfterDate(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAfterDate, Operand: operand, Test: test}
}

func IsOnOrBeforeDate(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsOnOrBeforeDate, Operand: operand, Test: test}
}

func IsOnOrAfterDate(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsOnOrAfterDate, Operand: operand, Test: test}
}

func IsSameDateTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsSameDateTime, Operand: operand, Test: test}
}

func IsBeforeDateTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsBeforeDateTime, Operand: operand, Test: test}
}

func IsAfterDateTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAfterDateTime, Operand: operand, Test: test}
}

func IsAtOrBeforeDateTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAtOrBeforeDateTime, Operand: operand, Test: test}
}

func IsAtOrAfterDateTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAtOrAfterDateTime, Operand: operand, Test: test}
}

func IsSameTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsSameTime, Operand: operand, Test: test}
}

func IsBeforeTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsBeforeTime, Operand: operand, Test: test}
}

func IsAfterTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAfterTime, Operand: operand, Test: test}
}

func IsAtOrBeforeTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAtOrBeforeTime, Operand: operand, Test: test}
}

func IsAtOrAfterTime(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsAtOrAfterTime, Operand: operand, Test: test}
}

func IsLengthEqualTo(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsLengthEqualTo, Operand: operand, Test: test}
}

func IsLengthNotEqualTo(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsLengthNotEqualTo, Operand: operand, Test: test}
}

func IsShorterThan(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsShorterThan, Operand: operand, Test: test}
}

func IsLongerThan(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsLongerThan, Operand: operand, Test: test}
}

func IsLengthAtLeast(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsLengthAtLeast, Operand: operand, Test: test}
}

func IsLengthAtMost(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsLengthAtMost, Operand: operand, Test: test}
}

func IsIdenticalTo(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsIdenticalTo, Operand: operand, Test: test}
}

func IsSubsetOf(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsSubsetOf, Operand: operand, Test: test}
}

func IsSupersetOf(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsSupersetOf, Operand: operand, Test: test}
}

func IsDisjointFrom(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsDisjointFrom, Operand: operand, Test: test}
}

func Overlaps(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagOverlaps, Operand: operand, Test: test}
}

func IsMemberOf(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagIsMemberOf, Operand: operand, Test: test}
}

func Matches(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagMatches, Operand: operand, Test: test}
}

func DoesNotMatch(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagDoesNotMatch, Operand: operand, Test: test}
}

func StartsWith(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagStartsWith, Operand: operand, Test: test}
}

func EndsWith(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagEndsWith, Operand: operand, Test: test}
}

func Contains(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagContains, Operand: operand, Test: test}
}

func ResemblesFuzzily(operand, test xpr.Expression) xpr.Expression {
	return xpr.Comparison{Kind: xpr.TagResemblesFuzzily, Operand: operand, Test: test}
}

func IsBoolean(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsBoolean, Operand: operand}
}

func IsNumber(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsNumber, Operand: operand}
}

func IsInteger(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsInteger, Operand: operand}
}

func IsString(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsString, Operand: operand}
}

func IsDate(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsDate, Operand: operand}
}

func IsDateTime(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsDateTime, Operand: operand}
}

func IsTime(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsTime, Operand: operand}
}

func IsList(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsList, Operand: operand}
}

func IsEmpty(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsEmpty, Operand: operand}
}

func IsNotEmpty(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsNotEmpty, Operand: operand}
}

func IsTrue(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsTrue, Operand: operand}
}

func IsFalse(operand xpr.Expression) xpr.Expression {
	return xpr.Predicate{Kind: xpr.TagIsFalse, Operand: operand}
}
