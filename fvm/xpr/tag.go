// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

// Tag is the discriminator of a serialized operation node.
type Tag string

// Undefined is the tag reported for nil nodes and nodes without tag.
const Undefined Tag = "undefined"

// injectors
const (
	TagConstant           Tag = "Constant"
	TagFromArgument       Tag = "FromArgument"
	TagFromElement        Tag = "FromElement"
	TagFromLocalStorage   Tag = "FromLocalStorage"
	TagFromSessionStorage Tag = "FromSessionStorage"
	TagFromQueryString    Tag = "FromQueryString"
	TagFromPathSegment    Tag = "FromPathSegment"
	TagFromRemote         Tag = "FromRemote"
	TagFromLookupTable    Tag = "FromLookupTable"
)

// operators
const (
	TagAdd      Tag = "Add"
	TagMultiply Tag = "Multiply"

	TagMax               Tag = "Max"
	TagMin               Tag = "Min"
	TagMean              Tag = "Mean"
	TagMedian            Tag = "Median"
	TagMode              Tag = "Mode"
	TagStandardDeviation Tag = "StandardDeviation"
	TagRootMeanSquare    Tag = "RootMeanSquare"
	TagHypotenuse        Tag = "Hypotenuse"

	TagDivide    Tag = "Divide"
	TagSubtract  Tag = "Subtract"
	TagPower     Tag = "Power"
	TagRoot      Tag = "Root"
	TagModulo    Tag = "Modulo"
	TagRemainder Tag = "Remainder"

	TagSine                 Tag = "Sine"
	TagCosine               Tag = "Cosine"
	TagTangent              Tag = "Tangent"
	TagArcSine              Tag = "ArcSine"
	TagArcCosine            Tag = "ArcCosine"
	TagArcTangent           Tag = "ArcTangent"
	TagHyperbolicSine       Tag = "HyperbolicSine"
	TagHyperbolicCosine     Tag = "HyperbolicCosine"
	TagHyperbolicTangent    Tag = "HyperbolicTangent"
	TagArcHyperbolicSine    Tag = "ArcHyperbolicSine"
	TagArcHyperbolicCosine  Tag = "ArcHyperbolicCosine"
	TagArcHyperbolicTangent Tag = "ArcHyperbolicTangent"
	TagSign                 Tag = "Sign"
	TagReciprocal           Tag = "Reciprocal"
	TagAbsoluteValue        Tag = "AbsoluteValue"
	TagSquareRoot           Tag = "SquareRoot"
	TagNaturalLogarithm     Tag = "NaturalLogarithm"
	TagExponential          Tag = "Exponential"

	TagRound     Tag = "Round"
	TagRoundUp   Tag = "RoundUp"
	TagRoundDown Tag = "RoundDown"
	TagTruncate  Tag = "Truncate"

	TagProportionedRate Tag = "ProportionedRate"
)

// comparators
const (
	TagAnd     Tag = "And"
	TagOr      Tag = "Or"
	TagTernary Tag = "Ternary"

	TagIsEqualTo    Tag = "IsEqualTo"
	TagIsNotEqualTo Tag = "IsNotEqualTo"
	TagIsMoreThan   Tag = "IsMoreThan"
	TagIsLessThan   Tag = "IsLessThan"
	TagIsAtLeast    Tag = "IsAtLeast"
	TagIsAtMost     Tag = "IsAtMost"

	TagIsAlphabeticallyEqualTo    Tag = "IsAlphabeticallyEqualTo"
	TagIsAlphabeticallyBefore     Tag = "IsAlphabeticallyBefore"
	TagIsAlphabeticallyAfter      Tag = "IsAlphabeticallyAfter"
	TagIsAlphabeticallyAtOrBefore Tag = "IsAlphabeticallyAtOrBefore"
	TagIsAlphabeticallyAtOrAfter  Tag = "IsAlphabeticallyAtOrAfter"

	TagIsSameDate       Tag = "IsSameDate"
	TagIsBeforeDate     Tag = "IsBeforeDate"
	TagIsAfterDate      Tag = "IsAfterDate"
	TagIsOnOrBeforeDate Tag = "IsOnOrBeforeDate"
	TagIsOnOrAfterDate  Tag = "IsOnOrAfterDate"

	TagIsSameDateTime       Tag = "IsSameDateTime"
	TagIsBeforeDateTime     Tag = "IsBeforeDateTime"
	TagIsAfterDateTime      Tag = "IsAfterDateTime"
	TagIsAtOrBeforeDateTime Tag = "IsAtOrBeforeDateTime"
	TagIsAtOrAfterDateTime  Tag = "IsAtOrAfterDateTime"

	TagIsSameTime       Tag = "IsSameTime"
	TagIsBeforeTime     Tag = "IsBeforeTime"
	TagIsAfterTime      Tag = "IsAfterTime"
	TagIsAtOrBeforeTime Tag = "IsAtOrBeforeTime"
	TagIsAtOrAfterTime  Tag = "IsAtOrAfterTime"

	TagIsLengthEqualTo    Tag = "IsLengthEqualTo"
	TagIsLengthNotEqualTo Tag = "IsLengthNotEqualTo"
	TagIsShorterThan      Tag = "IsShorterThan"
	TagIsLongerThan       Tag = "IsLongerThan"
	TagIsLengthAtLeast    Tag = "IsLengthAtLeast"
	TagIsLengthAtMost     Tag = "IsLengthAtMost"

	TagIsIdenticalTo Tag = "IsIdenticalTo"

	TagIsSubsetOf     Tag = "IsSubsetOf"
	TagIsSupersetOf   Tag = "IsSupersetOf"
	TagIsDisjointFrom Tag = "IsDisjointFrom"
	TagOverlaps       Tag = "Overlaps"
	TagIsMemberOf     Tag = "IsMemberOf"

	TagMatches          Tag = "Matches"
	TagDoesNotMatch     Tag = "DoesNotMatch"
	TagStartsWith       Tag = "StartsWith"
	TagEndsWith         Tag = "EndsWith"
	TagContains         Tag = "Contains"
	TagResemblesFuzzily Tag = "ResemblesFuzzily"

	TagIsBoolean  Tag = "IsBoolean"
	TagIsNumber   Tag = "IsNumber"
	TagIsInteger  Tag = "IsInteger"
	TagIsString   Tag = "IsString"
	TagIsDate     Tag = "IsDate"
	TagIsDateTime Tag = "IsDateTime"
	TagIsTime     Tag = "IsTime"
	TagIsList     Tag = "IsList"
	TagIsEmpty    Tag = "IsEmpty"
	TagIsNotEmpty Tag = "IsNotEmpty"
	TagIsTrue     Tag = "IsTrue"
	TagIsFalse    Tag = "IsFalse"
)

var (
	InjectorTags = []Tag{
		TagConstant, TagFromArgument, TagFromElement, TagFromLocalStorage, TagFromSessionStorage,
		TagFromQueryString, TagFromPathSegment, TagFromRemote, TagFromLookupTable,
	}

	FoldTags      = []Tag{TagAdd, TagMultiply}
	AggregateTags = []Tag{
		TagMax, TagMin, TagMean, TagMedian, TagMode,
		TagStandardDeviation, TagRootMeanSquare, TagHypotenuse,
	}
	BinaryOperatorTags = []Tag{TagDivide, TagSubtract, TagPower, TagRoot, TagModulo, TagRemainder}
	UnaryTags          = []Tag{
		TagSine, TagCosine, TagTangent, TagArcSine, TagArcCosine, TagArcTangent,
		TagHyperbolicSine, TagHyperbolicCosine, TagHyperbolicTangent,
		TagArcHyperbolicSine, TagArcHyperbolicCosine, TagArcHyperbolicTangent,
		TagSign, TagReciprocal, TagAbsoluteValue, TagSquareRoot, TagNaturalLogarithm, TagExponential,
	}
	RoundingTags = []Tag{TagRound, TagRoundUp, TagRoundDown, TagTruncate}

	ComparisonTags = []Tag{
		TagIsEqualTo, TagIsNotEqualTo, TagIsMoreThan, TagIsLessThan, TagIsAtLeast, TagIsAtMost,
		TagIsAlphabeticallyEqualTo, TagIsAlphabeticallyBefore, TagIsAlphabeticallyAfter,
		TagIsAlphabeticallyAtOrBefore, TagIsAlphabeticallyAtOrAfter,
		TagIsSameDate, TagIsBeforeDate, TagIsAfterDate, TagIsOnOrBeforeDate, TagIsOnOrAfterDate,
		TagIsSameDateTime, TagIsBeforeDateTime, TagIsAfterDateTime, TagIsAtOrBeforeDateTime, TagIsAtOrAfterDateTime,
		TagIsSameTime, TagIsBeforeTime, TagIsAfterTime, TagIsAtOrBeforeTime, TagIsAtOrAfterTime,
		TagIsLengthEqualTo, TagIsLengthNotEqualTo, TagIsShorterThan, TagIsLongerThan,
		TagIsLengthAtLeast, TagIsLengthAtMost,
		TagIsIdenticalTo,
		TagIsSubsetOf, TagIsSupersetOf, TagIsDisjointFrom, TagOverlaps, TagIsMemberOf,
		TagMatches, TagDoesNotMatch, TagStartsWith, TagEndsWith, TagContains, TagResemblesFuzzily,
	}
	PredicateTags = []Tag{
		TagIsBoolean, TagIsNumber, TagIsInteger, TagIsString, TagIsDate, TagIsDateTime,
		TagIsTime, TagIsList, TagIsEmpty, TagIsNotEmpty, TagIsTrue, TagIsFalse,
	}

	// OperatorTags lists every tag the operator interpreter evaluates itself.
	OperatorTags = concat(FoldTags, AggregateTags, BinaryOperatorTags, UnaryTags, RoundingTags, []Tag{TagProportionedRate})

	// ComparatorTags lists every tag the comparator interpreter evaluates itself.
	ComparatorTags = concat([]Tag{TagAnd, TagOr}, ComparisonTags, PredicateTags)
)

var (
	operatorSet   = setOf(OperatorTags)
	comparatorSet = setOf(ComparatorTags)
	injectorSet   = setOf(InjectorTags)
)

func (t Tag) IsOperator() bool   { return operatorSet[t] }
func (t Tag) IsComparator() bool { return comparatorSet[t] }
func (t Tag) IsInjector() bool   { return injectorSet[t] }

func (t Tag) Known() bool {
	return t.IsOperator() || t.IsComparator() || t.IsInjector() || t == TagTernary
}

func concat(tss ...[]Tag) []Tag {
	out := make([]Tag, 0, 128)
	for _, ts := range tss {
		out = append(out, ts...)
	}
	return out
}

func setOf(ts []Tag) map[Tag]bool {
	m := make(map[Tag]bool, len(ts))
	for _, t := range ts {
		m[t] = true
	}
	return m
}

func tagIn(t Tag, ts []Tag) bool {
	for _, u := range ts {
		if u == t {
			return true
		}
	}
	return false
}
