// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"fmt"
	"math"

	"github.com/karmarun/formula/fvm/val"
)

// ValueFromExpression returns the serialized form of x: a map with "tag",
// "datatype" and the fields of its shape. A nil x serializes to null.
func ValueFromExpression(x Expression) val.Value {
	if x == nil {
		return val.Null
	}
	if x, ok := x.(Invalid); ok {
		if x.Source != nil {
			return x.Source
		}
		return val.Null
	}
	m := val.NewMap(5)
	m.Set("tag", val.String(x.Tag()))
	m.Set("datatype", val.String(x.Datatype()))
	switch x := x.(type) {
	case Constant:
		m.Set("value", orNull(x.Value))
	case FromArgument:
		m.Set("key", val.String(x.Key))
	case FromElement:
		m.Set("selector", val.String(x.Selector))
	case FromLocalStorage:
		m.Set("key", val.String(x.Key))
	case FromSessionStorage:
		m.Set("key", val.String(x.Key))
	case FromQueryString:
		m.Set("key", val.String(x.Key))
	case FromPathSegment:
		m.Set("index", val.Int64(x.Index))
	case FromRemote:
		m.Set("url", val.String(x.URL))
		m.Set("path", val.String(x.Path))
	case FromLookupTable:
		m.Set("table", val.String(x.Table))
		m.Set("row", val.String(x.Row))
		m.Set("column", val.String(x.Column))
	case Fold:
		m.Set("operands", valuesFromExpressions(x.Operands))
	case Aggregate:
		m.Set("operands", valuesFromExpressions(x.Operands))
	case Divide:
		m.Set("dividend", ValueFromExpression(x.Dividend))
		m.Set("divisor", ValueFromExpression(x.Divisor))
	case Subtract:
		m.Set("minuend", ValueFromExpression(x.Minuend))
		m.Set("subtrahend", ValueFromExpression(x.Subtrahend))
	case Power:
		m.Set("base", ValueFromExpression(x.Base))
		m.Set("exponent", ValueFromExpression(x.Exponent))
	case Root:
		m.Set("radicand", ValueFromExpression(x.Radicand))
		m.Set("index", ValueFromExpression(x.Index))
	case Modulo:
		m.Set("dividend", ValueFromExpression(x.Dividend))
		m.Set("divisor", ValueFromExpression(x.Divisor))
	case Remainder:
		m.Set("dividend", ValueFromExpression(x.Dividend))
		m.Set("divisor", ValueFromExpression(x.Divisor))
	case Unary:
		m.Set("operand", ValueFromExpression(x.Operand))
	case Rounding:
		m.Set("operand", ValueFromExpression(x.Operand))
		m.Set("places", val.Int64(x.Places))
	case ProportionedRate:
		m.Set("amount", ValueFromExpression(x.Amount))
		m.Set("table", ValueFromExpression(x.Table))
	case And:
		m.Set("operands", valuesFromExpressions(x.Operands))
	case Or:
		m.Set("operands", valuesFromExpressions(x.Operands))
	case Ternary:
		m.Set("condition", ValueFromExpression(x.Condition))
		m.Set("ifTrue", ValueFromExpression(x.IfTrue))
		m.Set("ifFalse", ValueFromExpression(x.IfFalse))
	case Comparison:
		m.Set("operand", ValueFromExpression(x.Operand))
		m.Set("test", ValueFromExpression(x.Test))
	case Predicate:
		m.Set("operand", ValueFromExpression(x.Operand))
	default:
		panic(fmt.Sprintf("unhandled expression type: %T", x))
	}
	return m
}

func valuesFromExpressions(xs []Expression) val.List {
	l := make(val.List, len(xs), len(xs))
	for i, x := range xs {
		l[i] = ValueFromExpression(x)
	}
	return l
}

// ExpressionFromValue decodes a serialized node. It never panics: null is
// the undefined (nil) node, unknown tags and malformed fields decode to
// Invalid.
func ExpressionFromValue(v val.Value) Expression {
	if v == nil || v == val.Null {
		return nil
	}
	m, ok := v.(val.Map)
	if !ok {
		return Invalid{Undefined, "", v}
	}
	t, ok := m.Key("tag").(val.String)
	if !ok {
		return Invalid{Undefined, "", v}
	}
	tag := Tag(t)
	d := decoder{tag: tag, source: m}
	x := d.decode()
	if d.problem != "" {
		return Invalid{tag, d.problem, v}
	}
	return x
}

// decoder remembers the first problem encountered; later field reads
// still succeed with zero values so decode stays linear.
type decoder struct {
	tag     Tag
	source  val.Map
	problem string
}

func (d *decoder) fail(format string, args ...interface{}) {
	if d.problem == "" {
		d.problem = fmt.Sprintf(format, args...)
	}
}

func (d *decoder) decode() Expression {
	switch t := d.tag; {

	case t == TagConstant:
		w, _ := d.source.Get("value")
		w = orNull(w)
		return Constant{w, d.datatype(DatatypeOf(w))}

	case t == TagFromArgument:
		return FromArgument{d.optionalString("key"), d.datatype(DatatypeJSON)}

	case t == TagFromElement:
		return FromElement{d.string("selector"), d.datatype(DatatypeString)}

	case t == TagFromLocalStorage:
		return FromLocalStorage{d.string("key"), d.datatype(DatatypeString)}

	case t == TagFromSessionStorage:
		return FromSessionStorage{d.string("key"), d.datatype(DatatypeString)}

	case t == TagFromQueryString:
		return FromQueryString{d.string("key"), d.datatype(DatatypeString)}

	case t == TagFromPathSegment:
		return FromPathSegment{d.integer("index"), d.datatype(DatatypeString)}

	case t == TagFromRemote:
		return FromRemote{d.string("url"), d.optionalString("path"), d.datatype(DatatypeJSON)}

	case t == TagFromLookupTable:
		return FromLookupTable{d.string("table"), d.string("row"), d.string("column"), d.datatype(DatatypeJSON)}

	case tagIn(t, FoldTags):
		return Fold{t, d.operands()}

	case tagIn(t, AggregateTags):
		return Aggregate{t, d.operands()}

	case t == TagDivide:
		return Divide{d.node("dividend"), d.node("divisor")}

	case t == TagSubtract:
		return Subtract{d.node("minuend"), d.node("subtrahend")}

	case t == TagPower:
		return Power{d.node("base"), d.node("exponent")}

	case t == TagRoot:
		return Root{d.node("radicand"), d.node("index")}

	case t == TagModulo:
		return Modulo{d.node("dividend"), d.node("divisor")}

	case t == TagRemainder:
		return Remainder{d.node("dividend"), d.node("divisor")}

	case tagIn(t, UnaryTags):
		return Unary{t, d.node("operand")}

	case tagIn(t, RoundingTags):
		places := 0
		if _, ok := d.source.Get("places"); ok {
			places = d.integer("places")
		}
		return Rounding{t, d.node("operand"), places}

	case t == TagProportionedRate:
		return ProportionedRate{d.node("amount"), d.node("table")}

	case t == TagAnd:
		return And{d.operands()}

	case t == TagOr:
		return Or{d.operands()}

	case t == TagTernary:
		return Ternary{d.node("condition"), d.node("ifTrue"), d.node("ifFalse")}

	case tagIn(t, ComparisonTags):
		return Comparison{t, d.node("operand"), d.node("test")}

	case tagIn(t, PredicateTags):
		return Predicate{t, d.node("operand")}

	}
	return Invalid{d.tag, "", d.source}
}

// node decodes a child field; absent children are undefined (nil).
// A child that fails to decode is kept as Invalid and reported when evaluated.
func (d *decoder) node(field string) Expression {
	v, ok := d.source.Get(field)
	if !ok {
		return nil
	}
	return ExpressionFromValue(v)
}

func (d *decoder) operands() []Expression {
	v, ok := d.source.Get("operands")
	if !ok || v == val.Null {
		return []Expression{}
	}
	l, ok := v.(val.List)
	if !ok {
		d.fail(`field "operands" must be a list`)
		return nil
	}
	xs := make([]Expression, len(l), len(l))
	for i, w := range l {
		xs[i] = ExpressionFromValue(w)
	}
	return xs
}

func (d *decoder) string(field string) string {
	v, ok := d.source.Get(field)
	if !ok {
		d.fail(`field "%s" is required`, field)
		return ""
	}
	s, ok := v.(val.String)
	if !ok {
		d.fail(`field "%s" must be a string`, field)
		return ""
	}
	return string(s)
}

func (d *decoder) optionalString(field string) string {
	if _, ok := d.source.Get(field); !ok {
		return ""
	}
	return d.string(field)
}

func (d *decoder) integer(field string) int {
	v, ok := d.source.Get(field)
	if !ok {
		d.fail(`field "%s" is required`, field)
		return 0
	}
	switch v := v.(type) {
	case val.Int64:
		return int(v)
	case val.Float:
		if f := float64(v); f == math.Trunc(f) && math.Abs(f) < 1<<31 {
			return int(f)
		}
	}
	d.fail(`field "%s" must be an integer`, field)
	return 0
}

func (d *decoder) datatype(fallback Datatype) Datatype {
	v, ok := d.source.Get("datatype")
	if !ok || v == val.Null {
		return fallback
	}
	s, ok := v.(val.String)
	if !ok || !Datatype(s).Valid() {
		d.fail(`unknown datatype %s`, v)
		return fallback
	}
	return Datatype(s)
}

func orNull(v val.Value) val.Value {
	if v == nil {
		return val.Null
	}
	return v
}
