// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package json encodes values as JSON and decodes JSON without a schema:
// numbers become floats, objects become maps in document order.
package json

import (
	"bytes"
	ej "encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
)

func init() {
	codec.Register("json", func() codec.Interface { return JsonCodec{} })
}

type JsonCodec struct{}

func (dec JsonCodec) Decode(json []byte) (val.Value, err.Error) {
	return Decode(json)
}

func (dec JsonCodec) Encode(v val.Value) []byte {
	return Encode(v)
}

type JSON []byte

func (j JSON) MarshalJSON() ([]byte, error) {
	return []byte(j), nil
}

func (j *JSON) UnmarshalJSON(json []byte) error {
	(*j) = append((*j)[:0], json...)
	return nil
}

func (j JSON) String() string {
	return string(j)
}

func Encode(value val.Value) JSON {
	return encode(value, make(JSON, 0, 1024*4))
}

// encode renders temporal values as their ISO strings and sets as arrays
// ordered by hash. A nil value encodes as null.
func encode(value val.Value, cache JSON) JSON {
	if value == nil || value == val.Null {
		return append(cache, `null`...)
	}
	switch v := value.(type) {

	case val.Set:
		return encode(v.Sorted(), cache)

	case val.List:
		bs := cache
		bs = append(bs, '[')
		for i, w := range v {
			if i > 0 {
				bs = append(bs, ',')
			}
			bs = encode(w, bs)
		}
		bs = append(bs, ']')
		return bs

	case val.Map:
		bs := cache
		bs = append(bs, '{')
		first := true
		v.ForEach(func(k string, v val.Value) bool {
			if !first {
				bs = append(bs, ',')
			}
			cs, _ := ej.Marshal(k)
			bs = append(bs, cs...)
			bs = append(bs, ':')
			bs = encode(v, bs)
			first = false
			return true
		})
		bs = append(bs, '}')
		return bs

	case val.String:
		bs, _ := ej.Marshal(string(v))
		return append(cache, bs...)

	case val.DateTime:
		bs, _ := ej.Marshal(v.Format(time.RFC3339Nano))
		return append(cache, bs...)

	case val.Date:
		bs, _ := ej.Marshal(v.String())
		return append(cache, bs...)

	case val.Time:
		bs, _ := ej.Marshal(v.String())
		return append(cache, bs...)

	case val.Duration:
		bs, _ := ej.Marshal(time.Duration(v).String())
		return append(cache, bs...)

	case val.Int64:
		return append(cache, strconv.FormatInt(int64(v), 10)...)

	case val.Float:
		return append(cache, strconv.FormatFloat(float64(v), 'g', -1, 64)...)

	case val.Bool:
		if v {
			return append(cache, "true"...)
		}
		return append(cache, "false"...)

	}
	panic(fmt.Sprintf(`JSON encoding unimplemented for type: %T`, value))
}

// parseError carries the unread rest of the input so the offset can be
// computed once at the top.
type parseError struct {
	Problem string
	Input   JSON
}

func Decode(json JSON) (val.Value, err.Error) {
	if json == nil {
		json = JSON{}
	}
	v, rest, e := decode(json)
	if e == nil {
		if rest = skipWhiteSpace(rest); len(rest) > 0 {
			e = &parseError{`unexpected trailing input`, rest}
		}
	}
	if e != nil {
		return nil, err.CodecError{Codec: "json", Offset: len(json) - len(e.Input), Problem: e.Problem}
	}
	return v, nil
}

func decode(json JSON) (val.Value, JSON, *parseError) {
	json = skipWhiteSpace(json)
	if e := assertNonEmpty(json); e != nil {
		return nil, json, e
	}
	switch json[0] {
	case 'n':
		json, e := readLiteral("null", json)
		if e != nil {
			return nil, json, e
		}
		return val.Null, json, nil

	case 't':
		json, e := readLiteral("true", json)
		if e != nil {
			return nil, json, e
		}
		return val.Bool(true), json, nil

	case 'f':
		json, e := readLiteral("false", json)
		if e != nil {
			return nil, json, e
		}
		return val.Bool(false), json, nil

	case '"':
		str, json, e := readString(json)
		if e != nil {
			return nil, json, e
		}
		return val.String(str), json, nil

	case '[':
		vs, json, e := decodeArray(json)
		if e != nil {
			return nil, json, e
		}
		return val.List(vs), json, nil

	case '{':
		return decodeObject(json)

	}
	n, rest, e := readJsonNumber(json)
	if e != nil {
		return nil, json, e
	}
	x, e_ := strconv.ParseFloat(string(n), 64)
	if e_ != nil {
		return nil, json, &parseError{`malformed number`, json}
	}
	return val.Float(x), rest, nil
}

// postcondition: returns intact JSON on error
func readJsonNumber(json JSON) (JSON, JSON, *parseError) {
	input := json
	if e := assertNonEmpty(json); e != nil {
		return nil, input, e
	}
	if json[0] == '-' {
		json = json[1:]
		if e := assertNonEmpty(json); e != nil {
			return nil, input, e
		}
	}
	if json[0] == '0' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
		goto dotDecimals
	}
	if json[0] < '1' || json[0] > '9' {
		return nil, input, &parseError{
			Problem: fmt.Sprintf(`expected value, found "%s"`, string(json[0])),
			Input:   json,
		}
	}
	json = json[1:]
	if len(json) == 0 {
		return input[:len(input)-len(json)], json, nil
	}
	for json[0] >= '0' && json[0] <= '9' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
	}
dotDecimals:
	if json[0] != '.' {
		goto exponent
	}
	json = json[1:]
	if len(json) == 0 {
		return input[:len(input)-len(json)], json, nil
	}
	for json[0] >= '0' && json[0] <= '9' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
	}
exponent:
	if json[0] != 'e' && json[0] != 'E' {
		return input[:len(input)-len(json)], json, nil
	}
	json = json[1:]
	if len(json) == 0 {
		return input[:len(input)-len(json)], json, nil
	}
	if json[0] == '-' || json[0] == '+' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
	}
	for json[0] >= '0' && json[0] <= '9' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
	}
	return input[:len(input)-len(json)], json, nil
}

// postcondition: returns intact JSON on error
func readString(json JSON) (string, JSON, *parseError) {
	input := json
	jstr, json, e := readJsonString(json)
	if e != nil {
		return "", input, e
	}
	value := ""
	if e := ej.Unmarshal(jstr, &value); e != nil {
		return "", input, &parseError{
			Problem: `malformed string`,
			Input:   input,
		}
	}
	return value, json, nil
}

// postcondition: returns intact JSON on error
func readJsonString(json JSON) (JSON, JSON, *parseError) {
	input := json
	json, e := readLiteral(`"`, json)
	if e != nil {
		return nil, input, e
	}
	escape := false
	for {
		if e := assertNonEmpty(json); e != nil {
			return nil, input, e
		}
		if json[0] == '"' && !escape {
			json = json[1:]
			break
		}
		if json[0] == '\\' && !escape {
			escape = true
			json = json[1:]
			continue
		}
		escape = false
		json = json[1:]
	}
	return input[:len(input)-len(json)], json, nil
}

// allows trailing commas
func decodeArray(json JSON) ([]val.Value, JSON, *parseError) {
	json, e := readLiteral(`[`, json)
	if e != nil {
		return nil, json, e
	}
	vs := make([]val.Value, 0, 16)
	for {
		if json, e := readLiteral(`]`, skipWhiteSpace(json)); e == nil {
			return vs, json, nil
		}
		v, temp, e := decode(json)
		if e != nil {
			return nil, temp, e
		}
		vs, json = append(vs, v), temp
		if temp, e := readLiteral(`,`, skipWhiteSpace(json)); e == nil {
			json = temp
			continue
		}
		json, e = readLiteral(`]`, skipWhiteSpace(json))
		if e != nil {
			return nil, json, e
		}
		return vs, json, nil
	}
}

// allows trailing commas; keys keep document order, later duplicates win
func decodeObject(json JSON) (val.Value, JSON, *parseError) {
	json, e := readLiteral(`{`, json)
	if e != nil {
		return nil, json, e
	}
	vs := val.NewMap(8)
	for {
		if json, e := readLiteral(`}`, skipWhiteSpace(json)); e == nil {
			return vs, json, nil
		}
		str, temp, e := readString(skipWhiteSpace(json))
		if e != nil {
			return nil, temp, e
		}
		json, e = readLiteral(`:`, skipWhiteSpace(temp))
		if e != nil {
			return nil, json, e
		}
		v, temp, e := decode(json)
		if e != nil {
			return nil, temp, e
		}
		vs.Set(str, v)
		json = temp
		if temp, e := readLiteral(`,`, skipWhiteSpace(json)); e == nil {
			json = temp
			continue
		}
		json, e = readLiteral(`}`, skipWhiteSpace(json))
		if e != nil {
			return nil, json, e
		}
		return vs, json, nil
	}
}

func skipWhiteSpace(json JSON) JSON {
	for len(json) > 0 && (json[0] == '\t' || json[0] == '\n' || json[0] == '\r' || json[0] == ' ') {
		json = json[1:]
	}
	if len(json) > 1 && json[0] == '/' && json[1] == '/' {
		json = json[2:]
		for len(json) > 0 && json[0] != '\n' {
			json = json[1:]
		}
		if len(json) > 0 {
			json = json[1:] // skip last \n if there is one
		}
		return skipWhiteSpace(json)
	}
	return json
}

// postcondition: returns intact JSON on error
func readLiteral(lit string, json JSON) (JSON, *parseError) {
	bs := JSON(lit)
	if len(bs) > len(json) {
		return json, &parseError{
			Problem: fmt.Sprintf(`expected "%s", input too short`, bs),
			Input:   json,
		}
	}
	cs := json[:len(bs)]
	if !bytes.Equal(bs, cs) {
		return json, &parseError{
			Problem: fmt.Sprintf(`expected "%s" but found "%s"`, bs, cs),
			Input:   json,
		}
	}
	return json[len(bs):], nil
}

func assertNonEmpty(json JSON) *parseError {
	if len(json) == 0 {
		return &parseError{
			Problem: `unexpected end of input`,
			Input:   json,
		}
	}
	return nil
}
