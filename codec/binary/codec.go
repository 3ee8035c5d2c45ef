// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package binary is a compact tagged encoding of values. Integers are
// big-endian, lengths are uint32 and maps are written in key order, so
// equal values encode to equal bytes.
package binary

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
)

type Type byte

const (
	TypeNull     Type = 0
	TypeList     Type = 1
	TypeSet      Type = 2
	TypeMap      Type = 3
	TypeFloat    Type = 4
	TypeInt64    Type = 5
	TypeBool     Type = 6
	TypeString   Type = 7
	TypeDate     Type = 8
	TypeDateTime Type = 9
	TypeTime     Type = 10
	TypeDuration Type = 11
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	case TypeMap:
		return "map"
	case TypeFloat:
		return "float"
	case TypeInt64:
		return "int64"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "dateTime"
	case TypeTime:
		return "time"
	case TypeDuration:
		return "duration"
	}
	return "unknown"
}

func init() {
	codec.Register("binary", func() codec.Interface { return BinaryCodec{} })
}

type BinaryCodec struct{}

func (BinaryCodec) Decode(data []byte) (val.Value, err.Error) {
	return Decode(data)
}

func (BinaryCodec) Encode(v val.Value) []byte {
	return Encode(v)
}

func Encode(v val.Value) []byte {
	return encode(v, make([]byte, 0, 256))
}

func encode(v val.Value, buf []byte) []byte {

	if v == nil || v == val.Null {
		return append(buf, byte(TypeNull))
	}

	switch v := v.(type) {

	case val.List:
		buf = append(buf, byte(TypeList))
		buf = writeLength(len(v), buf)
		for _, w := range v {
			buf = encode(w, buf)
		}
		return buf

	case val.Set:
		keys := v.Keys()
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		buf = append(buf, byte(TypeSet))
		buf = writeLength(len(keys), buf)
		for _, k := range keys {
			buf = encode(v[k], buf)
		}
		return buf

	case val.Map:
		buf = append(buf, byte(TypeMap))
		buf = writeLength(v.Len(), buf)
		v.ForEach(func(k string, w val.Value) bool {
			buf = writeString(k, buf)
			buf = encode(w, buf)
			return true
		})
		return buf

	case val.Float:
		buf = append(buf, byte(TypeFloat))
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(float64(v)))

	case val.Int64:
		buf = append(buf, byte(TypeInt64))
		return binary.BigEndian.AppendUint64(buf, uint64(v))

	case val.Bool:
		buf = append(buf, byte(TypeBool))
		if v {
			return append(buf, 't')
		}
		return append(buf, 'f')

	case val.String:
		buf = append(buf, byte(TypeString))
		return writeString(string(v), buf)

	case val.Date:
		buf = append(buf, byte(TypeDate))
		return writeString(v.String(), buf)

	case val.DateTime:
		buf = append(buf, byte(TypeDateTime))
		return writeString(v.Time.Format(time.RFC3339Nano), buf)

	case val.Time:
		buf = append(buf, byte(TypeTime))
		buf = binary.BigEndian.AppendUint32(buf, uint32(v.Hour*3600+v.Minute*60+v.Second))
		return binary.BigEndian.AppendUint32(buf, uint32(v.Nanosecond))

	case val.Duration:
		buf = append(buf, byte(TypeDuration))
		return binary.BigEndian.AppendUint64(buf, uint64(v))
	}

	panic(fmt.Sprintf(`unhandled type: %T`, v))
}

type parseError struct {
	problem string
	rest    []byte
}

func Decode(data []byte) (val.Value, err.Error) {
	v, rest, e := decode(data)
	if e != nil {
		return nil, err.CodecError{Codec: "binary", Offset: len(data) - len(e.rest), Problem: e.problem}
	}
	if len(rest) > 0 {
		return nil, err.CodecError{Codec: "binary", Offset: len(data) - len(rest), Problem: "trailing bytes"}
	}
	return v, nil
}

func decode(data []byte) (val.Value, []byte, *parseError) {

	r, data, e := readBytes(1, data)
	if e != nil {
		return nil, data, e
	}

	switch t := Type(r[0]); t {
	case TypeNull:
		return val.Null, data, nil

	case TypeList, TypeSet:
		l, data, e := readLength(data)
		if e != nil {
			return nil, data, e
		}
		v := make(val.List, l, l)
		for i := 0; i < l; i++ {
			w, d, e := decode(data)
			if e != nil {
				return nil, d, e
			}
			v[i], data = w, d
		}
		if t == TypeSet {
			return val.SetFromList(v), data, nil
		}
		return v, data, nil

	case TypeMap:
		l, data, e := readLength(data)
		if e != nil {
			return nil, data, e
		}
		v := val.NewMap(l)
		for i := 0; i < l; i++ {
			field, d, e := readString(data)
			if e != nil {
				return nil, d, e
			}
			value, d, e := decode(d)
			if e != nil {
				return nil, d, e
			}
			data = d
			v.Set(field, value)
		}
		return v, data, nil

	case TypeFloat:
		n, data, e := readUint64(data)
		if e != nil {
			return nil, data, e
		}
		return val.Float(math.Float64frombits(n)), data, nil

	case TypeInt64:
		n, data, e := readUint64(data)
		if e != nil {
			return nil, data, e
		}
		return val.Int64(int64(n)), data, nil

	case TypeBool:
		r, rest, e := readBytes(1, data)
		if e != nil {
			return nil, rest, e
		}
		switch r[0] {
		case 't':
			return val.Bool(true), rest, nil
		case 'f':
			return val.Bool(false), rest, nil
		}
		return nil, data, &parseError{fmt.Sprintf(`expected 't' or 'f', got: %q`, r[0]), data}

	case TypeString:
		s, data, e := readString(data)
		if e != nil {
			return nil, data, e
		}
		return val.String(s), data, nil

	case TypeDate:
		s, rest, e := readString(data)
		if e != nil {
			return nil, rest, e
		}
		d, te := time.Parse("2006-01-02", s)
		if te != nil {
			return nil, data, &parseError{fmt.Sprintf(`invalid date: %s`, s), data}
		}
		return val.DateOf(d), rest, nil

	case TypeDateTime:
		s, rest, e := readString(data)
		if e != nil {
			return nil, rest, e
		}
		dt, te := time.Parse(time.RFC3339Nano, s)
		if te != nil {
			return nil, data, &parseError{fmt.Sprintf(`invalid ISO dateTime string: %s`, s), data}
		}
		return val.DateTime{Time: dt}, rest, nil

	case TypeTime:
		secs, rest, e := readUint32(data)
		if e != nil {
			return nil, rest, e
		}
		nanos, rest, e := readUint32(rest)
		if e != nil {
			return nil, rest, e
		}
		if secs >= 24*3600 || nanos >= 1e9 {
			return nil, data, &parseError{`time out of range`, data}
		}
		return val.Time{Hour: int(secs / 3600), Minute: int(secs / 60 % 60), Second: int(secs % 60), Nanosecond: int(nanos)}, rest, nil

	case TypeDuration:
		n, data, e := readUint64(data)
		if e != nil {
			return nil, data, e
		}
		return val.Duration(int64(n)), data, nil
	}

	return nil, data, &parseError{fmt.Sprintf(`invalid type specifier: %d`, r[0]), data}
}

func readBytes(n int, data []byte) ([]byte, []byte, *parseError) {
	if len(data) < n {
		return nil, data, &parseError{`unexpected EOF`, data}
	}
	return data[:n], data[n:], nil
}

func readLength(data []byte) (int, []byte, *parseError) {
	r, rest, e := readUint32(data)
	if e != nil {
		return 0, rest, e
	}
	l := int(r)
	if l > len(rest) { // every element takes at least one byte
		return 0, data, &parseError{fmt.Sprintf(`length exceeds input bounds: %d`, l), data}
	}
	return l, rest, nil
}

func readString(data []byte) (string, []byte, *parseError) {
	l, rest, e := readLength(data)
	if e != nil {
		return "", rest, e
	}
	return string(rest[:l]), rest[l:], nil
}

func writeString(s string, buf []byte) []byte {
	return append(writeLength(len(s), buf), s...)
}

func writeLength(l int, buf []byte) []byte {
	return binary.BigEndian.AppendUint32(buf, uint32(l))
}

func readUint64(data []byte) (uint64, []byte, *parseError) {
	bs, rest, e := readBytes(8, data)
	if e != nil {
		return 0, rest, e
	}
	return binary.BigEndian.Uint64(bs), rest, nil
}

func readUint32(data []byte) (uint32, []byte, *parseError) {
	bs, rest, e := readBytes(4, data)
	if e != nil {
		return 0, rest, e
	}
	return binary.BigEndian.Uint32(bs), rest, nil
}
