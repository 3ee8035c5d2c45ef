// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package yaml encodes values as YAML documents. Operation trees are often
// easier to write by hand in YAML than in JSON.
package yaml

import (
	"fmt"
	"strconv"
	"time"

	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/fvm/err"
	"github.com/karmarun/formula/fvm/val"
	"gopkg.in/yaml.v3"
)

func init() {
	codec.Register("yaml", func() codec.Interface { return YamlCodec{} })
}

type YamlCodec struct{}

func (YamlCodec) Decode(bs []byte) (val.Value, err.Error) {
	return Decode(bs)
}

func (YamlCodec) Encode(v val.Value) []byte {
	return Encode(v)
}

// Decode reads a single document. Numbers decode as floats, mappings keep
// document order, and an empty document is null.
func Decode(bs []byte) (val.Value, err.Error) {
	doc := yaml.Node{}
	if e := yaml.Unmarshal(bs, &doc); e != nil {
		return nil, err.CodecError{Codec: "yaml", Problem: e.Error()}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return val.Null, nil
	}
	return decode(doc.Content[0])
}

func decode(n *yaml.Node) (val.Value, err.Error) {
	switch n.Kind {

	case yaml.AliasNode:
		return decode(n.Alias)

	case yaml.SequenceNode:
		l := make(val.List, 0, len(n.Content))
		for _, c := range n.Content {
			v, e := decode(c)
			if e != nil {
				return nil, e
			}
			l = append(l, v)
		}
		return l, nil

	case yaml.MappingNode:
		m := val.NewMap(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, c := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, problem(k, "mapping keys must be scalars")
			}
			v, e := decode(c)
			if e != nil {
				return nil, e
			}
			m.Set(k.Value, v)
		}
		return m, nil

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return val.Null, nil
		case "!!bool":
			var b bool
			if e := n.Decode(&b); e != nil {
				return nil, problem(n, e.Error())
			}
			return val.Bool(b), nil
		case "!!int", "!!float":
			var f float64
			if e := n.Decode(&f); e != nil {
				return nil, problem(n, e.Error())
			}
			return val.Float(f), nil
		case "!!timestamp":
			var t time.Time
			if e := n.Decode(&t); e != nil {
				return nil, problem(n, e.Error())
			}
			return val.String(t.Format(time.RFC3339Nano)), nil
		}
		return val.String(n.Value), nil

	}
	return nil, problem(n, fmt.Sprintf("unsupported node kind %d", n.Kind))
}

func problem(n *yaml.Node, p string) err.Error {
	return err.CodecError{Codec: "yaml", Offset: n.Line, Problem: p}
}

func Encode(v val.Value) []byte {
	bs, e := yaml.Marshal(node(v))
	if e != nil {
		panic(fmt.Sprintf("yaml encoding failed: %s", e))
	}
	return bs
}

// node builds the document tree directly so map order survives encoding.
func node(v val.Value) *yaml.Node {
	if v == nil || v == val.Null {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch v := v.(type) {
	case val.Set:
		return node(v.Sorted())
	case val.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, w := range v {
			n.Content = append(n.Content, node(w))
		}
		return n
	case val.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.ForEach(func(k string, w val.Value) bool {
			n.Content = append(n.Content, scalar("!!str", k), node(w))
			return true
		})
		return n
	case val.String:
		return scalar("!!str", string(v))
	case val.Bool:
		return scalar("!!bool", v.String())
	case val.Int64:
		return scalar("!!int", v.String())
	case val.Float:
		return scalar("!!float", strconv.FormatFloat(float64(v), 'g', -1, 64))
	case val.DateTime:
		return scalar("!!str", v.Format(time.RFC3339Nano))
	case val.Date:
		return scalar("!!str", v.String())
	case val.Time:
		return scalar("!!str", v.String())
	case val.Duration:
		return scalar("!!str", time.Duration(v).String())
	}
	panic(fmt.Sprintf(`YAML encoding unimplemented for type: %T`, v))
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
