// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

type condition struct {
	attr  string
	value string
	any   bool // [attr] without a value
}

type compound struct {
	tag        string
	id         string
	classes    []string
	conditions []condition
}

// selector is a chain of compounds; each is a descendant of the previous.
type selector []compound

func parseSelector(s string) (selector, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	sel := make(selector, 0, len(fields))
	for _, f := range fields {
		c, e := parseCompound(f)
		if e != nil {
			return nil, e
		}
		sel = append(sel, c)
	}
	return sel, nil
}

func parseCompound(s string) (compound, error) {
	c := compound{}
	i := 0
	name := func() string {
		j := i
		for j < len(s) && !strings.ContainsRune("#.[", rune(s[j])) {
			j++
		}
		n := s[i:j]
		i = j
		return n
	}
	c.tag = strings.ToLower(name())
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			if c.id = name(); c.id == "" {
				return c, fmt.Errorf("empty id in %q", s)
			}
		case '.':
			i++
			class := name()
			if class == "" {
				return c, fmt.Errorf("empty class in %q", s)
			}
			c.classes = append(c.classes, class)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute in %q", s)
			}
			body := s[i+1 : i+end]
			i += end + 1
			cond := condition{}
			if eq := strings.IndexByte(body, '='); eq < 0 {
				cond.attr, cond.any = body, true
			} else {
				cond.attr, cond.value = body[:eq], strings.Trim(body[eq+1:], `"'`)
			}
			if cond.attr == "" {
				return c, fmt.Errorf("empty attribute in %q", s)
			}
			c.conditions = append(c.conditions, cond)
		default:
			return c, fmt.Errorf("unexpected %q in %q", s[i], s)
		}
	}
	return c, nil
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && c.tag != n.Data {
		return false
	}
	if c.id != "" && attr(n, "id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(attr(n, "class"))
		for _, want := range c.classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	for _, cond := range c.conditions {
		if !hasAttr(n, cond.attr) {
			return false
		}
		if !cond.any && attr(n, cond.attr) != cond.value {
			return false
		}
	}
	return true
}

// matches checks the last compound against n and the rest against its
// ancestors, nearest first.
func (s selector) matches(n *html.Node) bool {
	last := len(s) - 1
	if !s[last].matches(n) {
		return false
	}
	i := last - 1
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if s[i].matches(p) {
			i--
		}
	}
	return i < 0
}

func contains(ss []string, s string) bool {
	for _, t := range ss {
		if t == s {
			return true
		}
	}
	return false
}
