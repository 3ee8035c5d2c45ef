// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package dom answers FromElement queries against a parsed HTML document.
//
// Selectors are a small subset of CSS: compounds of a tag name, #id,
// .class, [attr] and [attr=value] parts, joined by whitespace for
// descendants. The first matching element in document order wins.
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is immutable after Parse and safe for concurrent use.
type Document struct {
	root *html.Node
}

func Parse(r io.Reader) (*Document, error) {
	root, e := html.Parse(r)
	if e != nil {
		return nil, fmt.Errorf("parsing document: %w", e)
	}
	return &Document{root: root}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Value returns the current value of the first element matching selector:
// "true" or "false" for checkboxes and radios, the value attribute of
// other inputs, the selected option of a select and the trimmed text
// content of anything else. Invalid selectors match nothing.
func (d *Document) Value(selector string) (string, bool) {
	n := d.Find(selector)
	if n == nil {
		return "", false
	}
	return valueOf(n), true
}

// Find returns the first element matching selector, or nil.
func (d *Document) Find(selector string) *html.Node {
	sel, e := parseSelector(selector)
	if e != nil {
		log.Debugf("selector %q: %s", selector, e)
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if sel.matches(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits elements in document order until f returns false.
func walk(n *html.Node, f func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && !f(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, f) {
			return false
		}
	}
	return true
}

func valueOf(n *html.Node) string {
	switch n.Data {
	case "input":
		switch strings.ToLower(attr(n, "type")) {
		case "checkbox", "radio":
			if hasAttr(n, "checked") {
				return "true"
			}
			return "false"
		}
		return attr(n, "value")
	case "textarea":
		return text(n)
	case "select":
		var first, selected *html.Node
		walk(n, func(o *html.Node) bool {
			if o.Data != "option" {
				return true
			}
			if first == nil {
				first = o
			}
			if hasAttr(o, "selected") {
				selected = o
				return false
			}
			return true
		})
		if selected == nil {
			selected = first
		}
		if selected == nil {
			return ""
		}
		if hasAttr(selected, "value") {
			return attr(selected, "value")
		}
		return strings.TrimSpace(text(selected))
	}
	return strings.TrimSpace(text(n))
}

func text(n *html.Node) string {
	b := strings.Builder{}
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}
