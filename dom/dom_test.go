// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package dom

import (
	"testing"

	"github.com/karmarun/formula/fvm/env"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html><body>
  <form id="order">
    <input id="qty" name="qty" type="number" value="3">
    <input id="gift" type="checkbox" checked>
    <input id="express" type="checkbox">
    <textarea id="note"> leave at door </textarea>
    <select id="country" name="country">
      <option value="DE">Germany</option>
      <option value="CH" selected>Switzerland</option>
    </select>
    <select id="size"><option>S</option><option>M</option></select>
  </form>
  <div class="price total"> CHF 1'234.50 </div>
  <div class="price"><span data-role="unit">12</span></div>
  <section><p class="price">nested</p></section>
</body></html>`

func TestValue(t *testing.T) {
	d, e := ParseString(page)
	require.NoError(t, e)

	var _ env.Document = d

	cases := []struct {
		selector string
		value    string
	}{
		{"#qty", "3"},
		{"input[name=qty]", "3"},
		{`[name="qty"]`, "3"},
		{"#gift", "true"},
		{"#express", "false"},
		{"input[type=checkbox]", "true"},
		{"textarea", " leave at door "},
		{"#country", "CH"},
		{"select[name=country]", "CH"},
		{"#size", "S"},
		{".price", "CHF 1'234.50"},
		{".price.total", "CHF 1'234.50"},
		{"body .price", "CHF 1'234.50"},
		{"span[data-role=unit]", "12"},
		{"section .price", "nested"},
		{"form#order select", "CH"},
	}
	for _, c := range cases {
		v, ok := d.Value(c.selector)
		require.True(t, ok, c.selector)
		require.Equal(t, c.value, v, c.selector)
	}
}

func TestNoMatch(t *testing.T) {
	d, e := ParseString(page)
	require.NoError(t, e)

	for _, s := range []string{"#nope", ".missing", "input[name=other]", "section #qty", "", "#", "[", "[=x]", "[a=b]x"} {
		_, ok := d.Value(s)
		require.False(t, ok, s)
	}
}
