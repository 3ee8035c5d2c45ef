// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetenv(t *testing.T) {
	t.Setenv("FORMULA_TEST_STRING", "de-CH")
	t.Setenv("FORMULA_TEST_FLOAT", "2.5")
	t.Setenv("FORMULA_TEST_INT", "seven")
	t.Setenv("FORMULA_TEST_DURATION", "1500ms")

	require.Equal(t, "de-CH", getenv("FORMULA_TEST_STRING", "en"))
	require.Equal(t, "en", getenv("FORMULA_TEST_UNSET", "en"))
	require.Equal(t, 2.5, getenvFloat("FORMULA_TEST_FLOAT", 10))
	require.Equal(t, 20, getenvInt("FORMULA_TEST_INT", 20))
	require.Equal(t, 1500*time.Millisecond, getenvDuration("FORMULA_TEST_DURATION", time.Second))
	require.Equal(t, time.Second, getenvDuration("FORMULA_TEST_UNSET", time.Second))
}
