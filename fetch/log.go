// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fetch

import (
	"github.com/btcsuite/btclog"
)

var log = btclog.Disabled

func UseLogger(logger btclog.Logger) {
	log = logger
}
