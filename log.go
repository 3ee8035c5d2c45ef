// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/karmarun/formula/api"
	"github.com/karmarun/formula/db"
	"github.com/karmarun/formula/dom"
	"github.com/karmarun/formula/fetch"
	"github.com/karmarun/formula/fvm"
)

var (
	backend = btclog.NewBackend(os.Stderr)
	log     = backend.Logger("MAIN")
)

var subsystems = map[string]func(btclog.Logger){
	"FVM":  fvm.UseLogger,
	"FTCH": fetch.UseLogger,
	"DOM":  dom.UseLogger,
	"DB":   db.UseLogger,
	"API":  api.UseLogger,
}

func setupLogging(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("--log-level: unknown level %q", level)
	}
	log.SetLevel(lvl)
	for tag, use := range subsystems {
		logger := backend.Logger(tag)
		logger.SetLevel(lvl)
		use(logger)
	}
	return nil
}
