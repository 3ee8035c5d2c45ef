// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Command repl evaluates operation trees typed as JSON, one per line.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/karmarun/formula/config"
	"github.com/karmarun/formula/db"
	"github.com/karmarun/formula/dom"
	"github.com/karmarun/formula/fetch"
	"github.com/karmarun/formula/fvm"
	"github.com/karmarun/formula/fvm/env"
	"github.com/peterh/liner"
	"golang.org/x/text/language"
)

const (
	historyFile = ".formula_history"
	prompt      = "formula> "
)

var (
	location string
	document string
)

func init() {
	flag.StringVar(&location, "location", "", "URL that FromQueryString and FromPathSegment read from.")
	flag.StringVar(&document, "document", "", "HTML file that FromElement reads from.")
}

func main() {

	flag.Parse()

	backend := btclog.NewBackend(os.Stderr)
	if lvl, ok := btclog.LevelFromString(config.LogLevel); ok && lvl < btclog.LevelInfo {
		logger := backend.Logger("FVM")
		logger.SetLevel(lvl)
		fvm.UseLogger(logger)
	}

	environment, e := environment()
	if e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(1)
	}

	s := newSession(fvm.VirtualMachine{Env: environment}, os.Stdout)
	os.Exit(run(s))
}

func run(s *session) int {

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(s.complete)

	defer func() {
		if f, e := os.Create(histPath); e == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, e := os.Open(histPath); e == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(s.out, "formula repl, :help for commands")

	for {
		line, e := ln.Prompt(prompt)
		if e == liner.ErrPromptAborted {
			continue
		}
		if e != nil { // io.EOF
			fmt.Fprintln(s.out)
			return 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if s.handle(line) {
			return 0
		}
	}
}

// environment uses the stores of an existing data file and memory stores
// otherwise; the repl never creates a data file.
func environment() (env.Environment, error) {

	environment := env.Environment{
		Local:   env.NewMemoryStore(nil),
		Session: env.NewMemoryStore(nil),
		Fetcher: fetch.New(&http.Client{Timeout: config.FetchTimeout}, nil, fetch.Limiter(config.FetchRate, config.FetchBurst)),
	}

	if _, e := os.Stat(config.DataFile); e == nil {
		dtbs, e := db.Open(config.DataFile)
		if e != nil {
			return environment, e
		}
		environment.Local = db.LocalStorage(dtbs)
		environment.Session = db.SessionStorage(dtbs)
		environment.Tables = db.Tables{DB: dtbs}
	}

	if location != "" {
		l, e := env.ParseLocation(location)
		if e != nil {
			return environment, fmt.Errorf("-location: %w", e)
		}
		environment.Location = l
	}

	if document != "" {
		f, e := os.Open(document)
		if e != nil {
			return environment, fmt.Errorf("-document: %w", e)
		}
		defer f.Close()
		d, e := dom.Parse(f)
		if e != nil {
			return environment, fmt.Errorf("-document: %w", e)
		}
		environment.Document = d
	}

	tag, e := language.Parse(config.Language)
	if e != nil {
		return environment, fmt.Errorf("-language: %w", e)
	}
	environment.Language = tag

	zone, e := time.LoadLocation(config.Zone)
	if e != nil {
		return environment, fmt.Errorf("-zone: %w", e)
	}
	environment.Zone = zone

	return environment, nil
}
