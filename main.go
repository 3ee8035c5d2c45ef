// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/formula/api"
	"github.com/karmarun/formula/codec"
	"github.com/karmarun/formula/config"
	"github.com/karmarun/formula/db"
	"github.com/karmarun/formula/db/pg"
	"github.com/karmarun/formula/fetch"
	"github.com/karmarun/formula/fvm/env"
	"github.com/karmarun/formula/fvm/val"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/text/language"

	_ "github.com/karmarun/formula/codec/binary"
	_ "github.com/karmarun/formula/codec/json"
	_ "github.com/karmarun/formula/codec/yaml"
)

const usage = `usage: formula [flags]                      serve the HTTP API
       formula [flags] hash-secret SECRET   print the bcrypt hash for --api-secret-hash
       formula [flags] load-tables FILE     replace lookup tables from a .json or .yaml file
`

func main() {

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if e := setupLogging(config.LogLevel); e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(2)
	}

	switch flag.Arg(0) {
	case "":
		serve()
	case "hash-secret":
		if flag.NArg() != 2 {
			flag.Usage()
			os.Exit(2)
		}
		hash, e := api.HashSecret(flag.Arg(1))
		if e != nil {
			log.Criticalf("hashing secret: %s", e)
			os.Exit(1)
		}
		fmt.Println(hash)
	case "load-tables":
		if flag.NArg() != 2 {
			flag.Usage()
			os.Exit(2)
		}
		if e := loadTables(flag.Arg(1)); e != nil {
			log.Criticalf("loading tables: %s", e)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// loadTables reads a map of table name to a map of row key to row.
func loadTables(path string) error {
	bs, e := os.ReadFile(path)
	if e != nil {
		return e
	}
	name := strings.TrimPrefix(filepath.Ext(path), ".")
	if name == "yml" {
		name = "yaml"
	}
	cdc := codec.Get(name)
	if cdc == nil {
		return fmt.Errorf("no codec for %s files, available: %s", name, strings.Join(codec.Available(), ", "))
	}
	v, ke := cdc.Decode(bs)
	if ke != nil {
		return ke
	}
	tables, ok := v.(val.Map)
	if !ok {
		return fmt.Errorf("%s must hold a map of tables", path)
	}
	dtbs, e := db.Open(config.DataFile)
	if e != nil {
		return e
	}
	defer db.Close()
	var le error
	tables.ForEach(func(table string, rows val.Value) bool {
		m, ok := rows.(val.Map)
		if !ok {
			le = fmt.Errorf("table %s must be a map of rows", table)
			return false
		}
		if le = (db.Tables{DB: dtbs}).Load(table, m); le != nil {
			return false
		}
		log.Infof("loaded table %s (%d rows)", table, m.Len())
		return true
	})
	return le
}

func environment(dtbs *bolt.DB) (env.Environment, error) {

	environment := env.Environment{
		Local:   db.LocalStorage(dtbs),
		Session: db.SessionStorage(dtbs),
		Tables:  db.Tables{DB: dtbs},
	}

	if config.DatabaseUrl != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sql, e := pg.Open(ctx, config.DatabaseUrl, pg.DefaultTable)
		if e != nil {
			return env.Environment{}, e
		}
		environment.Local = pg.Store{DB: sql, Table: pg.DefaultTable, Scope: "local"}
		environment.Session = pg.Store{DB: sql, Table: pg.DefaultTable, Scope: "session"}
		log.Info("local and session storage in postgres")
	}

	var objects fetch.ObjectGetter
	if config.S3Region != "" {
		client, e := fetch.NewS3(config.S3Region)
		if e != nil {
			return env.Environment{}, e
		}
		objects = client
	}
	environment.Fetcher = fetch.New(
		&http.Client{Timeout: config.FetchTimeout},
		objects,
		fetch.Limiter(config.FetchRate, config.FetchBurst),
	)

	tag, e := language.Parse(config.Language)
	if e != nil {
		return env.Environment{}, fmt.Errorf("--language: %w", e)
	}
	environment.Language = tag

	zone, e := time.LoadLocation(config.Zone)
	if e != nil {
		return env.Environment{}, fmt.Errorf("--zone: %w", e)
	}
	environment.Zone = zone

	return environment, nil
}

func serve() {

	dtbs, e := db.Open(config.DataFile)
	if e != nil {
		log.Criticalf("%s", e)
		os.Exit(1)
	}
	db.HandleSignals()

	environment, e := environment(dtbs)
	if e != nil {
		log.Criticalf("%s", e)
		os.Exit(1)
	}

	handler := &api.Handler{
		Env:        environment,
		Trees:      db.Trees{DB: dtbs},
		SecretHash: []byte(config.ApiSecretHash),
	}
	if len(handler.SecretHash) == 0 {
		log.Warn("no --api-secret-hash set, the API is open")
	}

	log.Info("starting formula...")
	log.Info("HTTP port: ", config.HttpPort)

	httpServer, httpsServer := (*http.Server)(nil), (*http.Server)(nil)

	httpServer = &http.Server{
		Addr:    ":" + config.HttpPort,
		Handler: handler,
	}

	httpsRedirectionHandler := http.HandlerFunc(func(rw http.ResponseWriter, rq *http.Request) {
		u := rq.URL
		u.Scheme = "https"
		u.Host = rq.Host
		http.Redirect(rw, rq, u.String(), http.StatusMovedPermanently)
	})

	httpsCertFile, httpsKeyFile := config.HttpsCertFile, config.HttpsKeyFile

	{ // LetsEncrypt support
		domains, email := config.LetsencryptDomains, config.LetsencryptEmail
		if (len(domains) > 0 && len(email) == 0) || (len(domains) == 0 && len(email) > 0) {
			log.Critical("--letsencrypt-email and --letsencrypt-domains must be set together.")
			os.Exit(2)
		}

		if len(domains) > 0 {
			cacheDir := config.LetsencryptCacheDir
			if cacheDir == "" {
				cacheDir = "autocert-cache"
			}
			list := strings.Split(domains, ",")
			log.Info("HTTPS port: ", config.HttpsPort)
			log.Info("LetsEncrypt domains: ", list)
			log.Info("LetsEncrypt email: ", email)
			m := autocert.Manager{
				Prompt:     autocert.AcceptTOS,
				Cache:      autocert.DirCache(cacheDir),
				HostPolicy: autocert.HostWhitelist(list...),
				Email:      email,
			}
			httpsServer = &http.Server{
				Addr:      ":" + config.HttpsPort,
				Handler:   handler,
				TLSConfig: &tls.Config{GetCertificate: m.GetCertificate},
			}
			httpServer.Handler = m.HTTPHandler(httpsRedirectionHandler)
			httpsCertFile, httpsKeyFile = ``, ``
		}
	}

	{ // Own TLS config support
		if (len(httpsCertFile) > 0 && len(httpsKeyFile) == 0) || (len(httpsCertFile) == 0 && len(httpsKeyFile) > 0) {
			log.Critical("--https-cert-file and --https-key-file must be set together.")
			os.Exit(2)
		}

		if len(httpsCertFile) > 0 {
			httpsServer = &http.Server{
				Addr:    ":" + config.HttpsPort,
				Handler: handler,
			}
			httpServer.Handler = httpsRedirectionHandler
		}
	}

	go func() {
		if e := httpServer.ListenAndServe(); e != http.ErrServerClosed {
			log.Critical("HTTP ", e.Error())
			os.Exit(1)
		}
	}()
	log.Info("HTTP server started")

	if httpsServer != nil {
		go func() {
			if e := httpsServer.ListenAndServeTLS(httpsCertFile, httpsKeyFile); e != http.ErrServerClosed {
				log.Critical("HTTPS ", e.Error())
				os.Exit(1)
			}
		}()
		log.Info("HTTPS server started")
	}

	select {}

}
