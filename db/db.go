// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package db persists the storage capabilities, lookup tables and stored
// trees in a single bolt file.
package db

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/formula/definitions"
)

const (
	InitialMmapSize = 1024 * 1024 * 16 // 16MB
	Perm            = 0600
)

var database *bolt.DB = nil

var mutex = &sync.Mutex{}

// Open returns the process wide database, opening and initializing the
// file at path on first use.
func Open(path string) (*bolt.DB, error) {

	mutex.Lock()
	defer mutex.Unlock()

	if database != nil {
		return database, nil
	}

	db, e := openDatabase(path)
	if e != nil {
		return nil, e
	}
	if e := Init(db); e != nil {
		db.Close()
		return nil, e
	}
	database = db
	log.Infof("opened %s", path)
	return db, nil
}

// Close closes the process wide database, if open.
func Close() error {

	mutex.Lock()
	defer mutex.Unlock()

	if database == nil {
		return nil
	}
	e := database.Close()
	database = nil
	return e
}

// Init creates the buckets listed in definitions.Buckets.
func Init(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range definitions.Buckets {
			if _, e := tx.CreateBucketIfNotExists(name); e != nil {
				return fmt.Errorf("creating bucket %s: %w", name, e)
			}
		}
		return nil
	})
}

func openDatabase(path string) (*bolt.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("no data file configured")
	}
	db, e := bolt.Open(path, Perm, &bolt.Options{
		InitialMmapSize: InitialMmapSize,
		Timeout:         time.Second * 3,
	})
	if e != nil {
		return nil, fmt.Errorf("opening %s: %w", path, e)
	}
	return db, nil
}

// HandleSignals closes the database and exits on SIGINT or SIGTERM.
func HandleSignals() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		log.Info("closing database...")
		if e := Close(); e != nil {
			log.Criticalf("closing database: %s", e)
			os.Exit(1)
		}
		log.Info("database closed")
		os.Exit(0)
	}()
}
