// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package definitions names the buckets and headers shared by db, api and
// the binaries.
package definitions

const (
	LocalStorageBucket   = `LocalStorageBucket`
	SessionStorageBucket = `SessionStorageBucket`
	LookupTableBucket    = `LookupTableBucket` // one nested bucket per table
	TreeBucket           = `TreeBucket`       // content key -> JSON tree
)

var (
	LocalStorageBucketBytes   = []byte(LocalStorageBucket)
	SessionStorageBucketBytes = []byte(SessionStorageBucket)
	LookupTableBucketBytes    = []byte(LookupTableBucket)
	TreeBucketBytes           = []byte(TreeBucket)
)

// Buckets are created by db.Init.
var Buckets = [][]byte{
	LocalStorageBucketBytes,
	SessionStorageBucketBytes,
	LookupTableBucketBytes,
	TreeBucketBytes,
}

const (
	CodecHeader  = `X-Formula-Codec`
	SecretHeader = `X-Formula-Secret`
	DefaultCodec = `json`
)
