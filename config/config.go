// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

var (
	HttpPort            string = "80"  // explicit default
	HttpsPort           string = "443" // explicit default
	LetsencryptDomains  string
	LetsencryptEmail    string
	LetsencryptCacheDir string
	HttpsCertFile       string
	HttpsKeyFile        string
	DataFile            string = "formula.data"
	DatabaseUrl         string
	ApiSecretHash       string
	LogLevel            string        = "info"
	FetchRate           float64       = 10
	FetchBurst          int           = 20
	FetchTimeout        time.Duration = 10 * time.Second
	S3Region            string
	Language            string = "en"
	Zone                string = "UTC"
)

func init() {
	flag.StringVar(
		&HttpPort,
		"http-port",
		getenv("FORMULA_HTTP_PORT", HttpPort),
		"Required. Port to serve (insecure) HTTP clients on. Defaults to environment variable FORMULA_HTTP_PORT.",
	)
	flag.StringVar(
		&HttpsPort,
		"https-port",
		getenv("FORMULA_HTTPS_PORT", HttpsPort),
		"Port to serve HTTPS and HTTP/2 clients on. Defaults to environment variable FORMULA_HTTPS_PORT.",
	)
	flag.StringVar(
		&LetsencryptDomains,
		"letsencrypt-domains",
		getenv("FORMULA_LETSENCRYPT_DOMAINS", LetsencryptDomains),
		"Comma-separated list of HTTPS domains to automatically secure via LetsEncrypt. Defaults to environment variable FORMULA_LETSENCRYPT_DOMAINS.",
	)
	flag.StringVar(
		&LetsencryptEmail,
		"letsencrypt-email",
		getenv("FORMULA_LETSENCRYPT_EMAIL", LetsencryptEmail),
		"Sets the contact email for LetsEncrypt. Required if --letsencrypt-domains is set. Defaults to environment variable FORMULA_LETSENCRYPT_EMAIL.",
	)
	flag.StringVar(
		&LetsencryptCacheDir,
		"letsencrypt-cache-dir",
		getenv("FORMULA_LETSENCRYPT_CACHE_DIR", LetsencryptCacheDir),
		"Sets the LetsEncrypt file cache location. Required if --letsencrypt-domains is set. Defaults to environment variable FORMULA_LETSENCRYPT_CACHE_DIR.",
	)
	flag.StringVar(
		&HttpsCertFile,
		"https-cert-file",
		getenv("FORMULA_HTTPS_CERT_FILE", HttpsCertFile),
		"Path to TLS certificate. Has no effect if LetsEncrypt is configured. Defaults to environment variable FORMULA_HTTPS_CERT_FILE.",
	)
	flag.StringVar(
		&HttpsKeyFile,
		"https-key-file",
		getenv("FORMULA_HTTPS_KEY_FILE", HttpsKeyFile),
		"Path to TLS private key file. Has no effect if LetsEncrypt is configured. Defaults to environment variable FORMULA_HTTPS_KEY_FILE.",
	)
	flag.StringVar(
		&DataFile,
		"data-file",
		getenv("FORMULA_DATA_FILE", DataFile),
		"Path to the bolt file holding stores, lookup tables and trees. Defaults to environment variable FORMULA_DATA_FILE.",
	)
	flag.StringVar(
		&DatabaseUrl,
		"database-url",
		getenv("FORMULA_DATABASE_URL", DatabaseUrl),
		"Postgres URL. If set, local and session storage live in Postgres instead of the data file. Defaults to environment variable FORMULA_DATABASE_URL.",
	)
	flag.StringVar(
		&ApiSecretHash,
		"api-secret-hash",
		getenv("FORMULA_API_SECRET_HASH", ApiSecretHash),
		"Bcrypt hash of the secret clients send in X-Formula-Secret. Empty disables the check. Defaults to environment variable FORMULA_API_SECRET_HASH.",
	)
	flag.StringVar(
		&LogLevel,
		"log-level",
		getenv("FORMULA_LOG_LEVEL", LogLevel),
		"One of trace, debug, info, warn, error, critical, off. Defaults to environment variable FORMULA_LOG_LEVEL.",
	)
	flag.Float64Var(
		&FetchRate,
		"fetch-rate",
		getenvFloat("FORMULA_FETCH_RATE", FetchRate),
		"Remote fetches per second, 0 for unlimited. Defaults to environment variable FORMULA_FETCH_RATE.",
	)
	flag.IntVar(
		&FetchBurst,
		"fetch-burst",
		getenvInt("FORMULA_FETCH_BURST", FetchBurst),
		"Remote fetch burst size. Defaults to environment variable FORMULA_FETCH_BURST.",
	)
	flag.DurationVar(
		&FetchTimeout,
		"fetch-timeout",
		getenvDuration("FORMULA_FETCH_TIMEOUT", FetchTimeout),
		"Timeout of a single remote fetch. Defaults to environment variable FORMULA_FETCH_TIMEOUT.",
	)
	flag.StringVar(
		&S3Region,
		"s3-region",
		getenv("FORMULA_S3_REGION", S3Region),
		"AWS region for s3:// remote sources. Empty disables s3. Defaults to environment variable FORMULA_S3_REGION.",
	)
	flag.StringVar(
		&Language,
		"language",
		getenv("FORMULA_LANGUAGE", Language),
		"BCP 47 tag of the collation used by alphabetical comparisons. Defaults to environment variable FORMULA_LANGUAGE.",
	)
	flag.StringVar(
		&Zone,
		"zone",
		getenv("FORMULA_ZONE", Zone),
		"IANA time zone of date comparisons. Defaults to environment variable FORMULA_ZONE.",
	)
}

func getenv(key string, deflt string) string {
	v := os.Getenv(key)
	if v == "" {
		return deflt
	}
	return v
}

// Malformed numeric environment values fall back to deflt; flag reports
// malformed command line values itself.

func getenvFloat(key string, deflt float64) float64 {
	f, e := strconv.ParseFloat(getenv(key, ""), 64)
	if e != nil {
		return deflt
	}
	return f
}

func getenvInt(key string, deflt int) int {
	i, e := strconv.Atoi(getenv(key, ""))
	if e != nil {
		return deflt
	}
	return i
}

func getenvDuration(key string, deflt time.Duration) time.Duration {
	d, e := time.ParseDuration(getenv(key, ""))
	if e != nil {
		return deflt
	}
	return d
}
