// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

// Package fetch implements the network capability of FromRemote injectors.
// It reads http(s) URLs and s3://bucket/key objects, waits on a shared rate
// limiter and collapses concurrent requests for the same URL into one.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/golang/groupcache/singleflight"
	"github.com/karmarun/formula/metrics"
	"golang.org/x/time/rate"
)

const DefaultMaxBytes = 1 << 20

// ObjectGetter is the part of the s3 client the fetcher uses.
type ObjectGetter interface {
	GetObjectWithContext(aws.Context, *s3.GetObjectInput, ...request.Option) (*s3.GetObjectOutput, error)
}

// NewS3 returns an s3 client for region using the default credential chain.
func NewS3(region string) (*s3.S3, error) {
	sess, e := session.NewSession(aws.NewConfig().WithRegion(region))
	if e != nil {
		return nil, fmt.Errorf("aws session: %w", e)
	}
	return s3.New(sess), nil
}

// Fetcher is safe for concurrent use. Nil Objects disables s3 URLs, nil
// Limiter disables rate limiting.
type Fetcher struct {
	Client   *http.Client
	Objects  ObjectGetter
	Limiter  *rate.Limiter
	MaxBytes int64
	single   singleflight.Group
	latency  *metrics.Latency
}

func New(client *http.Client, objects ObjectGetter, limiter *rate.Limiter) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		Client:   client,
		Objects:  objects,
		Limiter:  limiter,
		MaxBytes: DefaultMaxBytes,
		latency:  metrics.Get("fetch"),
	}
}

// Limiter returns a limiter allowing perSecond requests with burst; zero
// or negative perSecond means unlimited and returns nil.
func Limiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (f *Fetcher) Fetch(ctx context.Context, raw string) ([]byte, error) {
	u, e := url.Parse(raw)
	if e != nil {
		return nil, fmt.Errorf("fetch %s: %w", raw, e)
	}
	var get func(context.Context, *url.URL) ([]byte, error)
	switch u.Scheme {
	case "http", "https":
		get = f.getHTTP
	case "s3":
		get = f.getObject
	default:
		return nil, fmt.Errorf("fetch %s: unsupported scheme %q", raw, u.Scheme)
	}
	v, e := f.single.Do(raw, func() (interface{}, error) {
		if f.Limiter != nil {
			if e := f.Limiter.Wait(ctx); e != nil {
				return nil, e
			}
		}
		t0 := time.Now()
		defer f.latency.Since(t0)
		log.Debugf("fetching %s", raw)
		return get(ctx, u)
	})
	if e != nil {
		log.Debugf("fetch %s failed: %s", raw, e)
		return nil, fmt.Errorf("fetch %s: %w", raw, e)
	}
	return v.([]byte), nil
}

func (f *Fetcher) getHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	rq, e := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if e != nil {
		return nil, e
	}
	rs, e := f.Client.Do(rq)
	if e != nil {
		return nil, e
	}
	defer rs.Body.Close()
	if rs.StatusCode < 200 || rs.StatusCode > 299 {
		return nil, fmt.Errorf("status %s", rs.Status)
	}
	return f.read(rs.Body)
}

func (f *Fetcher) getObject(ctx context.Context, u *url.URL) ([]byte, error) {
	if f.Objects == nil {
		return nil, fmt.Errorf("s3 is not configured")
	}
	out, e := f.Objects.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.Host),
		Key:    aws.String(strings.TrimPrefix(u.Path, "/")),
	})
	if e != nil {
		if ae, ok := e.(awserr.Error); ok {
			return nil, fmt.Errorf("s3 %s: %s", ae.Code(), ae.Message())
		}
		return nil, e
	}
	defer out.Body.Close()
	return f.read(out.Body)
}

func (f *Fetcher) read(r io.Reader) ([]byte, error) {
	max := f.MaxBytes
	if max <= 0 {
		max = DefaultMaxBytes
	}
	bs, e := io.ReadAll(io.LimitReader(r, max+1))
	if e != nil {
		return nil, e
	}
	if int64(len(bs)) > max {
		return nil, fmt.Errorf("body exceeds %d bytes", max)
	}
	return bs, nil
}
