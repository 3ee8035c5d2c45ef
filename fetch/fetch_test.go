// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/require"
)

type objects map[string]string

func (o objects) GetObjectWithContext(ctx aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	body, ok := o[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestFetchHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rate":
			w.Write([]byte(`{"rate": 0.93}`))
		case "/large":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := New(server.Client(), nil, nil)
	f.MaxBytes = 32
	ctx := context.Background()

	bs, e := f.Fetch(ctx, server.URL+"/rate")
	require.NoError(t, e)
	require.Equal(t, `{"rate": 0.93}`, string(bs))

	_, e = f.Fetch(ctx, server.URL+"/missing")
	require.Error(t, e)
	require.Contains(t, e.Error(), "404")

	_, e = f.Fetch(ctx, server.URL+"/large")
	require.Error(t, e)
	require.Contains(t, e.Error(), "exceeds 32 bytes")

	_, e = f.Fetch(ctx, "ftp://example.com/file")
	require.Error(t, e)
	require.Contains(t, e.Error(), "unsupported scheme")
}

func TestFetchS3(t *testing.T) {
	ctx := context.Background()

	f := New(nil, objects{"rates/2017/chf.json": `[1.07]`}, nil)
	bs, e := f.Fetch(ctx, "s3://rates/2017/chf.json")
	require.NoError(t, e)
	require.Equal(t, `[1.07]`, string(bs))

	_, e = f.Fetch(ctx, "s3://rates/2017/eur.json")
	require.Error(t, e)
	require.Contains(t, e.Error(), s3.ErrCodeNoSuchKey)

	_, e = New(nil, nil, nil).Fetch(ctx, "s3://rates/2017/chf.json")
	require.Error(t, e)
	require.Contains(t, e.Error(), "not configured")
}

func TestConcurrentFetchesShareOneRequest(t *testing.T) {
	hits, release := int32(0), make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		w.Write([]byte("shared"))
	}))
	defer server.Close()

	f := New(server.Client(), nil, nil)
	wg := sync.WaitGroup{}
	bodies, errs := make([]string, 8), make([]error, 8)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bs, e := f.Fetch(context.Background(), server.URL+"/same")
			bodies[i], errs[i] = string(bs), e
		}(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&hits))
	for i, b := range bodies {
		require.NoError(t, errs[i])
		require.Equal(t, "shared", b)
	}
}

func TestLimiter(t *testing.T) {
	require.Nil(t, Limiter(0, 10))

	l := Limiter(1, 0)
	require.NotNil(t, l)
	require.Equal(t, 1, l.Burst())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := New(server.Client(), nil, l)
	_, e := f.Fetch(context.Background(), server.URL+"/first")
	require.NoError(t, e)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, e = f.Fetch(ctx, server.URL+"/second")
	require.Error(t, e)
}
