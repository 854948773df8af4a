// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "headline-bench/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"name":"Oslo"}`))
	}))
	defer ts.Close()

	c := &Client{
		HTTP:      ts.Client(),
		Limiter:   NewLimiter(1000),
		UserAgent: "headline-bench/test",
		Header:    http.Header{"Authorization": {"Bearer tok"}},
	}
	var got struct{ Name string }
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, &got))
	assert.Equal(t, "Oslo", got.Name)
}

func TestClientStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client()}
	var v map[string]any
	err := c.GetJSON(context.Background(), ts.URL, &v)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestClientPostJSONReplaysBodyOnRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var in map[string][]string
		require.NoError(t, json.Unmarshal(body, &in))
		assert.Equal(t, []string{"a", "b"}, in["inputs"])
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client()}
	var out struct{ OK bool }
	err := c.PostJSON(context.Background(), ts.URL, map[string][]string{"inputs": {"a", "b"}}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNewLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.NotNil(t, NewLimiter(2))
}
