package verification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientVerifySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "/verify", r.URL.Path)
		require.Equal(t, "decrypt", r.PostFormValue("action"))
		require.Equal(t, "secret", r.PostFormValue("encsec"))
		require.Equal(t, "submitted-text", r.PostFormValue("code"))
		w.Write([]byte(`{"success": true, "decrypted": "prefix-CODE-suffix"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 0)
	res := c.Verify(context.Background(), "submitted-text")
	require.True(t, res.Success)
	require.Equal(t, "prefix-CODE-suffix", res.Decrypted)
	require.Empty(t, res.Err)
}

func TestClientVerifyEndpointRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "decrypted": ""}`))
	}))
	defer srv.Close()

	res := NewClient(srv.URL, "secret", 0).Verify(context.Background(), "x")
	require.False(t, res.Success)
	require.NotEmpty(t, res.Err)
}

func TestClientVerifyNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	res := NewClient(srv.URL, "secret", 0).Verify(context.Background(), "x")
	require.False(t, res.Success)
	require.NotEmpty(t, res.Err)
}

func TestClientVerifyMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	res := NewClient(srv.URL, "secret", 0).Verify(context.Background(), "x")
	require.False(t, res.Success)
	require.NotEmpty(t, res.Err)
}

func TestClientVerifyTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	res := NewClient(srv.URL, "secret", 0).Verify(context.Background(), "x")
	require.False(t, res.Success)
	require.NotEmpty(t, res.Err)
}

func TestClientVerifyFailsClosedWhenUnconfigured(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	res := NewClient("", "secret", 0).Verify(context.Background(), "x")
	require.False(t, res.Success)

	res = NewClient(srv.URL, "", 0).Verify(context.Background(), "x")
	require.False(t, res.Success)
	require.EqualValues(t, 0, calls.Load(), "an unconfigured client must not reach the endpoint")
}
