package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseBackoff: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRetry_RecoversFromServerErrors(t *testing.T) {
	var calls int32
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"Version":"3.2.1"}`))
	}))
	defer hs.Close()

	c := New(hs.URL, WithRetryPolicy(fastPolicy(4)))
	v, err := c.GetVersion(context.Background())
	if err != nil {
		t.Fatalf("GetVersion returned error: %v", err)
	}
	if v != "3.2.1" {
		t.Fatalf("unexpected version %q", v)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, saw %d", got)
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer hs.Close()

	c := New(hs.URL, WithRetryPolicy(fastPolicy(3)))
	_, err := c.GetVersion(context.Background())
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("want ErrRemote, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, saw %d", got)
	}
}

func TestRetry_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer hs.Close()

	c := New(hs.URL, WithRetryPolicy(fastPolicy(5)))
	_, err := c.GetVersion(context.Background())
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("want ErrRemote, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("4xx must not be retried, saw %d attempts", got)
	}
}

func TestNoRetryByDefault(t *testing.T) {
	var calls int32
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer hs.Close()

	c := New(hs.URL)
	_, err := c.GetVersion(context.Background())
	if err == nil {
		t.Fatal("expected error from 503")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("default client must make a single call, saw %d", got)
	}
}
