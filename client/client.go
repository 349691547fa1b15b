// Package client is a Go client for the CoreKinect device-tracking cloud
// REST API. Every operation performs one HTTP call and returns a typed
// result or an *APIError. The bearer token obtained from RequestToken is
// passed explicitly to each authenticated call; the Client itself holds no
// credential state and is safe for concurrent use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production CoreKinect API host.
const DefaultBaseURL = "https://api.corekinect.cloud:3000"

// Placeholder basic-auth credentials required by the token endpoint.
const (
	tokenBasicUser = "user"
	tokenBasicPass = "pass"
)

// --------------------------------------------------------------------
// debugTransport – optional HTTP round-trip logger
// --------------------------------------------------------------------

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if debugEnabled() {
		reqDump, err := httputil.DumpRequestOut(req, true)
		if err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
		}
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		if debugEnabled() {
			log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		}
		return nil, err
	}

	if debugEnabled() {
		respDump, err := httputil.DumpResponse(resp, true)
		if err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
		}
	}
	return resp, nil
}

func debugEnabled() bool {
	return os.Getenv("COREKINECT_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL string
	http    *http.Client
	retry   *RetryPolicy // nil → single best-effort call
}

// New constructs a Client with optional functional arguments. An empty base
// falls back to DefaultBaseURL.
func New(base string, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugEnabled() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	return c
}

// --------------------------------------------------------------------
// Request pipeline
// --------------------------------------------------------------------

// apiRequest describes one call to the service. body is pre-marshalled so a
// retrying call can rebuild the reader per attempt.
type apiRequest struct {
	op     string
	method string
	path   string // includes the encoded query string, if any
	token  string // empty for unauthenticated calls
	body   []byte // nil for no body
	basic  bool   // attach the token endpoint's placeholder basic auth
}

// do sends r, classifies failures per the error taxonomy, and decodes the
// response body into out (skipped when out is nil).
func (c *Client) do(ctx context.Context, r apiRequest, out any) error {
	requestsTotal.WithLabelValues(r.op).Inc()

	err := c.doOnce(ctx, r, out)
	if err == nil || c.retry == nil || !IsRetryable(err) {
		return c.counted(r.op, err)
	}

	bo := c.retry.backOff()
	attempt := 1
	for {
		next := bo.NextBackOff()
		if next == backoff.Stop {
			return c.counted(r.op, err)
		}
		select {
		case <-ctx.Done():
			return c.counted(r.op, &APIError{Op: r.op, Kind: KindTransport, Err: ctx.Err()})
		case <-time.After(next):
		}
		attempt++
		log.Debug().Str("op", r.op).Int("attempt", attempt).Msg("retrying request")
		if err = c.doOnce(ctx, r, out); err == nil || !IsRetryable(err) {
			return c.counted(r.op, err)
		}
	}
}

// counted increments the failure counter for non-nil errors and returns err.
func (c *Client) counted(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := "unknown"
	if ae, ok := err.(*APIError); ok {
		kind = ae.Kind.String()
	}
	requestFailuresTotal.WithLabelValues(op, kind).Inc()
	return err
}

func (c *Client) doOnce(ctx context.Context, r apiRequest, out any) error {
	if err := ctx.Err(); err != nil {
		return &APIError{Op: r.op, Kind: KindTransport, Err: err}
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return &APIError{Op: r.op, Kind: KindTransport, Err: err}
	}
	if r.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.basic {
		httpReq.SetBasicAuth(tokenBasicUser, tokenBasicPass)
	}
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &APIError{Op: r.op, Kind: KindTransport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Op: r.op, Kind: KindTransport, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &APIError{Op: r.op, Kind: KindAuth, Status: resp.StatusCode, Err: remoteMessage(raw)}
	}
	if resp.StatusCode >= 400 {
		return &APIError{Op: r.op, Kind: KindRemote, Status: resp.StatusCode, Err: remoteMessage(raw)}
	}

	log.Debug().Str("op", r.op).Int("status", resp.StatusCode).Msg("request complete")

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &APIError{Op: r.op, Kind: KindDecode, Status: resp.StatusCode, Err: fmt.Errorf("empty response body")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Op: r.op, Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// remoteMessage extracts a usable message from an error response body.
func remoteMessage(raw []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return fmt.Errorf("%s", payload.Error)
		}
		if payload.Message != "" {
			return fmt.Errorf("%s", payload.Message)
		}
	}
	msg := bytes.TrimSpace(raw)
	if len(msg) == 0 {
		return fmt.Errorf("no error detail")
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("%s", msg)
}

// marshalBody marshals v, wrapping failures as decode errors for op.
func marshalBody(op string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &APIError{Op: op, Kind: KindDecode, Err: err}
	}
	return b, nil
}

// deviceIDsOf flattens id-only wire objects back to plain identifiers.
func deviceIDsOf(refs []deviceRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.DeviceID)
	}
	return ids
}

func endpointIDsOf(refs []endpointRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.EndpointID)
	}
	return ids
}
