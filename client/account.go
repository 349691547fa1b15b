package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// GetVersion returns the CoreKinect service version. Unauthenticated.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	const op = "GetVersion"
	var vr versionResponse
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodGet, path: "/account/GetVersion"}, &vr); err != nil {
		return "", err
	}
	if vr.Version == nil {
		return "", missingField(op, "Version", http.StatusOK)
	}
	return *vr.Version, nil
}

// RequestToken exchanges client credentials for a bearer token. The token is
// returned to the caller and never stored on the Client; pass it explicitly
// to every authenticated operation.
func (c *Client) RequestToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	const op = "RequestToken"
	if clientID == "" || clientSecret == "" {
		return "", fmt.Errorf("client id and secret are required")
	}

	// The vendor token endpoint is not an RFC 6749 one: a GET carrying the
	// client-credentials grant in the query string, authenticated with the
	// service's fixed placeholder basic-auth pair.
	q := url.Values{}
	q.Set("grant_type", "client_credentials")
	q.Set("client_id", clientID)
	q.Set("client_secret", clientSecret)

	var tr tokenResponse
	err := c.do(ctx, apiRequest{
		op:     op,
		method: http.MethodGet,
		path:   "/auth/RequestToken?" + q.Encode(),
		basic:  true,
	}, &tr)
	if err != nil {
		return "", err
	}
	if tr.AccessToken == nil || *tr.AccessToken == "" {
		cause := fmt.Errorf("no token in response")
		if tr.Error != "" {
			cause = fmt.Errorf("%s", tr.Error)
		}
		return "", &APIError{Op: op, Kind: KindAuth, Status: http.StatusOK, Err: cause}
	}
	log.Debug().Str("op", op).Msg("token issued")
	return *tr.AccessToken, nil
}
