package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Endpoint operations - all methods operate directly on Client

// CreateEndpoint registers targetURL as a delivery destination and returns
// the endpoint the service created.
func (c *Client) CreateEndpoint(ctx context.Context, token, targetURL string) (*Endpoint, error) {
	const op = "CreateEndpoint"
	if targetURL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	body, err := marshalBody(op, struct {
		URL string `json:"URL"`
	}{URL: targetURL})
	if err != nil {
		return nil, err
	}
	return c.createEndpoint(ctx, op, token, body)
}

// CreateOAuthEndpoint registers a delivery destination that requires a
// client-credentials token exchange with req.AuthURL before delivery.
// Empty AuthTokenType and AuthTokenKey default to "Bearer" and
// "access_token". Fails with ErrAuthExchangeFailed when the auth URL itself
// rejects the exchange.
func (c *Client) CreateOAuthEndpoint(ctx context.Context, token string, req CreateOAuthEndpointRequest) (*Endpoint, error) {
	const op = "CreateOAuthEndpoint"
	if req.URL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if req.AuthURL == "" {
		return nil, fmt.Errorf("AuthUrl is required")
	}
	if req.AuthTokenType == "" {
		req.AuthTokenType = "Bearer"
	}
	if req.AuthTokenKey == "" {
		req.AuthTokenKey = "access_token"
	}
	body, err := marshalBody(op, req)
	if err != nil {
		return nil, err
	}
	return c.createEndpoint(ctx, op, token, body)
}

// createEndpoint shares the wire handling of both create variants; they hit
// the same path and differ only in payload.
func (c *Client) createEndpoint(ctx context.Context, op, token string, body []byte) (*Endpoint, error) {
	var cr createEndpointResponse
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodPost, path: "/account/CreateEndpoint", token: token, body: body}, &cr); err != nil {
		return nil, err
	}
	if cr.EndpointID == nil {
		if cr.EndpointError != "" {
			return nil, &APIError{Op: op, Kind: KindAuth, Status: http.StatusOK, Err: fmt.Errorf("%w: %s", ErrAuthExchangeFailed, cr.EndpointError)}
		}
		return nil, missingField(op, "EndpointId", http.StatusOK)
	}
	ep := &Endpoint{
		EndpointID:    *cr.EndpointID,
		URL:           cr.URL,
		DataType:      cr.DataType,
		AuthURL:       cr.AuthURL,
		AuthTokenType: cr.AuthTokenType,
		AuthTokenKey:  cr.AuthTokenKey,
	}
	log.Debug().Str("op", op).Str("endpoint_id", ep.EndpointID).Msg("endpoint created")
	return ep, nil
}

// AssignDevicesToEndpoint routes the given devices to endpointID and returns
// the device ids the service accepted.
func (c *Client) AssignDevicesToEndpoint(ctx context.Context, token, endpointID string, deviceIDs []string) ([]string, error) {
	const op = "AssignDevicesToEndpoint"
	return c.devicesOnEndpoint(ctx, op, http.MethodPost, "/account/AssignDevicesToEndpoint", token, endpointID, deviceIDs)
}

// DeleteDevicesFromEndpoint removes the given devices from endpointID and
// returns the device ids the service removed.
func (c *Client) DeleteDevicesFromEndpoint(ctx context.Context, token, endpointID string, deviceIDs []string) ([]string, error) {
	const op = "DeleteDevicesFromEndpoint"
	return c.devicesOnEndpoint(ctx, op, http.MethodDelete, "/account/DeleteDevicesFromEndpoint", token, endpointID, deviceIDs)
}

// devicesOnEndpoint shares assign/remove handling: same payload shape, and
// the service reports results under the singular key "DevicePassed" on both.
func (c *Client) devicesOnEndpoint(ctx context.Context, op, method, path, token, endpointID string, deviceIDs []string) ([]string, error) {
	if err := ValidateEndpointID(endpointID); err != nil {
		return nil, err
	}
	if err := validateDeviceIDs(deviceIDs); err != nil {
		return nil, err
	}

	refs := make([]deviceRef, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		refs = append(refs, deviceRef{DeviceID: id})
	}
	body, err := marshalBody(op, struct {
		EndpointID string      `json:"EndpointId"`
		Devices    []deviceRef `json:"Devices"`
	}{EndpointID: endpointID, Devices: refs})
	if err != nil {
		return nil, err
	}

	var dr devicePassedResponse
	if err := c.do(ctx, apiRequest{op: op, method: method, path: path, token: token, body: body}, &dr); err != nil {
		return nil, err
	}
	if dr.DevicePassed == nil {
		return nil, missingField(op, "DevicePassed", http.StatusOK)
	}
	if len(*dr.DevicePassed) == 0 {
		return nil, &APIError{Op: op, Kind: KindRemote, Status: http.StatusOK, Err: fmt.Errorf("no devices affected")}
	}
	passed := deviceIDsOf(*dr.DevicePassed)
	log.Debug().Str("op", op).Str("endpoint_id", endpointID).Int("affected", len(passed)).Msg("endpoint membership updated")
	return passed, nil
}

// DeleteEndpoints deletes the given endpoints and returns the ids the
// service actually deleted.
func (c *Client) DeleteEndpoints(ctx context.Context, token string, endpointIDs []string) ([]string, error) {
	const op = "DeleteEndpoints"
	if len(endpointIDs) == 0 {
		return nil, fmt.Errorf("at least one EndpointId is required")
	}
	for _, id := range endpointIDs {
		if err := ValidateEndpointID(id); err != nil {
			return nil, err
		}
	}

	refs := make([]endpointRef, 0, len(endpointIDs))
	for _, id := range endpointIDs {
		refs = append(refs, endpointRef{EndpointID: id})
	}
	body, err := marshalBody(op, struct {
		Endpoints []endpointRef `json:"Endpoints"`
	}{Endpoints: refs})
	if err != nil {
		return nil, err
	}

	var dr deleteEndpointsResponse
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodDelete, path: "/account/DeleteEndpoints", token: token, body: body}, &dr); err != nil {
		return nil, err
	}
	if dr.EndpointsDeleted == nil {
		return nil, missingField(op, "EndpointsDeleted", http.StatusOK)
	}
	if len(*dr.EndpointsDeleted) == 0 {
		return nil, &APIError{Op: op, Kind: KindRemote, Status: http.StatusOK, Err: fmt.Errorf("no endpoints deleted")}
	}
	deleted := endpointIDsOf(*dr.EndpointsDeleted)
	log.Debug().Str("op", op).Int("deleted", len(deleted)).Msg("endpoints deleted")
	return deleted, nil
}

// GetEndpoints returns all endpoints configured on the account.
func (c *Client) GetEndpoints(ctx context.Context, token string) ([]Endpoint, error) {
	const op = "GetEndpoints"
	var lr listEndpointsResponse
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodGet, path: "/account/GetEndpoints", token: token}, &lr); err != nil {
		return nil, err
	}
	if lr.Endpoints == nil {
		return nil, missingField(op, "Endpoints", http.StatusOK)
	}
	return *lr.Endpoints, nil
}
