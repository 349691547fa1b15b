package client

import (
	"context"
	"net/http"
)

// Location operations - all methods operate directly on Client

// GetLocations returns the account's named locations with coordinates.
func (c *Client) GetLocations(ctx context.Context, token string) ([]Location, error) {
	const op = "GetLocations"
	var locations []Location
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodGet, path: "/account/GetLocations", token: token}, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// GetLocationReports returns the generated per-location report records,
// including check-in counts and accuracy statistics.
func (c *Client) GetLocationReports(ctx context.Context, token string) ([]LocationReport, error) {
	const op = "GetLocationReports"
	var reports []LocationReport
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodGet, path: "/account/GetLocationReports", token: token}, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
