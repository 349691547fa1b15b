package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Device operations - all methods operate directly on Client

// AddDevices registers the given device/activation-code pairs and returns the
// identifiers the service accepted. Accepted ids are always a subset of the
// submitted ids; zero accepted is reported as a remote failure.
func (c *Client) AddDevices(ctx context.Context, token string, devices []DeviceActivation) ([]string, error) {
	const op = "AddDevices"
	if len(devices) == 0 {
		return nil, fmt.Errorf("at least one device is required")
	}
	for _, d := range devices {
		if err := ValidateDeviceID(d.DeviceID); err != nil {
			return nil, err
		}
		if err := ValidateActivationCode(d.ActivationCode); err != nil {
			return nil, err
		}
	}

	body, err := marshalBody(op, struct {
		Devices []DeviceActivation `json:"Devices"`
	}{Devices: devices})
	if err != nil {
		return nil, err
	}

	var ar addDevicesResponse
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodPost, path: "/account/AddDevices", token: token, body: body}, &ar); err != nil {
		return nil, err
	}
	if ar.DevicesPassed == nil {
		return nil, missingField(op, "DevicesPassed", http.StatusOK)
	}
	if len(*ar.DevicesPassed) == 0 {
		return nil, &APIError{Op: op, Kind: KindRemote, Status: http.StatusOK, Err: fmt.Errorf("no devices accepted")}
	}
	accepted := deviceIDsOf(*ar.DevicesPassed)
	log.Debug().Str("op", op).Int("submitted", len(devices)).Int("accepted", len(accepted)).Msg("devices added")
	return accepted, nil
}

// GetDevices returns all devices registered to the account.
func (c *Client) GetDevices(ctx context.Context, token string) ([]Device, error) {
	const op = "GetDevices"
	var lr listDevicesResponse
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodGet, path: "/account/GetDevices", token: token}, &lr); err != nil {
		return nil, err
	}
	if lr.Devices == nil {
		return nil, missingField(op, "Devices", http.StatusOK)
	}
	return *lr.Devices, nil
}

// GetDevicesByLocation returns the account's devices grouped by location.
func (c *Client) GetDevicesByLocation(ctx context.Context, token string) ([]LocationDevices, error) {
	const op = "GetDevicesByLocation"
	var groups []LocationDevices
	if err := c.do(ctx, apiRequest{op: op, method: http.MethodGet, path: "/account/GetDevicesByLocation", token: token}, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
