package client

import "time"

// ------------------------------
// Core domain types and payloads
// ------------------------------

// DeviceActivation pairs a device identifier with its activation code for
// registration. Device identifiers are 16 characters, activation codes 32.
type DeviceActivation struct {
	DeviceID       string `json:"DeviceId"`
	ActivationCode string `json:"ActivationCode"`
}

// Device represents a registered device.
type Device struct {
	DeviceID   string     `json:"DeviceId"`
	DeviceType string     `json:"DeviceType"`
	Endpoints  []Endpoint `json:"Endpoints,omitempty"`
}

// Endpoint is a configured destination URL devices report data to.
// The OAuth fields are populated only for endpoints created with
// CreateOAuthEndpoint.
type Endpoint struct {
	EndpointID    string `json:"EndpointId"`
	URL           string `json:"URL"`
	DataType      string `json:"DataType,omitempty"`
	AuthURL       string `json:"AuthUrl,omitempty"`
	AuthTokenType string `json:"AuthTokenType,omitempty"`
	AuthTokenKey  string `json:"AuthTokenKey,omitempty"`
}

// CreateOAuthEndpointRequest holds parameters for an endpoint whose target
// requires a client-credentials token exchange before delivery.
type CreateOAuthEndpointRequest struct {
	URL           string `json:"URL"`
	AuthURL       string `json:"AuthUrl"`
	AuthTokenType string `json:"AuthTokenType"` // defaults to "Bearer"
	AuthTokenKey  string `json:"AuthTokenKey"`  // defaults to "access_token"
}

// Location is a named site grouping devices for reporting.
type Location struct {
	LocationName string  `json:"LocationName"`
	Latitude     float64 `json:"Latitude"`
	Longitude    float64 `json:"Longitude"`
}

// LocationDevices groups the devices of one location, as returned by
// GetDevicesByLocation.
type LocationDevices struct {
	LocationName string   `json:"LocationName"`
	DeviceType   string   `json:"DeviceType"`
	Devices      []Device `json:"Devices"`
}

// AccuracyBucket is one accuracy histogram bucket of a location report.
type AccuracyBucket struct {
	Count    int     `json:"Count"`
	RangeMin float64 `json:"RangeMin"`
	RangeMax float64 `json:"RangeMax"`
}

// LocationStats carries the generated statistics of a location report.
type LocationStats struct {
	AccuracyByCategory []AccuracyBucket `json:"AccuracyByCategory"`
	AccuracyOverall    float64          `json:"AccuracyOverall"`
}

// LocationReport is one per-location report record.
type LocationReport struct {
	DeviceTypeName         string        `json:"DeviceTypeName"`
	LocationName           string        `json:"LocationName"`
	ReportGenerated        time.Time     `json:"ReportGenerated"`
	DeviceCount            int           `json:"DeviceCount"`
	TotalCheckedIn         int           `json:"TotalCheckedIn"`
	TotalCheckedInWithin24 int           `json:"TotalCheckedInWithin24"`
	Stats                  LocationStats `json:"Stats"`
}

// ------------------------------
// Private wire shapes
// ------------------------------

// deviceRef and endpointRef mirror the id-only objects the service uses in
// request and response bodies.
type deviceRef struct {
	DeviceID string `json:"DeviceId"`
}

type endpointRef struct {
	EndpointID string `json:"EndpointId"`
}

// Pointer slices distinguish an absent key from an empty result.
type versionResponse struct {
	Version *string `json:"Version"`
}

type tokenResponse struct {
	AccessToken *string `json:"access_token"`
	Error       string  `json:"error,omitempty"`
}

type addDevicesResponse struct {
	DevicesPassed *[]deviceRef `json:"DevicesPassed"`
}

// The service uses the singular key for assign and remove responses.
type devicePassedResponse struct {
	DevicePassed *[]deviceRef `json:"DevicePassed"`
}

type deleteEndpointsResponse struct {
	EndpointsDeleted *[]endpointRef `json:"EndpointsDeleted"`
}

type createEndpointResponse struct {
	EndpointID    *string `json:"EndpointId"`
	URL           string  `json:"URL"`
	DataType      string  `json:"DataType"`
	AuthURL       string  `json:"AuthUrl"`
	AuthTokenType string  `json:"AuthTokenType"`
	AuthTokenKey  string  `json:"AuthTokenKey"`
	EndpointError string  `json:"EndpointError"`
}

type listEndpointsResponse struct {
	Endpoints *[]Endpoint `json:"Endpoints"`
}

type listDevicesResponse struct {
	Devices *[]Device `json:"Devices"`
}
