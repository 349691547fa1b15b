package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEndpointRoundTrip(t *testing.T) {
	endpointID := "ep-42"

	// Fake backend that remembers the endpoint it created.
	existing := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/account/CreateEndpoint":
			var req struct {
				URL string `json:"URL"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.URL == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			existing[endpointID] = true
			_ = json.NewEncoder(w).Encode(map[string]string{
				"EndpointId": endpointID,
				"URL":        req.URL,
				"DataType":   "json",
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/account/DeleteEndpoints":
			var req struct {
				Endpoints []endpointRef `json:"Endpoints"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			deleted := []endpointRef{}
			for _, ref := range req.Endpoints {
				if existing[ref.EndpointID] {
					delete(existing, ref.EndpointID)
					deleted = append(deleted, ref)
				}
			}
			_ = json.NewEncoder(w).Encode(map[string][]endpointRef{"EndpointsDeleted": deleted})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	ep, err := c.CreateEndpoint(ctx, "tok", "https://sink.example.com/ingest")
	if err != nil {
		t.Fatalf("CreateEndpoint error: %v", err)
	}
	if ep.EndpointID != endpointID || ep.URL != "https://sink.example.com/ingest" {
		t.Fatalf("unexpected endpoint %+v", ep)
	}

	deleted, err := c.DeleteEndpoints(ctx, "tok", []string{ep.EndpointID})
	if err != nil {
		t.Fatalf("DeleteEndpoints error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != endpointID {
		t.Fatalf("unexpected deleted ids %v", deleted)
	}
	if len(existing) != 0 {
		t.Fatalf("endpoint not removed on backend")
	}
}

func TestClient_CreateOAuthEndpoint_Defaults(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateOAuthEndpointRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.AuthTokenType != "Bearer" || req.AuthTokenKey != "access_token" {
			t.Errorf("defaults not applied: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"EndpointId":    "ep-oauth",
			"URL":           req.URL,
			"AuthUrl":       req.AuthURL,
			"AuthTokenType": req.AuthTokenType,
			"AuthTokenKey":  req.AuthTokenKey,
		})
	}))
	defer hs.Close()

	c := New(hs.URL)
	ep, err := c.CreateOAuthEndpoint(context.Background(), "tok", CreateOAuthEndpointRequest{
		URL:     "https://sink.example.com/ingest",
		AuthURL: "https://sink.example.com/oauth/token",
	})
	if err != nil {
		t.Fatalf("CreateOAuthEndpoint error: %v", err)
	}
	if ep.EndpointID != "ep-oauth" || ep.AuthTokenType != "Bearer" || ep.AuthTokenKey != "access_token" {
		t.Fatalf("unexpected endpoint %+v", ep)
	}
}

func TestClient_CreateOAuthEndpoint_AuthExchangeRejected(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"EndpointError":"response from AuthUrl was 400"}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	_, err := c.CreateOAuthEndpoint(context.Background(), "tok", CreateOAuthEndpointRequest{
		URL:     "https://sink.example.com/ingest",
		AuthURL: "https://sink.example.com/oauth/token",
	})
	if !errors.Is(err, ErrAuthExchangeFailed) {
		t.Fatalf("want ErrAuthExchangeFailed, got %v", err)
	}
	// The exchange failure is distinct from a plain missing-key response.
	if errors.Is(err, ErrMissingField) {
		t.Fatalf("exchange failure misclassified as missing field: %v", err)
	}
}

func TestClient_AssignAndDeleteDevicesOnEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EndpointID string      `json:"EndpointId"`
			Devices    []deviceRef `json:"Devices"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.EndpointID != "ep-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/account/AssignDevicesToEndpoint",
			r.Method == http.MethodDelete && r.URL.Path == "/account/DeleteDevicesFromEndpoint":
			// The singular key is the service's real wire shape.
			_ = json.NewEncoder(w).Encode(map[string][]deviceRef{"DevicePassed": req.Devices})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	ids := []string{testDeviceID, testDeviceID2}

	assigned, err := c.AssignDevicesToEndpoint(ctx, "tok", "ep-1", ids)
	if err != nil {
		t.Fatalf("AssignDevicesToEndpoint error: %v", err)
	}
	if len(assigned) != 2 || assigned[0] != testDeviceID {
		t.Fatalf("unexpected assigned ids %v", assigned)
	}

	removed, err := c.DeleteDevicesFromEndpoint(ctx, "tok", "ep-1", ids)
	if err != nil {
		t.Fatalf("DeleteDevicesFromEndpoint error: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("unexpected removed ids %v", removed)
	}
}

func TestClient_AssignDevices_Validation(t *testing.T) {
	c := New("http://unused.invalid")
	ctx := context.Background()

	if _, err := c.AssignDevicesToEndpoint(ctx, "tok", "", []string{testDeviceID}); err == nil {
		t.Fatal("empty endpoint id accepted")
	}
	if _, err := c.AssignDevicesToEndpoint(ctx, "tok", "ep-1", []string{"bad"}); err == nil {
		t.Fatal("malformed device id accepted")
	}
	if _, err := c.AssignDevicesToEndpoint(ctx, "tok", "ep-1", nil); err == nil {
		t.Fatal("empty device list accepted")
	}
}

func TestClient_GetEndpoints(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/account/GetEndpoints" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"Endpoints":[
			{"EndpointId":"ep-1","URL":"https://a.example.com","DataType":"json"},
			{"EndpointId":"ep-2","URL":"https://b.example.com","DataType":"csv"}
		]}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	eps, err := c.GetEndpoints(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetEndpoints returned error: %v", err)
	}
	if len(eps) != 2 {
		t.Fatalf("unexpected endpoint count %d", len(eps))
	}
	for _, ep := range eps {
		if ep.EndpointID == "" || ep.URL == "" || ep.DataType == "" {
			t.Fatalf("endpoint missing declared keys: %+v", ep)
		}
	}
}

func TestClient_GetEndpoints_MissingKey(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Count":0}`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	_, err := c.GetEndpoints(context.Background(), "tok")
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("want ErrMissingField, got %v", err)
	}
}
