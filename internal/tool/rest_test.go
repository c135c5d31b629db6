package tool

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pizzaiolo/internal/openapi"
)

func trackOrderTool(baseURL string) *RESTTool {
	def := Definition{
		Name: "trackOrder",
		InputSchema: map[string]FieldSpec{
			"orderId": {Type: "string", Required: true},
			"verbose": {Type: "boolean"},
		},
	}
	recipe := Recipe{
		Method:       "GET",
		PathTemplate: "/api/orders/{orderId}",
		Locations: map[string]openapi.Location{
			"orderId": openapi.LocationPath,
			"verbose": openapi.LocationQuery,
		},
	}
	return NewRESTTool(def, recipe, baseURL, nil)
}

func placeOrderTool(baseURL string) *RESTTool {
	def := Definition{
		Name: "placeOrder",
		InputSchema: map[string]FieldSpec{
			"pizzaId":  {Type: "string", Required: true},
			"size":     {Type: "string", Required: true},
			"quantity": {Type: "integer", Required: true},
			"address":  {Type: "string", Required: true},
		},
	}
	recipe := Recipe{
		Method:       "POST",
		PathTemplate: "/api/orders",
		Locations: map[string]openapi.Location{
			"pizzaId":  openapi.LocationBody,
			"size":     openapi.LocationBody,
			"quantity": openapi.LocationBody,
			"address":  openapi.LocationBody,
		},
	}
	return NewRESTTool(def, recipe, baseURL, nil)
}

func TestRESTToolPathAndQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"orderId": "ORD123", "status": "preparing"})
	}))
	defer srv.Close()

	payload, err := trackOrderTool(srv.URL).Invoke(context.Background(), map[string]any{
		"orderId": "ORD123",
		"verbose": true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/orders/ORD123", gotPath)
	assert.Equal(t, "verbose=true", gotQuery)

	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ORD123", obj["orderId"])
	// unknown fields are retained
	assert.Equal(t, "preparing", obj["status"])
}

func TestRESTToolJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"orderId": "ORD42"})
	}))
	defer srv.Close()

	payload, err := placeOrderTool(srv.URL).Invoke(context.Background(), map[string]any{
		"pizzaId": "4", "size": "s", "quantity": float64(2), "address": "123 Road, Alex",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{
		"pizzaId": "4", "size": "s", "quantity": float64(2), "address": "123 Road, Alex",
	}, gotBody)

	obj := payload.(map[string]any)
	assert.Equal(t, "ORD42", obj["orderId"])
}

func TestRESTToolNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"detail": "Order not found"})
	}))
	defer srv.Close()

	_, err := trackOrderTool(srv.URL).Invoke(context.Background(), map[string]any{"orderId": "nope"})
	require.Error(t, err)

	var ee *ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, http.StatusNotFound, ee.HTTPStatus)
	assert.Equal(t, "Order not found", ee.Message)
}

func TestRESTToolNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := trackOrderTool(srv.URL).Invoke(context.Background(), map[string]any{"orderId": "x"})
	require.Error(t, err)

	var ee *ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Message, "not valid JSON")
}

func TestRESTToolNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := trackOrderTool(srv.URL).Invoke(context.Background(), map[string]any{"orderId": "x"})
	require.Error(t, err)

	var ee *ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.Zero(t, ee.HTTPStatus)
	assert.False(t, errors.Is(err, ErrUnknownTool))
}

func TestRESTToolInFlightCallSurvivesCancellation(t *testing.T) {
	handlerDone := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]any{"orderId": "ORD77"})
		close(handlerDone)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	payload, err := placeOrderTool(srv.URL).Invoke(ctx, map[string]any{
		"pizzaId": "1", "size": "m", "quantity": float64(1), "address": "5 Hill St",
	})
	require.NoError(t, err, "cancellation must not abort an issued request")
	assert.Equal(t, "ORD77", payload.(map[string]any)["orderId"])

	select {
	case <-handlerDone:
	default:
		t.Fatal("server handler did not run to completion")
	}
}

func TestRESTToolIntegerStringify(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	def := Definition{Name: "byNum", InputSchema: map[string]FieldSpec{"id": {Type: "integer", Required: true}}}
	recipe := Recipe{Method: "GET", PathTemplate: "/things/{id}", Locations: map[string]openapi.Location{"id": openapi.LocationPath}}

	_, err := NewRESTTool(def, recipe, srv.URL, nil).Invoke(context.Background(), map[string]any{"id": float64(7)})
	require.NoError(t, err)
	assert.Equal(t, "/things/7", gotPath)
}
