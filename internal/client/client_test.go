package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drishti-cli/pkg/models"
)

func feedStubServer(routes map[string]http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	return httptest.NewServer(mux)
}

func writeJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_Detections(t *testing.T) {
	srv := feedStubServer(map[string]http.HandlerFunc{
		"/api/detections": writeJSON(`{"detections":[{"bbox":[10,20,110,70],"label":"person","confidence":0.82}],"timestamp":1}`),
	})
	defer srv.Close()

	api := New(ClientConfig{BaseURL: srv.URL, Timeout: time.Second})
	dets, err := api.Detections(context.Background())
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "person", dets[0].Label)
	assert.Equal(t, []float64{10, 20, 110, 70}, dets[0].BBox)
}

func TestClient_Soldiers(t *testing.T) {
	srv := feedStubServer(map[string]http.HandlerFunc{
		"/api/soldiers": writeJSON(`{"soldiers":[{"id":"soldier-1","name":"Lt. Rajesh Kumar","status":"AT_RISK","heart_rate":95,"gps":{"lat":28.6139,"lon":77.209},"last_update":1700000000.25}]}`),
	})
	defer srv.Close()

	api := New(ClientConfig{BaseURL: srv.URL})
	soldiers, err := api.Soldiers(context.Background())
	require.NoError(t, err)
	require.Len(t, soldiers, 1)
	assert.Equal(t, models.StatusAtRisk, soldiers[0].Status)
	assert.Equal(t, 95, soldiers[0].HeartRate)
	assert.Equal(t, 77.209, soldiers[0].GPS.Lon)
}

func TestClient_Alerts(t *testing.T) {
	srv := feedStubServer(map[string]http.HandlerFunc{
		"/api/alerts": writeJSON(`{"alerts":[{"severity":"HIGH","type":"soldier_emergency","message":"CRITICAL","timestamp":1000,"meta":{"soldier_id":"soldier-1","heart_rate":130}}]}`),
	})
	defer srv.Close()

	api := New(ClientConfig{BaseURL: srv.URL})
	alerts, err := api.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityHigh, alerts[0].Severity)
	m, ok := alerts[0].Soldier()
	require.True(t, ok)
	assert.Equal(t, 130, m.HeartRate)
}

func TestClient_FetchErrors(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		malformed bool
		status    int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			status: http.StatusInternalServerError,
		},
		{
			name:      "missing key",
			handler:   writeJSON(`{"timestamp":1}`),
			malformed: true,
		},
		{
			name:      "null key",
			handler:   writeJSON(`{"alerts":null}`),
			malformed: true,
		},
		{
			name:      "not json",
			handler:   writeJSON(`<html>`),
			malformed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := feedStubServer(map[string]http.HandlerFunc{"/api/alerts": tt.handler})
			defer srv.Close()

			api := New(ClientConfig{BaseURL: srv.URL})
			alerts, err := api.Alerts(context.Background())
			require.Error(t, err)
			assert.Nil(t, alerts)
			assert.Equal(t, tt.malformed, errors.Is(err, ErrMalformedPayload))

			if tt.status != 0 {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.status, se.Code)
				assert.Equal(t, FeedAlerts, se.Feed)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := feedStubServer(nil)
	srv.Close()

	api := New(ClientConfig{BaseURL: srv.URL, Timeout: 200 * time.Millisecond})
	_, err := api.Detections(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedPayload))
}

func TestClient_Simulate(t *testing.T) {
	var got models.SimulatePayload
	srv := feedStubServer(map[string]http.HandlerFunc{
		"/api/soldiers/simulate": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			_ = json.NewDecoder(r.Body).Decode(&got)
			if got.ID != "soldier-3" {
				http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
				return
			}
			writeJSON(`{"message":"Emergency simulated for soldier soldier-3","success":true}`)(w, r)
		},
	})
	defer srv.Close()

	api := New(ClientConfig{BaseURL: srv.URL})

	msg, err := api.Simulate(context.Background(), "soldier-3")
	require.NoError(t, err)
	assert.Equal(t, "Emergency simulated for soldier soldier-3", msg)
	assert.Equal(t, "soldier-3", got.ID)

	_, err = api.Simulate(context.Background(), "soldier-99")
	assert.Error(t, err)

	_, err = api.Simulate(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_Health(t *testing.T) {
	srv := feedStubServer(map[string]http.HandlerFunc{
		"/health": writeJSON(`{"status":"healthy","timestamp":5,"services":{"inference":"running","soldier_monitor":"stopped"}}`),
	})
	defer srv.Close()

	api := New(ClientConfig{BaseURL: srv.URL})
	h, err := api.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "stopped", h.Services["soldier_monitor"])
}
