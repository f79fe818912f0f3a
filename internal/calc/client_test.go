package calc

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
)

// TestPostJSON covers success, remote errors and undecodable bodies.
func TestPostJSON(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantErr     bool
		wantStatus  int
		wantMessage string
		wantResult  float64
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var req ComputeRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				_ = json.NewEncoder(w).Encode(ComputeResponse{Result: req.A + req.B})
			},
			wantResult: 5,
		},
		{
			name: "remote client error keeps message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(ErrorResponse{Error: MsgDivideByZero})
			},
			wantErr:     true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgDivideByZero,
		},
		{
			name: "remote server error without json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr:    true,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			var out ComputeResponse
			err := NewClient(time.Second).PostJSON(context.Background(), ts.URL+"/calculate", ComputeRequest{A: 2, B: 3}, &out)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantResult, out.Result)
				return
			}
			require.Error(t, err)
			if tt.wantStatus != 0 {
				var serr *StatusError
				require.True(t, errors.As(err, &serr))
				assert.Equal(t, tt.wantStatus, serr.StatusCode)
				assert.Equal(t, tt.wantMessage, serr.Message)
				assert.Contains(t, serr.Error(), ts.URL)
			}
		})
	}
}

func TestPostJSONSendsContentType(t *testing.T) {
	var gotType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	require.NoError(t, NewClient(0).PostJSON(context.Background(), ts.URL, map[string]int{"a": 1}, nil))
	assert.Equal(t, "application/json", gotType)
}

func TestPostJSONUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := NewClient(time.Second).PostJSON(context.Background(), url, ComputeRequest{}, nil)
	require.Error(t, err)
	var serr *StatusError
	assert.False(t, errors.As(err, &serr), "transport errors are not status errors")
}

// TestClientTimeout verifies a slow backend is abandoned after the timeout.
func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	start := time.Now()
	err := NewClient(50*time.Millisecond).GetJSON(context.Background(), ts.URL, &HealthResponse{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(HealthResponse{Service: "add", Status: StatusOK})
	}))
	defer ts.Close()

	var h HealthResponse
	require.NoError(t, NewClient(time.Second).GetJSON(context.Background(), ts.URL+"/health", &h))
	assert.Equal(t, HealthResponse{Service: "add", Status: "ok"}, h)
}
