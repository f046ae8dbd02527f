package muxhandlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitalvas/kasper-swagger/mux"
)

var uuidV7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		config        RequestIDConfig
		header        string
		incoming      string
		want          string
		wantGenerated bool
	}{
		{
			name:          "generates uuid v7 by default",
			wantGenerated: true,
		},
		{
			name:          "ignores incoming by default",
			incoming:      "existing-id",
			wantGenerated: true,
		},
		{
			name:     "trusts incoming when configured",
			config:   RequestIDConfig{TrustIncoming: true},
			incoming: "existing-id",
			want:     "existing-id",
		},
		{
			name:          "generates when trusted header is empty",
			config:        RequestIDConfig{TrustIncoming: true},
			wantGenerated: true,
		},
		{
			name:   "custom generator",
			config: RequestIDConfig{Generate: func() string { return "custom-id" }},
			want:   "custom-id",
		},
		{
			name:   "custom header",
			config: RequestIDConfig{Header: "X-Trace-ID", Generate: func() string { return "trace-1" }},
			header: "X-Trace-ID",
			want:   "trace-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == "" {
				header = DefaultRequestIDHeader
			}

			var fromContext string
			r := mux.NewRouter()
			r.HandleFunc("/test", func(_ http.ResponseWriter, req *http.Request) {
				fromContext = RequestIDFromContext(req.Context())
			}).Methods(http.MethodGet)
			r.Use(RequestIDMiddleware(tt.config))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(header, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(header)
			if tt.wantGenerated {
				assert.Regexp(t, uuidV7Regex, got)
				assert.NotEqual(t, tt.incoming, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, got, fromContext)
		})
	}

	t.Run("unique per request", func(t *testing.T) {
		r := mux.NewRouter()
		r.HandleFunc("/test", func(http.ResponseWriter, *http.Request) {})
		r.Use(RequestIDMiddleware(RequestIDConfig{}))

		w1 := httptest.NewRecorder()
		r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/test", nil))
		w2 := httptest.NewRecorder()
		r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.NotEqual(t, w1.Header().Get(DefaultRequestIDHeader), w2.Header().Get(DefaultRequestIDHeader))
	})
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestNewRequestID(t *testing.T) {
	id1 := NewRequestID()
	id2 := NewRequestID()

	assert.Regexp(t, uuidV7Regex, id1)
	assert.Less(t, id1, id2)
}
