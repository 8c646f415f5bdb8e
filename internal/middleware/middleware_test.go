package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"placefinder-api/internal/logger"
	"placefinder-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(), Metrics(m))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	r.GET("/bad", func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"}) })
	r.GET("/boom", func(c *gin.Context) { c.JSON(http.StatusBadGateway, gin.H{"error": "upstream"}) })
	return r
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name      string
		incoming  string
		expectNew bool
	}{
		{name: "assigned when missing", expectNew: true},
		{name: "propagated from caller", incoming: "abc-123"},
		{name: "replaced when too long", incoming: strings.Repeat("x", 200), expectNew: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(nil)
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if tt.expectNew {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.incoming, got)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		expectedLevel string
		expectedCode  int
	}{
		{name: "success", path: "/health", expectedLevel: "info", expectedCode: http.StatusOK},
		{name: "client error", path: "/bad", expectedLevel: "warn", expectedCode: http.StatusBadRequest},
		{name: "upstream failure", path: "/boom", expectedLevel: "error", expectedCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger.Configure(&buf, "debug", false)
			t.Cleanup(func() { logger.Configure(&bytes.Buffer{}, "info", false) })

			r := newRouter(nil)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(RequestIDHeader, "req-1")
			r.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.Equal(t, "request", entry["message"])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, tt.path, entry["path"])
			assert.EqualValues(t, tt.expectedCode, entry["status"])
		})
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := newRouter(m)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing/123", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	assert.Contains(t, body, `placefinder_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, `placefinder_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}
