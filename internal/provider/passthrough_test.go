package provider

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"placefinder-api/internal/metrics"
	"placefinder-api/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRM_Route(t *testing.T) {
	var gotPath, gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotAgent = r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":1234.5}]}`))
	}))
	t.Cleanup(srv.Close)

	o := NewOSRM(map[models.TravelMode]string{
		models.ModeWalking: srv.URL + "/routed-foot/route/v1/",
	}, ClientOptions{UserAgent: "test-agent/1.0"})

	from := models.Coordinate{Latitude: 37.9755, Longitude: 23.7348}
	to := models.Coordinate{Latitude: 37.9715, Longitude: 23.7257}

	body, err := o.Route(context.Background(), models.ModeWalking, from, to)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"Ok","routes":[{"distance":1234.5}]}`, string(body))
	assert.Equal(t, "/routed-foot/route/v1/driving/23.7348,37.9755;23.7257,37.9715", gotPath)
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.Contains(t, gotQuery, "steps=true")
	assert.Equal(t, "test-agent/1.0", gotAgent)
}

func TestOSRM_Route_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	o := NewOSRM(map[models.TravelMode]string{models.ModeDriving: srv.URL}, ClientOptions{})
	p := models.Coordinate{Latitude: 37.97, Longitude: 23.73}

	_, err := o.Route(context.Background(), "teleport", p, p)
	assert.ErrorIs(t, err, ErrUnsupportedMode)

	_, err = o.Route(context.Background(), models.ModeDriving, p, p)
	status, ok := UpstreamStatus(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestOpenMeteo_Current(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"current":{"temperature_2m":21.4}}`))
	}))
	t.Cleanup(srv.Close)

	m := NewOpenMeteo(srv.URL, "Europe/Athens", ClientOptions{})

	body, err := m.Current(context.Background(), 37.98, 23.73)
	require.NoError(t, err)
	assert.JSONEq(t, `{"current":{"temperature_2m":21.4}}`, string(body))

	q := got.URL.Query()
	assert.Equal(t, "37.98", q.Get("latitude"))
	assert.Equal(t, "23.73", q.Get("longitude"))
	assert.Equal(t, "Europe/Athens", q.Get("timezone"))
	assert.Equal(t, currentVariables, q.Get("current"))
}

func TestOpenMeteo_Current_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewOpenMeteo(srv.URL, "", ClientOptions{}).Current(context.Background(), 37.98, 23.73)
	assert.Error(t, err)
}

func TestUpstreamClient_RecordsMetricsAndRateLimits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	m := metrics.New()
	n := NewNominatim(models.AthensBoundingBox, NominatimOptions{
		ClientOptions: ClientOptions{RPS: 1, Metrics: m},
		BaseURL:       srv.URL,
	})

	_, err := n.Search(context.Background(), "lidl")
	require.NoError(t, err)

	// The burst is spent, so the next call must wait about a second.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = n.Search(ctx, "lidl")
	assert.Error(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "placefinder_provider_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLooseFloat(t *testing.T) {
	var v struct {
		A looseFloat `json:"a"`
		B looseFloat `json:"b"`
		C looseFloat `json:"c"`
		D looseFloat `json:"d"`
		E looseFloat `json:"e"`
		F looseFloat `json:"f"`
	}
	err := json.Unmarshal([]byte(`{"a": 1.5, "b": " 2.25 ", "c": "x", "d": null, "e": true}`), &v)
	require.NoError(t, err)

	assert.Equal(t, 1.5, v.A.Float())
	assert.Equal(t, 2.25, v.B.Float())
	assert.True(t, math.IsNaN(v.C.Float()))
	assert.True(t, math.IsNaN(v.D.Float()))
	assert.True(t, math.IsNaN(v.E.Float()))
	assert.True(t, math.IsNaN(v.F.Float()))
	assert.Equal(t, 0.0, v.C.Or(0))
	assert.Equal(t, 1.5, v.A.Or(0))
}

func TestUpstreamStatus_NotStatusError(t *testing.T) {
	_, ok := UpstreamStatus(errors.New("dial tcp: connection refused"))
	assert.False(t, ok)
}
