package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"placefinder-api/internal/models"
)

const osrmProvider = "osrm"

// DefaultRouterURLs are the public OSRM route/v1 endpoints per travel mode.
var DefaultRouterURLs = map[models.TravelMode]string{
	models.ModeDriving: "https://router.project-osrm.org/route/v1",
	models.ModeWalking: "https://routing.openstreetmap.de/routed-foot/route/v1",
	models.ModeCycling: "https://routing.openstreetmap.de/routed-bike/route/v1",
}

// ErrUnsupportedMode is returned for travel modes without a configured router.
var ErrUnsupportedMode = errors.New("provider: osrm: unsupported travel mode")

// OSRM forwards route requests to per-mode OSRM servers.
type OSRM struct {
	client *upstreamClient
	urls   map[models.TravelMode]string
}

// NewOSRM creates a routing pass-through. Missing modes fall back to DefaultRouterURLs.
func NewOSRM(urls map[models.TravelMode]string, opts ClientOptions) *OSRM {
	merged := make(map[models.TravelMode]string, len(DefaultRouterURLs))
	for mode, u := range DefaultRouterURLs {
		merged[mode] = u
	}
	for mode, u := range urls {
		if strings.TrimSpace(u) != "" {
			merged[mode] = strings.TrimRight(u, "/")
		}
	}
	return &OSRM{
		client: newUpstreamClient(osrmProvider, opts),
		urls:   merged,
	}
}

// Route returns the router's JSON answer for a two-point route. The public
// servers all expose their single profile under the "driving" path segment.
func (o *OSRM) Route(ctx context.Context, mode models.TravelMode, from, to models.Coordinate) (json.RawMessage, error) {
	base, ok := o.urls[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}

	coords := formatCoord(from.Longitude) + "," + formatCoord(from.Latitude) + ";" +
		formatCoord(to.Longitude) + "," + formatCoord(to.Latitude)
	params := url.Values{
		"overview":     {"full"},
		"geometries":   {"geojson"},
		"steps":        {"true"},
		"alternatives": {"false"},
	}
	reqURL := base + "/driving/" + coords + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("provider: osrm: failed to build request: %w", err)
	}

	body, err := o.client.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("provider: osrm: response is not valid JSON")
	}
	return json.RawMessage(body), nil
}
