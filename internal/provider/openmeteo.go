package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	openMeteoURL      = "https://api.open-meteo.com/v1/forecast"
	openMeteoProvider = "open-meteo"
	currentVariables  = "temperature_2m,apparent_temperature,precipitation,weather_code,wind_speed_10m,wind_direction_10m"
)

// OpenMeteo fetches current conditions from the Open-Meteo forecast API.
type OpenMeteo struct {
	client   *upstreamClient
	baseURL  string
	timezone string
}

// NewOpenMeteo creates a weather pass-through.
func NewOpenMeteo(baseURL, timezone string, opts ClientOptions) *OpenMeteo {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = openMeteoURL
	}
	if timezone == "" {
		timezone = "auto"
	}
	return &OpenMeteo{
		client:   newUpstreamClient(openMeteoProvider, opts),
		baseURL:  baseURL,
		timezone: timezone,
	}
}

// Current returns the forecast body for the point.
func (m *OpenMeteo) Current(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	params := url.Values{
		"latitude":  {formatCoord(lat)},
		"longitude": {formatCoord(lon)},
		"current":   {currentVariables},
		"timezone":  {m.timezone},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("provider: open-meteo: failed to build request: %w", err)
	}

	body, err := m.client.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("provider: open-meteo: response is not valid JSON")
	}
	return json.RawMessage(body), nil
}
