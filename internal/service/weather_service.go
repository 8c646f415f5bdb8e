package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"placefinder-api/internal/models"
)

// ErrInvalidCoordinates is returned for non-finite or out-of-range points.
var ErrInvalidCoordinates = errors.New("service: invalid coordinates")

// WeatherProvider fetches current conditions for a point.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (json.RawMessage, error)
}

// WeatherService contains the current-conditions lookup
type WeatherService struct {
	provider WeatherProvider
}

// NewWeatherService creates a new weather service
func NewWeatherService(provider WeatherProvider) *WeatherService {
	return &WeatherService{provider: provider}
}

// Current returns the provider's current conditions for the coordinates
func (s *WeatherService) Current(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	if err := (models.Coordinate{Latitude: lat, Longitude: lon}).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}

	data, err := s.provider.Current(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch weather: %w", err)
	}

	return data, nil
}
