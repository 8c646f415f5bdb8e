package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"placefinder-api/internal/models"
)

// ErrUnsupportedMode is returned for travel modes other than driving, walking and cycling.
var ErrUnsupportedMode = errors.New("service: unsupported travel mode")

// Router forwards a route request to a turn-by-turn routing server.
type Router interface {
	Route(ctx context.Context, mode models.TravelMode, from, to models.Coordinate) (json.RawMessage, error)
}

// RouteService validates route requests and passes them to the router
type RouteService struct {
	router Router
}

// NewRouteService creates a new route service
func NewRouteService(router Router) *RouteService {
	return &RouteService{router: router}
}

// Route returns the router's answer for a trip between two points. An empty mode means driving.
func (s *RouteService) Route(ctx context.Context, mode string, from, to models.Coordinate) (json.RawMessage, error) {
	m := models.TravelMode(strings.ToLower(strings.TrimSpace(mode)))
	switch m {
	case "":
		m = models.ModeDriving
	case models.ModeDriving, models.ModeWalking, models.ModeCycling:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}

	if err := from.Validate(); err != nil {
		return nil, fmt.Errorf("%w: origin: %v", ErrInvalidCoordinates, err)
	}
	if err := to.Validate(); err != nil {
		return nil, fmt.Errorf("%w: destination: %v", ErrInvalidCoordinates, err)
	}

	route, err := s.router.Route(ctx, m, from, to)
	if err != nil {
		return nil, fmt.Errorf("service: failed to route: %w", err)
	}
	return route, nil
}
