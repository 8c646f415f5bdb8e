package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TravelMode selects the router profile.
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeCycling TravelMode = "cycling"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// ParseCoordinate parses "lat,lon".
func ParseCoordinate(s string) (Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("models: coordinate %q is not in lat,lon form", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("models: invalid latitude %q: %w", latStr, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("models: invalid longitude %q: %w", lonStr, err)
	}
	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate checks the point is finite and within WGS84 ranges.
func (c Coordinate) Validate() error {
	if !IsFinite(c.Latitude, c.Longitude) {
		return fmt.Errorf("models: coordinate is not finite")
	}
	if math.Abs(c.Latitude) > 90 || math.Abs(c.Longitude) > 180 {
		return fmt.Errorf("models: coordinate out of range: %g,%g", c.Latitude, c.Longitude)
	}
	return nil
}
