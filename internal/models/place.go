package models

import (
	"fmt"
	"math"
	"strconv"
)

// Source identifies which upstream adapter produced a PlaceRecord.
type Source string

const (
	SourceNominatim      Source = "nominatim"
	SourceOverpass       Source = "overpass"
	SourceOverpassNearby Source = "overpass_nearby"
)

// DefaultPlaceName is used when an upstream record carries no usable name.
const DefaultPlaceName = "Place"

// PlaceRecord is one normalized search candidate.
type PlaceRecord struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Latitude       float64 `json:"lat"`
	Longitude      float64 `json:"lon"`
	Kind           string  `json:"kind"`
	Source         Source  `json:"source"`
	Score          float64 `json:"score"`
	ExternalMapURL string  `json:"osmUrl"`
}

// NewPlaceRecord builds a record and derives its external map link from the coordinates.
func NewPlaceRecord(name, address string, lat, lon float64, kind string, source Source, score float64) PlaceRecord {
	if name == "" {
		name = DefaultPlaceName
	}
	return PlaceRecord{
		Name:           name,
		Address:        address,
		Latitude:       lat,
		Longitude:      lon,
		Kind:           kind,
		Source:         source,
		Score:          score,
		ExternalMapURL: OSMURL(lat, lon),
	}
}

// WithScore returns a copy of the record carrying the given score.
func (p PlaceRecord) WithScore(score float64) PlaceRecord {
	p.Score = score
	return p
}

// DedupKey identifies a record by position rounded to 6 decimals and name.
func (p PlaceRecord) DedupKey() string {
	return fmt.Sprintf("%.6f,%.6f|%s", p.Latitude, p.Longitude, p.Name)
}

// OSMURL returns an openstreetmap.org link centred on the point.
func OSMURL(lat, lon float64) string {
	la := strconv.FormatFloat(lat, 'f', -1, 64)
	lo := strconv.FormatFloat(lon, 'f', -1, 64)
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s#map=18/%s/%s", la, lo, la, lo)
}

// IsFinite reports whether both coordinates are usable numbers.
func IsFinite(lat, lon float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) && !math.IsNaN(lon) && !math.IsInf(lon, 0)
}
