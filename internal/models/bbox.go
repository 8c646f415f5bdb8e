package models

import "fmt"

// BoundingBox is a rectangular lat/lon region in degrees.
type BoundingBox struct {
	West  float64 `mapstructure:"west" json:"west"`
	South float64 `mapstructure:"south" json:"south"`
	East  float64 `mapstructure:"east" json:"east"`
	North float64 `mapstructure:"north" json:"north"`
}

// AthensBoundingBox is the default service area.
var AthensBoundingBox = BoundingBox{West: 23.65, South: 37.85, East: 24.05, North: 38.10}

// Contains reports whether the point lies in the box, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

// Viewbox formats the box as "west,south,east,north".
func (b BoundingBox) Viewbox() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.West, b.South, b.East, b.North)
}

// Validate checks that the box has positive extent and sane coordinates.
func (b BoundingBox) Validate() error {
	if b.West >= b.East || b.South >= b.North {
		return fmt.Errorf("models: bounding box has no extent: %+v", b)
	}
	if b.South < -90 || b.North > 90 || b.West < -180 || b.East > 180 {
		return fmt.Errorf("models: bounding box out of range: %+v", b)
	}
	return nil
}

// FilterInBox keeps the records inside the box, preserving order.
func FilterInBox(records []PlaceRecord, box BoundingBox) []PlaceRecord {
	out := make([]PlaceRecord, 0, len(records))
	for _, r := range records {
		if box.Contains(r.Latitude, r.Longitude) {
			out = append(out, r)
		}
	}
	return out
}
