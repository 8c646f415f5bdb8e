package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPlaceRecord(t *testing.T) {
	r := NewPlaceRecord("", "", 37.9755, 23.7348, "shop:supermarket", SourceOverpass, 0.9)

	assert.Equal(t, DefaultPlaceName, r.Name)
	assert.Equal(t, "https://www.openstreetmap.org/?mlat=37.9755&mlon=23.7348#map=18/37.9755/23.7348", r.ExternalMapURL)
}

func TestPlaceRecord_WithScore(t *testing.T) {
	r := NewPlaceRecord("Lidl", "", 37.9, 23.7, "", SourceOverpass, 1.3)
	adjusted := r.WithScore(1.1)

	assert.Equal(t, 1.3, r.Score)
	assert.Equal(t, 1.1, adjusted.Score)
	assert.Equal(t, r.Name, adjusted.Name)
}

func TestPlaceRecord_DedupKey(t *testing.T) {
	a := NewPlaceRecord("Lidl", "", 37.97551231, 23.73481234, "", SourceOverpass, 0)
	b := NewPlaceRecord("Lidl", "x", 37.97551229, 23.73481241, "", SourceNominatim, 0)
	c := NewPlaceRecord("Lidl Syntagma", "", 37.97551231, 23.73481234, "", SourceOverpass, 0)

	assert.Equal(t, a.DedupKey(), b.DedupKey())
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(37.9, 23.7))
	assert.False(t, IsFinite(math.NaN(), 23.7))
	assert.False(t, IsFinite(37.9, math.Inf(1)))
}

func TestBoundingBox_Contains(t *testing.T) {
	box := AthensBoundingBox

	tests := []struct {
		name     string
		lat, lon float64
		expected bool
	}{
		{name: "centre", lat: 37.9755, lon: 23.7348, expected: true},
		{name: "south-west corner", lat: 37.85, lon: 23.65, expected: true},
		{name: "north-east corner", lat: 38.10, lon: 24.05, expected: true},
		{name: "just north", lat: 38.1000001, lon: 23.8, expected: false},
		{name: "just west", lat: 37.9, lon: 23.6499999, expected: false},
		{name: "thessaloniki", lat: 40.64, lon: 22.94, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, box.Contains(tt.lat, tt.lon))
		})
	}
}

func TestBoundingBox_Validate(t *testing.T) {
	assert.NoError(t, AthensBoundingBox.Validate())
	assert.Error(t, BoundingBox{West: 24, South: 37, East: 23, North: 38}.Validate())
	assert.Error(t, BoundingBox{West: 23, South: -91, East: 24, North: 38}.Validate())
}

func TestBoundingBox_Viewbox(t *testing.T) {
	assert.Equal(t, "23.65,37.85,24.05,38.1", AthensBoundingBox.Viewbox())
}

func TestNewSearchResponse(t *testing.T) {
	var results []PlaceRecord
	for i := 0; i < 7; i++ {
		results = append(results, NewPlaceRecord("p", "", 37.9, 23.7+float64(i)/100, "", SourceOverpass, float64(10-i)))
	}

	resp := NewSearchResponse(results)
	assert.True(t, resp.Found)
	assert.Equal(t, results[:5], resp.Top5)
	assert.Len(t, resp.Results, 7)

	empty := NotFound()
	assert.False(t, empty.Found)
	assert.NotNil(t, empty.Top5)
	assert.NotNil(t, empty.Results)
	assert.Empty(t, empty.Results)

	failed := Failed("boom")
	assert.False(t, failed.Found)
	assert.Equal(t, "boom", failed.Error)
}

func TestFilterInBox(t *testing.T) {
	in := []PlaceRecord{
		NewPlaceRecord("a", "", 37.97, 23.73, "", SourceNominatim, 2),
		NewPlaceRecord("b", "", 40.64, 22.94, "", SourceNominatim, 3),
		NewPlaceRecord("c", "", 38.10, 24.05, "", SourceOverpass, 1),
	}

	out := FilterInBox(in, AthensBoundingBox)

	assert.Equal(t, []PlaceRecord{in[0], in[2]}, out)
	assert.NotNil(t, FilterInBox(nil, AthensBoundingBox))
}
