package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"placefinder-api/internal/models"
)

const (
	nominatimURL      = "https://nominatim.openstreetmap.org/search"
	defaultLanguage   = "el,en"
	defaultNomLimit   = 40
	nominatimProvider = "nominatim"
)

// Scoring weights for structured geocoder matches.
const (
	exactMatchWeight   = 3.0
	startsWithWeight   = 1.5
	containsWeight     = 1.0
	importanceWeight   = 0.6
	poiCategoryWeight  = 1.0
	shortQueryPenalty  = -0.8
	shortQueryMaxRunes = 2
)

var poiClasses = []string{"shop", "amenity", "tourism", "office", "leisure", "building", "healthcare"}

// NominatimOptions configures the structured geocoder adapter.
type NominatimOptions struct {
	ClientOptions
	BaseURL  string
	Language string
	Limit    int
}

// Nominatim searches a Nominatim instance restricted to a bounding box.
type Nominatim struct {
	client   *upstreamClient
	baseURL  string
	language string
	limit    int
	box      models.BoundingBox
}

// NewNominatim creates a structured geocoder adapter.
func NewNominatim(box models.BoundingBox, opts NominatimOptions) *Nominatim {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = nominatimURL
	}
	if opts.Language == "" {
		opts.Language = defaultLanguage
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultNomLimit
	}
	return &Nominatim{
		client:   newUpstreamClient(nominatimProvider, opts.ClientOptions),
		baseURL:  opts.BaseURL,
		language: opts.Language,
		limit:    opts.Limit,
		box:      box,
	}
}

// Search geocodes query and returns scored records.
func (n *Nominatim) Search(ctx context.Context, query string) ([]models.PlaceRecord, error) {
	params := url.Values{
		"q":               {query},
		"format":          {"jsonv2"},
		"limit":           {strconv.Itoa(n.limit)},
		"addressdetails":  {"1"},
		"extratags":       {"1"},
		"namedetails":     {"1"},
		"accept-language": {n.language},
		"bounded":         {"1"},
		"viewbox":         {n.box.Viewbox()},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("provider: nominatim: failed to build request: %w", err)
	}

	body, err := n.client.do(ctx, req)
	if err != nil {
		return nil, err
	}

	return parseNominatim(body, query)
}

type nominatimPlace struct {
	Lat         looseFloat     `json:"lat"`
	Lon         looseFloat     `json:"lon"`
	DisplayName string         `json:"display_name"`
	Name        string         `json:"name"`
	Class       string         `json:"class"`
	Category    string         `json:"category"`
	Type        string         `json:"type"`
	Importance  looseFloat     `json:"importance"`
	NameDetails map[string]any `json:"namedetails"`
}

func (p nominatimPlace) class() string {
	if p.Class != "" {
		return p.Class
	}
	return p.Category
}

func (p nominatimPlace) kind() string {
	if p.class() == "" && p.Type == "" {
		return ""
	}
	return p.class() + ":" + p.Type
}

func (p nominatimPlace) matchName() string {
	if n, ok := p.NameDetails["name"].(string); ok && n != "" {
		return n
	}
	return p.Name
}

// label prefers the short place name over the full display_name, which is
// kept as the address instead.
func (p nominatimPlace) label() string {
	if n := p.matchName(); n != "" {
		return n
	}
	if first, _, _ := strings.Cut(p.DisplayName, ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	return models.DefaultPlaceName
}

// parseNominatim maps a Nominatim search body onto PlaceRecords, dropping entries without usable coordinates.
func parseNominatim(body []byte, query string) ([]models.PlaceRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("provider: nominatim: failed to decode response: %w", err)
	}

	qLower := strings.ToLower(strings.TrimSpace(query))
	records := make([]models.PlaceRecord, 0, len(raw))
	for _, item := range raw {
		var p nominatimPlace
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		lat, lon := p.Lat.Float(), p.Lon.Float()
		if !models.IsFinite(lat, lon) {
			continue
		}
		records = append(records, models.NewPlaceRecord(
			p.label(),
			p.DisplayName,
			lat,
			lon,
			p.kind(),
			models.SourceNominatim,
			scoreNominatim(p, qLower),
		))
	}
	return records, nil
}

// scoreNominatim ranks one geocoder match against the lowercased query.
func scoreNominatim(p nominatimPlace, qLower string) float64 {
	name := strings.ToLower(p.matchName())
	display := strings.ToLower(p.DisplayName)

	score := 0.0
	if name == qLower {
		score += exactMatchWeight
	}
	switch {
	case strings.HasPrefix(name, qLower) || strings.HasPrefix(display, qLower):
		score += startsWithWeight
	case strings.Contains(name, qLower) || strings.Contains(display, qLower):
		score += containsWeight
	}
	score += p.Importance.Or(0) * importanceWeight
	if slices.Contains(poiClasses, p.class()) {
		score += poiCategoryWeight
	}
	if utf8.RuneCountInString(qLower) <= shortQueryMaxRunes {
		score += shortQueryPenalty
	}
	return score
}
