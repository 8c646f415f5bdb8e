package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"placefinder-api/internal/models"
)

const (
	overpassURL          = "https://overpass-api.de/api/interpreter"
	overpassProvider     = "overpass"
	defaultQueryTimeout  = 25
	defaultNearbyRadius  = 1500
	overpassBaseScore    = 0.9
	overpassNameHitBonus = 0.4
	overpassNearbyScore  = 1.0
)

// kindTagKeys are consulted in order to classify an element.
var kindTagKeys = []string{"healthcare", "amenity", "shop", "tourism", "office"}

// OverpassOptions configures the tag-index adapter.
type OverpassOptions struct {
	ClientOptions
	BaseURL      string
	QueryTimeout int
	Categories   map[models.Category]TagFilter
}

// Overpass searches OpenStreetMap tags through an Overpass API instance.
type Overpass struct {
	client       *upstreamClient
	baseURL      string
	queryTimeout int
	categories   map[models.Category]TagFilter
	box          models.BoundingBox
}

// NewOverpass creates a tag-index adapter limited to box.
func NewOverpass(box models.BoundingBox, opts OverpassOptions) *Overpass {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = overpassURL
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}
	if opts.Categories == nil {
		opts.Categories = DefaultCategories
	}
	return &Overpass{
		client:       newUpstreamClient(overpassProvider, opts.ClientOptions),
		baseURL:      opts.BaseURL,
		queryTimeout: opts.QueryTimeout,
		categories:   opts.Categories,
		box:          box,
	}
}

// Search finds elements whose name, brand, operator or alt_name contains query.
func (o *Overpass) Search(ctx context.Context, query string) ([]models.PlaceRecord, error) {
	return o.search(ctx, EscapeRegex(query), query)
}

// SearchLoose runs a search with a prepared regular expression. query is only
// used to award the name-hit bonus.
func (o *Overpass) SearchLoose(ctx context.Context, pattern, query string) ([]models.PlaceRecord, error) {
	return o.search(ctx, pattern, query)
}

func (o *Overpass) search(ctx context.Context, pattern, query string) ([]models.PlaceRecord, error) {
	body, err := o.interpret(ctx, buildSearchQuery(pattern, o.box, o.queryTimeout))
	if err != nil {
		return nil, err
	}

	qLower := strings.ToLower(query)
	return parseOverpass(body, models.SourceOverpass, func(name string) float64 {
		if strings.Contains(strings.ToLower(name), qLower) {
			return overpassBaseScore + overpassNameHitBonus
		}
		return overpassBaseScore
	})
}

// Supports reports whether category has a tag filter.
func (o *Overpass) Supports(category models.Category) bool {
	_, ok := o.categories[category]
	return ok
}

// Nearby finds elements of category within radius meters of the point. Unknown
// categories and points outside the bounding box yield no results and no request.
func (o *Overpass) Nearby(ctx context.Context, lat, lon float64, category models.Category, radius int) ([]models.PlaceRecord, error) {
	if !models.IsFinite(lat, lon) || !o.box.Contains(lat, lon) {
		return nil, nil
	}
	filter, ok := o.categories[category]
	if !ok {
		return nil, nil
	}
	if radius <= 0 {
		radius = defaultNearbyRadius
	}

	body, err := o.interpret(ctx, buildNearbyQuery(filter, lat, lon, radius, o.queryTimeout))
	if err != nil {
		return nil, err
	}

	return parseOverpass(body, models.SourceOverpassNearby, func(string) float64 {
		return overpassNearbyScore
	})
}

func (o *Overpass) interpret(ctx context.Context, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("provider: overpass: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	return o.client.do(ctx, req)
}

type overpassElement struct {
	Lat    looseFloat `json:"lat"`
	Lon    looseFloat `json:"lon"`
	Center *struct {
		Lat looseFloat `json:"lat"`
		Lon looseFloat `json:"lon"`
	} `json:"center"`
	Tags map[string]any `json:"tags"`
}

func (e overpassElement) position() (float64, float64) {
	lat, lon := e.Lat.Float(), e.Lon.Float()
	if models.IsFinite(lat, lon) || e.Center == nil {
		return lat, lon
	}
	return e.Center.Lat.Float(), e.Center.Lon.Float()
}

func (e overpassElement) tag(key string) string {
	s, _ := e.Tags[key].(string)
	return strings.TrimSpace(s)
}

func (e overpassElement) firstTag(keys ...string) string {
	for _, k := range keys {
		if v := e.tag(k); v != "" {
			return v
		}
	}
	return ""
}

// address joins the addr:* tags as "street number, city, postcode".
func (e overpassElement) address() string {
	street := strings.TrimSpace(strings.Join(nonEmpty(e.tag("addr:street"), e.tag("addr:housenumber")), " "))
	return strings.Join(nonEmpty(street, e.tag("addr:city"), e.tag("addr:postcode")), ", ")
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseOverpass maps an Overpass JSON body onto PlaceRecords, dropping elements without usable coordinates.
func parseOverpass(body []byte, source models.Source, score func(name string) float64) ([]models.PlaceRecord, error) {
	var resp struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("provider: overpass: failed to decode response: %w", err)
	}

	records := make([]models.PlaceRecord, 0, len(resp.Elements))
	for _, item := range resp.Elements {
		var e overpassElement
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		lat, lon := e.position()
		if !models.IsFinite(lat, lon) {
			continue
		}
		name := e.firstTag("name", "brand", "operator")
		if name == "" {
			name = models.DefaultPlaceName
		}
		records = append(records, models.NewPlaceRecord(
			name,
			e.address(),
			lat,
			lon,
			e.firstTag(kindTagKeys...),
			source,
			score(name),
		))
	}
	return records, nil
}
