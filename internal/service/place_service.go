package service

import (
	"context"
	"errors"
	"strings"

	"placefinder-api/internal/metrics"
	"placefinder-api/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultFallbackThreshold = 10
	defaultNearbyRadius      = 1500
	defaultMaxNearbyRadius   = 5000
)

// ErrInvalidNearbyRequest is returned when a nearby search lacks a usable point or category.
var ErrInvalidNearbyRequest = errors.New("lat/lon/cat required")

// StructuredGeocoder searches an address index and scores its own matches.
type StructuredGeocoder interface {
	Search(ctx context.Context, query string) ([]models.PlaceRecord, error)
}

// TagIndex searches map features by tag.
type TagIndex interface {
	Search(ctx context.Context, query string) ([]models.PlaceRecord, error)
	SearchLoose(ctx context.Context, pattern, query string) ([]models.PlaceRecord, error)
	Supports(category models.Category) bool
	Nearby(ctx context.Context, lat, lon float64, category models.Category, radius int) ([]models.PlaceRecord, error)
}

// PlaceOptions tunes the aggregation pipeline. Zero values select the defaults.
type PlaceOptions struct {
	FallbackThreshold     int
	NearbyRadiusMeters    int
	MaxNearbyRadiusMeters int
	Metrics               *metrics.Metrics
}

// PlaceService aggregates, deduplicates and ranks place candidates from both providers
type PlaceService struct {
	geocoder StructuredGeocoder
	tagIndex TagIndex
	box      models.BoundingBox
	opts     PlaceOptions
}

// NewPlaceService creates a new place search service
func NewPlaceService(geocoder StructuredGeocoder, tagIndex TagIndex, box models.BoundingBox, opts PlaceOptions) *PlaceService {
	if opts.FallbackThreshold <= 0 {
		opts.FallbackThreshold = defaultFallbackThreshold
	}
	opts.NearbyRadiusMeters, opts.MaxNearbyRadiusMeters = resolveRadii(opts.NearbyRadiusMeters, opts.MaxNearbyRadiusMeters)
	return &PlaceService{
		geocoder: geocoder,
		tagIndex: tagIndex,
		box:      box,
		opts:     opts,
	}
}

// Search answers a free-text query with ranked places inside the bounding box.
// Provider failures only remove that provider's results; Search never fails.
func (s *PlaceService) Search(ctx context.Context, query string) models.SearchResponse {
	q := strings.TrimSpace(query)
	if q == "" {
		return models.NotFound()
	}

	var geocoded, tagged []models.PlaceRecord
	var g errgroup.Group
	g.Go(func() error {
		geocoded = collect(ctx, "nominatim", func(ctx context.Context) ([]models.PlaceRecord, error) {
			return s.geocoder.Search(ctx, q)
		})
		return nil
	})
	g.Go(func() error {
		tagged = collect(ctx, "overpass", func(ctx context.Context) ([]models.PlaceRecord, error) {
			return s.tagIndex.Search(ctx, q)
		})
		return nil
	})
	_ = g.Wait()

	merged := make([]models.PlaceRecord, 0, len(geocoded)+len(tagged))
	merged = append(merged, geocoded...)
	merged = append(merged, tagged...)

	fallback := false
	if len(merged) < s.opts.FallbackThreshold {
		if pattern := LoosePattern(q); pattern != "" {
			fallback = true
			s.opts.Metrics.FallbackAttempt()
			loose := collect(ctx, "overpass-loose", func(ctx context.Context) ([]models.PlaceRecord, error) {
				return s.tagIndex.SearchLoose(ctx, pattern, q)
			})
			merged = append(merged, penalize(loose)...)
		}
	}

	if err := ctx.Err(); err != nil {
		return models.Failed(err.Error())
	}

	results := models.FilterInBox(rank(dedupe(merged)), s.box)

	log.Debug().
		Str("query", q).
		Int("geocoder", len(geocoded)).
		Int("tag_index", len(tagged)).
		Bool("fallback", fallback).
		Int("results", len(results)).
		Msg("search completed")

	return models.NewSearchResponse(results)
}

// Nearby lists places of one category around a point. The only error is
// ErrInvalidNearbyRequest; unknown categories and points outside the bounding
// box produce an empty response without contacting the provider.
func (s *PlaceService) Nearby(ctx context.Context, req models.NearbyRequest) (models.SearchResponse, error) {
	category := models.Category(strings.ToLower(strings.TrimSpace(string(req.Category))))
	if !models.IsFinite(req.Latitude, req.Longitude) || category == "" {
		return models.NotFound(), ErrInvalidNearbyRequest
	}
	if !s.tagIndex.Supports(category) || !s.box.Contains(req.Latitude, req.Longitude) {
		return models.NotFound(), nil
	}

	radius := clampRadius(req.RadiusMeters, s.opts.NearbyRadiusMeters, s.opts.MaxNearbyRadiusMeters)
	records := collect(ctx, "overpass-nearby", func(ctx context.Context) ([]models.PlaceRecord, error) {
		return s.tagIndex.Nearby(ctx, req.Latitude, req.Longitude, category, radius)
	})

	if err := ctx.Err(); err != nil {
		return models.Failed(err.Error()), nil
	}

	results := models.FilterInBox(dedupe(records), s.box)
	return models.NewSearchResponse(results), nil
}

// resolveRadii fills in the default and maximum nearby radius.
func resolveRadii(def, limit int) (int, int) {
	if def <= 0 {
		def = defaultNearbyRadius
	}
	if limit < def {
		limit = max(defaultMaxNearbyRadius, def)
	}
	return def, limit
}

func clampRadius(requested, def, limit int) int {
	if requested <= 0 {
		return def
	}
	return min(requested, limit)
}

// collect runs one provider call and turns its failure into an empty result.
func collect(ctx context.Context, source string, fetch func(context.Context) ([]models.PlaceRecord, error)) []models.PlaceRecord {
	records, err := fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Str("source", source).Msg("provider call failed, continuing without its results")
		return nil
	}
	return records
}
