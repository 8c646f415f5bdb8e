package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"placefinder-api/internal/metrics"
	"placefinder-api/internal/models"

	"github.com/rs/zerolog/log"
)

// ResponseCache stores serialized responses. Get reports a miss with ok == false.
type ResponseCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PlaceSearcher is the behaviour shared by PlaceService and its cached wrapper.
type PlaceSearcher interface {
	Search(ctx context.Context, query string) models.SearchResponse
	Nearby(ctx context.Context, req models.NearbyRequest) (models.SearchResponse, error)
}

// CacheOptions configures CachedPlaceService. Box and the radius settings
// must match the wrapped PlaceService; zero radii select the same defaults.
type CacheOptions struct {
	TTL                   time.Duration
	Box                   models.BoundingBox
	NearbyRadiusMeters    int
	MaxNearbyRadiusMeters int
	Metrics               *metrics.Metrics
}

// CachedPlaceService serves repeated searches from a ResponseCache. Only
// non-empty, error-free responses are stored.
type CachedPlaceService struct {
	next  PlaceSearcher
	cache ResponseCache
	opts  CacheOptions
}

// NewCachedPlaceService wraps next with cache.
func NewCachedPlaceService(next PlaceSearcher, cache ResponseCache, opts CacheOptions) *CachedPlaceService {
	opts.NearbyRadiusMeters, opts.MaxNearbyRadiusMeters = resolveRadii(opts.NearbyRadiusMeters, opts.MaxNearbyRadiusMeters)
	return &CachedPlaceService{next: next, cache: cache, opts: opts}
}

func (c *CachedPlaceService) Search(ctx context.Context, query string) models.SearchResponse {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.next.Search(ctx, query)
	}

	key := searchCacheKey(q)
	if resp, ok := c.lookup(ctx, key); ok {
		return resp
	}

	resp := c.next.Search(ctx, query)
	c.store(ctx, key, resp)
	return resp
}

func (c *CachedPlaceService) Nearby(ctx context.Context, req models.NearbyRequest) (models.SearchResponse, error) {
	// Points outside the box never reach the cache.
	if !models.IsFinite(req.Latitude, req.Longitude) || !c.opts.Box.Contains(req.Latitude, req.Longitude) {
		return c.next.Nearby(ctx, req)
	}

	radius := clampRadius(req.RadiusMeters, c.opts.NearbyRadiusMeters, c.opts.MaxNearbyRadiusMeters)
	key := nearbyCacheKey(req.Latitude, req.Longitude, req.Category, radius)
	if resp, ok := c.lookup(ctx, key); ok {
		return resp, nil
	}

	resp, err := c.next.Nearby(ctx, req)
	if err != nil {
		return resp, err
	}
	c.store(ctx, key, resp)
	return resp, nil
}

func (c *CachedPlaceService) lookup(ctx context.Context, key string) (models.SearchResponse, bool) {
	payload, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache lookup failed")
	}
	if err != nil || !ok {
		c.opts.Metrics.CacheLookup(false)
		return models.SearchResponse{}, false
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		c.opts.Metrics.CacheLookup(false)
		return models.SearchResponse{}, false
	}
	c.opts.Metrics.CacheLookup(true)
	return models.NewSearchResponse(resp.Results), true
}

func (c *CachedPlaceService) store(ctx context.Context, key string, resp models.SearchResponse) {
	if !resp.Found || resp.Error != "" {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, payload, c.opts.TTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache store failed")
	}
}

func searchCacheKey(normalizedQuery string) string {
	sum := sha256.Sum256([]byte(normalizedQuery))
	return "where:v1:" + hex.EncodeToString(sum[:])
}

// nearbyCacheKey uses the exact coordinates so distinct centers never share an entry.
func nearbyCacheKey(lat, lon float64, category models.Category, radius int) string {
	cat := strings.ToLower(strings.TrimSpace(string(category)))
	return fmt.Sprintf("nearby:v2:%s,%s:%s:%d",
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lon, 'f', -1, 64), cat, radius)
}
