package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"placefinder-api/internal/config"
	"placefinder-api/internal/metrics"
	"placefinder-api/internal/models"
	"placefinder-api/internal/provider"
	"placefinder-api/internal/repository"
	"placefinder-api/internal/service"

	"github.com/rs/zerolog/log"
)

// App holds the services shared by the HTTP server and the CLI.
type App struct {
	Config  config.Config
	Metrics *metrics.Metrics
	Places  service.PlaceSearcher
	Routes  *service.RouteService
	Weather *service.WeatherService

	closers []io.Closer
}

// New wires providers, cache and services from cfg.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	m := metrics.New()
	client := provider.ClientOptions{
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.Upstream.Timeout,
		Metrics:   m,
	}

	nominatimClient := client
	nominatimClient.RPS = cfg.Nominatim.RPS
	overpassClient := client
	overpassClient.RPS = cfg.Overpass.RPS

	geocoder := provider.NewNominatim(cfg.BoundingBox, provider.NominatimOptions{
		ClientOptions: nominatimClient,
		BaseURL:       cfg.Nominatim.URL,
		Language:      cfg.Nominatim.Language,
		Limit:         cfg.Nominatim.Limit,
	})
	tagIndex := provider.NewOverpass(cfg.BoundingBox, provider.OverpassOptions{
		ClientOptions: overpassClient,
		BaseURL:       cfg.Overpass.URL,
		QueryTimeout:  cfg.Overpass.Timeout,
	})

	var places service.PlaceSearcher = service.NewPlaceService(geocoder, tagIndex, cfg.BoundingBox, service.PlaceOptions{
		FallbackThreshold:     cfg.Search.FallbackThreshold,
		NearbyRadiusMeters:    cfg.Search.NearbyRadiusMeters,
		MaxNearbyRadiusMeters: cfg.Search.MaxNearbyRadiusMeters,
		Metrics:               m,
	})

	a := &App{Config: cfg, Metrics: m}

	cache, closer, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	if cache != nil {
		places = service.NewCachedPlaceService(places, cache, service.CacheOptions{
			TTL:                   cfg.Cache.TTL,
			Box:                   cfg.BoundingBox,
			NearbyRadiusMeters:    cfg.Search.NearbyRadiusMeters,
			MaxNearbyRadiusMeters: cfg.Search.MaxNearbyRadiusMeters,
			Metrics:               m,
		})
	}
	a.Places = places

	router := provider.NewOSRM(map[models.TravelMode]string{
		models.ModeDriving: cfg.Routing.DrivingURL,
		models.ModeWalking: cfg.Routing.WalkingURL,
		models.ModeCycling: cfg.Routing.CyclingURL,
	}, client)
	a.Routes = service.NewRouteService(router)
	a.Weather = service.NewWeatherService(provider.NewOpenMeteo(cfg.Weather.URL, cfg.Weather.Timezone, client))

	return a, nil
}

// Close releases the cache connection, if any.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func newCache(ctx context.Context, cfg config.CacheConfig) (service.ResponseCache, io.Closer, error) {
	switch cfg.Backend {
	case "", "none":
		log.Info().Msg("response cache disabled")
		return nil, nil, nil
	case "memory":
		log.Info().Int("size", cfg.Size).Dur("ttl", cfg.TTL).Msg("using in-memory response cache")
		return repository.NewMemoryCache(cfg.Size, cfg.TTL), nil, nil
	case "redis":
		cache, err := repository.NewRedisCache(ctx, repository.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("app: %w", err)
		}
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.TTL).Msg("using redis response cache")
		return cache, cache, nil
	default:
		return nil, nil, fmt.Errorf("app: unknown cache backend %q", cfg.Backend)
	}
}
