package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"placefinder-api/internal/models"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string             `mapstructure:"server_address"`
	Log           LogConfig          `mapstructure:"log"`
	BoundingBox   models.BoundingBox `mapstructure:"bounding_box"`
	Upstream      UpstreamConfig     `mapstructure:"upstream"`
	Nominatim     NominatimConfig    `mapstructure:"nominatim"`
	Overpass      OverpassConfig     `mapstructure:"overpass"`
	Search        SearchConfig       `mapstructure:"search"`
	Routing       RoutingConfig      `mapstructure:"routing"`
	Weather       WeatherConfig      `mapstructure:"weather"`
	Cache         CacheConfig        `mapstructure:"cache"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// UpstreamConfig is shared by every outbound HTTP client.
type UpstreamConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type NominatimConfig struct {
	URL      string  `mapstructure:"url"`
	Language string  `mapstructure:"language"`
	Limit    int     `mapstructure:"limit"`
	RPS      float64 `mapstructure:"rps"`
}

type OverpassConfig struct {
	URL     string  `mapstructure:"url"`
	Timeout int     `mapstructure:"query_timeout"`
	RPS     float64 `mapstructure:"rps"`
}

// SearchConfig tunes the aggregation pipeline.
type SearchConfig struct {
	FallbackThreshold     int `mapstructure:"fallback_threshold"`
	NearbyRadiusMeters    int `mapstructure:"nearby_radius_meters"`
	MaxNearbyRadiusMeters int `mapstructure:"max_nearby_radius_meters"`
}

type RoutingConfig struct {
	DrivingURL string `mapstructure:"driving_url"`
	WalkingURL string `mapstructure:"walking_url"`
	CyclingURL string `mapstructure:"cycling_url"`
}

type WeatherConfig struct {
	URL      string `mapstructure:"url"`
	Timezone string `mapstructure:"timezone"`
}

// CacheConfig selects the response cache backend: none, memory or redis.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	Size          int           `mapstructure:"size"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_address", "0.0.0.0:3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("bounding_box.west", models.AthensBoundingBox.West)
	v.SetDefault("bounding_box.south", models.AthensBoundingBox.South)
	v.SetDefault("bounding_box.east", models.AthensBoundingBox.East)
	v.SetDefault("bounding_box.north", models.AthensBoundingBox.North)

	v.SetDefault("upstream.user_agent", "CPYA-Map/1.0 (local)")
	v.SetDefault("upstream.timeout", 25*time.Second)

	v.SetDefault("nominatim.url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("nominatim.language", "el,en")
	v.SetDefault("nominatim.limit", 40)
	v.SetDefault("nominatim.rps", 1.0)

	v.SetDefault("overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.query_timeout", 25)
	v.SetDefault("overpass.rps", 2.0)

	v.SetDefault("search.fallback_threshold", 10)
	v.SetDefault("search.nearby_radius_meters", 1500)
	v.SetDefault("search.max_nearby_radius_meters", 5000)

	v.SetDefault("routing.driving_url", "https://router.project-osrm.org/route/v1")
	v.SetDefault("routing.walking_url", "https://routing.openstreetmap.de/routed-foot/route/v1")
	v.SetDefault("routing.cycling_url", "https://routing.openstreetmap.de/routed-bike/route/v1")

	v.SetDefault("weather.url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.timezone", "Europe/Athens")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.size", 512)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
}

// LoadConfig reads app.yaml from path, if present, and applies PLACES_* environment overrides.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("places")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if err := c.BoundingBox.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Search.FallbackThreshold < 0 {
		return fmt.Errorf("config: search.fallback_threshold must not be negative")
	}
	if c.Search.NearbyRadiusMeters <= 0 || c.Search.MaxNearbyRadiusMeters < c.Search.NearbyRadiusMeters {
		return fmt.Errorf("config: invalid nearby radius settings")
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
