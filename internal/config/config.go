package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

type Config struct {
	Server   ServerConfig
	Geocode  GeocodeConfig
	Overpass OverpassConfig
	Search   SearchConfig
	Refresh  RefreshConfig
	Worker   WorkerConfig
	DB       DatabaseConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	RateLimit int
}

type GeocodeConfig struct {
	BaseURL   string
	UserAgent string
}

type OverpassConfig struct {
	URL       string
	UserAgent string
}

type SearchConfig struct {
	RadiusKm    float64
	HTTPTimeout time.Duration
}

type RefreshConfig struct {
	Enabled  bool
	Interval time.Duration
	Watch    []models.Coordinate
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	watch, err := parseCoordinates(getEnv("WATCH_COORDS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_COORDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvInt("SERVER_PORT", 8080),
			RateLimit: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		Geocode: GeocodeConfig{
			BaseURL:   getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOCODE_USER_AGENT", ""),
		},
		Overpass: OverpassConfig{
			URL:       getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			UserAgent: getEnv("OVERPASS_USER_AGENT", ""),
		},
		Search: SearchConfig{
			RadiusKm:    getEnvFloat("SEARCH_RADIUS_KM", 10),
			HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		},
		Refresh: RefreshConfig{
			Enabled:  getEnvBool("REFRESH_ENABLED", true),
			Interval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
			Watch:    watch,
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/emergency-services.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Search.RadiusKm <= 0 {
		return fmt.Errorf("search radius must be positive, got %f", c.Search.RadiusKm)
	}
	if c.Search.HTTPTimeout < time.Second {
		return fmt.Errorf("HTTP timeout must be at least 1 second")
	}
	if c.Refresh.Interval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1 minute")
	}
	for _, w := range c.Refresh.Watch {
		if !w.Valid() {
			return fmt.Errorf("watch coordinate out of range: %f,%f", w.Latitude, w.Longitude)
		}
	}

	return nil
}

// parseCoordinates reads a "lat,lon|lat,lon" list.
func parseCoordinates(s string) ([]models.Coordinate, error) {
	if s == "" {
		return nil, nil
	}

	var coords []models.Coordinate
	for _, pair := range strings.Split(s, "|") {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed coordinate pair: %q", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed latitude in %q: %w", pair, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed longitude in %q: %w", pair, err)
		}
		coords = append(coords, models.Coordinate{Latitude: lat, Longitude: lon})
	}
	return coords, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
