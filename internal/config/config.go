package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/scopesignals/coverage/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Datasets.
	PriceBookPath     string
	BoundariesPath    string
	BoundariesURL     string // takes precedence over BoundariesPath when set
	BoundariesTimeout time.Duration
	DefaultModule     string

	// Map frame used for viewport fitting.
	MapCenterLat   float64
	MapCenterLon   float64
	MapDefaultZoom float64
	MapMaxFitZoom  float64
	MapFitPadding  int
	MapWidth       int
	MapHeight      int

	SessionTTL        time.Duration
	CoverageCacheSize int

	// Selection event publishing.
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaSelectionTopic string
	BatchSize           int
	BatchFlushInterval  time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	boundariesTimeout, err := parseDuration("BOUNDARIES_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parseDuration("SESSION_TTL", "30m")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PriceBookPath:     sharedcfg.EnvOrDefault("PRICEBOOK_PATH", "data/mock/pricebook.json"),
		BoundariesPath:    sharedcfg.EnvOrDefault("BOUNDARIES_PATH", "data/mock/zip_boundaries.geojson"),
		BoundariesURL:     os.Getenv("BOUNDARIES_URL"),
		BoundariesTimeout: boundariesTimeout,
		DefaultModule:     sharedcfg.EnvOrDefault("DEFAULT_MODULE", "weeds"),

		KafkaEnabled:        os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSelectionTopic: sharedcfg.EnvOrDefault("KAFKA_SELECTION_TOPIC", "coverage-selections"),
		BatchSize:           batchSize,
		BatchFlushInterval:  flushInterval,

		SessionTTL: sessionTTL,
	}

	floats := []struct {
		key, def string
		dst      *float64
	}{
		{"MAP_CENTER_LAT", "47.6062", &cfg.MapCenterLat},
		{"MAP_CENTER_LON", "-122.3321", &cfg.MapCenterLon},
		{"MAP_DEFAULT_ZOOM", "10", &cfg.MapDefaultZoom},
		{"MAP_MAX_FIT_ZOOM", "13", &cfg.MapMaxFitZoom},
	}
	for _, f := range floats {
		if *f.dst, err = parseFloat(f.key, f.def); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		key, def string
		dst      *int
	}{
		{"MAP_FIT_PADDING", "24", &cfg.MapFitPadding},
		{"MAP_WIDTH", "960", &cfg.MapWidth},
		{"MAP_HEIGHT", "640", &cfg.MapHeight},
		{"COVERAGE_CACHE_SIZE", "16", &cfg.CoverageCacheSize},
	}
	for _, i := range ints {
		if *i.dst, err = parseInt(i.key, i.def); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PriceBookPath == "" {
		return errors.New("PRICEBOOK_PATH is required")
	}
	if c.BoundariesPath == "" && c.BoundariesURL == "" {
		return errors.New("BOUNDARIES_PATH or BOUNDARIES_URL is required")
	}
	if _, err := domain.ParseModule(c.DefaultModule); err != nil {
		return fmt.Errorf("invalid DEFAULT_MODULE: %w", err)
	}
	if c.MapCenterLat < -90 || c.MapCenterLat > 90 {
		return errors.New("invalid MAP_CENTER_LAT")
	}
	if c.MapCenterLon < -180 || c.MapCenterLon > 180 {
		return errors.New("invalid MAP_CENTER_LON")
	}
	if c.MapMaxFitZoom < 0 {
		return errors.New("invalid MAP_MAX_FIT_ZOOM")
	}
	if c.MapWidth <= 0 || c.MapHeight <= 0 {
		return errors.New("MAP_WIDTH and MAP_HEIGHT must be positive")
	}
	if c.MapFitPadding < 0 || 2*c.MapFitPadding >= c.MapWidth || 2*c.MapFitPadding >= c.MapHeight {
		return errors.New("invalid MAP_FIT_PADDING")
	}
	if c.CoverageCacheSize <= 0 {
		return errors.New("invalid COVERAGE_CACHE_SIZE")
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required")
		}
		if c.KafkaSelectionTopic == "" {
			return errors.New("KAFKA_SELECTION_TOPIC is required")
		}
	}
	return nil
}

// MapSettings returns the map frame used for viewport fitting.
func (c *Config) MapSettings() domain.MapSettings {
	return domain.MapSettings{
		Center:      domain.Geo{Lat: c.MapCenterLat, Lon: c.MapCenterLon},
		DefaultZoom: c.MapDefaultZoom,
		MaxFitZoom:  c.MapMaxFitZoom,
		Padding:     c.MapFitPadding,
		Width:       c.MapWidth,
		Height:      c.MapHeight,
	}
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	f, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
