package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

type Config struct {
	TMDBAPIKey   string
	TMDBBaseURL  string
	TMDBImageURL string
	EmbedBaseURL string

	Port      string
	AssetsDir string

	HTTPTimeout time.Duration
	CacheTTL    time.Duration

	CarouselInterval   time.Duration
	CarouselSettle     time.Duration
	CarouselTransition time.Duration
	SearchDebounce     time.Duration
	BannerSize         int

	LogLevel string
	LogFile  string
}

var ErrMissingAPIKey = errors.New("TMDB_API_KEY is required")

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	return cfg
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		TMDBAPIKey:   getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:  strings.TrimRight(getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
		TMDBImageURL: strings.TrimRight(getEnv("TMDB_IMAGE_URL", "https://image.tmdb.org/t/p"), "/"),
		EmbedBaseURL: strings.TrimRight(getEnv("EMBED_BASE_URL", "https://vidsrc.xyz"), "/"),
		Port:         getEnv("PORT", "8080"),
		AssetsDir:    getEnv("ASSETS_DIR", "assets"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", "reel.log"),

		HTTPTimeout:        getDuration("HTTP_TIMEOUT", 15*time.Second),
		CacheTTL:           getDuration("CACHE_TTL", 5*time.Minute),
		CarouselInterval:   getDuration("CAROUSEL_INTERVAL", 8*time.Second),
		CarouselSettle:     getDuration("CAROUSEL_SETTLE", 50*time.Millisecond),
		CarouselTransition: getDuration("CAROUSEL_TRANSITION", 500*time.Millisecond),
		SearchDebounce:     getDuration("SEARCH_DEBOUNCE", 500*time.Millisecond),
		BannerSize:         getInt("BANNER_SIZE", 10),
	}

	if cfg.TMDBAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.WithField("key", key).WithField("value", raw).Warn("invalid duration, using default")
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.WithField("key", key).WithField("value", raw).Warn("invalid integer, using default")
		return defaultValue
	}
	return n
}
