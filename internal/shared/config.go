package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	PlacesBase     string
	PlacesKey      string
	PlacesRPS      int
	LookupTimeout  time.Duration
	RequestTimeout time.Duration
	RedisAddr      string // empty disables the resolution cache
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	AuditWorkers   int
	TimeZone       *time.Location
}

// Load reads configuration from the environment. A .env file in the working
// directory, when present, fills in variables that are not already set.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		PlacesBase:     env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesKey:      env("GOOGLE_PLACES_API_KEY", ""),
		PlacesRPS:      atoi("PLACES_RPS", 5),
		LookupTimeout:  time.Duration(atoi("LOOKUP_TIMEOUT_SECONDS", 10)) * time.Second,
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		AuditWorkers:   atoi("AUDIT_WORKERS", 4),
		TimeZone:       time.UTC,
	}
	if tz := env("AUDIT_TZ", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn().Err(err).Str("tz", tz).Msg("unknown AUDIT_TZ, using UTC")
		} else {
			c.TimeZone = loc
		}
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
