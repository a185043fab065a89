package config

import (
	"log"
	"os"
	"time"
)

const (
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultEnv      = "development"
	defaultCacheTTL = 10 * time.Minute
)

// Reference data sources.
const (
	SourceDatabase = "database"
	SourceCatalog  = "catalog"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port        string
	DBPath      string
	Env         string
	CatalogPath string
	// ReferenceSource is SourceDatabase (sqlite, seeded in development) or
	// SourceCatalog (the YAML catalog served from memory, no database).
	ReferenceSource string
	RedisAddr       string
	CacheTTL        time.Duration
}

// IsDev reports whether migrations and reference seeding run at startup.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: could not read .env: %v", err)
	}

	cfg := Config{
		Port:            os.Getenv("PORT"),
		DBPath:          os.Getenv("DB_PATH"),
		Env:             os.Getenv("APP_ENV"),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		ReferenceSource: os.Getenv("REFERENCE_SOURCE"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		CacheTTL:        defaultCacheTTL,
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}

	switch cfg.ReferenceSource {
	case SourceDatabase, SourceCatalog:
	case "":
		cfg.ReferenceSource = SourceDatabase
	default:
		log.Printf("warning: unknown REFERENCE_SOURCE %q, using %s", cfg.ReferenceSource, SourceDatabase)
		cfg.ReferenceSource = SourceDatabase
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl < 0 {
			log.Printf("warning: invalid CACHE_TTL %q, using %s", raw, defaultCacheTTL)
		} else {
			cfg.CacheTTL = ttl
		}
	}

	if cfg.RedisAddr == "" {
		log.Print("warning: REDIS_ADDR is not set, results are cached in memory")
	}

	return cfg
}
