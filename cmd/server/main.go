package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/roicalc/internal/cache"
	"github.com/Simplici0/roicalc/internal/config"
	"github.com/Simplici0/roicalc/internal/db"
	"github.com/Simplici0/roicalc/internal/migrations"
	"github.com/Simplici0/roicalc/internal/reference"
	"github.com/Simplici0/roicalc/internal/seed"
)

type server struct {
	// db is nil when reference data is served from the catalog.
	db        *sql.DB
	reference reference.Source
	cache     cache.Cache
}

func main() {
	cfg := config.Load()

	srv := &server{cache: newCache(cfg)}
	if closer, ok := srv.cache.(io.Closer); ok {
		defer closer.Close()
	}

	if cfg.ReferenceSource == config.SourceCatalog {
		catalog, err := loadCatalog(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("failed to load reference catalog: %v", err)
		}
		log.Printf("serving reference data from the catalog")
		srv.reference = catalog
	} else {
		database, err := openReferenceDB(cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer database.Close()
		srv.db = database
		srv.reference = reference.NewStore(database)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func openReferenceDB(cfg config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		catalog, err := loadCatalog(cfg.CatalogPath)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to load reference catalog: %w", err)
		}
		stats, err := seed.Run(database, catalog)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to seed reference data: %w", err)
		}
		log.Printf("seeded reference data: %d inserted, %d updated, %d unchanged", stats.Inserts, stats.Updates, stats.Skipped)
	}

	version, err := migrations.Version(database)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Printf("reference schema at version %d", version)

	return database, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/calculate", s.handleCalculate)
		r.Post("/calculate/text", s.handleCalculateText)
		r.Get("/countries", s.handleCountries)
		r.Get("/countries/code/{code}", s.handleCountryByCode)
		r.Get("/countries/{id}", s.handleCountry)
		r.Get("/business-types", s.handleBusinessTypes)
		r.Get("/business-types/{typeID}/scenarios/{scenarioID}", s.handleScenario)
	})

	return r
}

func loadCatalog(path string) (*reference.Catalog, error) {
	if path == "" {
		return reference.DefaultCatalog()
	}
	return reference.LoadCatalog(path)
}

func newCache(cfg config.Config) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Printf("caching results in memory for %s", cfg.CacheTTL)
		return cache.NewMemoryCache(cfg.CacheTTL)
	}

	rc := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		log.Printf("warning: redis at %s unreachable, results will not be cached until it recovers: %v", cfg.RedisAddr, err)
	} else {
		log.Printf("caching results in redis at %s for %s", cfg.RedisAddr, cfg.CacheTTL)
	}
	return rc
}
