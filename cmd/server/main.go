package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wayfarer/internal/catalog"
	"wayfarer/internal/catalog/demo"
	blogstore "wayfarer/internal/catalog/store/blogs"
	profilestore "wayfarer/internal/catalog/store/profiles"
	tripstore "wayfarer/internal/catalog/store/trips"
	"wayfarer/internal/platform/config"
	"wayfarer/internal/platform/httpserver"
	"wayfarer/internal/platform/logger"
	"wayfarer/internal/platform/metrics"
	"wayfarer/internal/platform/middleware"
	pgplatform "wayfarer/internal/platform/postgres"
	redisplatform "wayfarer/internal/platform/redis"
	prefservice "wayfarer/internal/preference/service"
	prefstore "wayfarer/internal/preference/store"
	rankmetrics "wayfarer/internal/rank/metrics"
	"wayfarer/internal/social"
	socialstore "wayfarer/internal/social/store"
	"wayfarer/internal/surface"
	surfacehandler "wayfarer/internal/surface/handler"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Ranking and preference logic lives in internal
// services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	demoCatalog, err := demo.Load()
	if err != nil {
		log.Error("load demo catalog", "err", err)
		os.Exit(1)
	}

	sources := map[catalog.Type]catalog.Source{
		catalog.TypeTrip:    {Demo: demoCatalog.Reader(catalog.TypeTrip)},
		catalog.TypeProfile: {Demo: demoCatalog.Reader(catalog.TypeProfile)},
		catalog.TypeBlog:    {Demo: demoCatalog.Reader(catalog.TypeBlog)},
	}

	var (
		prefBackend prefstore.Store = prefstore.NewInMemory()
		tripCounter surface.TripCounter
		graph       interface {
			prefservice.SocialGraph
			social.GraphWriter
		} = socialstore.NewInMemory()
	)

	if cfg.DatabaseURL != "" {
		db, err := pgplatform.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "err", err)
			os.Exit(1)
		}
		defer db.Close()

		trips := tripstore.NewPostgres(db)
		sources[catalog.TypeTrip] = catalog.Source{Live: trips, Demo: demoCatalog.Reader(catalog.TypeTrip)}
		sources[catalog.TypeProfile] = catalog.Source{Live: profilestore.NewPostgres(db), Demo: demoCatalog.Reader(catalog.TypeProfile)}
		sources[catalog.TypeBlog] = catalog.Source{Live: blogstore.NewPostgres(db), Demo: demoCatalog.Reader(catalog.TypeBlog)}
		tripCounter = trips
		graph = socialstore.NewPostgres(db)
		if cfg.PreferenceBackend == "postgres" {
			prefBackend = prefstore.NewPostgres(db)
		}
	}

	if cfg.PreferenceBackend == "redis" {
		redisClient, err := redisplatform.New(cfg.RedisURL)
		if err != nil {
			log.Error("connect redis", "err", err)
			os.Exit(1)
		}
		if redisClient == nil {
			log.Error("PREFERENCE_BACKEND=redis requires REDIS_URL")
			os.Exit(1)
		}
		defer redisClient.Close()
		prefBackend = prefstore.NewRedis(redisClient.Client)
	}

	appMetrics := metrics.New()

	prefs, err := prefservice.New(prefBackend, graph)
	if err != nil {
		log.Error("build preference service", "err", err)
		os.Exit(1)
	}
	follows, err := social.New(graph, prefs, social.WithMetrics(appMetrics))
	if err != nil {
		log.Error("build follow service", "err", err)
		os.Exit(1)
	}

	adapter, err := catalog.NewAdapter(sources)
	if err != nil {
		log.Error("build catalog adapter", "err", err)
		os.Exit(1)
	}
	surfaces, err := surface.New(adapter, prefs, tripCounter, rankmetrics.New(), surface.Limits{
		Home:   cfg.HomeLimit,
		Search: cfg.SearchLimit,
		Trips:  cfg.TripsLimit,
		Blogs:  cfg.BlogsLimit,
	})
	if err != nil {
		log.Error("build surface service", "err", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(appMetrics.Middleware)
	router.Use(middleware.ClassifyViewer([]byte(cfg.JWTSigningKey), log))
	surfacehandler.New(surfaces, follows, log).Routes(router)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting wayfarer", "addr", cfg.Addr, "preference_backend", cfg.PreferenceBackend)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
}
