package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/config"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/database"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/handlers"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/services"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// The logger is configured from cfg, so this one goes to stderr
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.InitDB(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if cfg.SeedContentPath != "" {
		if err := database.LoadContentData(db, cfg.SeedContentPath, log); err != nil {
			log.Error("Failed to load catalog data", "path", cfg.SeedContentPath, "error", err)
		}
	}
	if cfg.SeedEvents {
		if err := database.SeedUserEvents(db, log); err != nil {
			log.Error("Failed to seed user events", "error", err)
		}
	}

	// Services
	pool := services.NewWorkerPool(cfg.QueueSize, cfg.QueueWorkers, log)
	eventService := services.NewEventService(db, log)
	prefService := services.NewPreferenceService(db, log)
	popularityService := services.NewPopularityService(db)
	contentService := services.NewContentService(db, log)
	registry := services.NewContentRegistry(contentService.Lookup, log)

	llmService, err := services.NewLLMService(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize LLM client", "error", err)
	}
	var tagger services.TagExtractor
	if llmService != nil {
		tagger = llmService
		log.Info("Search tag extraction enabled", "provider", cfg.LLMProvider, "model", cfg.TagModel)
	}

	tracker := services.NewTracker(eventService, prefService, contentService, tagger, pool, log)
	recService := services.NewRecommendationService(
		db,
		prefService,
		services.DefaultGenerators(contentService, popularityService, cfg.PopularWindowDays),
		services.RecommendationOptions{
			TTL:        cfg.RecommendationTTL,
			StaleAfter: cfg.RecommendationStaleAfter,
		},
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go recService.RunSweeper(ctx, cfg.SweepInterval)

	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.SetupRouter(handlers.RouterDeps{
		Tracker:               tracker,
		EventService:          eventService,
		PreferenceService:     prefService,
		PopularityService:     popularityService,
		RecommendationService: recService,
		ContentService:        contentService,
		Registry:              registry,
		PopularWindowDays:     cfg.PopularWindowDays,
		CORSOrigins:           cfg.CORSOrigins,
		Log:                   log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}
	// Drain queued ingestion work after the server stops accepting it
	if err := pool.Close(shutdownCtx); err != nil {
		log.Error("Ingestion queue did not drain", "error", err)
	}
}
