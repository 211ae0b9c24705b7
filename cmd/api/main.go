package main

// @title Eco Route Service API
// @version 1.0.0
// @description Сервис сравнения маршрутов между двумя точками по видам транспорта.
// @description Для каждого вида транспорта рассчитываются время в пути, стоимость, выбросы CO2, эко-рейтинг и бонусные баллы.
// @description
// @description Основные возможности:
// @description - Сравнение маршрутов и выбор самого зелёного, быстрого и дешёвого варианта
// @description - Подсказки по названиям локаций из справочника
// @description - Справочник видов транспорта и агрегированная статистика сравнений

// @contact.name API Support
// @contact.email support@eco-route-service.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/eco-route-service/docs"
	"github.com/eco-route-service/internal/config"
	httpDelivery "github.com/eco-route-service/internal/delivery/http"
	"github.com/eco-route-service/internal/delivery/http/handler"
	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
	"github.com/eco-route-service/internal/pkg/logger"
	"github.com/eco-route-service/internal/repository/cache"
	"github.com/eco-route-service/internal/repository/gazetteer"
	"github.com/eco-route-service/internal/repository/postgres"
	redisRepo "github.com/eco-route-service/internal/repository/redis"
	"github.com/eco-route-service/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Eco Route Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("gazetteer_source", cfg.Gazetteer.Source),
	)

	// 3. Mode catalog
	catalog := domain.DefaultModeCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatal("Invalid transport mode catalog", zap.Error(err))
	}

	// 4. Gazetteer source
	var (
		locationRepo repository.LocationRepository
		db           *postgres.DB
	)
	switch cfg.Gazetteer.Source {
	case config.GazetteerSourcePostgres:
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		locationRepo = postgres.NewLocationRepository(db)
		log.Info("PostgreSQL connected")
	default:
		locationRepo = gazetteer.NewFileRepository(cfg.Gazetteer.Path, log)
	}

	// 5. Connect to Redis. Without it the service still compares routes,
	// suggestions are not cached and statistics are not collected.
	var (
		cacheRepo  repository.CacheRepository
		statsRepo  repository.StatsRepository
		streamRepo repository.StreamRepository
	)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, running without cache and statistics", zap.Error(err))
		redisClient = nil
	} else {
		cacheRepo = cache.NewCacheRepository(redisClient)
		statsRepo = redisRepo.NewStatsRepository(redisClient.Client(), log)
		if cfg.Route.EventsEnabled {
			streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
		}
		log.Info("Redis connected", zap.Bool("route_events", streamRepo != nil))
	}

	// 6. Load the gazetteer before accepting traffic
	gaz := usecase.NewGazetteer(locationRepo, log)
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := gaz.Warm(warmCtx); err != nil {
		warmCancel()
		log.Fatal("Failed to load gazetteer", zap.Error(err))
	}
	warmCancel()

	// 7. Initialize Use Cases
	locationUC := usecase.NewLocationUseCase(gaz, cacheRepo, log, cfg.Cache.SearchCacheTTL)

	routeUC := usecase.NewRouteUseCase(
		locationUC,
		catalog,
		streamRepo,
		usecase.OptionParams{
			RewardFactor:       cfg.Route.RewardFactor,
			MinDurationMinutes: cfg.Route.MinDurationMinutes,
		},
		cfg.Route.EventsTimeout,
		log,
	)

	statsUC := usecase.NewStatsUseCase(statsRepo, cacheRepo, gaz, log, cfg.Cache.StatsCacheTTL)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	routeHandler := handler.NewRouteHandler(routeUC, log)
	locationHandler := handler.NewLocationHandler(locationUC, log)
	statsHandler := handler.NewStatsHandler(statsUC, log)

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, routeHandler, locationHandler, statsHandler)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
