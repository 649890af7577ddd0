package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/medetk/storefront/docs"
	"github.com/medetk/storefront/internal/cart/bus"
	cartHTTP "github.com/medetk/storefront/internal/cart/delivery/http"
	cartdomain "github.com/medetk/storefront/internal/cart/domain"
	cartrepo "github.com/medetk/storefront/internal/cart/repository"
	cartcommand "github.com/medetk/storefront/internal/cart/usecase/command"
	cartquery "github.com/medetk/storefront/internal/cart/usecase/query"
	"github.com/medetk/storefront/internal/config"
	"github.com/medetk/storefront/internal/middleware"
	"github.com/medetk/storefront/internal/product/client"
	productHTTP "github.com/medetk/storefront/internal/product/delivery/http"
	productcommand "github.com/medetk/storefront/internal/product/usecase/command"
	productquery "github.com/medetk/storefront/internal/product/usecase/query"
	"github.com/medetk/storefront/kafka"
	"github.com/medetk/storefront/pkg/database"
	"github.com/medetk/storefront/pkg/logger"
	"github.com/medetk/storefront/pkg/tracing"
)

func main() {
	cfg := config.LoadConfig()

	serviceName := getEnv("OTEL_SERVICE_NAME", "storefront")
	isDevelopment := cfg.Environment == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", cfg.Environment).
		Str("catalog", cfg.Catalog.BaseURL).
		Msg("Starting storefront")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Redis backs the default cart storage, the response cache and the rate
	// limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Redis unreachable, cache and rate limiting disabled")
		redisClient = nil
	}

	storage := newCartStorage(cfg, redisClient)
	store := cartrepo.NewStore(storage)
	eventBus := bus.NewBus()

	// Catalog client and product context
	catalogClient := client.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)

	productHandler := productHTTP.NewProductHandler(
		productcommand.NewCreateProductHandler(catalogClient),
		productcommand.NewUpdateProductHandler(catalogClient),
		productcommand.NewDeleteProductHandler(catalogClient),
		productquery.NewListProductsHandler(catalogClient),
		productquery.NewGetProductHandler(catalogClient),
		productquery.NewGetCategoriesHandler(catalogClient),
	)

	// Cart context
	countHandler := cartquery.NewGetCountHandler(store)
	cartHandler := cartHTTP.NewCartHandler(
		cartcommand.NewAddItemHandler(store, eventBus),
		cartcommand.NewRemoveItemHandler(store, eventBus),
		cartcommand.NewDecreaseQuantityHandler(store, eventBus),
		cartcommand.NewClearCartHandler(store, eventBus),
		cartquery.NewGetItemsHandler(store),
		cartquery.NewGetIDsHandler(store),
		countHandler,
		eventBus,
		catalogClient,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional Kafka audit stream fed from a bus subscription
	if cfg.Kafka.Enabled {
		publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize Kafka publisher, audit stream disabled")
		} else {
			defer publisher.Close()
			_, signals := eventBus.Subscribe()
			bridge := kafka.NewBridge(publisher, func(ctx context.Context) int {
				return countHandler.Handle(ctx, cartquery.GetCountQuery{})
			}, signals)
			go bridge.Run(rootCtx)
		}
	}

	// Router
	router := mux.NewRouter()
	productHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", healthCheck(redisClient)).Methods("GET")
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler())

	// Listing responses are cached; cart state is always re-read
	cacheConfig := middleware.DefaultCacheConfig()
	cacheConfig.TTL = cfg.CacheTTL
	cacheMiddleware := middleware.ResponseCache(redisClient, cacheConfig)

	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow)

	var handler http.Handler = router
	handler = cacheMiddleware(handler)
	handler = rateLimiter.Middleware(handler)
	handler = middleware.RequestLogging(handler)
	handler = middleware.Recovery(handler)
	handler = otelhttp.NewHandler(handler, "storefront-http")

	// CORS for the browser UI
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler = c.Handler(handler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Logger.Info().Str("port", cfg.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-rootCtx.Done()
	logger.Logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

// newCartStorage selects the cart storage backend. An unreachable backend
// degrades to in-memory storage so browsing still works; the cart just will
// not survive a restart.
func newCartStorage(cfg *config.Config, redisClient *redis.Client) cartdomain.Storage {
	switch cfg.Cart.Backend {
	case "postgres":
		db, err := database.NewGormConnection(database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		})
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Postgres unreachable, falling back to in-memory cart")
			return cartrepo.NewMemoryStorage()
		}
		storage := cartrepo.NewPostgresStorage(db, cfg.Cart.StorageKey)
		if err := storage.AutoMigrate(); err != nil {
			logger.Logger.Error().Err(err).Msg("Cart table migration failed, falling back to in-memory cart")
			return cartrepo.NewMemoryStorage()
		}
		return storage
	case "memory":
		return cartrepo.NewMemoryStorage()
	default:
		if redisClient == nil {
			logger.Logger.Warn().Msg("Redis unavailable, falling back to in-memory cart")
			return cartrepo.NewMemoryStorage()
		}
		return cartrepo.NewRedisStorage(redisClient, cfg.Cart.StorageKey)
	}
}

func healthCheck(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if redisClient != nil {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"success":false,"error":"redis unreachable"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true,"message":"healthy"}`))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
