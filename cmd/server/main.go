package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/adapter/email"
	natsAdapter "github.com/Abdurahmanit/meraroom-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/meraroom-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/meraroom-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/meraroom-service/internal/adapter/rest"
	"github.com/Abdurahmanit/meraroom-service/internal/adapter/rest/middleware"
	"github.com/Abdurahmanit/meraroom-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/meraroom-service/internal/auth"
	"github.com/Abdurahmanit/meraroom-service/internal/config"
	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/metrics"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/tracer"
	"github.com/Abdurahmanit/meraroom-service/internal/usecase"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	serviceName       = "meraroom-service"
	loginBurst        = 5
	eventHandlerLimit = 30 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	if err := run(appLogger); err != nil {
		appLogger.Error("Application stopped with error", zap.Error(err))
		_ = appLogger.Sync()
		os.Exit(1)
	}
	appLogger.Info("Application shut down cleanly.")
	_ = appLogger.Sync()
}

// run wires every component and blocks until a signal arrives or the HTTP
// server fails. Cleanups registered with defer run on every return path.
func run(appLogger *logger.Logger) error {
	// 1. Configuration and tracing
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	tp := tracer.InitTracer(tracer.Config{
		ServiceName: serviceName,
		Environment: cfg.AppEnv,
		Endpoint:    cfg.OTExporterOTLPEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	}, appLogger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// 2. MongoDB and repositories
	mongoClient, err := mongo.Connect(appCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		appLogger.Info("Disconnecting from MongoDB...")
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(appCtx, 5*time.Second)
	err = mongoClient.Ping(pingCtx, readpref.Primary())
	cancelPing()
	if err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	userRepo, err := mongoRepo.NewUserRepository(db, appLogger)
	if err != nil {
		return fmt.Errorf("init user repository: %w", err)
	}
	accommodationRepo, err := mongoRepo.NewAccommodationRepository(db, appLogger)
	if err != nil {
		return fmt.Errorf("init accommodation repository: %w", err)
	}
	bookingRepo, err := mongoRepo.NewBookingRepository(db, appLogger)
	if err != nil {
		return fmt.Errorf("init booking repository: %w", err)
	}

	// 3. Redis listing cache, optional
	var listingCache domain.ListingCache
	if cfg.RedisAddress != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, appLogger)
		if err != nil {
			appLogger.Warn("Continuing without listing cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			listingCache = cache.NewListingCache(redisClient, cfg.CacheTTL, appLogger)
		}
	}

	// 4. NATS events and owner notifications, optional
	var events domain.EventPublisher
	if cfg.NATSURL != "" {
		natsConn, err := natsAdapter.Connect(cfg.NATSURL, serviceName, appLogger)
		if err != nil {
			appLogger.Warn("Continuing without booking events", zap.Error(err))
		} else {
			defer natsAdapter.Close(natsConn, appLogger)
			events = natsAdapter.NewPublisher(natsConn, appLogger)

			sender, err := email.NewSMTPSender(email.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFrom,
			}, appLogger)
			if err != nil {
				appLogger.Info("Owner email notifications disabled", zap.Error(err))
			} else {
				notifier := usecase.NewNotificationUsecase(userRepo, accommodationRepo, sender, appLogger)
				subscriber := natsAdapter.NewSubscriber(natsConn, eventHandlerLimit, appLogger)
				if err := subscriber.SubscribeBookingEvents(domain.SubjectBookingRequested, notifier.HandleBookingRequested); err != nil {
					return fmt.Errorf("subscribe to booking events: %w", err)
				}
				defer subscriber.Unsubscribe()
			}
		}
	}

	// 5. Storage, usecases and HTTP surface
	storage, err := s3.NewS3Storage(appCtx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
	if err != nil {
		return fmt.Errorf("init S3 storage: %w", err)
	}

	metricsManager := metrics.NewMetricsManager("meraroom")
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpire)

	listingUsecase := usecase.NewListingUsecase(accommodationRepo, userRepo, bookingRepo, storage, listingCache, metricsManager, appLogger)
	bookingUsecase := usecase.NewBookingUsecase(bookingRepo, accommodationRepo, listingCache, events, metricsManager, appLogger)
	authUsecase := usecase.NewAuthUsecase(userRepo, listingUsecase, storage, auth.NewPasswordHasher(0), tokens, appLogger)
	preferencesUsecase := usecase.NewPreferencesUsecase(userRepo, appLogger)

	production := cfg.IsProduction()
	handlers := rest.Handlers{
		Auth:           rest.NewAuthHandler(authUsecase, cfg.UploadMaxBytes, production, appLogger),
		Accommodations: rest.NewAccommodationHandler(listingUsecase, cfg.UploadMaxBytes, production, appLogger),
		Users:          rest.NewUserHandler(preferencesUsecase, production, appLogger),
		Bookings:       rest.NewBookingHandler(bookingUsecase, production, appLogger),
		Files:          rest.NewFileHandler(storage, production, appLogger),
		Health: rest.NewHealthHandler(rest.PingFunc(func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		}), appLogger),
	}
	router := rest.NewRouter(handlers, rest.RouterConfig{
		Tokens:             tokens,
		Metrics:            metricsManager,
		LoginLimiter:       middleware.NewClientRateLimiter(appCtx, cfg.LoginRatePerMinute, loginBurst, appLogger),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout:     cfg.HTTPRequestTimeout,
	}, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort), zap.String("app_env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set).")
	}

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case sig := <-quit:
		appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("HTTP server: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	appLogger.Info("Application shutting down...")
	return nil
}
