package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tessyjonburica/Droppio/internal/core/services"
	httphandlers "github.com/tessyjonburica/Droppio/internal/handlers/http"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/chain"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/middleware"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/monitoring"
	repositories "github.com/tessyjonburica/Droppio/internal/infrastructure/repositories"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/ws"
	"github.com/tessyjonburica/Droppio/pkg/backoff"
	"github.com/tessyjonburica/Droppio/pkg/config"
	"github.com/tessyjonburica/Droppio/pkg/logger"
	"github.com/tessyjonburica/Droppio/pkg/tracing"
)

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/droppio/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	// Tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// Repositories
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	userRepo := repoFactory.CreateUserRepository()
	streamRepo := repoFactory.CreateStreamRepository()
	tipRepo := repoFactory.CreateTipRepository()
	overlayRepo := repoFactory.CreateOverlayRepository()

	// Real-time plumbing
	collector := monitoring.NewCollector()
	registry := ws.NewRegistry()
	fanout := ws.NewFanout(registry, log, collector)

	heartbeat := ws.NewHeartbeat(registry, log, collector,
		cfg.Heartbeat.PingInterval,
		cfg.Heartbeat.PongTimeout,
		cfg.Heartbeat.ReapInterval,
	)

	// Services
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
		userRepo,
	)
	tipService := services.NewTipService(userRepo, streamRepo, tipRepo, fanout, log)
	streamService := services.NewStreamService(streamRepo, userRepo, fanout, log)

	// Chain listener
	listener := chain.NewListener(
		cfg.Chain.WSRPCURL,
		common.HexToAddress(cfg.Chain.ContractAddress),
		chain.DialEthclient,
		tipService,
		backoff.Policy{
			BaseDelay:   cfg.Chain.ReconnectBase,
			MaxDelay:    cfg.Chain.ReconnectMaxDelay,
			MaxAttempts: cfg.Chain.MaxReconnects,
		},
		log,
		collector,
	)

	// WebSocket server
	wsServer := ws.NewServer(
		registry,
		fanout,
		authService,
		streamRepo,
		overlayRepo,
		collector,
		log,
		cfg.Heartbeat.PongTimeout,
		cfg.Heartbeat.WriteTimeout,
	)

	// REST handlers
	authHandler := httphandlers.NewAuthHandler(authService, userRepo)
	streamHandler := httphandlers.NewStreamHandler(streamService, streamRepo)
	overlayHandler := httphandlers.NewOverlayHandler(overlayRepo)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandlerMiddleware(log))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}
	router.Use(middleware.NewConnectionRateLimitMiddleware(cfg))

	wsServer.RegisterRoutes(router)
	authHandler.SetupRoutes(router)
	authRequired := middleware.AuthMiddleware(authService)
	streamHandler.SetupRoutes(router, authRequired)
	overlayHandler.SetupRoutes(router, authRequired)

	// Health
	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddRedisCheck(repoFactory.RedisClient(), 2*time.Second)
	healthChecker.AddChainListenerCheck(func() string { return string(listener.State()) }, 2*time.Second)

	router.GET("/health", func(c *gin.Context) {
		streamers, viewers, overlays := registry.Counts()
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
			"connections": gin.H{
				"streamers": streamers,
				"viewers":   viewers,
				"overlays":  overlays,
			},
			"chain": string(listener.State()),
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := healthChecker.CheckAll(ctx)
		code := http.StatusOK
		if status.Status != monitoring.StatusReady {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})

	if cfg.Monitoring.PrometheusEnabled {
		router.GET(cfg.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	// Start background loops
	runCtx, runCancel := context.WithCancel(context.Background())
	heartbeat.Start(runCtx)
	listener.Start(runCtx)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Droppio notifier on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down Droppio notifier...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	listener.Stop()
	heartbeat.Stop()
	runCancel()
	registry.CloseAll(1001, "server shutting down")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	}

	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Errorw("Error shutting down tracing", "error", err)
		}
	}

	log.Info("Droppio notifier stopped")
}
