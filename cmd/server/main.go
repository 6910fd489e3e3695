package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	receivingapp "github.com/inboundhq/receiving/internal/application/receiving"
	"github.com/inboundhq/receiving/internal/infrastructure/config"
	"github.com/inboundhq/receiving/internal/infrastructure/event"
	"github.com/inboundhq/receiving/internal/infrastructure/logger"
	"github.com/inboundhq/receiving/internal/infrastructure/persistence"
	"github.com/inboundhq/receiving/internal/infrastructure/strategy/allocation"
	"github.com/inboundhq/receiving/internal/infrastructure/telemetry"
	"github.com/inboundhq/receiving/internal/interfaces/http/handler"
	"github.com/inboundhq/receiving/internal/interfaces/http/middleware"
	"github.com/inboundhq/receiving/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting receiving engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Warn("meter provider shutdown failed", zap.Error(err))
		}
	}()
	meter := meterProvider.Meter("receiving")

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	asnRepo := persistence.NewGormASNRepository(db.DB)
	appointmentRepo := persistence.NewGormDockAppointmentRepository(db.DB)
	inspectionRepo := persistence.NewGormQualityInspectionRepository(db.DB)
	reservationRepo := persistence.NewGormDockReservationRepository(db.DB)

	receivingMetrics, err := telemetry.NewReceivingMetrics(meter, log)
	if err != nil {
		log.Fatal("Failed to create receiving metrics", zap.Error(err))
	}

	bus := event.NewInMemoryEventBus(log.Named("events"))
	bus.Subscribe(event.NewDockReleaseHandler(reservationRepo, log.Named("dock_release")))
	bus.Subscribe(event.NewThroughputMetricsHandler(receivingMetrics, log.Named("throughput")))
	bus.Subscribe(event.NewAuditLogHandler(log.Named("audit")))
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	allocator := allocation.NewReservingDockAllocator(cfg.Receiving.Docks, reservationRepo)

	receivingService := receivingapp.NewReceivingService(receivingapp.ReceivingServiceConfig{
		ASNRepo:         asnRepo,
		AppointmentRepo: appointmentRepo,
		InspectionRepo:  inspectionRepo,
		ReservationRepo: reservationRepo,
		Allocator:       allocator,
		Publisher:       bus,
		Metrics:         receivingMetrics,
		Logger:          log.Named("receiving"),
		Tolerance:       decimal.NewFromFloat(cfg.Receiving.TolerancePercent),
		DockWindow:      cfg.Receiving.DockWindow,
	})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log.Named("http")),
		middleware.Recovery(log.Named("http")),
		middleware.HTTPMetrics(meter),
	)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	r := router.NewRouter(engine)
	r.Register(router.NewReceivingRoutes(handler.NewReceivingHandler(receivingService)))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}

	log.Info("Shutdown complete")
}
