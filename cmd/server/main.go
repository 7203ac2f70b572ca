package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/presence-tracker/internal/config"
	"github.com/Dias221467/presence-tracker/internal/database"
	"github.com/Dias221467/presence-tracker/internal/handlers"
	"github.com/Dias221467/presence-tracker/internal/repository"
	"github.com/Dias221467/presence-tracker/internal/repository/memstore"
	"github.com/Dias221467/presence-tracker/internal/services"
	"github.com/Dias221467/presence-tracker/pkg/logger"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
)

type stores struct {
	users    services.UserStore
	activity services.ActivityStore
	devices  services.DevicePresenceStore
	requests services.RequestStore
	acks     services.AcknowledgementStore
	ping     func(ctx context.Context) error
	close    func()
}

func main() {
	// Load configuration from .env file and environment
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Fatalf("Configuration error: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	st, err := openStores(cfg)
	if err != nil {
		logger.Log.Fatalf("Database connection error: %v", err)
	}
	defer st.close()

	// --- Services ---
	userService := services.NewUserService(st.users)
	heartbeatService := services.NewHeartbeatService(st.activity, st.devices, st.users)
	requestService := services.NewRequestService(st.requests)
	ackService := services.NewAcknowledgementService(st.acks, st.requests, st.users)

	router := handlers.NewRouter(handlers.Deps{
		Users:           userService,
		Heartbeats:      heartbeatService,
		Requests:        requestService,
		Acks:            ackService,
		Ping:            st.ping,
		Responder:       handlers.Responder{StrictStatusCodes: cfg.StrictStatusCodes},
		RequestTimeout:  cfg.RequestTimeout,
		LegacyHeartbeat: cfg.LegacyHeartbeat,
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Graceful shutdown failed")
	}
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Log.Warn("Using in-memory store, data will not survive a restart")
		mem := memstore.New()
		return &stores{
			users: mem, activity: mem, devices: mem, requests: mem, acks: mem,
			close: func() {},
		}, nil
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		_ = database.Disconnect(db)
		return nil, err
	}

	return &stores{
		users:    repository.NewUserRepository(db),
		activity: repository.NewActivityRepository(db),
		devices:  repository.NewDevicePresenceRepository(db),
		requests: repository.NewRequestRepository(db),
		acks:     repository.NewAcknowledgementRepository(db),
		ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		close: func() { closeDB(db) },
	}, nil
}

func closeDB(db *mongo.Database) {
	if err := database.Disconnect(db); err != nil {
		logger.Log.WithError(err).Error("Failed to disconnect from MongoDB")
	}
}
