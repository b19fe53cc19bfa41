// Package main initializes and starts the notification relay server,
// setting up configuration, logging, the delivery log database, the
// provider gateway, handlers and routes.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/julimigwi/Task-Tracker/internal/config"
	"github.com/julimigwi/Task-Tracker/internal/db"
	"github.com/julimigwi/Task-Tracker/internal/logger"
	"github.com/julimigwi/Task-Tracker/internal/provider"
	"github.com/julimigwi/Task-Tracker/internal/repository"
	"github.com/julimigwi/Task-Tracker/internal/server/handler/http"
	"github.com/julimigwi/Task-Tracker/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection for the delivery log.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	deliveryRepo := repository.NewPostgresDeliveryRepository(postgresDB)

	// Purge old delivery records in the background.
	db.StartDeliveryCleaner(context.Background(), deliveryRepo,
		time.Hour,
		options.Retention,
		zapLogger,
	)

	// External messaging gateway, treated as a black box.
	gateway := provider.NewGateway(options.GatewayURL, options.GatewayAPIKey, options.SenderID)

	notifyService := service.NewNotifyService(gateway, deliveryRepo, zapLogger)
	notifyHandler := &http.NotifyHandler{NotifyService: notifyService}

	// Build the router with middleware and routes.
	router := http.NewRouter(notifyHandler, zapLogger, []byte(options.AuthSecret), []string{"*"})

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
