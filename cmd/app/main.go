package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mustafasamisahin/brokage-module/db/postgres"
	"github.com/mustafasamisahin/brokage-module/db/postgres/providers"
	"github.com/mustafasamisahin/brokage-module/repository"
	"github.com/mustafasamisahin/brokage-module/routes"
	"github.com/mustafasamisahin/brokage-module/service"
	"github.com/mustafasamisahin/brokage-module/utils"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file, using system environment variables")
	}

	logger, err := utils.NewLogger()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 1. Connect PostgreSQL
	postgresClient, err := postgres.ConnectDB(logger)
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer postgresClient.Stop()

	// 1.1 Init schema (development convenience)
	if err := postgresClient.InitSchema(); err != nil {
		logger.Fatal("failed to initialize database schema", zap.Error(err))
	}

	// 2. DB helper
	dbHelper, err := providers.NewDbProvider(postgresClient.PostgresClient)
	if err != nil {
		logger.Fatal("failed to initialize DB helper", zap.Error(err))
	}

	// 3. Stores, engine, services
	customerRepo := repository.NewCustomerRepository(dbHelper)
	assetRepo := repository.NewAssetRepository(dbHelper)
	orderRepo := repository.NewOrderRepository(dbHelper)

	engine := service.NewReservationEngine(assetRepo, logger)
	customerSrv := service.NewCustomerService(customerRepo, logger)
	assetSrv := service.NewAssetService(assetRepo, customerRepo, engine, logger)
	orderSrv := service.NewOrderService(orderRepo, customerRepo, assetRepo, engine, logger)

	// 4. Gin router & handlers
	router := gin.Default()
	routes.RegisterRoutes(router, customerSrv, assetSrv, orderSrv)

	// 5. Run REST API
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("brokerage REST API running", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// 6. Wait for OS signal, then shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("graceful shutdown complete")
}
