package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	httpadapter "github.com/tucanshop/order-gateway/internal/adapter/primary/http"
	"github.com/tucanshop/order-gateway/internal/adapter/secondary/database"
	"github.com/tucanshop/order-gateway/internal/adapter/secondary/messaging"
	"github.com/tucanshop/order-gateway/internal/adapter/secondary/supra"
	"github.com/tucanshop/order-gateway/internal/config"
	"github.com/tucanshop/order-gateway/internal/constant/model/db"
	"github.com/tucanshop/order-gateway/internal/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel := zerolog.InfoLevel
	if cfg.Debug {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stdout).Level(logLevel).With().Timestamp().Str("service", "order-gateway-api").Logger()

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbConn.Close()

	if err := db.Seed(dbConn.DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed database")
	}

	// Initialize secondary adapters: Repository, Messaging and Provider (implement output ports)
	orderRepo := database.NewGormOrderRepository(dbConn.DB)

	msgClient, err := messaging.NewRabbitMQClient(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer msgClient.Close()

	provider := supra.NewClient(supra.Config{
		BaseURL:      cfg.Supra.APIURL,
		ClientID:     cfg.Supra.ClientID,
		ClientSecret: cfg.Supra.Secret,
		RedirectURL:  cfg.Supra.RedirectURL,
		Timeout:      cfg.Supra.Timeout,
	}, logger)

	// Initialize core services (implement input ports)
	orderService := service.NewOrderService(orderRepo, provider, logger)
	quoteService := service.NewQuoteService(provider, orderService, logger)
	paymentService := service.NewPaymentService(provider, quoteService, orderService, msgClient, logger)

	// Initialize primary adapters: HTTP handlers (use input ports)
	orderHandler := httpadapter.NewOrderHandler(orderService)
	paymentHandler := httpadapter.NewPaymentHandler(quoteService, paymentService)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Routes
	api := e.Group("/api/v1")
	api.POST("/orders", orderHandler.CreateOrder)
	api.GET("/orders/:id", orderHandler.GetOrder)
	api.POST("/orders/:id/retry-payment", orderHandler.RetryPayment)
	api.POST("/orders/:id/finalize", orderHandler.FinalizeOrder)
	api.POST("/payment/quote", paymentHandler.GetQuote)
	api.POST("/payment/process", paymentHandler.CreatePayment)
	api.GET("/payment/status/:id", paymentHandler.GetPaymentStatus)
	api.GET("/payment/balances", paymentHandler.GetBalances)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	addr := fmt.Sprintf(":%s", cfg.HTTP.Port)
	logger.Info().Str("addr", addr).Msg("starting API server")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
