package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tucanshop/order-gateway/internal/adapter/secondary/database"
	"github.com/tucanshop/order-gateway/internal/adapter/secondary/messaging"
	"github.com/tucanshop/order-gateway/internal/adapter/secondary/supra"
	"github.com/tucanshop/order-gateway/internal/config"
	"github.com/tucanshop/order-gateway/internal/constant/model/db"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/core/service"
)

const finalizeTimeout = 30 * time.Second

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
	logger := zerolog.New(os.Stdout).Level(logLevel).With().Timestamp().Str("service", "order-gateway-worker").Logger()

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbConn.Close()

	// Initialize secondary adapters: Repository and Provider (implement output ports)
	orderRepo := database.NewGormOrderRepository(dbConn.DB)

	provider := supra.NewClient(supra.Config{
		BaseURL:      cfg.Supra.APIURL,
		ClientID:     cfg.Supra.ClientID,
		ClientSecret: cfg.Supra.Secret,
		RedirectURL:  cfg.Supra.RedirectURL,
		Timeout:      cfg.Supra.Timeout,
	}, logger)

	// Initialize core service: order finalization
	orderService := service.NewOrderService(orderRepo, provider, logger)

	// Initialize secondary adapter: Messaging (concrete type for worker)
	msgClient, err := messaging.NewRabbitMQClientConcrete(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer msgClient.Close()

	// Start consuming settlement messages
	err = msgClient.ConsumeSettlementMessages(func(msg messaging.SettlementMessage) error {
		ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
		defer cancel()

		order, err := orderService.FinalizeOrder(ctx, msg.OrderID)
		if err != nil {
			return err
		}
		// A non-terminal order means the payer has not completed the
		// provider flow; report it so the queue reschedules the check.
		if !order.IsTerminal() {
			return fmt.Errorf("%w: order %s", core.ErrConfirmationPending, msg.OrderID)
		}
		logger.Info().
			Str("order_id", msg.OrderID.String()).
			Str("status", string(order.Status)).
			Msg("settlement finalization processed")
		return nil
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start consuming messages")
	}

	logger.Info().Msg("settlement worker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
}
