package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/input"
	"github.com/tucanshop/order-gateway/internal/port/output"
)

// OrderServiceImpl implements the OrderService input port: the state machine
// driving an order from creation through balance checks and provider payment
// confirmation. No operation retries internally; retry is the caller's call.
type OrderServiceImpl struct {
	repo     output.OrderRepository
	provider output.ExchangeProvider
	logger   zerolog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	repo output.OrderRepository,
	provider output.ExchangeProvider,
	logger zerolog.Logger,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		repo:     repo,
		provider: provider,
		logger:   logger.With().Str("component", "order_service").Logger(),
	}
}

// InitializeOrder creates an order snapshotting unit price x quantity once.
// The total is never recomputed from the product's live price afterwards.
func (s *OrderServiceImpl) InitializeOrder(ctx context.Context, req input.CreateOrderRequest) (*core.Order, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", core.ErrBadRequest)
	}

	user, err := s.repo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	order := &core.Order{
		ID:             uuid.New(),
		UserID:         user.ID,
		ProductID:      product.ID,
		Quantity:       req.Quantity,
		TotalAmountUsd: product.PriceUsd * int64(req.Quantity),
		Status:         core.OrderStatusAwaitingAttempt,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int64("total_amount_usd", order.TotalAmountUsd).
		Msg("order initialized")

	return order, nil
}

// ProcessPaymentAttempt completes the order from the available USD balance
// when it covers the total. A terminal order is returned unchanged
// (idempotent no-op); an unfunded order stays pending, legitimately.
func (s *OrderServiceImpl) ProcessPaymentAttempt(ctx context.Context, orderID uuid.UUID, balanceOverride *int64) (*core.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsTerminal() {
		return order, nil
	}

	var availableUsd int64
	if balanceOverride != nil {
		availableUsd = *balanceOverride
	} else {
		balance, err := s.provider.GetBalances(ctx)
		if err != nil {
			return nil, err
		}
		availableUsd = balance.Usd
	}

	if availableUsd < order.TotalAmountUsd {
		return order, nil
	}

	// USD->USD settlement: no conversion bookkeeping, COP fields stay null.
	transactionID := "TX-Internal-" + uuid.NewString()[:8]
	completed, err := s.repo.CompleteOrder(ctx, order.ID, core.Settlement{TransactionID: transactionID})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("transaction_id", completed.TransactionID).
		Msg("order completed from balance")

	return completed, nil
}

// AttachExternalSettlement records a pending cross-currency settlement
// attempt. The COP amount is truncated toward zero, never rounded, so the
// order can never be overcredited. Re-entrant while the order is not
// terminal, so a fresh attempt can replace one that failed or expired.
func (s *OrderServiceImpl) AttachExternalSettlement(ctx context.Context, orderID uuid.UUID, transactionID string, totalAmountCop decimal.Decimal, exchangeRate decimal.Decimal) (*core.Order, error) {
	return s.repo.AttachSettlement(ctx, orderID, transactionID, totalAmountCop.IntPart(), exchangeRate)
}

// FinalizeOrder polls the provider for the attached payment and commits the
// final amounts when, and only when, the provider reports PAID. Any other
// provider status leaves the order untouched for the caller to retry.
// A provider failure propagates: treating "provider down" as "not yet paid"
// would be unsafe.
func (s *OrderServiceImpl) FinalizeOrder(ctx context.Context, orderID uuid.UUID) (*core.Order, error) {
	order, err := s.repo.GetOrderWithProduct(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == core.OrderStatusCompleted {
		return order, nil
	}

	if order.TransactionID == "" {
		return nil, fmt.Errorf("%w: order has no associated payment", core.ErrBadRequest)
	}

	detail, err := s.provider.GetPaymentStatus(ctx, order.TransactionID)
	if err != nil {
		return nil, err
	}

	if detail.Status != core.PaymentStatusPaid {
		s.logger.Info().
			Str("order_id", order.ID.String()).
			Str("provider_status", string(detail.Status)).
			Msg("payment not confirmed yet")
		return order, nil
	}

	totalAmountCop := detail.Amount
	rate := decimal.Zero
	if order.ExchangeRate != nil {
		rate = *order.ExchangeRate
	}

	completed, err := s.repo.CompleteOrder(ctx, order.ID, core.Settlement{
		TransactionID:  order.TransactionID,
		TotalAmountCop: &totalAmountCop,
		ExchangeRate:   &rate,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("transaction_id", order.TransactionID).
		Int64("total_amount_cop", totalAmountCop).
		Msg("order finalized")

	return completed, nil
}

// GetOrder retrieves an order with its product relation
func (s *OrderServiceImpl) GetOrder(ctx context.Context, orderID uuid.UUID) (*core.Order, error) {
	return s.repo.GetOrderWithProduct(ctx, orderID)
}
