package input

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tucanshop/order-gateway/internal/core"
)

// OrderService is an input port (primary port) owning the order lifecycle.
// Primary adapters (HTTP handlers) and the settlement worker use this.
type OrderService interface {
	// InitializeOrder creates an order with its price snapshot taken once.
	InitializeOrder(ctx context.Context, req CreateOrderRequest) (*core.Order, error)

	// ProcessPaymentAttempt completes the order from the available USD
	// balance when it covers the total. balanceOverride injects a
	// deterministic balance instead of a live provider read.
	// Remaining unfunded is not an error; the order is returned unchanged.
	ProcessPaymentAttempt(ctx context.Context, orderID uuid.UUID, balanceOverride *int64) (*core.Order, error)

	// AttachExternalSettlement records a pending cross-currency settlement
	// attempt, re-entrant while the order is not terminal.
	AttachExternalSettlement(ctx context.Context, orderID uuid.UUID, transactionID string, totalAmountCop decimal.Decimal, exchangeRate decimal.Decimal) (*core.Order, error)

	// FinalizeOrder polls the provider for the attached payment and commits
	// final amounts when the provider reports PAID.
	FinalizeOrder(ctx context.Context, orderID uuid.UUID) (*core.Order, error)

	// GetOrder retrieves an order with its product relation.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*core.Order, error)
}

// CreateOrderRequest represents the request to create an order
type CreateOrderRequest struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}
