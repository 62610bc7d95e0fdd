package output

import (
	"context"

	"github.com/google/uuid"
	"github.com/tucanshop/order-gateway/internal/core"
)

// ExchangeProvider is an output port for the external payment/exchange
// provider. Implementations normalize transport and provider failures into
// the core error taxonomy; no retries happen at this layer.
type ExchangeProvider interface {
	// CreateQuote requests a USD->COP quote for an amount in USD cents
	CreateQuote(ctx context.Context, amountUsd int64) (*core.Quote, error)

	// GetQuoteByID reads a quote back from the provider for re-validation
	GetQuoteByID(ctx context.Context, quoteID string) (*core.Quote, error)

	// CreatePayment creates a provider payment for the validated COP total
	// and returns the redirect link. The reference id is fresh per attempt.
	CreatePayment(ctx context.Context, payer core.PayerData, quoteID string, orderID uuid.UUID, totalCostCop int64) (*core.Payment, error)

	// GetPaymentStatus fetches provider-side payment status; absence on this
	// endpoint surfaces as core.ErrProviderNotFound.
	GetPaymentStatus(ctx context.Context, paymentID string) (*core.PaymentDetail, error)

	// GetBalances fetches available funds per currency
	GetBalances(ctx context.Context) (*core.Balance, error)
}
