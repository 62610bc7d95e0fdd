package input

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tucanshop/order-gateway/internal/core"
)

// QuoteService is an input port for currency quote operations
type QuoteService interface {
	// RequestQuote obtains a fresh USD->COP quote for an order's total.
	RequestQuote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)

	// ValidateQuote re-fetches a quote from the provider and checks it
	// against the expected amount and its expiry. Provider failures are
	// folded into the result rather than returned as errors.
	ValidateQuote(ctx context.Context, quoteID string, expectedAmountUsd int64, orderID uuid.UUID) core.QuoteValidation
}

// QuoteRequest represents the request for a fresh quote.
// Amount is in USD cents and must equal the order's snapshotted total.
type QuoteRequest struct {
	OrderID uuid.UUID
	Amount  int64
}

// QuoteResponse represents the response for a quote
type QuoteResponse struct {
	OrderID         uuid.UUID
	QuoteID         string
	InitialAmount   int64
	FinalAmount     int64
	TransactionCost int64
	ExchangeRate    decimal.Decimal
	ExpiresAt       time.Time
	TotalCost       int64
}
