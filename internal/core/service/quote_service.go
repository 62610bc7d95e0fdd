package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/input"
	"github.com/tucanshop/order-gateway/internal/port/output"
)

// minQuoteAmountCents is the smallest amount the provider will quote:
// $15.00 USD, enforced here so undersized requests never reach the provider.
const minQuoteAmountCents = 1500

// QuoteServiceImpl implements the QuoteService input port
type QuoteServiceImpl struct {
	provider output.ExchangeProvider
	orders   input.OrderService
	logger   zerolog.Logger
	now      func() time.Time
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	provider output.ExchangeProvider,
	orders input.OrderService,
	logger zerolog.Logger,
) *QuoteServiceImpl {
	return &QuoteServiceImpl{
		provider: provider,
		orders:   orders,
		logger:   logger.With().Str("component", "quote_service").Logger(),
		now:      time.Now,
	}
}

// RequestQuote obtains a fresh USD->COP quote for an order's total
func (s *QuoteServiceImpl) RequestQuote(ctx context.Context, req input.QuoteRequest) (*input.QuoteResponse, error) {
	if req.Amount < minQuoteAmountCents {
		return nil, fmt.Errorf("%w: minimum quote amount is $15.00 USD", core.ErrBadRequest)
	}

	order, err := s.orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !order.IsPending() {
		return nil, fmt.Errorf("%w: order %s is already %s", core.ErrBadRequest, order.ID, order.Status)
	}

	// Integrity check: the quoted amount must be the order's snapshot,
	// exact to the cent.
	if req.Amount != order.TotalAmountUsd {
		return nil, fmt.Errorf("%w: requested amount does not match the order total", core.ErrBadRequest)
	}

	quote, err := s.provider.CreateQuote(ctx, order.TotalAmountUsd)
	if err != nil {
		return nil, err
	}

	return &input.QuoteResponse{
		OrderID:         order.ID,
		QuoteID:         quote.QuoteID,
		InitialAmount:   quote.InitialAmount,
		FinalAmount:     quote.FinalAmount,
		TransactionCost: quote.TransactionCost,
		ExchangeRate:    quote.ExchangeRate,
		ExpiresAt:       quote.ExpiresAt,
		TotalCost:       quote.TotalCost,
	}, nil
}

// ValidateQuote re-fetches the quote from the provider (the provider is
// authoritative, never a local cache) and checks amount integrity and
// expiry. Provider failures are captured in the result so callers get one
// consistent failure shape; Expired stays false when unknown.
func (s *QuoteServiceImpl) ValidateQuote(ctx context.Context, quoteID string, expectedAmountUsd int64, orderID uuid.UUID) core.QuoteValidation {
	quote, err := s.provider.GetQuoteByID(ctx, quoteID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("quote_id", quoteID).
			Str("order_id", orderID.String()).
			Msg("quote validation failed at provider")
		return core.QuoteValidation{ErrorMessage: err.Error()}
	}

	// Exact-integer equality on scale-100 values; any drift indicates a
	// tampering or desync bug upstream, so no tolerance is allowed.
	if quote.InitialAmount != expectedAmountUsd {
		return core.QuoteValidation{
			ErrorMessage: fmt.Sprintf("quote amount mismatch: expected %d, received %d", expectedAmountUsd, quote.InitialAmount),
		}
	}

	// Inclusive boundary: a quote at exactly expiresAt is still valid.
	if s.now().After(quote.ExpiresAt) {
		return core.QuoteValidation{
			Expired:      true,
			ErrorMessage: "the quote has expired",
		}
	}

	return core.QuoteValidation{
		Valid:        true,
		TotalCost:    quote.TotalCost,
		ExchangeRate: quote.ExchangeRate,
	}
}
