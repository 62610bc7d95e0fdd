package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/input"
	"github.com/tucanshop/order-gateway/internal/port/output"
)

// PaymentServiceImpl implements the PaymentService input port
type PaymentServiceImpl struct {
	provider output.ExchangeProvider
	quotes   input.QuoteService
	orders   input.OrderService
	msg      output.SettlementMessaging
	logger   zerolog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	provider output.ExchangeProvider,
	quotes input.QuoteService,
	orders input.OrderService,
	msg output.SettlementMessaging,
	logger zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		provider: provider,
		quotes:   quotes,
		orders:   orders,
		msg:      msg,
		logger:   logger.With().Str("component", "payment_service").Logger(),
	}
}

// CreatePayment re-validates the quote against the order's snapshot, creates
// the provider payment for the validated total, attaches the settlement
// attempt to the order and enqueues it for finalization polling.
func (s *PaymentServiceImpl) CreatePayment(ctx context.Context, req input.CreatePaymentRequest) (*input.CreatePaymentResponse, error) {
	order, err := s.orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !order.IsPending() {
		return nil, fmt.Errorf("%w: order %s is already %s", core.ErrBadRequest, order.ID, order.Status)
	}

	if !req.DocumentType.IsValid() {
		return nil, fmt.Errorf("%w: invalid document type %q", core.ErrBadRequest, req.DocumentType)
	}

	validation := s.quotes.ValidateQuote(ctx, req.QuoteID, order.TotalAmountUsd, order.ID)
	if validation.Expired {
		return nil, fmt.Errorf("%w: quote has expired, request a new quote", core.ErrBadRequest)
	}
	if !validation.Valid {
		message := validation.ErrorMessage
		if message == "" {
			message = "quote not found"
		}
		return nil, fmt.Errorf("%w: invalid quote: %s", core.ErrBadRequest, message)
	}

	payer := core.PayerData{
		FullName:     req.FullName,
		DocumentType: req.DocumentType,
		Document:     req.Document,
		Email:        req.Email,
		CellPhone:    req.CellPhone,
	}

	payment, err := s.provider.CreatePayment(ctx, payer, req.QuoteID, order.ID, validation.TotalCost)
	if err != nil {
		return nil, err
	}

	// The provider payment id is the order's transaction reference from here
	// on; finalization polls it until the provider confirms.
	if _, err := s.orders.AttachExternalSettlement(ctx, order.ID, payment.PaymentID,
		decimal.NewFromInt(validation.TotalCost), validation.ExchangeRate); err != nil {
		return nil, fmt.Errorf("payment %s created but settlement attach failed: %w", payment.PaymentID, err)
	}

	// The explicit finalize endpoint remains the fallback when the queue is
	// unavailable, so a publish failure does not fail the checkout.
	if err := s.msg.PublishSettlementMessage(order.ID); err != nil {
		s.logger.Warn().Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to enqueue settlement finalization")
	}

	return &input.CreatePaymentResponse{
		UserID:      payment.UserID,
		PaymentID:   payment.PaymentID,
		PaymentLink: payment.PaymentLink,
		Status:      payment.Status,
		QuoteID:     payment.QuoteID,
	}, nil
}

// GetPaymentStatus retrieves the provider-side status of a payment
func (s *PaymentServiceImpl) GetPaymentStatus(ctx context.Context, paymentID string) (*core.PaymentDetail, error) {
	return s.provider.GetPaymentStatus(ctx, paymentID)
}

// GetBalances fetches available funds per currency from the provider
func (s *PaymentServiceImpl) GetBalances(ctx context.Context) (*core.Balance, error) {
	return s.provider.GetBalances(ctx)
}
