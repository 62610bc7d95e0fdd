package input

import (
	"context"

	"github.com/google/uuid"
	"github.com/tucanshop/order-gateway/internal/core"
)

// PaymentService is an input port for payment operations against the provider
type PaymentService interface {
	// CreatePayment re-validates the quote, creates the provider payment and
	// attaches the resulting settlement attempt to the order.
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)

	// GetPaymentStatus retrieves the provider-side status of a payment
	GetPaymentStatus(ctx context.Context, paymentID string) (*core.PaymentDetail, error)

	// GetBalances fetches available funds per currency from the provider
	GetBalances(ctx context.Context) (*core.Balance, error)
}

// CreatePaymentRequest represents the request to create a payment
type CreatePaymentRequest struct {
	OrderID      uuid.UUID
	QuoteID      string
	FullName     string
	DocumentType core.DocumentType
	Document     string
	Email        string
	CellPhone    string
}

// CreatePaymentResponse represents the response for a created payment
type CreatePaymentResponse struct {
	UserID      string
	PaymentID   string
	PaymentLink string
	Status      core.PaymentStatus
	QuoteID     string
}
