package http

import (
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/input"
)

// PaymentHandler is a primary adapter (HTTP handler)
type PaymentHandler struct {
	quoteService   input.QuoteService
	paymentService input.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(quoteService input.QuoteService, paymentService input.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		quoteService:   quoteService,
		paymentService: paymentService,
	}
}

// QuoteRequest represents the HTTP request for a fresh quote
type QuoteRequest struct {
	OrderID string `json:"orderId"`
	Amount  int64  `json:"amount"`
}

// QuoteResponse represents the HTTP response for a quote
type QuoteResponse struct {
	OrderID         string `json:"orderId"`
	QuoteID         string `json:"quoteId"`
	InitialAmount   int64  `json:"initialAmount"`
	FinalAmount     int64  `json:"finalAmount"`
	TransactionCost int64  `json:"transactionCost"`
	ExchangeRate    string `json:"exchangeRate"`
	ExpiresAt       string `json:"expiresAt"`
	TotalCost       int64  `json:"totalCost"`
}

// CreateProviderPaymentRequest represents the HTTP request to create a
// provider payment for a previously quoted order
type CreateProviderPaymentRequest struct {
	OrderID      string `json:"orderId"`
	QuoteID      string `json:"quoteId"`
	FullName     string `json:"fullName"`
	DocumentType string `json:"documentType"`
	Document     string `json:"document"`
	Email        string `json:"email"`
	CellPhone    string `json:"cellPhone"`
}

// ProviderPaymentResponse represents the HTTP response for a created payment
type ProviderPaymentResponse struct {
	UserID      string `json:"userId"`
	PaymentID   string `json:"paymentId"`
	QuoteID     string `json:"quoteId"`
	PaymentLink string `json:"paymentLink"`
	Status      string `json:"status"`
}

// PaymentDetailResponse represents the provider-side status of a payment
type PaymentDetailResponse struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// BalanceResponse represents available provider funds per currency, in cents
type BalanceResponse struct {
	Usd int64 `json:"usd"`
	Cop int64 `json:"cop"`
}

// GetQuote requests a fresh USD->COP quote for an order
func (h *PaymentHandler) GetQuote(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return badRequest(c, "orderId must be a valid UUID")
	}

	quote, err := h.quoteService.RequestQuote(c.Request().Context(), input.QuoteRequest{
		OrderID: orderID,
		Amount:  req.Amount,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, QuoteResponse{
		OrderID:         quote.OrderID.String(),
		QuoteID:         quote.QuoteID,
		InitialAmount:   quote.InitialAmount,
		FinalAmount:     quote.FinalAmount,
		TransactionCost: quote.TransactionCost,
		ExchangeRate:    quote.ExchangeRate.String(),
		ExpiresAt:       quote.ExpiresAt.Format(time.RFC3339),
		TotalCost:       quote.TotalCost,
	})
}

// CreatePayment creates a provider payment from a quote and attaches the
// settlement attempt to the order
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req CreateProviderPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return badRequest(c, "orderId must be a valid UUID")
	}
	if req.QuoteID == "" {
		return badRequest(c, "quoteId is required")
	}
	if req.FullName == "" || req.Document == "" || req.CellPhone == "" {
		return badRequest(c, "fullName, document and cellPhone are required")
	}
	docType := core.DocumentType(req.DocumentType)
	if !docType.IsValid() {
		return badRequest(c, "documentType must be one of CC, NIT, CE, PA")
	}
	if !govalidator.IsEmail(req.Email) {
		return badRequest(c, "email must be a valid email address")
	}

	payment, err := h.paymentService.CreatePayment(c.Request().Context(), input.CreatePaymentRequest{
		OrderID:      orderID,
		QuoteID:      req.QuoteID,
		FullName:     req.FullName,
		DocumentType: docType,
		Document:     req.Document,
		Email:        req.Email,
		CellPhone:    req.CellPhone,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, ProviderPaymentResponse{
		UserID:      payment.UserID,
		PaymentID:   payment.PaymentID,
		QuoteID:     payment.QuoteID,
		PaymentLink: payment.PaymentLink,
		Status:      string(payment.Status),
	})
}

// GetPaymentStatus returns the provider-side detail of a payment
func (h *PaymentHandler) GetPaymentStatus(c echo.Context) error {
	paymentID := c.Param("id")
	if paymentID == "" {
		return badRequest(c, "payment id is required")
	}

	detail, err := h.paymentService.GetPaymentStatus(c.Request().Context(), paymentID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, PaymentDetailResponse{
		PaymentID: detail.PaymentID,
		Status:    string(detail.Status),
		Amount:    detail.Amount,
		Currency:  detail.Currency,
		FullName:  detail.FullName,
		Email:     detail.Email,
		CreatedAt: detail.CreatedAt.Format(time.RFC3339),
	})
}

// GetBalances returns available provider funds per currency
func (h *PaymentHandler) GetBalances(c echo.Context) error {
	balance, err := h.paymentService.GetBalances(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, BalanceResponse{
		Usd: balance.Usd,
		Cop: balance.Cop,
	})
}
