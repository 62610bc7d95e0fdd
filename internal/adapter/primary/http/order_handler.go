package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/input"
)

// mockBalanceHeader overrides the provider USD balance during the payment
// attempt that follows order creation. Value is in cents.
const mockBalanceHeader = "X-Mock-Balance"

// OrderHandler is a primary adapter (HTTP handler)
type OrderHandler struct {
	orderService input.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService input.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrderRequest represents the HTTP request to create an order
type CreateOrderRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents the HTTP response for an order
type OrderResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	ProductID      string  `json:"productId"`
	ProductName    string  `json:"productName,omitempty"`
	Quantity       int     `json:"quantity"`
	TotalAmountUsd int64   `json:"totalAmountUsd"`
	TotalAmountCop *int64  `json:"totalAmountCop"`
	ExchangeRate   *string `json:"exchangeRate"`
	Status         string  `json:"status"`
	TransactionID  string  `json:"transactionId,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

func toOrderResponse(order *core.Order) OrderResponse {
	resp := OrderResponse{
		ID:             order.ID.String(),
		UserID:         order.UserID.String(),
		ProductID:      order.ProductID.String(),
		Quantity:       order.Quantity,
		TotalAmountUsd: order.TotalAmountUsd,
		TotalAmountCop: order.TotalAmountCop,
		Status:         string(order.Status),
		TransactionID:  order.TransactionID,
		CreatedAt:      order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      order.UpdatedAt.Format(time.RFC3339),
	}
	if order.Product != nil {
		resp.ProductName = order.Product.Name
	}
	if order.ExchangeRate != nil {
		rate := order.ExchangeRate.String()
		resp.ExchangeRate = &rate
	}
	return resp
}

// CreateOrder creates an order and immediately runs a payment attempt
// against the provider balance.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return badRequest(c, "userId must be a valid UUID")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return badRequest(c, "productId must be a valid UUID")
	}

	// Reject a malformed balance override before the order exists, so a bad
	// request leaves nothing behind.
	balanceOverride, err := mockBalance(c)
	if err != nil {
		return badRequest(c, "X-Mock-Balance must be an integer amount in cents")
	}

	order, err := h.orderService.InitializeOrder(c.Request().Context(), input.CreateOrderRequest{
		UserID:    userID,
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}

	order, err = h.orderService.ProcessPaymentAttempt(c.Request().Context(), order.ID, balanceOverride)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// RetryPayment re-runs the internal payment attempt for a pending order.
func (h *OrderHandler) RetryPayment(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "order id must be a valid UUID")
	}

	balanceOverride, err := mockBalance(c)
	if err != nil {
		return badRequest(c, "X-Mock-Balance must be an integer amount in cents")
	}

	order, err := h.orderService.ProcessPaymentAttempt(c.Request().Context(), orderID, balanceOverride)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// FinalizeOrder checks the external payment status and completes the order
// when the provider reports it paid.
func (h *OrderHandler) FinalizeOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "order id must be a valid UUID")
	}

	order, err := h.orderService.FinalizeOrder(c.Request().Context(), orderID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// GetOrder returns a single order with its product snapshot.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "order id must be a valid UUID")
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func mockBalance(c echo.Context) (*int64, error) {
	raw := c.Request().Header.Get(mockBalanceHeader)
	if raw == "" {
		return nil, nil
	}
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}
