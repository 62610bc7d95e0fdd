package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	// OrderStatusAwaitingAttempt is the initial status: no payment has been
	// attempted against this order yet.
	OrderStatusAwaitingAttempt OrderStatus = "AWAITING_ATTEMPT"
	// OrderStatusAwaitingConfirmation means a provider-side payment has been
	// attached and the order is waiting for the provider to confirm it.
	OrderStatusAwaitingConfirmation OrderStatus = "AWAITING_CONFIRMATION"
	OrderStatusCompleted            OrderStatus = "COMPLETED"
	OrderStatusFailed               OrderStatus = "FAILED"
)

// Order represents a purchase intent and its financial snapshot.
// TotalAmountUsd is fixed at creation time (unit price x quantity) and never
// recomputed, so later product price changes cannot affect an in-flight order.
type Order struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Product   *Product
	Quantity  int

	// TotalAmountUsd is in cents (scale-100 integer).
	TotalAmountUsd int64
	// TotalAmountCop and ExchangeRate are set together when a foreign-currency
	// settlement is finalized; both nil otherwise.
	TotalAmountCop *int64
	ExchangeRate   *decimal.Decimal

	Status        OrderStatus
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsPending checks if the order can still accept payment activity
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusAwaitingAttempt || o.Status == OrderStatusAwaitingConfirmation
}

// IsTerminal checks if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusFailed
}

// Settlement carries the final amounts stamped on an order when it completes.
// A same-currency (USD) settlement leaves TotalAmountCop and ExchangeRate nil.
type Settlement struct {
	TransactionID  string
	TotalAmountCop *int64
	ExchangeRate   *decimal.Decimal
}

// User represents a buyer
type User struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

// Product represents a purchasable item; PriceUsd is in cents.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	PriceUsd    int64
	Category    string
}
