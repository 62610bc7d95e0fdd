package output

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tucanshop/order-gateway/internal/core"
)

// OrderRepository is an output port (secondary port) for order data access
// Secondary adapters (database implementations) will implement this
type OrderRepository interface {
	// CreateOrder persists a new order
	CreateOrder(ctx context.Context, order *core.Order) error

	// GetOrderByID retrieves an order by its ID
	GetOrderByID(ctx context.Context, id uuid.UUID) (*core.Order, error)

	// GetOrderWithProduct retrieves an order with its product relation loaded
	GetOrderWithProduct(ctx context.Context, id uuid.UUID) (*core.Order, error)

	// AttachSettlement stamps a pending settlement attempt on a non-terminal
	// order and moves it to AWAITING_CONFIRMATION. Terminal orders reject
	// the attach with core.ErrBadRequest.
	AttachSettlement(ctx context.Context, id uuid.UUID, transactionID string, totalAmountCop int64, exchangeRate decimal.Decimal) (*core.Order, error)

	// CompleteOrder atomically completes an order, locking the row so that
	// two racing completions cannot both win. An order already COMPLETED is
	// returned as-is; a FAILED order rejects completion.
	CompleteOrder(ctx context.Context, id uuid.UUID, settlement core.Settlement) (*core.Order, error)

	// GetUserByID retrieves a buyer by ID
	GetUserByID(ctx context.Context, id uuid.UUID) (*core.User, error)

	// GetProductByID retrieves a product by ID
	GetProductByID(ctx context.Context, id uuid.UUID) (*core.Product, error)
}
