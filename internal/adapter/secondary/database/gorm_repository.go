package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tucanshop/order-gateway/internal/constant/model/db"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/output"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository is a secondary adapter that implements the
// OrderRepository output port
type GormOrderRepository struct {
	gormDB *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(gormDB *gorm.DB) output.OrderRepository {
	return &GormOrderRepository{gormDB: gormDB}
}

// toCore converts db.Order to core.Order
func toCore(o *db.Order) *core.Order {
	order := &core.Order{
		ID:             o.ID,
		UserID:         o.UserID,
		ProductID:      o.ProductID,
		Quantity:       o.Quantity,
		TotalAmountUsd: o.TotalAmountUsd,
		TotalAmountCop: o.TotalAmountCop,
		Status:         core.OrderStatus(o.Status),
		TransactionID:  o.TransactionID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.ExchangeRate.Valid {
		rate := o.ExchangeRate.Decimal
		order.ExchangeRate = &rate
	}
	if o.Product != nil {
		order.Product = toCoreProduct(o.Product)
	}
	return order
}

// fromCore converts core.Order to db.Order
func fromCore(o *core.Order) *db.Order {
	order := &db.Order{
		ID:             o.ID,
		UserID:         o.UserID,
		ProductID:      o.ProductID,
		Quantity:       o.Quantity,
		TotalAmountUsd: o.TotalAmountUsd,
		TotalAmountCop: o.TotalAmountCop,
		Status:         db.OrderStatus(o.Status),
		TransactionID:  o.TransactionID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.ExchangeRate != nil {
		order.ExchangeRate = decimal.NewNullDecimal(*o.ExchangeRate)
	}
	return order
}

func toCoreProduct(p *db.Product) *core.Product {
	return &core.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceUsd:    p.PriceUsd,
		Category:    p.Category,
	}
}

// CreateOrder persists a new order
func (r *GormOrderRepository) CreateOrder(ctx context.Context, order *core.Order) error {
	dbOrder := fromCore(order)
	if err := r.gormDB.WithContext(ctx).Create(dbOrder).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	// Propagate id and timestamps set by GORM hooks
	order.ID = dbOrder.ID
	order.CreatedAt = dbOrder.CreatedAt
	order.UpdatedAt = dbOrder.UpdatedAt
	return nil
}

// GetOrderByID retrieves an order by its ID
func (r *GormOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*core.Order, error) {
	var dbOrder db.Order
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbOrder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", core.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return toCore(&dbOrder), nil
}

// GetOrderWithProduct retrieves an order with its product relation loaded
func (r *GormOrderRepository) GetOrderWithProduct(ctx context.Context, id uuid.UUID) (*core.Order, error) {
	var dbOrder db.Order
	if err := r.gormDB.WithContext(ctx).Preload("Product").Where("id = ?", id).First(&dbOrder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", core.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return toCore(&dbOrder), nil
}

// AttachSettlement stamps a pending settlement attempt on a non-terminal
// order and moves it to AWAITING_CONFIRMATION. The row is locked so the
// attach cannot interleave with a completion.
func (r *GormOrderRepository) AttachSettlement(ctx context.Context, id uuid.UUID, transactionID string, totalAmountCop int64, exchangeRate decimal.Decimal) (*core.Order, error) {
	var dbOrder db.Order
	err := r.gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&dbOrder).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", core.ErrNotFound, id)
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		if dbOrder.IsTerminal() {
			return fmt.Errorf("%w: order %s is already %s", core.ErrBadRequest, id, dbOrder.Status)
		}

		dbOrder.TransactionID = transactionID
		dbOrder.TotalAmountCop = &totalAmountCop
		dbOrder.ExchangeRate = decimal.NewNullDecimal(exchangeRate)
		dbOrder.Status = db.OrderStatusAwaitingConfirmation
		dbOrder.UpdatedAt = time.Now()

		if err := tx.Save(&dbOrder).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCore(&dbOrder), nil
}

// CompleteOrder atomically completes an order if it has not already reached
// a terminal state. Uses SELECT FOR UPDATE to prevent concurrent completion:
// a lost race surfaces as the stored COMPLETED order, not as an error.
func (r *GormOrderRepository) CompleteOrder(ctx context.Context, id uuid.UUID, settlement core.Settlement) (*core.Order, error) {
	var dbOrder db.Order
	err := r.gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&dbOrder).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", core.ErrNotFound, id)
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		// Someone else already completed it; return the stored row as-is.
		if dbOrder.Status == db.OrderStatusCompleted {
			return nil
		}
		if dbOrder.Status == db.OrderStatusFailed {
			return fmt.Errorf("%w: order %s is already FAILED", core.ErrBadRequest, id)
		}

		dbOrder.Status = db.OrderStatusCompleted
		dbOrder.TransactionID = settlement.TransactionID
		dbOrder.TotalAmountCop = settlement.TotalAmountCop
		if settlement.ExchangeRate != nil {
			dbOrder.ExchangeRate = decimal.NewNullDecimal(*settlement.ExchangeRate)
		} else {
			dbOrder.ExchangeRate = decimal.NullDecimal{}
		}
		dbOrder.UpdatedAt = time.Now()

		if err := tx.Save(&dbOrder).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCore(&dbOrder), nil
}

// GetUserByID retrieves a buyer by ID
func (r *GormOrderRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*core.User, error) {
	var dbUser db.User
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", core.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &core.User{ID: dbUser.ID, Email: dbUser.Email, FullName: dbUser.FullName}, nil
}

// GetProductByID retrieves a product by ID
func (r *GormOrderRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*core.Product, error) {
	var dbProduct db.Product
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbProduct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", core.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return toCoreProduct(&dbProduct), nil
}
