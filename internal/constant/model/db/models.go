package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the status of an order in the database
type OrderStatus string

const (
	OrderStatusAwaitingAttempt      OrderStatus = "AWAITING_ATTEMPT"
	OrderStatusAwaitingConfirmation OrderStatus = "AWAITING_CONFIRMATION"
	OrderStatusCompleted            OrderStatus = "COMPLETED"
	OrderStatusFailed               OrderStatus = "FAILED"
)

// User represents a buyer entity in the database
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName string    `gorm:"type:varchar(255);not null" json:"full_name"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Product represents a purchasable item in the database; PriceUsd is cents.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	PriceUsd    int64     `gorm:"not null" json:"price_usd"`
	Category    string    `gorm:"type:varchar(100)" json:"category"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Order represents an order entity in the database.
// Monetary amounts are scale-100 integers; the exchange rate is the only
// decimal column, paired with TotalAmountCop (both null or both set).
type Order struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProductID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product            `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity       int                 `gorm:"not null" json:"quantity"`
	TotalAmountUsd int64               `gorm:"not null" json:"total_amount_usd"`
	TotalAmountCop *int64              `json:"total_amount_cop"`
	ExchangeRate   decimal.NullDecimal `gorm:"type:decimal(12,6)" json:"exchange_rate"`
	Status         OrderStatus         `gorm:"type:varchar(32);not null" json:"status"`
	TransactionID  string              `gorm:"type:varchar(255)" json:"transaction_id"`
	CreatedAt      time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a record
func (o *Order) BeforeUpdate(tx *gorm.DB) error {
	o.UpdatedAt = time.Now()
	return nil
}

// IsTerminal checks if the order row is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusFailed
}
