package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tucanshop/order-gateway/internal/core"
)

// fakeProvider implements output.ExchangeProvider with per-method overrides.
type fakeProvider struct {
	createQuoteFn      func(ctx context.Context, amountUsd int64) (*core.Quote, error)
	getQuoteByIDFn     func(ctx context.Context, quoteID string) (*core.Quote, error)
	createPaymentFn    func(ctx context.Context, payer core.PayerData, quoteID string, orderID uuid.UUID, totalCostCop int64) (*core.Payment, error)
	getPaymentStatusFn func(ctx context.Context, paymentID string) (*core.PaymentDetail, error)
	getBalancesFn      func(ctx context.Context) (*core.Balance, error)
}

func (f *fakeProvider) CreateQuote(ctx context.Context, amountUsd int64) (*core.Quote, error) {
	if f.createQuoteFn == nil {
		return nil, fmt.Errorf("%w: CreateQuote not stubbed", core.ErrProviderUnavailable)
	}
	return f.createQuoteFn(ctx, amountUsd)
}

func (f *fakeProvider) GetQuoteByID(ctx context.Context, quoteID string) (*core.Quote, error) {
	if f.getQuoteByIDFn == nil {
		return nil, fmt.Errorf("%w: GetQuoteByID not stubbed", core.ErrProviderUnavailable)
	}
	return f.getQuoteByIDFn(ctx, quoteID)
}

func (f *fakeProvider) CreatePayment(ctx context.Context, payer core.PayerData, quoteID string, orderID uuid.UUID, totalCostCop int64) (*core.Payment, error) {
	if f.createPaymentFn == nil {
		return nil, fmt.Errorf("%w: CreatePayment not stubbed", core.ErrProviderUnavailable)
	}
	return f.createPaymentFn(ctx, payer, quoteID, orderID, totalCostCop)
}

func (f *fakeProvider) GetPaymentStatus(ctx context.Context, paymentID string) (*core.PaymentDetail, error) {
	if f.getPaymentStatusFn == nil {
		return nil, fmt.Errorf("%w: GetPaymentStatus not stubbed", core.ErrProviderUnavailable)
	}
	return f.getPaymentStatusFn(ctx, paymentID)
}

func (f *fakeProvider) GetBalances(ctx context.Context) (*core.Balance, error) {
	if f.getBalancesFn == nil {
		return nil, fmt.Errorf("%w: GetBalances not stubbed", core.ErrProviderUnavailable)
	}
	return f.getBalancesFn(ctx)
}

// fakeRepo is an in-memory output.OrderRepository with the same state
// machine semantics as the GORM implementation.
type fakeRepo struct {
	orders   map[uuid.UUID]*core.Order
	users    map[uuid.UUID]*core.User
	products map[uuid.UUID]*core.Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:   make(map[uuid.UUID]*core.Order),
		users:    make(map[uuid.UUID]*core.User),
		products: make(map[uuid.UUID]*core.Product),
	}
}

func (r *fakeRepo) CreateOrder(_ context.Context, order *core.Order) error {
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*core.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", core.ErrNotFound, id)
	}
	clone := *order
	return &clone, nil
}

func (r *fakeRepo) GetOrderWithProduct(ctx context.Context, id uuid.UUID) (*core.Order, error) {
	order, err := r.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product, ok := r.products[order.ProductID]; ok {
		clone := *product
		order.Product = &clone
	}
	return order, nil
}

func (r *fakeRepo) AttachSettlement(_ context.Context, id uuid.UUID, transactionID string, totalAmountCop int64, exchangeRate decimal.Decimal) (*core.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", core.ErrNotFound, id)
	}
	if order.IsTerminal() {
		return nil, fmt.Errorf("%w: order %s is already %s", core.ErrBadRequest, id, order.Status)
	}
	order.TransactionID = transactionID
	order.TotalAmountCop = &totalAmountCop
	order.ExchangeRate = &exchangeRate
	order.Status = core.OrderStatusAwaitingConfirmation
	clone := *order
	return &clone, nil
}

func (r *fakeRepo) CompleteOrder(_ context.Context, id uuid.UUID, settlement core.Settlement) (*core.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", core.ErrNotFound, id)
	}
	if order.Status == core.OrderStatusCompleted {
		clone := *order
		return &clone, nil
	}
	if order.Status == core.OrderStatusFailed {
		return nil, fmt.Errorf("%w: order %s is already %s", core.ErrBadRequest, id, order.Status)
	}
	order.TransactionID = settlement.TransactionID
	order.TotalAmountCop = settlement.TotalAmountCop
	order.ExchangeRate = settlement.ExchangeRate
	order.Status = core.OrderStatusCompleted
	clone := *order
	return &clone, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (*core.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", core.ErrNotFound, id)
	}
	return user, nil
}

func (r *fakeRepo) GetProductByID(_ context.Context, id uuid.UUID) (*core.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", core.ErrNotFound, id)
	}
	return product, nil
}

// fakeMessaging records published order ids.
type fakeMessaging struct {
	published  []uuid.UUID
	publishErr error
}

func (m *fakeMessaging) PublishSettlementMessage(orderID uuid.UUID) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, orderID)
	return nil
}

func (m *fakeMessaging) Close() error { return nil }

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// seedOrder inserts a user, product and order, returning the order id.
func seedOrder(repo *fakeRepo, priceUsd int64, quantity int, status core.OrderStatus) *core.Order {
	user := &core.User{ID: uuid.New(), Email: "buyer@example.com", FullName: "Buyer"}
	product := &core.Product{ID: uuid.New(), Name: "Test Product", PriceUsd: priceUsd}
	repo.users[user.ID] = user
	repo.products[product.ID] = product

	order := &core.Order{
		ID:             uuid.New(),
		UserID:         user.ID,
		ProductID:      product.ID,
		Quantity:       quantity,
		TotalAmountUsd: priceUsd * int64(quantity),
		Status:         status,
	}
	repo.orders[order.ID] = order
	return order
}
