package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/input"
)

type paymentFixture struct {
	svc      *PaymentServiceImpl
	quotes   *QuoteServiceImpl
	repo     *fakeRepo
	provider *fakeProvider
	msg      *fakeMessaging
}

func newPaymentFixture(provider *fakeProvider) *paymentFixture {
	repo := newFakeRepo()
	orders := NewOrderService(repo, provider, testLogger())
	quotes := NewQuoteService(provider, orders, testLogger())
	msg := &fakeMessaging{}
	return &paymentFixture{
		svc:      NewPaymentService(provider, quotes, orders, msg, testLogger()),
		quotes:   quotes,
		repo:     repo,
		provider: provider,
		msg:      msg,
	}
}

func validPayerRequest(orderID uuid.UUID) input.CreatePaymentRequest {
	return input.CreatePaymentRequest{
		OrderID:      orderID,
		QuoteID:      "q-1",
		FullName:     "Ana Gomez",
		DocumentType: core.DocumentTypeCC,
		Document:     "1020304050",
		Email:        "ana@example.com",
		CellPhone:    "+573001112233",
	}
}

func TestCreatePaymentHappyPath(t *testing.T) {
	var capturedTotal int64
	provider := &fakeProvider{
		getQuoteByIDFn: func(_ context.Context, quoteID string) (*core.Quote, error) {
			return &core.Quote{
				QuoteID:       quoteID,
				InitialAmount: 10000,
				FinalAmount:   40000000,
				TotalCost:     44000000,
				ExchangeRate:  decimal.NewFromInt(4000),
				ExpiresAt:     time.Now().Add(45 * time.Second),
			}, nil
		},
		createPaymentFn: func(_ context.Context, payer core.PayerData, quoteID string, orderID uuid.UUID, totalCostCop int64) (*core.Payment, error) {
			capturedTotal = totalCostCop
			return &core.Payment{
				PaymentID:   "pay-123",
				QuoteID:     quoteID,
				UserID:      "provider-user",
				PaymentLink: "https://pay.example.com/pay-123",
				Status:      core.PaymentStatusCreated,
			}, nil
		},
	}
	f := newPaymentFixture(provider)
	order := seedOrder(f.repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	resp, err := f.svc.CreatePayment(context.Background(), validPayerRequest(order.ID))

	require.NoError(t, err)
	assert.Equal(t, "pay-123", resp.PaymentID)
	assert.Equal(t, "https://pay.example.com/pay-123", resp.PaymentLink)
	assert.Equal(t, core.PaymentStatusCreated, resp.Status)
	assert.Equal(t, int64(44000000), capturedTotal)

	// The provider payment id is attached as the order's transaction.
	stored, err := f.repo.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, core.OrderStatusAwaitingConfirmation, stored.Status)
	assert.Equal(t, "pay-123", stored.TransactionID)
	require.NotNil(t, stored.TotalAmountCop)
	assert.Equal(t, int64(44000000), *stored.TotalAmountCop)

	require.Len(t, f.msg.published, 1)
	assert.Equal(t, order.ID, f.msg.published[0])
}

func TestCreatePaymentExpiredQuote(t *testing.T) {
	expiry := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	provider := &fakeProvider{
		getQuoteByIDFn: func(_ context.Context, quoteID string) (*core.Quote, error) {
			return &core.Quote{QuoteID: quoteID, InitialAmount: 10000, ExpiresAt: expiry}, nil
		},
	}
	f := newPaymentFixture(provider)
	f.quotes.now = func() time.Time { return expiry.Add(time.Minute) }
	order := seedOrder(f.repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	_, err := f.svc.CreatePayment(context.Background(), validPayerRequest(order.ID))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadRequest)
	assert.Contains(t, err.Error(), "expired")
	assert.Empty(t, f.msg.published)
}

func TestCreatePaymentQuoteAmountMismatch(t *testing.T) {
	provider := &fakeProvider{
		getQuoteByIDFn: func(_ context.Context, quoteID string) (*core.Quote, error) {
			return &core.Quote{QuoteID: quoteID, InitialAmount: 123, ExpiresAt: time.Now().Add(time.Minute)}, nil
		},
		createPaymentFn: func(context.Context, core.PayerData, string, uuid.UUID, int64) (*core.Payment, error) {
			t.Fatal("payment must not be created for a mismatched quote")
			return nil, nil
		},
	}
	f := newPaymentFixture(provider)
	order := seedOrder(f.repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	_, err := f.svc.CreatePayment(context.Background(), validPayerRequest(order.ID))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadRequest)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestCreatePaymentInvalidDocumentType(t *testing.T) {
	f := newPaymentFixture(&fakeProvider{})
	order := seedOrder(f.repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	req := validPayerRequest(order.ID)
	req.DocumentType = "DNI"
	_, err := f.svc.CreatePayment(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadRequest)
}

func TestCreatePaymentTerminalOrder(t *testing.T) {
	f := newPaymentFixture(&fakeProvider{})
	order := seedOrder(f.repo, 5000, 1, core.OrderStatusCompleted)

	_, err := f.svc.CreatePayment(context.Background(), validPayerRequest(order.ID))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadRequest)
}

func TestCreatePaymentProviderRejection(t *testing.T) {
	provider := &fakeProvider{
		getQuoteByIDFn: func(_ context.Context, quoteID string) (*core.Quote, error) {
			return &core.Quote{
				QuoteID:       quoteID,
				InitialAmount: 10000,
				TotalCost:     44000000,
				ExpiresAt:     time.Now().Add(time.Minute),
			}, nil
		},
		createPaymentFn: func(context.Context, core.PayerData, string, uuid.UUID, int64) (*core.Payment, error) {
			return nil, core.ErrProviderRejected
		},
	}
	f := newPaymentFixture(provider)
	order := seedOrder(f.repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	_, err := f.svc.CreatePayment(context.Background(), validPayerRequest(order.ID))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrProviderRejected)

	// Nothing was attached to the order.
	stored, getErr := f.repo.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, getErr)
	assert.Equal(t, core.OrderStatusAwaitingAttempt, stored.Status)
	assert.Empty(t, stored.TransactionID)
}

func TestCreatePaymentPublishFailureDoesNotFailCheckout(t *testing.T) {
	provider := &fakeProvider{
		getQuoteByIDFn: func(_ context.Context, quoteID string) (*core.Quote, error) {
			return &core.Quote{
				QuoteID:       quoteID,
				InitialAmount: 10000,
				TotalCost:     44000000,
				ExchangeRate:  decimal.NewFromInt(4000),
				ExpiresAt:     time.Now().Add(time.Minute),
			}, nil
		},
		createPaymentFn: func(_ context.Context, _ core.PayerData, quoteID string, _ uuid.UUID, _ int64) (*core.Payment, error) {
			return &core.Payment{PaymentID: "pay-9", QuoteID: quoteID, Status: core.PaymentStatusCreated}, nil
		},
	}
	f := newPaymentFixture(provider)
	f.msg.publishErr = assert.AnError
	order := seedOrder(f.repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	resp, err := f.svc.CreatePayment(context.Background(), validPayerRequest(order.ID))

	require.NoError(t, err)
	assert.Equal(t, "pay-9", resp.PaymentID)
}
