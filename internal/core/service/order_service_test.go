package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/input"
)

func TestInitializeOrderSnapshotsTotal(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, &fakeProvider{}, testLogger())

	user := &core.User{ID: uuid.New(), Email: "buyer@example.com", FullName: "Buyer"}
	product := &core.Product{ID: uuid.New(), Name: "Keyboard", PriceUsd: 5000}
	repo.users[user.ID] = user
	repo.products[product.ID] = product

	order, err := svc.InitializeOrder(context.Background(), input.CreateOrderRequest{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10000), order.TotalAmountUsd)
	assert.Equal(t, core.OrderStatusAwaitingAttempt, order.Status)
	assert.Nil(t, order.TotalAmountCop)
	assert.Nil(t, order.ExchangeRate)

	// The snapshot must survive later price changes.
	product.PriceUsd = 99999
	stored, err := repo.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), stored.TotalAmountUsd)
}

func TestInitializeOrderRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewOrderService(newFakeRepo(), &fakeProvider{}, testLogger())

	for _, quantity := range []int{0, -1} {
		_, err := svc.InitializeOrder(context.Background(), input.CreateOrderRequest{
			UserID:    uuid.New(),
			ProductID: uuid.New(),
			Quantity:  quantity,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrBadRequest)
	}
}

func TestInitializeOrderUnknownUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, &fakeProvider{}, testLogger())

	_, err := svc.InitializeOrder(context.Background(), input.CreateOrderRequest{
		UserID:    uuid.New(),
		ProductID: uuid.New(),
		Quantity:  1,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestProcessPaymentAttemptInsufficientBalanceLeavesOrderPending(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{
		getBalancesFn: func(context.Context) (*core.Balance, error) {
			return &core.Balance{Usd: 0, Cop: 0}, nil
		},
	}
	svc := NewOrderService(repo, provider, testLogger())
	order := seedOrder(repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	result, err := svc.ProcessPaymentAttempt(context.Background(), order.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, core.OrderStatusAwaitingAttempt, result.Status)
	assert.Empty(t, result.TransactionID)
}

func TestProcessPaymentAttemptSufficientBalanceCompletes(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, &fakeProvider{}, testLogger())
	order := seedOrder(repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	override := int64(10000)
	result, err := svc.ProcessPaymentAttempt(context.Background(), order.ID, &override)

	require.NoError(t, err)
	assert.Equal(t, core.OrderStatusCompleted, result.Status)
	assert.Contains(t, result.TransactionID, "TX-Internal-")
	// Same-currency settlement: no conversion fields.
	assert.Nil(t, result.TotalAmountCop)
	assert.Nil(t, result.ExchangeRate)
}

func TestProcessPaymentAttemptTerminalOrderIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, &fakeProvider{}, testLogger())
	order := seedOrder(repo, 5000, 1, core.OrderStatusCompleted)
	order.TransactionID = "TX-Internal-existing"

	override := int64(99999)
	result, err := svc.ProcessPaymentAttempt(context.Background(), order.ID, &override)

	require.NoError(t, err)
	assert.Equal(t, core.OrderStatusCompleted, result.Status)
	assert.Equal(t, "TX-Internal-existing", result.TransactionID)
}

func TestAttachExternalSettlementTruncatesCop(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, &fakeProvider{}, testLogger())
	order := seedOrder(repo, 5000, 2, core.OrderStatusAwaitingAttempt)

	cop := decimal.RequireFromString("44000000.99")
	rate := decimal.RequireFromString("4123.456789")
	result, err := svc.AttachExternalSettlement(context.Background(), order.ID, "pay-1", cop, rate)

	require.NoError(t, err)
	assert.Equal(t, core.OrderStatusAwaitingConfirmation, result.Status)
	assert.Equal(t, "pay-1", result.TransactionID)
	require.NotNil(t, result.TotalAmountCop)
	assert.Equal(t, int64(44000000), *result.TotalAmountCop)
}

func TestAttachExternalSettlementRejectsTerminalOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, &fakeProvider{}, testLogger())
	order := seedOrder(repo, 5000, 1, core.OrderStatusFailed)

	_, err := svc.AttachExternalSettlement(context.Background(), order.ID, "pay-1",
		decimal.NewFromInt(20000000), decimal.NewFromInt(4000))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadRequest)
}

func TestFinalizeOrderWithoutPaymentIsBadRequest(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, &fakeProvider{}, testLogger())
	order := seedOrder(repo, 5000, 1, core.OrderStatusAwaitingAttempt)

	_, err := svc.FinalizeOrder(context.Background(), order.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadRequest)
}

func TestFinalizeOrderNotYetPaidLeavesOrderUntouched(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{
		getPaymentStatusFn: func(_ context.Context, paymentID string) (*core.PaymentDetail, error) {
			return &core.PaymentDetail{PaymentID: paymentID, Status: core.PaymentStatusPending}, nil
		},
	}
	svc := NewOrderService(repo, provider, testLogger())
	order := seedOrder(repo, 5000, 1, core.OrderStatusAwaitingConfirmation)
	order.TransactionID = "pay-1"

	result, err := svc.FinalizeOrder(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, core.OrderStatusAwaitingConfirmation, result.Status)
}

func TestFinalizeOrderPaidCompletesWithProviderAmount(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{
		getPaymentStatusFn: func(_ context.Context, paymentID string) (*core.PaymentDetail, error) {
			return &core.PaymentDetail{
				PaymentID: paymentID,
				Status:    core.PaymentStatusPaid,
				Amount:    44000000,
				Currency:  "COP",
			}, nil
		},
	}
	svc := NewOrderService(repo, provider, testLogger())
	order := seedOrder(repo, 5000, 2, core.OrderStatusAwaitingConfirmation)
	order.TransactionID = "pay-1"
	rate := decimal.NewFromInt(4000)
	order.ExchangeRate = &rate

	result, err := svc.FinalizeOrder(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, core.OrderStatusCompleted, result.Status)
	assert.Equal(t, "pay-1", result.TransactionID)
	require.NotNil(t, result.TotalAmountCop)
	assert.Equal(t, int64(44000000), *result.TotalAmountCop)
	require.NotNil(t, result.ExchangeRate)
	assert.True(t, result.ExchangeRate.Equal(rate))
}

func TestFinalizeOrderAlreadyCompletedIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{
		getPaymentStatusFn: func(context.Context, string) (*core.PaymentDetail, error) {
			t.Fatal("provider must not be polled for a completed order")
			return nil, nil
		},
	}
	svc := NewOrderService(repo, provider, testLogger())
	order := seedOrder(repo, 5000, 1, core.OrderStatusCompleted)
	order.TransactionID = "pay-1"

	result, err := svc.FinalizeOrder(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, core.OrderStatusCompleted, result.Status)
}

func TestFinalizeOrderProviderFailurePropagates(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{
		getPaymentStatusFn: func(context.Context, string) (*core.PaymentDetail, error) {
			return nil, fmt.Errorf("%w: upstream timeout", core.ErrProviderUnavailable)
		},
	}
	svc := NewOrderService(repo, provider, testLogger())
	order := seedOrder(repo, 5000, 1, core.OrderStatusAwaitingConfirmation)
	order.TransactionID = "pay-1"

	_, err := svc.FinalizeOrder(context.Background(), order.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)

	stored, getErr := repo.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, getErr)
	assert.Equal(t, core.OrderStatusAwaitingConfirmation, stored.Status)
}
