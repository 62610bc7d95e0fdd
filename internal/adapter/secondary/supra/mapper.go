package supra

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tucanshop/order-gateway/internal/core"
)

const (
	// transactionFeeUsdCents is the provider's fixed fee: always $10.00 USD,
	// charged in COP at the quote's exchange rate.
	transactionFeeUsdCents = 1000

	// quoteExpiryWindow is the validity window reported for fresh quotes.
	// The provider is asked for 60s but the shorter window is what callers
	// get, leaving headroom for the checkout round trip.
	quoteExpiryWindow = 45 * time.Second
)

var centsFactor = decimal.NewFromInt(100)

// feeCopCents computes the fixed fee in COP cents, truncated toward zero.
func feeCopCents(rate decimal.Decimal) int64 {
	return decimal.NewFromInt(transactionFeeUsdCents).Mul(rate).IntPart()
}

func toQuote(w *quoteCreateResponse, now time.Time) *core.Quote {
	fee := feeCopCents(w.ExchangeRate)
	return &core.Quote{
		QuoteID:         w.ID,
		InitialAmount:   w.InitialAmount,
		FinalAmount:     w.FinalAmount,
		TransactionCost: fee,
		ExchangeRate:    w.ExchangeRate,
		ExpiresAt:       now.Add(quoteExpiryWindow),
		TotalCost:       w.FinalAmount + fee,
	}
}

func toQuoteFromByID(w *quoteByIDResponse) (*core.Quote, error) {
	expiresAt, err := time.Parse(time.RFC3339, w.ExpiresAt)
	if err != nil {
		return nil, err
	}

	initial := w.InitialAmount.IntPart()
	final := w.FinalAmount.IntPart()
	fee := feeCopCents(w.ExchangeRate)

	return &core.Quote{
		QuoteID:         w.ID,
		InitialAmount:   initial,
		FinalAmount:     final,
		TransactionCost: fee,
		ExchangeRate:    w.ExchangeRate,
		ExpiresAt:       expiresAt,
		TotalCost:       final + fee,
	}, nil
}

func toPayment(w *paymentCreateResponse) *core.Payment {
	return &core.Payment{
		PaymentID:   w.ID,
		QuoteID:     w.QuoteID,
		UserID:      w.UserID,
		PaymentLink: w.PaymentLink,
		Status:      core.PaymentStatus(w.Status),
	}
}

func toPaymentDetail(w *paymentStatusResponse) *core.PaymentDetail {
	// Single major-to-minor conversion boundary: the status endpoint reports
	// the amount in major units; everything internal is cents. Truncate
	// toward zero, never round.
	cents := w.Amount.Mul(centsFactor).IntPart()

	createdAt, err := time.Parse(time.RFC3339, w.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}

	return &core.PaymentDetail{
		PaymentID: w.ID,
		Status:    core.PaymentStatus(w.Status),
		Amount:    cents,
		Currency:  w.Currency,
		FullName:  w.FullName,
		Email:     w.Email,
		CreatedAt: createdAt,
	}
}

func toBalance(items []balanceItem) *core.Balance {
	find := func(currency string) int64 {
		for _, item := range items {
			if strings.EqualFold(item.Currency, currency) {
				return item.Amount.IntPart()
			}
		}
		return 0
	}

	return &core.Balance{
		Usd: find("usd"),
		Cop: find("cop"),
	}
}
