package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is an ephemeral, provider-issued currency conversion offer.
// The provider is the system of record; quotes are never persisted locally
// and are read back by id for re-validation before a payment is created.
// All amounts are scale-100 integers (cents).
type Quote struct {
	QuoteID string
	// InitialAmount is the source (USD) amount the quote was issued for.
	InitialAmount int64
	// FinalAmount is the converted (COP) amount, before the fixed fee.
	FinalAmount int64
	// TransactionCost is the fixed provider fee expressed in COP cents.
	TransactionCost int64
	ExchangeRate    decimal.Decimal
	ExpiresAt       time.Time
	// TotalCost = FinalAmount + TransactionCost.
	TotalCost int64
}

// QuoteValidation is the structured result of re-validating a quote, so
// callers can tell "quote does not exist / provider error" apart from
// "quote exists but is stale or mismatched".
type QuoteValidation struct {
	Valid   bool
	Expired bool
	// TotalCost is the validated COP total the payment must be created with.
	TotalCost    int64
	ExchangeRate decimal.Decimal
	ErrorMessage string
}
