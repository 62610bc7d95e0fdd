package core

import "time"

// PaymentStatus represents the provider-side status of a payment
type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "CREATED"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
	PaymentStatusExpired PaymentStatus = "EXPIRED"
)

// DocumentType is a Colombian identity document type accepted by the provider
type DocumentType string

const (
	DocumentTypeCC  DocumentType = "CC"
	DocumentTypeNIT DocumentType = "NIT"
	DocumentTypeCE  DocumentType = "CE"
	DocumentTypePA  DocumentType = "PA"
)

// IsValid reports whether the document type is one the provider accepts
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentTypeCC, DocumentTypeNIT, DocumentTypeCE, DocumentTypePA:
		return true
	}
	return false
}

// PayerData is the payer identity passed through to the provider
type PayerData struct {
	FullName     string
	DocumentType DocumentType
	Document     string
	Email        string
	CellPhone    string
}

// Payment is a provider-side payment resource tied 1:1 to a quote.
// Its status transitions happen provider-side and are observed via polling.
type Payment struct {
	PaymentID   string
	QuoteID     string
	UserID      string
	PaymentLink string
	Status      PaymentStatus
}

// PaymentDetail is a point-in-time read of a provider payment.
// Amount is in COP cents: the provider reports major units and the supra
// mapper is the single place the major-to-minor conversion happens.
type PaymentDetail struct {
	PaymentID string
	Status    PaymentStatus
	Amount    int64
	Currency  string
	FullName  string
	Email     string
	CreatedAt time.Time
}

// Balance is a point-in-time read of available funds per currency, in cents.
// Never persisted, always fetched fresh from the provider.
type Balance struct {
	Usd int64
	Cop int64
}
