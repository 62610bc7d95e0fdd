package supra

import "github.com/shopspring/decimal"

// Wire types for the Supra API. Amounts tagged "factor 100" are scale-100
// integers; the quote-by-id endpoint returns its amounts as strings, so those
// fields decode through decimal.Decimal which accepts both encodings.

type authRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type authResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

type quoteCreateRequest struct {
	InitialCurrency      string `json:"initialCurrency"`
	FinalCurrency        string `json:"finalCurrency"`
	InitialAmount        int64  `json:"initialAmount"` // factor 100
	CustomExpirationTime int    `json:"customExpirationTime"`
}

type quoteCreateResponse struct {
	ID                  string          `json:"id"`
	CreatedAt           string          `json:"createdAt"`
	ExpiresAt           string          `json:"expiresAt"`
	InitialAmount       int64           `json:"initialAmount"` // factor 100
	InitialCurrency     string          `json:"initialCurrency"`
	FinalAmount         int64           `json:"finalAmount"` // factor 100, fee excluded
	FinalCurrency       string          `json:"finalCurrency"`
	ExchangeRate        decimal.Decimal `json:"exchangeRate"`
	InverseExchangeRate decimal.Decimal `json:"inverseExchangeRate"`
}

type quoteByIDResponse struct {
	ID              string          `json:"id"`
	CreatedAt       string          `json:"createdAt"`
	ExpiresAt       string          `json:"expiresAt"`
	InitialAmount   decimal.Decimal `json:"initialAmount"` // string on the wire
	InitialCurrency string          `json:"initialCurrency"`
	FinalAmount     decimal.Decimal `json:"finalAmount"` // string on the wire
	FinalCurrency   string          `json:"finalCurrency"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
}

type paymentCreateRequest struct {
	Currency     string `json:"currency"`
	Amount       int64  `json:"amount"` // factor 100
	ReferenceID  string `json:"referenceId"`
	DocumentType string `json:"documentType"`
	Email        string `json:"email"`
	CellPhone    string `json:"cellPhone"`
	Document     string `json:"document"`
	FullName     string `json:"fullName"`
	Description  string `json:"description"`
	RedirectURL  string `json:"redirectUrl"`
	QuoteID      string `json:"quoteId"`
}

type paymentCreateResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	QuoteID     string `json:"quoteId"`
	PaymentLink string `json:"paymentLink"`
	Status      string `json:"status"`
}

type paymentStatusResponse struct {
	ID        string          `json:"id"`
	QuoteID   string          `json:"quoteId"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"` // major units, NOT factor 100
	Currency  string          `json:"currency"`
	FullName  string          `json:"fullName"`
	Email     string          `json:"email"`
	CreatedAt string          `json:"createdAt"`
}

type balanceItem struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}
