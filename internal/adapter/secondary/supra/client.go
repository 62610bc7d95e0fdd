package supra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/output"
)

const defaultTimeout = 10 * time.Second

// Config carries the provider credentials and endpoints, fixed for the
// process lifetime and handed to the client at construction.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// RedirectURL is the confirmation page the payer is sent back to;
	// the order id is appended as a query parameter.
	RedirectURL string
	Timeout     time.Duration
}

// Client is a secondary adapter implementing the ExchangeProvider output
// port against the Supra API. Every call authenticates via a fresh bearer
// token: a deliberate simplicity-over-throughput choice, and the client is
// the single error-mapping boundary for provider calls.
type Client struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// NewClient creates a new Supra client
func NewClient(cfg Config, logger zerolog.Logger) output.ExchangeProvider {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "supra_client").Logger(),
	}
}

// callOptions tweak the error mapping for endpoint quirks
type callOptions struct {
	// notFoundOn500 marks endpoints where the provider signals absence with
	// a generic server error instead of a 404.
	notFoundOn500 bool
}

// token performs the token exchange. Tokens are not cached across calls.
func (c *Client) token(ctx context.Context) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/token", "", authRequest{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
	}, &resp, callOptions{})
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// authenticatedCall obtains a bearer token and performs the request,
// decoding the JSON response into out.
func (c *Client) authenticatedCall(ctx context.Context, method, path string, body, out any, opts callOptions) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, body, out, opts)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any, opts callOptions) error {
	var reqBody io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-TYPE", "public")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		if opts.notFoundOn500 && resp.StatusCode == http.StatusInternalServerError {
			return fmt.Errorf("%w: %s %s", core.ErrProviderNotFound, method, path)
		}

		var apiErr errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return fmt.Errorf("%w: %s", core.ErrProviderRejected, apiErr.Message)
		}
		return fmt.Errorf("%w: status %d", core.ErrProviderRejected, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: invalid response body: %v", core.ErrProviderRejected, err)
		}
	}
	return nil
}

// logCall emits per-call records in the shape operation/duration/status
func (c *Client) logCall(operation string, start time.Time, err error) {
	evt := c.logger.Info()
	status := "success"
	if err != nil {
		evt = c.logger.Error().Err(err)
		status = "error"
	}
	evt.Str("operation", operation).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Str("status", status).
		Msg("supra call")
}

// CreateQuote requests a USD->COP quote for an amount in USD cents
func (c *Client) CreateQuote(ctx context.Context, amountUsd int64) (quote *core.Quote, err error) {
	start := time.Now()
	defer func() { c.logCall("create_quote", start, err) }()

	var resp quoteCreateResponse
	err = c.authenticatedCall(ctx, http.MethodPost, "/v1/exchange/quote", quoteCreateRequest{
		InitialCurrency:      "USD",
		FinalCurrency:        "COP",
		InitialAmount:        amountUsd,
		CustomExpirationTime: 60,
	}, &resp, callOptions{})
	if err != nil {
		return nil, err
	}

	return toQuote(&resp, time.Now()), nil
}

// GetQuoteByID reads a quote back from the provider for re-validation
func (c *Client) GetQuoteByID(ctx context.Context, quoteID string) (quote *core.Quote, err error) {
	start := time.Now()
	defer func() { c.logCall("get_quote_by_id", start, err) }()

	var resp quoteByIDResponse
	err = c.authenticatedCall(ctx, http.MethodGet, "/v1/exchange/quote/"+url.PathEscape(quoteID), nil, &resp, callOptions{})
	if err != nil {
		return nil, err
	}

	quote, err = toQuoteFromByID(&resp)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed quote %s: %v", core.ErrProviderRejected, quoteID, err)
	}
	return quote, nil
}

// CreatePayment creates a provider payment for the validated COP total
func (c *Client) CreatePayment(ctx context.Context, payer core.PayerData, quoteID string, orderID uuid.UUID, totalCostCop int64) (payment *core.Payment, err error) {
	start := time.Now()
	defer func() { c.logCall("create_payment", start, err) }()

	var resp paymentCreateResponse
	err = c.authenticatedCall(ctx, http.MethodPost, "/v1/payin/payment", paymentCreateRequest{
		Currency:     "COP",
		Amount:       totalCostCop,
		ReferenceID:  uuid.NewString(),
		DocumentType: string(payer.DocumentType),
		Email:        payer.Email,
		CellPhone:    payer.CellPhone,
		Document:     payer.Document,
		FullName:     payer.FullName,
		Description:  "Collection Payment",
		RedirectURL:  fmt.Sprintf("%s?orderId=%s", c.cfg.RedirectURL, orderID),
		QuoteID:      quoteID,
	}, &resp, callOptions{})
	if err != nil {
		return nil, err
	}

	return toPayment(&resp), nil
}

// GetPaymentStatus fetches provider-side payment status. Absence is signaled
// by this endpoint with a generic 500, normalized to ErrProviderNotFound.
func (c *Client) GetPaymentStatus(ctx context.Context, paymentID string) (detail *core.PaymentDetail, err error) {
	start := time.Now()
	defer func() { c.logCall("get_payment_status", start, err) }()

	var resp paymentStatusResponse
	err = c.authenticatedCall(ctx, http.MethodGet, "/v1/payin/payment/"+url.PathEscape(paymentID), nil, &resp, callOptions{notFoundOn500: true})
	if err != nil {
		return nil, err
	}

	return toPaymentDetail(&resp), nil
}

// GetBalances fetches available funds per currency
func (c *Client) GetBalances(ctx context.Context) (balance *core.Balance, err error) {
	start := time.Now()
	defer func() { c.logCall("get_balances", start, err) }()

	var resp []balanceItem
	err = c.authenticatedCall(ctx, http.MethodGet, "/v1/payout/user/balances", nil, &resp, callOptions{})
	if err != nil {
		return nil, err
	}

	return toBalance(resp), nil
}
