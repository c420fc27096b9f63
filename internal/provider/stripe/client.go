// Package stripe is the payment-provider client. Only the payment-intent
// surface the booking workflow consumes is implemented: create and retrieve.
// The provider, not the local store, is the source of truth for intent status.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrUnavailable wraps transport-level failures (dial, timeout). These are
// retryable from the caller's point of view.
var ErrUnavailable = errors.New("payment provider unavailable")

// APIError is a non-2xx answer from the provider. 429 and 5xx are transient;
// everything else indicates a bad request and must not be retried.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripe: %d %s: %s", e.StatusCode, e.Type, e.Message)
}

func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	LatestCharge string            `json:"latest_charge"`
	Metadata     map[string]string `json:"metadata"`

	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

type CreateIntentParams struct {
	AmountMinorUnits int64
	Currency         string
	Description      string
	ReceiptEmail     string
	Metadata         map[string]string
}

type Client interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

type client struct {
	baseURL   string
	secretKey string
	logger    *logrus.Logger
	hc        *http.Client
}

func NewClient(baseURL, secretKey string, logger *logrus.Logger, hc *http.Client) Client {
	return &client{
		baseURL:   baseURL,
		secretKey: secretKey,
		logger:    logger,
		hc:        hc,
	}
}

// CreateIntent implements Client.
func (c *client) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountMinorUnits, 10))
	form.Set("currency", params.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	if params.ReceiptEmail != "" {
		form.Set("receipt_email", params.ReceiptEmail)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	return c.do(ctx, http.MethodPost, "/v1/payment_intents", strings.NewReader(form.Encode()))
}

// GetIntent implements Client.
func (c *client) GetIntent(ctx context.Context, id string) (*Intent, error) {
	return c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil)
}

func (c *client) do(ctx context.Context, method, path string, body io.Reader) (*Intent, error) {
	hr, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		hr.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	hr.Header.Set("Authorization", "Bearer "+c.secretKey)

	hresp, err := c.hc.Do(hr)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Error("stripe request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Error("stripe response read failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: hresp.StatusCode}
		var wrapper struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &wrapper); err == nil {
			apiErr.Type = wrapper.Error.Type
			apiErr.Message = wrapper.Error.Message
		}
		c.logger.WithContext(ctx).WithField("status", hresp.StatusCode).WithError(apiErr).Error("stripe api error")
		return nil, apiErr
	}

	var intent Intent
	if err := json.Unmarshal(respBody, &intent); err != nil {
		c.logger.WithContext(ctx).WithError(err).Error("stripe response decode failed")
		return nil, err
	}
	return &intent, nil
}
