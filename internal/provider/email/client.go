// Package email is the notification-provider client. Transient failures
// (timeouts, 429, 5xx) are distinguished from permanent rejections so the
// dispatcher can retry only what is worth retrying.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

var ErrUnavailable = errors.New("notification provider unavailable")

type SendError struct {
	StatusCode int
	Message    string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("email: %d: %s", e.StatusCode, e.Message)
}

func (e *SendError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Message struct {
	To     string            `json:"to"`
	ToName string            `json:"to_name"`
	Fields map[string]string `json:"template_fields"`
}

type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

type client struct {
	baseURL string
	apiKey  string
	logger  *logrus.Logger
	hc      *http.Client
}

func NewClient(baseURL, apiKey string, logger *logrus.Logger, hc *http.Client) Sender {
	return &client{
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
		hc:      hc,
	}
}

// Send implements Sender.
func (c *client) Send(ctx context.Context, msg Message) (Result, error) {
	reqBuff, _ := json.Marshal(msg)

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/send", bytes.NewBuffer(reqBuff))
	if err != nil {
		return Result{}, err
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Authorization", "Bearer "+c.apiKey)

	hresp, err := c.hc.Do(hr)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Error("email request failed")
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Error("email response read failed")
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		sendErr := &SendError{StatusCode: hresp.StatusCode, Message: string(respBody)}
		c.logger.WithContext(ctx).WithField("status", hresp.StatusCode).Error("email api error")
		return Result{}, sendErr
	}

	var res Result
	if err := json.Unmarshal(respBody, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}
