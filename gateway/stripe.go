// Package gateway holds the HTTP clients for the payment providers and the
// video host.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

type PaymentIntentRequest struct {
	AmountCents     int64
	Currency        string
	PaymentMethodID string
	Description     string
	Metadata        map[string]string
}

type PaymentIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (p *PaymentIntent) Succeeded() bool { return p.Status == "succeeded" }

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type Stripe struct {
	client *resty.Client
}

// NewStripe returns a client for the Stripe REST API rooted at baseURL
func NewStripe(baseURL, secretKey string, timeout time.Duration) *Stripe {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(timeout)
	return &Stripe{client: client}
}

// CreatePaymentIntent creates and confirms a payment intent in one call
func (s *Stripe) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	form := map[string]string{
		"amount":         strconv.FormatInt(req.AmountCents, 10),
		"currency":       req.Currency,
		"payment_method": req.PaymentMethodID,
		"confirm":        "true",
		"description":    req.Description,
	}
	for k, v := range req.Metadata {
		form[fmt.Sprintf("metadata[%s]", k)] = v
	}

	var intent PaymentIntent
	var failure apiError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&intent).
		SetError(&failure).
		Post("/payment_intents")
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	if resp.IsError() {
		if failure.Error.Message != "" {
			return nil, errors.New(failure.Error.Message)
		}
		return nil, fmt.Errorf("stripe returned status %d", resp.StatusCode())
	}
	return &intent, nil
}
