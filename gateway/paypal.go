package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type PayPalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (o *PayPalOrder) Completed() bool { return o.Status == "COMPLETED" }

type PayPal struct {
	client   *resty.Client
	clientID string
	secret   string
}

func NewPayPal(baseURL, clientID, secret string, timeout time.Duration) *PayPal {
	return &PayPal{
		client:   resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		clientID: clientID,
		secret:   secret,
	}
}

func (p *PayPal) accessToken(ctx context.Context) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetBasicAuth(p.clientID, p.secret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&out).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("paypal auth failed: %w", err)
	}
	if resp.IsError() || out.AccessToken == "" {
		return "", fmt.Errorf("paypal auth failed with status %d", resp.StatusCode())
	}
	return out.AccessToken, nil
}

// GetOrder looks up a checkout order so its capture status can be verified
func (p *PayPal) GetOrder(ctx context.Context, orderID string) (*PayPalOrder, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var order PayPalOrder
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("id", orderID).
		SetResult(&order).
		Get("/v2/checkout/orders/{id}")
	if err != nil {
		return nil, fmt.Errorf("paypal order lookup failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("paypal order %s: status %d", orderID, resp.StatusCode())
	}
	return &order, nil
}
