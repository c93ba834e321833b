package stripeclient

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
)

// Customer is the subset of the Stripe customer object we read back.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// PaymentIntent is the subset of the Stripe payment intent object we use.
type PaymentIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client talks to the Stripe REST API. Stripe expects form-encoded
// request bodies, not JSON.
type Client struct {
	http *req.Client
}

func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}
	return &Client{
		http: req.C().
			SetBaseURL(baseURL).
			SetCommonBearerAuthToken(secretKey).
			SetTimeout(30 * time.Second),
	}
}

func (c *Client) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	var out Customer
	if err := c.post(ctx, "/customers", map[string]string{
		"email": email,
		"name":  name,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePaymentIntent creates an intent for the given amount in the smallest
// currency unit. Metadata keys are flattened into metadata[key] form fields.
func (c *Client) CreatePaymentIntent(ctx context.Context, customerID string, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	form := map[string]string{
		"amount":   fmt.Sprintf("%d", amount),
		"currency": currency,
		"customer": customerID,
	}
	for k, v := range metadata {
		form[fmt.Sprintf("metadata[%s]", k)] = v
	}

	var out PaymentIntent
	if err := c.post(ctx, "/payment_intents", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	var out PaymentIntent
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&out).
		SetErrorResult(&apiErr).
		Get("/payment_intents/" + id)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	if resp.IsErrorState() {
		return nil, fmt.Errorf("stripe api error: %s", apiErr.Error.Message)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, form map[string]string, out any) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetSuccessResult(out).
		SetErrorResult(&apiErr).
		Post(path)
	if err != nil {
		return fmt.Errorf("stripe request: %w", err)
	}
	if resp.IsErrorState() {
		return fmt.Errorf("stripe api error: %s", apiErr.Error.Message)
	}
	return nil
}
