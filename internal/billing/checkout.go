// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CheckoutClient creates hosted checkout sessions at the payment
// provider. The user's id travels in custom data and comes back through
// webhook events.
type CheckoutClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewCheckoutClient(apiKey, baseURL string) *CheckoutClient {
	if baseURL == "" {
		baseURL = "https://api.lemonsqueezy.com/v1"
	}
	return &CheckoutClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type checkoutRequest struct {
	VariantID string            `json:"variant_id"`
	Email     string            `json:"email"`
	Custom    map[string]string `json:"custom"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// Create returns the hosted checkout URL for a user upgrading to the
// given plan variant.
func (c *CheckoutClient) Create(ctx context.Context, userID uuid.UUID, email, variantID string) (string, error) {
	payload, err := json.Marshal(checkoutRequest{
		VariantID: variantID,
		Email:     email,
		Custom:    map[string]string{"user_id": userID.String()},
	})
	if err != nil {
		return "", fmt.Errorf("billing: marshal checkout: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkouts", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("billing: checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("billing: checkout http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("billing: read checkout body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("billing: checkout rejected (status %d): %s", resp.StatusCode, string(body))
	}

	var out checkoutResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("billing: parse checkout: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("billing: checkout response has no url")
	}

	return out.URL, nil
}
