package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cicero-foco/cicero/pkg/config"
)

// Client is a minimal client for the Resend email API
type Client struct {
	apiKey    string
	baseURL   string
	fromEmail string
	client    *http.Client
}

// NewClient creates a Resend client from config
func NewClient(cfg *config.ResendConfig) *Client {
	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		fromEmail: cfg.FromEmail,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SendRequest is the payload for POST /emails
type SendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendResponse is a minimal response shape
type SendResponse struct {
	ID string `json:"id"`
}

// Send delivers one HTML email to a single recipient
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	payload := SendRequest{
		From:    c.fromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/emails", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode, string(body))
	}

	var sr SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return err
	}

	return nil
}
