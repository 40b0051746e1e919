// Package mailer sends transactional email through an HTTP email API.
// Delivery is fire-and-forget from the caller's perspective: a failed send is
// logged and never rolls back the mutation that triggered it.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Smartsoil-Media/smartsoil-api/internal/config"
)

// Mailer exposes the email operations used by the application.
type Mailer interface {
	SendInvitation(ctx context.Context, to, role, token string) error
}

// Client is a resty-backed implementation of Mailer.
type Client struct {
	httpClient *resty.Client
	from       string
	enabled    bool
}

// New builds an email client from configuration. Without an API key the
// client is disabled and SendInvitation becomes a no-op, which keeps local
// development from needing an email account.
func New(cfg config.MailerConfig) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{
		httpClient: restyClient,
		from:       cfg.FromAddress,
		enabled:    cfg.APIKey != "",
	}
}

// sendRequest is the payload for the email API's send endpoint.
type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// apiError mirrors the error payload returned by the email API.
type apiError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// SendInvitation emails a team invitation carrying the acceptance token.
func (c *Client) SendInvitation(ctx context.Context, to, role, token string) error {
	if !c.enabled {
		return nil
	}

	payload := sendRequest{
		From:    c.from,
		To:      to,
		Subject: "You've been invited to a Smartsoil farm",
		Text: fmt.Sprintf(
			"You've been invited to join a farm team as %s.\n\n"+
				"Open the app and enter this invitation code to accept: %s\n", role, token),
	}

	errBody := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(errBody).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("failed to send invitation email to %s: %w", to, err)
	}
	if resp.IsError() {
		return fmt.Errorf("email API returned %d for %s: %s", resp.StatusCode(), to, errBody.Message)
	}
	return nil
}
