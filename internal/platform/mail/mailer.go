// Package mail sends account notification emails through the Mailtrap
// send API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"accounts_backend/internal/platform/config"
	phttp "accounts_backend/internal/platform/http"
)

const defaultSendURL = "https://send.api.mailtrap.io/api/send"

// Client は通知メールを送信するHTTPクライアントです。
type Client struct {
	apiToken    string
	sendURL     string
	from        address
	frontendURL string
	client      *http.Client
}

type message struct {
	From    address   `json:"from"`
	To      []address `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text,omitempty"`
	HTML    string    `json:"html,omitempty"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	Message message `json:"message"`
}

// NewClient creates a mail client from the mail configuration.
func NewClient(cfg config.MailConfig) *Client {
	return &Client{
		apiToken:    cfg.APIToken,
		sendURL:     defaultSendURL,
		from:        address{Email: cfg.FromEmail, Name: cfg.FromName},
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		client:      phttp.NewHTTPClient(30 * time.Second),
	}
}

// SendVerificationEmail sends the initial account verification email.
// The phone number is echoed back so the user can spot a registration
// they did not make.
func (c *Client) SendVerificationEmail(ctx context.Context, name, email, token, phone string) error {
	verifyURL := fmt.Sprintf("%s/auth/verify/%s", c.frontendURL, token)

	html := fmt.Sprintf(`
		<h2>Confirm your account</h2>
		<p>Hello %s,</p>
		<p>Your account is almost ready. Confirm it by clicking the link below:</p>
		<p><a href="%s">Confirm account</a></p>
		<p>Registered phone: %s</p>
		<p>If you didn't create this account, please ignore this email.</p>
	`, name, verifyURL, phone)

	text := fmt.Sprintf(`Hello %s,

Confirm your account by opening this URL in your browser:
%s

Registered phone: %s

If you didn't create this account, please ignore this email.
`, name, verifyURL, phone)

	return c.send(ctx, email, name, "Confirm your account", html, text)
}

// SendPasswordResetEmail sends the password reset instructions email.
func (c *Client) SendPasswordResetEmail(ctx context.Context, name, email, token string) error {
	resetURL := fmt.Sprintf("%s/auth/forgot-password/%s", c.frontendURL, token)

	html := fmt.Sprintf(`
		<h2>Reset your password</h2>
		<p>Hello %s,</p>
		<p>You requested a password reset. Use the link below to choose a new password:</p>
		<p><a href="%s">Reset password</a></p>
		<p>If you didn't request this, please ignore this email.</p>
	`, name, resetURL)

	text := fmt.Sprintf(`Hello %s,

You requested a password reset. Open this URL in your browser to choose a new password:
%s

If you didn't request this, please ignore this email.
`, name, resetURL)

	return c.send(ctx, email, name, "Reset your password", html, text)
}

// send posts a single message to the Mailtrap send API.
func (c *Client) send(ctx context.Context, toEmail, toName, subject, html, text string) error {
	body := sendRequest{
		Message: message{
			From:    c.from,
			To:      []address{{Email: toEmail, Name: toName}},
			Subject: subject,
			HTML:    html,
			Text:    text,
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}
