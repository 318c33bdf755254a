package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sender delivers a notification to one destination.
type Sender interface {
	// Send delivers n, returning an error if the destination rejected it.
	Send(ctx context.Context, n Notification) error

	// Available reports whether the sender is configured.
	Available() bool
}

// EmailSender posts messages to a Resend-compatible email API.
type EmailSender struct {
	apiURL string
	apiKey string
	from   string
	to     string
	client *http.Client
}

// NewEmailSender creates an email sender from cfg.
func NewEmailSender(cfg Config) *EmailSender {
	apiURL := cfg.EmailAPIURL
	if apiURL == "" {
		apiURL = DefaultEmailAPIURL
	}
	return &EmailSender{
		apiURL: apiURL,
		apiKey: cfg.EmailAPIKey,
		from:   cfg.From,
		to:     cfg.To,
		client: &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)},
	}
}

// Available reports whether an API key is configured.
func (s *EmailSender) Available() bool {
	return s.apiKey != ""
}

// emailRequest is the provider's send payload.
type emailRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	ReplyTo string            `json:"reply_to,omitempty"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Text    string            `json:"text"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Send renders and posts the email for n.
func (s *EmailSender) Send(ctx context.Context, n Notification) error {
	if !s.Available() {
		return fmt.Errorf("email sender not configured")
	}

	msg, err := BuildMessage(ctx, n)
	if err != nil {
		return fmt.Errorf("building email: %w", err)
	}

	payload := emailRequest{
		From:    s.from,
		To:      []string{s.to},
		ReplyTo: n.Email,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		Headers: map[string]string{"X-Entity-Ref-ID": n.ID},
	}

	return postJSON(ctx, s.client, s.apiURL, "Bearer "+s.apiKey, payload)
}

// WebhookSender forwards submissions as JSON to an automation webhook.
type WebhookSender struct {
	url    string
	client *http.Client
}

// NewWebhookSender creates a webhook sender from cfg.
func NewWebhookSender(cfg Config) *WebhookSender {
	return &WebhookSender{
		url:    strings.TrimSpace(cfg.WebhookURL),
		client: &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)},
	}
}

// Available reports whether a webhook URL is configured.
func (s *WebhookSender) Available() bool {
	return s.url != ""
}

// webhookPayload is the body posted to the webhook.
type webhookPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Send posts n to the webhook.
func (s *WebhookSender) Send(ctx context.Context, n Notification) error {
	if !s.Available() {
		return nil
	}
	payload := webhookPayload{
		ID:        n.ID,
		Name:      n.Name,
		Email:     n.Email,
		Subject:   n.Subject,
		Message:   n.Message,
		Timestamp: n.Timestamp.Format(time.RFC3339),
	}
	return postJSON(ctx, s.client, s.url, "", payload)
}

// postJSON sends body as JSON and treats any non-2xx status as an error.
func postJSON(ctx context.Context, client *http.Client, url, authorization string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		if s := strings.TrimSpace(string(snippet)); s != "" {
			return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, s)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// noopSender is used when a destination is not configured.
type noopSender struct{}

func (noopSender) Send(context.Context, Notification) error { return nil }
func (noopSender) Available() bool                          { return false }
