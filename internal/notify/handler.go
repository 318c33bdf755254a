package notify

import (
	"context"
	"log"

	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
)

// Handler dispatches accepted submissions. The email send is required; the
// webhook is best-effort and skipped when not configured.
type Handler struct {
	config  Config
	email   Sender
	webhook Sender
}

// NewHandler creates a handler with senders built from config.
func NewHandler(config Config) *Handler {
	return &Handler{
		config:  config,
		email:   NewEmailSender(config),
		webhook: NewWebhookSender(config),
	}
}

// NewHandlerWithSenders creates a handler with custom senders (for testing).
// A nil sender is treated as not configured.
func NewHandlerWithSenders(config Config, email, webhook Sender) *Handler {
	if email == nil {
		email = noopSender{}
	}
	if webhook == nil {
		webhook = noopSender{}
	}
	return &Handler{config: config, email: email, webhook: webhook}
}

// Config returns the handler's delivery configuration.
func (h *Handler) Config() Config {
	return h.config
}

// Dispatch sends the email and then forwards to the webhook.
// Only an email failure is returned, as a Delivery *errors.Error.
func (h *Handler) Dispatch(ctx context.Context, n Notification) error {
	if err := h.email.Send(ctx, n); err != nil {
		log.Printf("[notify] email send failed for %s: %v", n.ID, err)
		return siteerrors.SendFailed(err)
	}
	log.Printf("[notify] email sent for %s", n.ID)

	h.forward(ctx, n)
	return nil
}

// forward posts to the webhook. Failures are logged only.
func (h *Handler) forward(ctx context.Context, n Notification) {
	if !h.webhook.Available() {
		return
	}

	// Client cancellation does not abort the webhook once the email is sent.
	ctx = context.WithoutCancel(ctx)
	if err := h.webhook.Send(ctx, n); err != nil {
		log.Printf("[notify] webhook failed for %s: %v", n.ID, err)
		return
	}
	log.Printf("[notify] webhook delivered for %s", n.ID)
}
