package contact

import (
	"context"
	"log"
	"time"

	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
	"github.com/davido-builds/openicons-site/internal/notify"
)

// Dispatcher delivers accepted submissions.
type Dispatcher interface {
	Dispatch(ctx context.Context, n notify.Notification) error
}

// Config holds contact pipeline settings.
type Config struct {
	// RateLimit is the number of submissions per client per window (default: 3).
	RateLimit int `yaml:"contact_rate_limit" json:"contact_rate_limit" koanf:"contact_rate_limit" validate:"gt=0"`
	// RateWindow is the rate limit window (default: 1h).
	RateWindow time.Duration `yaml:"contact_rate_window" json:"contact_rate_window" koanf:"contact_rate_window" validate:"gt=0"`
}

// Service runs submissions through the contact pipeline.
type Service struct {
	limiter    *RateLimiter
	dispatcher Dispatcher
	now        func() time.Time
}

// NewService creates a Service delivering through dispatcher.
func NewService(cfg Config, dispatcher Dispatcher) *Service {
	return &Service{
		limiter:    NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Limiter exposes the service's rate limiter.
func (s *Service) Limiter() *RateLimiter {
	return s.limiter
}

// Submit processes one submission from clientKey. The steps run in order
// and the first failure ends the request:
//
//  1. rate limit (RateLimit error)
//  2. honeypot (acknowledged, not delivered)
//  3. field validation and spam screening (Validation error)
//  4. delivery (Delivery error if the email fails)
func (s *Service) Submit(ctx context.Context, clientKey string, sub Submission) (Result, error) {
	if !s.limiter.Allow(clientKey) {
		log.Printf("[contact] rate limit exceeded for %s", clientKey)
		return Result{}, siteerrors.RateLimited()
	}

	if sub.IsBot() {
		log.Printf("[contact] honeypot filled by %s, dropping submission", clientKey)
		return Result{Dropped: true}, nil
	}

	sub = sub.Trimmed()
	if err := Validate(sub); err != nil {
		return Result{}, err
	}

	n := notify.NewNotification(sub.Name, sub.Email, sub.Subject, sub.Message, s.now())
	log.Printf("[contact] accepted submission %s from %s", n.ID, clientKey)

	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		return Result{}, err
	}
	return Result{ID: n.ID}, nil
}
