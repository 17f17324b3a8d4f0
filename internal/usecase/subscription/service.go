package subscription

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	rateLimitKeyPrefix = "subscribe:"
	rateLimitMax       = 5
	rateLimitWindow    = time.Minute
)

// RateLimiter throttles repeated subscribe attempts per email
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Result carries the outcome of a subscribe or unsubscribe attempt
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service manages the notification list
type Service interface {
	Subscribe(ctx context.Context, email string) (*Result, error)
	Unsubscribe(ctx context.Context, email string) (*Result, error)
	CountActive(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	subscriberRepo repositories.SubscriberRepository
	limiter        RateLimiter
	logger         *zap.Logger
}

// NewService creates a subscription service
func NewService(
	subscriberRepo repositories.SubscriberRepository,
	limiter RateLimiter,
	logger *zap.Logger,
) Service {
	return &subscriptionService{
		subscriberRepo: subscriberRepo,
		limiter:        limiter,
		logger:         logger,
	}
}

// Subscribe adds an email to the notification list, reactivating it when it
// unsubscribed earlier
func (s *subscriptionService) Subscribe(ctx context.Context, email string) (*Result, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	if !emailRe.MatchString(normalized) {
		return &Result{Success: false, Message: "Invalid email format"}, nil
	}

	allowed, err := s.limiter.Allow(ctx, rateLimitKeyPrefix+normalized, rateLimitMax, rateLimitWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if s.logger != nil {
			s.logger.Warn("⏳ Subscribe rate limit hit", zap.String("email", normalized))
		}
		return &Result{Success: false, Message: "Too many attempts. Please try again in a minute."}, nil
	}

	existing, err := s.subscriberRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.IsActive() {
			return &Result{Success: true, Message: "Already subscribed"}, nil
		}
		if err := s.subscriberRepo.UpdateStatus(ctx, existing.ID, entities.SubscriberStatusActive); err != nil {
			return nil, err
		}
		if s.logger != nil {
			s.logger.Info("🔁 Subscription reactivated", zap.String("email", normalized))
		}
		return &Result{Success: true, Message: "Subscription reactivated"}, nil
	}

	subscriber := entities.NewSubscriber(normalized)
	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✉️ New subscriber", zap.String("email", normalized))
	}
	return &Result{Success: true, Message: "Successfully subscribed"}, nil
}

// Unsubscribe removes an email from the notification list. Unknown addresses
// are treated as a successful no-op so unsubscribe links never error.
func (s *subscriptionService) Unsubscribe(ctx context.Context, email string) (*Result, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	existing, err := s.subscriberRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return &Result{Success: true, Message: "Email not found"}, nil
	}
	if !existing.IsActive() {
		return &Result{Success: true, Message: "Already unsubscribed"}, nil
	}

	if err := s.subscriberRepo.UpdateStatus(ctx, existing.ID, entities.SubscriberStatusUnsubscribed); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("👋 Subscriber opted out", zap.String("email", normalized))
	}
	return &Result{Success: true, Message: "Successfully unsubscribed"}, nil
}

// CountActive returns the number of active subscribers for landing page stats
func (s *subscriptionService) CountActive(ctx context.Context) (int64, error) {
	return s.subscriberRepo.CountActive(ctx)
}
