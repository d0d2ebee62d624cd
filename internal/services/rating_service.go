package services

import (
	"foodexpress/internal/apperrors"
	"foodexpress/internal/metrics"
	"foodexpress/internal/models"
	"foodexpress/internal/repositories"
	"foodexpress/internal/scheduler"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RatingService stores the feedback left on the rating form.
type RatingService struct {
	repo    repositories.RatingRepository
	clock   scheduler.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewRatingService creates a new RatingService.
func NewRatingService(repo repositories.RatingRepository, clock scheduler.Clock, logger *zap.Logger, m *metrics.Metrics) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{repo: repo, clock: clock, logger: logger, metrics: m}
}

// Submit records a rating from the logged-in customer of sf, linked to the
// active order when there is one.
func (s *RatingService) Submit(sf *Storefront, stars int, comment string) (*models.Rating, error) {
	rating := &models.Rating{
		ID:        uuid.NewString(),
		Email:     sf.Session.Snapshot().Email(),
		Stars:     stars,
		Comment:   comment,
		CreatedAt: s.clock.Now(),
	}
	if order, ok := sf.Orders.Snapshot(); ok {
		rating.OrderID = order.ID
	}
	if err := rating.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(rating); err != nil {
		return nil, apperrors.NewInternalError("failed to save rating", err)
	}

	s.metrics.RatingSubmitted(stars)
	s.logger.Info("rating submitted",
		zap.String("email", rating.Email),
		zap.String("order_id", rating.OrderID),
		zap.Int("stars", stars),
	)
	return rating, nil
}

// List returns the ratings left by the logged-in customer of sf.
func (s *RatingService) List(sf *Storefront) ([]models.Rating, error) {
	ratings, err := s.repo.GetByEmail(sf.Session.Snapshot().Email())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load ratings", err)
	}
	return ratings, nil
}
