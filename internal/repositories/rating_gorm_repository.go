package repositories

import (
	"fmt"
	"time"

	"foodexpress/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{db: db}
}

// Create stores a rating, assigning its ID and timestamp when missing.
func (r *GORMRatingRepository) Create(rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}
	if err := r.db.Create(rating).Error; err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// GetByEmail returns the ratings submitted by email, newest first.
func (r *GORMRatingRepository) GetByEmail(email string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Where("email = ?", email).Order("created_at desc").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to get ratings for %s: %w", email, err)
	}
	return ratings, nil
}
