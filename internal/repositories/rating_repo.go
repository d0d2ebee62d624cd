package repositories

import "foodexpress/internal/models"

// RatingRepository stores submitted ratings.
type RatingRepository interface {
	Create(rating *models.Rating) error
	GetByEmail(email string) ([]models.Rating, error)
}
