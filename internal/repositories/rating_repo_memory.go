package repositories

import (
	"sort"
	"sync"
	"time"

	"foodexpress/internal/models"

	"github.com/google/uuid"
)

// MemoryRatingRepository is an in-memory implementation of RatingRepository.
type MemoryRatingRepository struct {
	ratings []models.Rating
	mu      sync.RWMutex
}

// NewMemoryRatingRepository creates a new instance of MemoryRatingRepository.
func NewMemoryRatingRepository() *MemoryRatingRepository {
	return &MemoryRatingRepository{}
}

// Create stores a rating, assigning its ID and timestamp when missing.
func (r *MemoryRatingRepository) Create(rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings = append(r.ratings, *rating)
	return nil
}

// GetByEmail returns the ratings submitted by email, newest first.
func (r *MemoryRatingRepository) GetByEmail(email string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Rating
	for _, rt := range r.ratings {
		if rt.Email == email {
			out = append(out, rt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
