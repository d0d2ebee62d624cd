package repositories

import (
	"foodexpress/internal/models"
)

// ProductRepository defines read access to the catalog plus the Create used for seeding.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
}
