package services

import (
	"foodexpress/internal/models"
	"foodexpress/internal/repositories"
)

// ProductService serves the read-only catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// AddToCart puts one unit of the product with id into the cart of sf.
func (s *ProductService) AddToCart(sf *Storefront, id string) (models.Cart, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return models.Cart{}, err
	}
	return sf.Cart.Add(*product), nil
}
