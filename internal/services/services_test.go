package services_test

import (
	"testing"
	"time"

	"foodexpress/internal/models"
	"foodexpress/internal/scheduler"
	"foodexpress/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testStart = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

var (
	burger = models.Product{ID: "1", Name: "Burger Clássico", Price: decimal.RequireFromString("24.90"), ImageGlyph: "🍔"}
	pizza  = models.Product{ID: "2", Name: "Pizza Margherita", Price: decimal.RequireFromString("39.90"), ImageGlyph: "🍕"}
)

var ruaX = models.Address{Street: "Rua X", Number: "10", City: "SP"}

func newTestRegistry(t *testing.T) (*services.StorefrontRegistry, *scheduler.Manual) {
	t.Helper()
	sched := scheduler.NewManual(testStart)
	registry := services.NewStorefrontRegistry(sched, services.DefaultStorefrontConfig(), nil)
	t.Cleanup(func() { registry.CloseAll() })
	return registry, sched
}

func loggedInStorefront(t *testing.T, registry *services.StorefrontRegistry) *services.Storefront {
	t.Helper()
	sf := registry.Open()
	if _, err := sf.Session.Login("ana@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return sf
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

// MockRatingRepository is a mock implementation of repositories.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByEmail(email string) ([]models.Rating, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

// MockPublisher records published order events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(event models.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}
