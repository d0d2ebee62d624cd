package repositories

import (
	"foodexpress/internal/models"
)

// OrderRepository keeps the order history of every session for the life of the process.
// UpdateStatus only moves a record forward through the status table.
type OrderRepository interface {
	GetBySession(sessionID string) ([]models.OrderRecord, error)
	GetByID(sessionID, id string) (*models.OrderRecord, error)
	Create(record *models.OrderRecord) error
	UpdateStatus(sessionID, id string, status models.OrderStatus) (*models.OrderRecord, error)
	DeleteBySession(sessionID string) error
}
