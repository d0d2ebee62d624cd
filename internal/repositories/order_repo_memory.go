package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/models"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
// Order IDs are only unique within a session, so records are keyed by both.
type MemoryOrderRepository struct {
	orders map[string]map[string]models.OrderRecord
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]map[string]models.OrderRecord),
	}
}

// GetBySession returns the orders of a session, newest first.
func (r *MemoryOrderRepository) GetBySession(sessionID string) ([]models.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]models.OrderRecord, 0, len(r.orders[sessionID]))
	for _, rec := range r.orders[sessionID] {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// GetByID returns one order of a session.
func (r *MemoryOrderRepository) GetByID(sessionID, id string) (*models.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.orders[sessionID][id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with ID %s", id))
	}
	return &rec, nil
}

// Create stores a new order record.
func (r *MemoryOrderRepository) Create(record *models.OrderRecord) error {
	if record.SessionID == "" || record.ID == "" {
		return fmt.Errorf("order record needs a session ID and an order ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.orders[record.SessionID] == nil {
		r.orders[record.SessionID] = make(map[string]models.OrderRecord)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
	rec := *record
	rec.Lines = append([]models.CartLine(nil), record.Lines...)
	r.orders[record.SessionID][record.ID] = rec
	return nil
}

// UpdateStatus records a status change and returns the stored record. A
// status that is not past the stored one is ignored, so the returned record
// may still hold the newer status.
func (r *MemoryOrderRepository) UpdateStatus(sessionID, id string, status models.OrderStatus) (*models.OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.orders[sessionID][id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with ID %s for status update", id))
	}
	if status.Index() <= rec.Status.Index() {
		return &rec, nil
	}
	rec.Status = status
	rec.UpdatedAt = time.Now()
	r.orders[sessionID][id] = rec
	return &rec, nil
}

// DeleteBySession forgets every order of a session.
func (r *MemoryOrderRepository) DeleteBySession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.orders, sessionID)
	return nil
}
