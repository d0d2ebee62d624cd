package services

import (
	"encoding/binary"
	"strconv"
	"strings"
	"sync"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/models"
	"foodexpress/internal/scheduler"

	"github.com/google/uuid"
)

const (
	orderIDLength = 6
	orderIDSpace  = 2176782336 // 36^6
)

// OrderSimulator owns at most one active order and moves it through the fixed
// status table. It has no notion of time beyond stamping orders; autonomous
// progression is the OrderTracker's job.
type OrderSimulator struct {
	mu     sync.RWMutex
	active *models.Order
	issued map[string]struct{}
	clock  scheduler.Clock
}

// NewOrderSimulator creates a simulator with no active order.
func NewOrderSimulator(clock scheduler.Clock) *OrderSimulator {
	return &OrderSimulator{
		issued: make(map[string]struct{}),
		clock:  clock,
	}
}

// Start creates a new order in the preparing state. An order that is still
// active is replaced.
func (s *OrderSimulator) Start(address models.Address, payment models.PaymentMethod) (models.Order, error) {
	if err := address.Validate(); err != nil {
		return models.Order{}, err
	}
	if _, err := models.ParsePaymentMethod(string(payment)); err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.active = &models.Order{
		ID:        s.nextIDLocked(),
		Status:    models.StatusPreparing,
		Address:   address,
		Payment:   payment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return *s.active, nil
}

// Advance moves the active order to the next status. A delivered order stays delivered.
func (s *OrderSimulator) Advance() (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return models.Order{}, apperrors.ErrNoActiveOrder
	}
	if next := s.active.Status.Next(); next != s.active.Status {
		s.active.Status = next
		s.active.UpdatedAt = s.clock.Now()
	}
	return *s.active, nil
}

// AdvanceTo advances orderID one step at a time until it reaches target. It
// does nothing when orderID is no longer the active order or is already at or
// past target. Every intermediate state is returned in order.
func (s *OrderSimulator) AdvanceTo(orderID string, target models.OrderStatus) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.ID != orderID || !target.IsValid() {
		return nil
	}

	var steps []models.Order
	for s.active.Status.Index() < target.Index() {
		s.active.Status = s.active.Status.Next()
		s.active.UpdatedAt = s.clock.Now()
		steps = append(steps, *s.active)
	}
	return steps
}

// Restore undoes the Start that created orderID, making previous the active
// order again, or leaving no active order when ok is false. It does nothing
// once orderID is no longer active.
func (s *OrderSimulator) Restore(orderID string, previous models.Order, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.ID != orderID {
		return
	}
	if !ok {
		s.active = nil
		return
	}
	prev := previous
	s.active = &prev
}

// Reset discards the active order.
func (s *OrderSimulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
}

// Snapshot returns a copy of the active order.
func (s *OrderSimulator) Snapshot() (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return models.Order{}, false
	}
	return *s.active, true
}

// nextIDLocked returns a short uppercase alphanumeric id not yet issued by this simulator.
func (s *OrderSimulator) nextIDLocked() string {
	for {
		id := newOrderID()
		if _, taken := s.issued[id]; !taken {
			s.issued[id] = struct{}{}
			return id
		}
	}
}

func newOrderID() string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8]) % orderIDSpace
	id := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(id) < orderIDLength {
		id = strings.Repeat("0", orderIDLength-len(id)) + id
	}
	return id
}
