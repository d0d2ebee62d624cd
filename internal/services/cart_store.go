package services

import (
	"slices"
	"sync"

	"foodexpress/internal/metrics"
	"foodexpress/internal/models"

	"github.com/shopspring/decimal"
)

// CartStore holds the line items of one session. Every mutation returns the
// updated snapshot; totals are computed from the lines on each read.
type CartStore struct {
	mu          sync.RWMutex
	lines       []models.CartLine
	deliveryFee decimal.Decimal
	metrics     *metrics.Metrics
}

// NewCartStore creates an empty cart that charges deliveryFee whenever it is non-empty.
func NewCartStore(deliveryFee decimal.Decimal, m *metrics.Metrics) *CartStore {
	return &CartStore{deliveryFee: deliveryFee, metrics: m}
}

// Add puts one unit of product in the cart.
func (s *CartStore) Add(product models.Product) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
		})
	}
	s.metrics.CartMutation("add")
	return s.snapshotLocked()
}

// Increment adds one unit to an existing line. Unknown products are ignored.
func (s *CartStore) Increment(productID string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		s.lines[i].Quantity++
		s.metrics.CartMutation("increment")
	}
	return s.snapshotLocked()
}

// Decrement removes one unit from a line and drops the line when it reaches zero.
// Unknown products are ignored.
func (s *CartStore) Decrement(productID string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		s.lines[i].Quantity--
		if s.lines[i].Quantity <= 0 {
			s.lines = slices.Delete(s.lines, i, i+1)
		}
		s.metrics.CartMutation("decrement")
	}
	return s.snapshotLocked()
}

// Remove drops a line regardless of its quantity.
func (s *CartStore) Remove(productID string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		s.lines = slices.Delete(s.lines, i, i+1)
		s.metrics.CartMutation("remove")
	}
	return s.snapshotLocked()
}

// Clear empties the cart.
func (s *CartStore) Clear() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.metrics.CartMutation("clear")
	return s.snapshotLocked()
}

// Drain empties the cart and returns what it held, in one step. An empty cart
// is returned as is.
func (s *CartStore) Drain() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	drained := s.snapshotLocked()
	if len(s.lines) > 0 {
		s.lines = nil
		s.metrics.CartMutation("clear")
	}
	return drained
}

// Refill puts drained lines back, merging quantities with lines added since.
func (s *CartStore) Refill(lines []models.CartLine) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range lines {
		if i := s.indexOf(l.ProductID); i >= 0 {
			s.lines[i].Quantity += l.Quantity
		} else {
			s.lines = append(s.lines, l)
		}
	}
	return s.snapshotLocked()
}

// Snapshot returns a copy of the lines with their derived totals.
func (s *CartStore) Snapshot() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subtotal is the sum of UnitPrice × Quantity over all lines.
func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subtotalLocked()
}

// DeliveryFee is the configured fee for a non-empty cart and zero otherwise.
func (s *CartStore) DeliveryFee() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deliveryFeeLocked()
}

// Total is Subtotal plus DeliveryFee.
func (s *CartStore) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subtotalLocked().Add(s.deliveryFeeLocked())
}

// Len returns the number of lines.
func (s *CartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

func (s *CartStore) indexOf(productID string) int {
	return slices.IndexFunc(s.lines, func(l models.CartLine) bool {
		return l.ProductID == productID
	})
}

func (s *CartStore) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range s.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (s *CartStore) deliveryFeeLocked() decimal.Decimal {
	if len(s.lines) == 0 {
		return decimal.Zero
	}
	return s.deliveryFee
}

func (s *CartStore) snapshotLocked() models.Cart {
	subtotal := s.subtotalLocked()
	fee := s.deliveryFeeLocked()
	return models.Cart{
		Lines:       slices.Clone(s.lines),
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}
}
