package services

import (
	"foodexpress/internal/apperrors"
	"foodexpress/internal/metrics"
	"foodexpress/internal/models"
	"foodexpress/internal/repositories"
	"foodexpress/internal/scheduler"

	"go.uber.org/zap"
)

// OrderEventPublisher delivers order events to interested consumers.
type OrderEventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// OrderService runs checkout and keeps the order history in step with the
// simulator of each storefront.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher OrderEventPublisher
	clock     scheduler.Clock
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, publisher OrderEventPublisher, clock scheduler.Clock, logger *zap.Logger, m *metrics.Metrics) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   m,
	}
}

// Checkout turns the cart of sf into a new order, empties the cart and starts
// tracking the order. On failure the cart and the previously active order are
// left as they were.
func (s *OrderService) Checkout(sf *Storefront, address models.Address, payment models.PaymentMethod) (*models.OrderRecord, error) {
	var (
		record *models.OrderRecord
		err    error
	)
	sf.Tracker.Step(func() {
		record, err = s.checkout(sf, address, payment)
	})
	return record, err
}

func (s *OrderService) checkout(sf *Storefront, address models.Address, payment models.PaymentMethod) (*models.OrderRecord, error) {
	cart := sf.Cart.Drain()
	if cart.IsEmpty() {
		return nil, apperrors.NewValidationError("cart is empty")
	}

	previous, hadPrevious := sf.Orders.Snapshot()
	order, err := sf.Orders.Start(address, payment)
	if err != nil {
		sf.Cart.Refill(cart.Lines)
		return nil, err
	}

	record := &models.OrderRecord{
		Order:     order,
		SessionID: sf.ID,
		Email:     sf.Session.Snapshot().Email(),
		Lines:     cart.Lines,
		Subtotal:  cart.Subtotal,
		Total:     cart.Total,
	}
	if err := s.orderRepo.Create(record); err != nil {
		sf.Orders.Restore(order.ID, previous, hadPrevious)
		sf.Cart.Refill(cart.Lines)
		return nil, apperrors.NewInternalError("failed to record order", err)
	}

	sf.Tracker.Track(order)

	s.metrics.OrderStarted(string(order.Payment))
	s.logger.Info("order started",
		zap.String("session_id", sf.ID),
		zap.String("order_id", order.ID),
		zap.String("payment", string(order.Payment)),
		zap.String("total", record.Total.StringFixed(2)),
	)
	s.publish(*record)
	return record, nil
}

// Advance moves the active order one step forward by hand.
func (s *OrderService) Advance(sf *Storefront) (models.Order, error) {
	var (
		order models.Order
		err   error
	)
	sf.Tracker.Step(func() {
		before, _ := sf.Orders.Snapshot()
		order, err = sf.Orders.Advance()
		if err == nil && (order.ID != before.ID || order.Status != before.Status) {
			s.recordTransition(sf, order)
		}
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// OrderTransitioned records a transition made by the tracker.
func (s *OrderService) OrderTransitioned(sf *Storefront, order models.Order) {
	s.recordTransition(sf, order)
}

// Reset cancels tracking and discards the active order. History is kept.
func (s *OrderService) Reset(sf *Storefront) {
	sf.Tracker.Stop()
	sf.Orders.Reset()
}

// StopTracking cancels pending transitions. It returns how many were pending.
func (s *OrderService) StopTracking(sf *Storefront) int {
	return sf.Tracker.Stop()
}

// ResumeTracking schedules the remaining transitions of the active order.
func (s *OrderService) ResumeTracking(sf *Storefront) (models.Order, error) {
	order, ok := sf.Orders.Snapshot()
	if !ok {
		return models.Order{}, apperrors.ErrNoActiveOrder
	}
	sf.Tracker.Track(order)
	return order, nil
}

// Current returns the active order together with its history entry.
func (s *OrderService) Current(sf *Storefront) (*models.OrderRecord, error) {
	order, ok := sf.Orders.Snapshot()
	if !ok {
		return nil, apperrors.ErrNoActiveOrder
	}

	record, err := s.orderRepo.GetByID(sf.ID, order.ID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &models.OrderRecord{Order: order, SessionID: sf.ID, Email: sf.Session.Snapshot().Email()}, nil
		}
		return nil, apperrors.NewInternalError("failed to load order", err)
	}
	record.Order = order
	return record, nil
}

// History returns every order of the session, newest first.
func (s *OrderService) History(sf *Storefront) ([]models.OrderRecord, error) {
	records, err := s.orderRepo.GetBySession(sf.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load order history", err)
	}
	return records, nil
}

// Forget drops the order history of a closed session.
func (s *OrderService) Forget(sf *Storefront) {
	if err := s.orderRepo.DeleteBySession(sf.ID); err != nil {
		s.logger.Warn("failed to drop order history", zap.String("session_id", sf.ID), zap.Error(err))
	}
}

// recordTransition stores and publishes one transition. Callers hold the
// tracker's step lock.
func (s *OrderService) recordTransition(sf *Storefront, order models.Order) {
	record, err := s.orderRepo.UpdateStatus(sf.ID, order.ID, order.Status)
	if err != nil {
		s.logger.Warn("failed to update order history",
			zap.String("order_id", order.ID),
			zap.String("status", string(order.Status)),
			zap.Error(err),
		)
		record = &models.OrderRecord{Order: order, SessionID: sf.ID, Email: sf.Session.Snapshot().Email()}
	}
	if record.Status != order.Status {
		s.logger.Debug("stale order transition ignored",
			zap.String("order_id", order.ID),
			zap.String("status", string(order.Status)),
			zap.String("recorded", string(record.Status)),
		)
		return
	}

	s.metrics.OrderTransition(string(order.Status))

	s.logger.Info("order advanced",
		zap.String("session_id", sf.ID),
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
	)
	s.publish(*record)
}

func (s *OrderService) publish(record models.OrderRecord) {
	if s.publisher == nil {
		return
	}
	event := models.NewOrderEvent(record, s.clock.Now())
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("order_id", event.OrderID),
			zap.String("status", string(event.Status)),
			zap.Error(err),
		)
	}
}
