package services

import (
	"sync"
	"time"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/metrics"
	"foodexpress/internal/models"
	"foodexpress/internal/scheduler"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Storefront bundles the stores of one browser session.
type Storefront struct {
	ID      string
	Session *SessionStore
	Cart    *CartStore
	Orders  *OrderSimulator
	Tracker *OrderTracker
}

// TransitionListener is notified after every automatic order transition.
type TransitionListener interface {
	OrderTransitioned(sf *Storefront, order models.Order)
}

// TransitionListenerFunc adapts a function to TransitionListener.
type TransitionListenerFunc func(sf *Storefront, order models.Order)

func (f TransitionListenerFunc) OrderTransitioned(sf *Storefront, order models.Order) {
	f(sf, order)
}

// StorefrontConfig holds the per-session settings.
type StorefrontConfig struct {
	DeliveryFee decimal.Decimal
	Schedule    []time.Duration
}

// DefaultStorefrontConfig returns a 7.90 delivery fee and the default progress schedule.
func DefaultStorefrontConfig() StorefrontConfig {
	return StorefrontConfig{
		DeliveryFee: decimal.RequireFromString("7.90"),
		Schedule:    DefaultProgressSchedule,
	}
}

// StorefrontRegistry creates and looks up storefronts by session id.
type StorefrontRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Storefront
	sched    scheduler.Scheduler
	cfg      StorefrontConfig
	metrics  *metrics.Metrics

	listenerMu sync.RWMutex
	listener   TransitionListener
}

// NewStorefrontRegistry creates an empty registry whose storefronts run on sched.
func NewStorefrontRegistry(sched scheduler.Scheduler, cfg StorefrontConfig, m *metrics.Metrics) *StorefrontRegistry {
	return &StorefrontRegistry{
		sessions: make(map[string]*Storefront),
		sched:    sched,
		cfg:      cfg,
		metrics:  m,
	}
}

// SetListener installs the transition listener shared by every storefront.
func (r *StorefrontRegistry) SetListener(l TransitionListener) {
	r.listenerMu.Lock()
	defer r.listenerMu.Unlock()
	r.listener = l
}

// Open creates a storefront with an anonymous session and an empty cart.
func (r *StorefrontRegistry) Open() *Storefront {
	sf := &Storefront{
		ID:      uuid.NewString(),
		Session: NewSessionStore(),
		Cart:    NewCartStore(r.cfg.DeliveryFee, r.metrics),
		Orders:  NewOrderSimulator(r.sched),
	}
	sf.Tracker = NewOrderTracker(sf.Orders, r.sched, r.cfg.Schedule, func(o models.Order) {
		r.notify(sf, o)
	})

	r.mu.Lock()
	r.sessions[sf.ID] = sf
	r.mu.Unlock()

	r.metrics.SessionOpened()
	return sf
}

func (r *StorefrontRegistry) notify(sf *Storefront, o models.Order) {
	r.listenerMu.RLock()
	l := r.listener
	r.listenerMu.RUnlock()
	if l != nil {
		l.OrderTransitioned(sf, o)
	}
}

// Get returns the storefront for id.
func (r *StorefrontRegistry) Get(id string) (*Storefront, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sf, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("session " + id)
	}
	return sf, nil
}

// Close stops the storefront's tracker and forgets it. Unknown ids are ignored.
func (r *StorefrontRegistry) Close(id string) {
	r.mu.Lock()
	sf, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		sf.Tracker.Stop()
		r.metrics.SessionClosed()
	}
}

// CloseAll stops every tracker. No timer fires after it returns.
func (r *StorefrontRegistry) CloseAll() int {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Storefront)
	r.mu.Unlock()

	for _, sf := range all {
		sf.Tracker.Stop()
		r.metrics.SessionClosed()
	}
	return len(all)
}

// Len returns the number of open storefronts.
func (r *StorefrontRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
