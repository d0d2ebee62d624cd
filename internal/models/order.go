package models

import (
	"fmt"
	"time"

	"foodexpress/internal/apperrors"

	"github.com/shopspring/decimal"
)

// OrderStatus is a step of the delivery progression.
type OrderStatus string

const (
	StatusPreparing OrderStatus = "preparing"
	StatusAssigning OrderStatus = "assigning"
	StatusEnroute   OrderStatus = "enroute"
	StatusDelivered OrderStatus = "delivered"
)

// orderSequence is the only path an order takes. delivered is terminal.
var orderSequence = []OrderStatus{StatusPreparing, StatusAssigning, StatusEnroute, StatusDelivered}

var nextStatus = map[OrderStatus]OrderStatus{
	StatusPreparing: StatusAssigning,
	StatusAssigning: StatusEnroute,
	StatusEnroute:   StatusDelivered,
	StatusDelivered: StatusDelivered,
}

var statusLabels = map[OrderStatus]string{
	StatusPreparing: "Em preparo",
	StatusAssigning: "Aguardando entregador",
	StatusEnroute:   "A caminho",
	StatusDelivered: "Entregue",
}

// OrderStatuses returns the progression in order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderSequence))
	copy(out, orderSequence)
	return out
}

// TransitionCount is the number of advances from preparing to delivered.
func TransitionCount() int {
	return len(orderSequence) - 1
}

// Next returns the status that follows s. delivered maps to itself.
func (s OrderStatus) Next() OrderStatus {
	if next, ok := nextStatus[s]; ok {
		return next
	}
	return s
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered
}

// IsValid reports whether s is part of the progression.
func (s OrderStatus) IsValid() bool {
	_, ok := nextStatus[s]
	return ok
}

// Index is the position of s in the progression, or -1.
func (s OrderStatus) Index() int {
	for i, st := range orderSequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Label is the customer-facing name of the step.
func (s OrderStatus) Label() string {
	return statusLabels[s]
}

// PaymentMethod is how the customer pays on delivery.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// PaymentMethods lists the recognised methods.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentPix, PaymentCard, PaymentCash}
}

// IsValid reports whether p is a recognised method.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentPix, PaymentCard, PaymentCash:
		return true
	}
	return false
}

// ParsePaymentMethod returns the method named s.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	p := PaymentMethod(s)
	if !p.IsValid() {
		return "", apperrors.NewFieldValidationError(
			fmt.Sprintf("unknown payment method %q", s),
			map[string]string{"Payment": "Field 'Payment' must be one of pix, card, cash"},
		)
	}
	return p, nil
}

// Address is a delivery address. Every field is required.
type Address struct {
	Street string `json:"street" validate:"required"`
	Number string `json:"number" validate:"required"`
	City   string `json:"city" validate:"required"`
}

// NewAddress builds a validated address.
func NewAddress(street, number, city string) (Address, error) {
	a := Address{Street: street, Number: number, City: city}
	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Validate checks that street, number and city are present.
func (a Address) Validate() error {
	return validateStruct("street, number and city are required", a)
}

// String renders the address as shown on the tracking view.
func (a Address) String() string {
	return fmt.Sprintf("%s, %s - %s", a.Street, a.Number, a.City)
}

// Order is the order tracked by the progress simulator.
type Order struct {
	ID        string        `json:"id"`
	Status    OrderStatus   `json:"status"`
	Address   Address       `json:"address"`
	Payment   PaymentMethod `json:"payment"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// IsDelivered reports whether the order reached the terminal state.
func (o Order) IsDelivered() bool {
	return o.Status.IsTerminal()
}

// OrderRecord is an entry of a session's order history.
type OrderRecord struct {
	Order
	SessionID string          `json:"-"`
	Email     string          `json:"email"`
	Lines     []CartLine      `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
}
