package handlers

import (
	"strings"
	"time"

	"foodexpress/internal/models"
	"foodexpress/internal/router"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Presenter turns domain snapshots into response bodies. Amounts are rounded
// to two fractional digits here and nowhere else.
type Presenter struct {
	Currency currency.Unit
}

// NewPresenter creates a Presenter for unit.
func NewPresenter(unit currency.Unit) *Presenter {
	return &Presenter{Currency: unit}
}

func (p *Presenter) amount(d decimal.Decimal) string {
	return models.NewMoney(d, p.Currency).Fixed()
}

func (p *Presenter) display(d decimal.Decimal) string {
	return models.NewMoney(d, p.Currency).String()
}

// ProductResponse is a catalog entry with its price as a plain amount and as a label.
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	PriceLabel  string `json:"price_label"`
	ImageGlyph  string `json:"image_glyph"`
}

// Product renders one catalog entry.
func (p *Presenter) Product(pr models.Product) ProductResponse {
	return ProductResponse{
		ID:          pr.ID,
		Name:        pr.Name,
		Description: pr.Description,
		Price:       p.amount(pr.Price),
		PriceLabel:  p.display(pr.Price),
		ImageGlyph:  pr.ImageGlyph,
	}
}

// Products renders the catalog in repository order.
func (p *Presenter) Products(list []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, pr := range list {
		out = append(out, p.Product(pr))
	}
	return out
}

// CartLineResponse is one cart line with its rounded line total.
type CartLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CartResponse is the cart with every amount rounded to cents.
type CartResponse struct {
	Lines       []CartLineResponse `json:"lines"`
	ItemCount   int                `json:"item_count"`
	Subtotal    string             `json:"subtotal"`
	DeliveryFee string             `json:"delivery_fee"`
	Total       string             `json:"total"`
	Currency    string             `json:"currency"`
}

// Cart renders a cart snapshot.
func (p *Presenter) Cart(cart models.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: p.amount(l.UnitPrice),
			Quantity:  l.Quantity,
			LineTotal: p.amount(l.LineTotal()),
		})
	}
	return CartResponse{
		Lines:       lines,
		ItemCount:   cart.ItemCount(),
		Subtotal:    p.amount(cart.Subtotal),
		DeliveryFee: p.amount(cart.DeliveryFee),
		Total:       p.amount(cart.Total),
		Currency:    p.Currency.String(),
	}
}

// OrderStepResponse is one step of the tracking timeline.
type OrderStepResponse struct {
	Status models.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Active bool               `json:"active"`
}

// OrderResponse is the tracking view of an order. Subtotal and Total are only
// set for orders loaded from history.
type OrderResponse struct {
	ID          string              `json:"id"`
	Status      models.OrderStatus  `json:"status"`
	StatusLabel string              `json:"status_label"`
	Address     models.Address      `json:"address"`
	AddressLine string              `json:"address_line"`
	Payment     string              `json:"payment"`
	Steps       []OrderStepResponse `json:"steps"`
	Delivered   bool                `json:"delivered"`
	RatingLink  string              `json:"rating_link,omitempty"`
	Subtotal    string              `json:"subtotal,omitempty"`
	Total       string              `json:"total,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Order renders the tracking view of o. Every step up to the current one is active.
func (p *Presenter) Order(o models.Order) OrderResponse {
	current := o.Status.Index()
	statuses := models.OrderStatuses()
	steps := make([]OrderStepResponse, 0, len(statuses))
	for i, st := range statuses {
		steps = append(steps, OrderStepResponse{Status: st, Label: st.Label(), Active: i <= current})
	}

	resp := OrderResponse{
		ID:          o.ID,
		Status:      o.Status,
		StatusLabel: o.Status.Label(),
		Address:     o.Address,
		AddressLine: o.Address.String(),
		Payment:     strings.ToUpper(string(o.Payment)),
		Steps:       steps,
		Delivered:   o.IsDelivered(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if resp.Delivered {
		resp.RatingLink = router.ViewRate.Path()
	}
	return resp
}

// OrderRecord renders a history entry, including its amounts.
func (p *Presenter) OrderRecord(r models.OrderRecord) OrderResponse {
	resp := p.Order(r.Order)
	if len(r.Lines) > 0 {
		resp.Subtotal = p.amount(r.Subtotal)
		resp.Total = p.amount(r.Total)
	}
	return resp
}

// History renders the order history of a session.
func (p *Presenter) History(records []models.OrderRecord) []OrderResponse {
	out := make([]OrderResponse, 0, len(records))
	for _, r := range records {
		out = append(out, p.OrderRecord(r))
	}
	return out
}
