package handlers

import (
	"foodexpress/internal/middleware"
	"foodexpress/internal/models"
	"foodexpress/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type checkoutRequest struct {
	Address models.Address `json:"address"`
	Payment string         `json:"payment"`
}

// OrderHandler handles checkout and the active order of the caller's session.
type OrderHandler struct {
	service   *services.OrderService
	presenter *Presenter
	logger    *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, presenter *Presenter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:   service,
		presenter: presenter,
		logger:    logger,
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
	router.Get("/orders", h.HandleGetHistory)

	orderRoutes := router.Group("/order")
	orderRoutes.Get("/", h.HandleGetOrder)
	orderRoutes.Delete("/", h.HandleReset)
	orderRoutes.Post("/advance", h.HandleAdvance)
	orderRoutes.Post("/tracking", h.HandleResumeTracking)
	orderRoutes.Delete("/tracking", h.HandleStopTracking)
}

// HandleCheckout starts an order from the cart.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, h.logger, invalidBody(err))
	}

	address, err := models.NewAddress(req.Address.Street, req.Address.Number, req.Address.City)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	payment, err := models.ParsePaymentMethod(req.Payment)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	sf, _ := middleware.Storefront(c)
	record, err := h.service.Checkout(sf, address, payment)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.presenter.OrderRecord(*record))
}

// HandleGetOrder returns the active order.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	record, err := h.service.Current(sf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(h.presenter.OrderRecord(*record))
}

// HandleAdvance moves the active order one step forward.
func (h *OrderHandler) HandleAdvance(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	order, err := h.service.Advance(sf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(h.presenter.Order(order))
}

// HandleReset discards the active order.
func (h *OrderHandler) HandleReset(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	h.service.Reset(sf)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleResumeTracking schedules the remaining automatic transitions.
func (h *OrderHandler) HandleResumeTracking(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	order, err := h.service.ResumeTracking(sf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(h.presenter.Order(order))
}

// HandleStopTracking cancels the pending automatic transitions.
func (h *OrderHandler) HandleStopTracking(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	canceled := h.service.StopTracking(sf)
	return c.JSON(fiber.Map{"canceled": canceled})
}

// HandleGetHistory lists the orders of the session, newest first.
func (h *OrderHandler) HandleGetHistory(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	records, err := h.service.History(sf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(h.presenter.History(records))
}
