package handlers

import (
	"foodexpress/internal/middleware"
	"foodexpress/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// CartHandler exposes the cart store of the caller's session.
type CartHandler struct {
	products  *services.ProductService
	presenter *Presenter
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(products *services.ProductService, presenter *Presenter, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		products:  products,
		presenter: presenter,
		validate:  validator.New(),
		logger:    logger,
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClear)
	cartRoutes.Post("/items", h.HandleAdd)
	cartRoutes.Post("/items/:id/increment", h.HandleIncrement)
	cartRoutes.Post("/items/:id/decrement", h.HandleDecrement)
	cartRoutes.Delete("/items/:id", h.HandleRemove)
}

// HandleGetCart returns the cart with its totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	return c.JSON(h.presenter.Cart(sf.Cart.Snapshot()))
}

// HandleAdd puts one unit of a catalog product in the cart.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, h.logger, invalidBody(err))
	}
	if err := validateRequest(h.validate, req); err != nil {
		return respondError(c, h.logger, err)
	}

	sf, _ := middleware.Storefront(c)
	cart, err := h.products.AddToCart(sf, req.ProductID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(h.presenter.Cart(cart))
}

// HandleIncrement adds one unit to a line. Unknown lines are left alone.
func (h *CartHandler) HandleIncrement(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	return c.JSON(h.presenter.Cart(sf.Cart.Increment(c.Params("id"))))
}

// HandleDecrement removes one unit from a line.
func (h *CartHandler) HandleDecrement(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	return c.JSON(h.presenter.Cart(sf.Cart.Decrement(c.Params("id"))))
}

// HandleRemove drops a line.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	return c.JSON(h.presenter.Cart(sf.Cart.Remove(c.Params("id"))))
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	return c.JSON(h.presenter.Cart(sf.Cart.Clear()))
}
