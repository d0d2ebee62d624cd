package handlers

import (
	"strings"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/middleware"
	"foodexpress/internal/models"
	"foodexpress/internal/router"
	"foodexpress/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxCommentLength = 1000

// ViewHandler serves the storefront pages as JSON view models and enforces
// the navigation rules of the router package with redirects.
type ViewHandler struct {
	products  *services.ProductService
	orders    *services.OrderService
	presenter *Presenter
	logger    *zap.Logger
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(products *services.ProductService, orders *services.OrderService, presenter *Presenter, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{products: products, orders: orders, presenter: presenter, logger: logger}
}

// RegisterRoutes registers the catch-all view route. It must be registered
// after every other route.
func (h *ViewHandler) RegisterRoutes(app fiber.Router, auth *services.AuthService) {
	app.Get("/*", middleware.OptionalAuth(auth), h.HandleView)
}

// HandleView resolves the requested path and renders or redirects.
func (h *ViewHandler) HandleView(c *fiber.Ctx) error {
	path := c.Path()
	if strings.HasPrefix(path, "/api/") {
		return respondError(c, h.logger, apperrors.NewNotFoundError("route "+path))
	}

	sf, authenticated := middleware.Storefront(c)
	state := router.State{Authenticated: authenticated}
	if authenticated {
		_, state.HasActiveOrder = sf.Orders.Snapshot()
	}

	decision := router.Resolve(path, state)
	if decision.IsRedirect() {
		return c.Redirect(decision.Redirect, fiber.StatusFound)
	}
	if router.IsProtected(path) {
		c.Set(fiber.HeaderCacheControl, "private, no-store")
	}

	switch decision.View {
	case router.ViewLogin, router.ViewSignup:
		return h.renderAuth(c, decision.View)
	case router.ViewCatalog:
		return h.renderCatalog(c, sf)
	case router.ViewCart:
		return h.render(c, router.ViewCart, fiber.Map{"cart": h.presenter.Cart(sf.Cart.Snapshot())})
	case router.ViewCheckout:
		return h.renderCheckout(c, sf)
	case router.ViewOrder:
		return h.renderOrder(c, sf)
	case router.ViewRate:
		return h.renderRate(c, sf)
	case router.ViewProfile:
		return h.renderProfile(c, sf)
	}
	return c.Redirect(router.ViewCatalog.Path(), fiber.StatusFound)
}

func (h *ViewHandler) render(c *fiber.Ctx, view router.View, data fiber.Map) error {
	data["view"] = view
	return c.JSON(data)
}

func (h *ViewHandler) renderAuth(c *fiber.Ctx, view router.View) error {
	return h.render(c, view, fiber.Map{
		"fields": []string{"email", "password"},
		"action": "/api/v1/auth/" + string(view),
	})
}

func (h *ViewHandler) renderCatalog(c *fiber.Ctx, sf *services.Storefront) error {
	products, err := h.products.GetAllProducts()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return h.render(c, router.ViewCatalog, fiber.Map{
		"email":      sf.Session.Snapshot().Email(),
		"products":   h.presenter.Products(products),
		"cart_count": sf.Cart.Snapshot().ItemCount(),
	})
}

func (h *ViewHandler) renderCheckout(c *fiber.Ctx, sf *services.Storefront) error {
	cart := sf.Cart.Snapshot()
	return h.render(c, router.ViewCheckout, fiber.Map{
		"cart":            h.presenter.Cart(cart),
		"payment_methods": models.PaymentMethods(),
		"can_submit":      !cart.IsEmpty(),
	})
}

func (h *ViewHandler) renderOrder(c *fiber.Ctx, sf *services.Storefront) error {
	record, err := h.orders.Current(sf)
	if err != nil {
		if apperrors.IsNoActiveOrder(err) {
			return c.Redirect(router.ViewCatalog.Path(), fiber.StatusFound)
		}
		return respondError(c, h.logger, err)
	}
	return h.render(c, router.ViewOrder, fiber.Map{"order": h.presenter.OrderRecord(*record)})
}

func (h *ViewHandler) renderRate(c *fiber.Ctx, sf *services.Storefront) error {
	data := fiber.Map{
		"default_stars":      models.DefaultRatingStars,
		"max_comment_length": maxCommentLength,
	}
	if order, ok := sf.Orders.Snapshot(); ok {
		data["order_id"] = order.ID
	}
	return h.render(c, router.ViewRate, data)
}

func (h *ViewHandler) renderProfile(c *fiber.Ctx, sf *services.Storefront) error {
	records, err := h.orders.History(sf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return h.render(c, router.ViewProfile, fiber.Map{
		"email":  sf.Session.Snapshot().Email(),
		"orders": h.presenter.History(records),
		"logout": "/api/v1/auth/logout",
	})
}
