package handlers

import (
	"time"

	"foodexpress/internal/middleware"
	"foodexpress/internal/models"
	"foodexpress/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	orderService *services.OrderService
	tokenTTL     time.Duration
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, orderService *services.OrderService, tokenTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		orderService: orderService,
		tokenTTL:     tokenTTL,
		validate:     validator.New(),
		logger:       logger,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the routes that need an open session.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/auth/logout", h.HandleLogout)
	router.Get("/session", h.HandleGetSession)
}

// HandleSignup opens a session for a new customer.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	return h.authenticate(c, h.authService.Signup)
}

// HandleLogin opens a session for a returning customer.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	return h.authenticate(c, h.authService.Login)
}

func (h *AuthHandler) authenticate(c *fiber.Ctx, open func(email, password string) (*services.AuthResult, error)) error {
	var creds models.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return respondError(c, h.logger, invalidBody(err))
	}
	if err := validateRequest(h.validate, creds); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := open(creds.Email, creds.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(fiber.StatusOK).JSON(result)
}

// HandleLogout clears the identity and closes the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	h.orderService.Forget(sf)
	session := h.authService.Logout(sf)

	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{
		"message": "Logged out",
		"session": session,
	})
}

// HandleGetSession returns the session snapshot.
func (h *AuthHandler) HandleGetSession(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	return c.JSON(sf.Session.Snapshot())
}
