package handlers

import (
	"foodexpress/internal/middleware"
	"foodexpress/internal/models"
	"foodexpress/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ratingRequest struct {
	Stars   *int   `json:"stars" validate:"omitempty,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// RatingHandler handles the rating form.
type RatingHandler struct {
	service  *services.RatingService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(service *services.RatingService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{service: service, validate: validator.New(), logger: logger}
}

// RegisterRoutes registers the rating routes.
func (h *RatingHandler) RegisterRoutes(router fiber.Router) {
	ratingRoutes := router.Group("/ratings")
	ratingRoutes.Get("/", h.HandleList)
	ratingRoutes.Post("/", h.HandleSubmit)
}

// HandleSubmit stores a rating. Stars default to five when omitted.
func (h *RatingHandler) HandleSubmit(c *fiber.Ctx) error {
	var req ratingRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, h.logger, invalidBody(err))
	}
	if err := validateRequest(h.validate, req); err != nil {
		return respondError(c, h.logger, err)
	}

	stars := models.DefaultRatingStars
	if req.Stars != nil {
		stars = *req.Stars
	}

	sf, _ := middleware.Storefront(c)
	rating, err := h.service.Submit(sf, stars, req.Comment)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// HandleList returns the caller's ratings.
func (h *RatingHandler) HandleList(c *fiber.Ctx) error {
	sf, _ := middleware.Storefront(c)
	ratings, err := h.service.List(sf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(ratings)
}
