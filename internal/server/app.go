// Package server assembles repositories, services and handlers into a Fiber app.
package server

import (
	"fmt"
	"time"

	"foodexpress/internal/catalog"
	"foodexpress/internal/config"
	"foodexpress/internal/handlers"
	"foodexpress/internal/metrics"
	"foodexpress/internal/middleware"
	"foodexpress/internal/repositories"
	"foodexpress/internal/scheduler"
	"foodexpress/internal/services"
	"foodexpress/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is a fully wired storefront server.
type App struct {
	Fiber    *fiber.App
	Registry *services.StorefrontRegistry
	Auth     *services.AuthService
	Orders   *services.OrderService
	Metrics  *metrics.Metrics

	cfg       *config.Config
	db        *gorm.DB
	mq        *rabbitmq.Client
	logger    *zap.Logger
	startedAt time.Time
}

type options struct {
	sched     scheduler.Scheduler
	publisher services.OrderEventPublisher
	accessLog bool
}

// Option customizes New.
type Option func(*options)

// WithScheduler drives order progression with s instead of wall-clock timers.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// WithPublisher sends order events to p instead of RabbitMQ.
func WithPublisher(p services.OrderEventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithoutAccessLog disables the per-request access log.
func WithoutAccessLog() Option {
	return func(o *options) { o.accessLog = false }
}

// New builds the app: opens the catalog store, seeds the catalog, connects to
// RabbitMQ when configured and registers every route.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := options{sched: scheduler.NewReal(), accessLog: true}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		Metrics:   metrics.New(),
		cfg:       cfg,
		logger:    logger,
		startedAt: time.Now(),
	}

	productRepo, ratingRepo, err := a.openStores()
	if err != nil {
		return nil, err
	}

	products, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := catalog.Seed(productRepo, products); err != nil {
		a.closeDB()
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	logger.Info("catalog seeded", zap.Int("products", len(products)), zap.String("store", cfg.CatalogStore))

	publisher := o.publisher
	if publisher == nil && cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			logger.Warn("order events disabled", zap.Error(err))
		} else {
			a.mq = mq
			publisher = mq
		}
	}

	a.Registry = services.NewStorefrontRegistry(o.sched, services.StorefrontConfig{
		DeliveryFee: cfg.DeliveryFee,
		Schedule:    cfg.ProgressSchedule,
	}, a.Metrics)
	a.Auth = services.NewAuthService(a.Registry, cfg.JWTSecret, cfg.TokenTTL, logger, a.Metrics)
	a.Orders = services.NewOrderService(repositories.NewMemoryOrderRepository(), publisher, o.sched, logger, a.Metrics)
	a.Registry.SetListener(a.Orders)

	productService := services.NewProductService(productRepo)
	ratingService := services.NewRatingService(ratingRepo, o.sched, logger, a.Metrics)
	presenter := handlers.NewPresenter(cfg.Currency)

	app := fiber.New(fiber.Config{
		AppName:               "foodexpress",
		DisableStartupMessage: true,
	})
	if o.accessLog {
		app.Use(fiberlogger.New())
	}

	app.Get("/health", a.handleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(a.Metrics.Handler()))

	apiV1 := app.Group("/api/v1")
	authHandler := handlers.NewAuthHandler(a.Auth, a.Orders, cfg.TokenTTL, logger)
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(a.Auth))
	authHandler.RegisterProtectedRoutes(protected)
	handlers.NewProductHandler(productService, presenter, logger).RegisterRoutes(protected)
	handlers.NewCartHandler(productService, presenter, logger).RegisterRoutes(protected)
	handlers.NewOrderHandler(a.Orders, presenter, logger).RegisterRoutes(protected)
	handlers.NewRatingHandler(ratingService, logger).RegisterRoutes(protected)

	handlers.NewViewHandler(productService, a.Orders, presenter, logger).RegisterRoutes(app, a.Auth)

	a.Fiber = app
	return a, nil
}

func (a *App) openStores() (repositories.ProductRepository, repositories.RatingRepository, error) {
	if a.cfg.CatalogStore == repositories.DriverMemory {
		return repositories.NewMemoryProductRepository(), repositories.NewMemoryRatingRepository(), nil
	}

	dsn := a.cfg.DatabaseDSN
	if a.cfg.CatalogStore == repositories.DriverSQLite && dsn == "" {
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	}
	db, err := repositories.OpenDatabase(a.cfg.CatalogStore, dsn)
	if err != nil {
		return nil, nil, err
	}
	a.db = db
	return repositories.NewGORMProductRepository(db), repositories.NewGORMRatingRepository(db), nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	mq := "disabled"
	if a.mq != nil {
		mq = "connected"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"uptime":   time.Since(a.startedAt).Round(time.Second).String(),
		"sessions": a.Registry.Len(),
		"rabbitmq": mq,
	})
}

// StartConsumer logs every order event read back from RabbitMQ. It is a
// no-op when RabbitMQ is not configured.
func (a *App) StartConsumer() error {
	if a.mq == nil {
		return nil
	}
	return a.mq.ConsumeOrderEvents(rabbitmq.LogOrderEvent(a.logger))
}

// Listen serves HTTP on addr until Shutdown is called.
func (a *App) Listen(addr string) error {
	a.logger.Info("starting server", zap.String("addr", addr))
	return a.Fiber.Listen(addr)
}

// Shutdown stops the HTTP server, cancels every pending order transition and
// releases the broker and database connections.
func (a *App) Shutdown() error {
	var errs []error
	if err := a.Fiber.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}

	closed := a.Registry.CloseAll()
	a.logger.Info("sessions closed", zap.Int("count", closed))

	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown: %v", errs)
	}
	return nil
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	a.db = nil
	return sqlDB.Close()
}
