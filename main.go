package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodexpress/internal/catalog"
	"foodexpress/internal/config"
	"foodexpress/internal/logger"
	"foodexpress/internal/models"
	"foodexpress/internal/repositories"
	"foodexpress/internal/scheduler"
	"foodexpress/internal/server"
	"foodexpress/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	Version = "0.3.0"
	appName = "foodexpress"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Food-delivery storefront server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file loaded before the environment")

	cmd.AddCommand(serveCmd(&envFile), simulateCmd(&envFile), versionCmd())
	return cmd
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*envFile)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}

func serve(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	app, err := server.New(cfg, log)
	if err != nil {
		return err
	}

	if err := app.StartConsumer(); err != nil {
		log.Warn("order event consumer not started", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		_ = app.Shutdown()
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		return err
	}
	log.Info("server gracefully stopped")
	return nil
}

type simulateOptions struct {
	schedule string
	street   string
	number   string
	city     string
	payment  string
	products []string
}

func simulateCmd(envFile *string) *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Check out one order and print its progress until delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.schedule != "" {
				if cfg.ProgressSchedule, err = config.ParseSchedule(opts.schedule); err != nil {
					return err
				}
			}
			log, err := logger.NewConsole("warn")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return simulate(ctx, cmd.OutOrStdout(), cfg, log, opts)
		},
	}

	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "Override PROGRESS_SCHEDULE, e.g. 200ms,400ms,700ms")
	cmd.Flags().StringVar(&opts.street, "street", "Rua X", "Delivery street")
	cmd.Flags().StringVar(&opts.number, "number", "10", "Delivery number")
	cmd.Flags().StringVar(&opts.city, "city", "SP", "Delivery city")
	cmd.Flags().StringVar(&opts.payment, "payment", "pix", "Payment method (pix, card, cash)")
	cmd.Flags().StringSliceVar(&opts.products, "product", []string{"1", "1"}, "Product IDs to add to the cart, repeatable")
	return cmd
}

// simulate runs one checkout on wall-clock timers and prints every status.
func simulate(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger, opts simulateOptions) error {
	address, err := models.NewAddress(opts.street, opts.number, opts.city)
	if err != nil {
		return err
	}
	payment, err := models.ParsePaymentMethod(opts.payment)
	if err != nil {
		return err
	}

	products, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}
	productRepo := repositories.NewMemoryProductRepository()
	if err := catalog.Seed(productRepo, products); err != nil {
		return err
	}

	sched := scheduler.NewReal()
	registry := services.NewStorefrontRegistry(sched, services.StorefrontConfig{
		DeliveryFee: cfg.DeliveryFee,
		Schedule:    cfg.ProgressSchedule,
	}, nil)
	defer registry.CloseAll()

	orders := services.NewOrderService(repositories.NewMemoryOrderRepository(), nil, sched, log, nil)
	productService := services.NewProductService(productRepo)

	delivered := make(chan struct{})
	transitions := make(chan models.Order, models.TransitionCount())
	registry.SetListener(services.TransitionListenerFunc(func(sf *services.Storefront, o models.Order) {
		orders.OrderTransitioned(sf, o)
		transitions <- o
	}))

	sf := registry.Open()
	if _, err := sf.Session.Login("simulator@"+appName+".local", "simulate"); err != nil {
		return err
	}
	for _, id := range opts.products {
		if _, err := productService.AddToCart(sf, id); err != nil {
			return err
		}
	}

	cart := sf.Cart.Snapshot()
	for _, l := range cart.Lines {
		fmt.Fprintf(out, "%dx %-24s %s\n", l.Quantity, l.Name, models.NewMoney(l.LineTotal(), cfg.Currency))
	}
	fmt.Fprintf(out, "subtotal %s  delivery %s  total %s\n",
		models.NewMoney(cart.Subtotal, cfg.Currency),
		models.NewMoney(cart.DeliveryFee, cfg.Currency),
		models.NewMoney(cart.Total, cfg.Currency))

	record, err := orders.Checkout(sf, address, payment)
	if err != nil {
		return err
	}
	start := record.CreatedAt
	fmt.Fprintf(out, "order %s to %s, paying %s\n", record.ID, record.Address, record.Payment)
	fmt.Fprintf(out, "%8s  %s\n", time.Duration(0), record.Status.Label())

	stopped := make(chan struct{})
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for {
			select {
			case o := <-transitions:
				fmt.Fprintf(out, "%8s  %s\n", o.UpdatedAt.Sub(start).Round(10*time.Millisecond), o.Status.Label())
				if o.IsDelivered() {
					close(delivered)
					return
				}
			case <-stopped:
				return
			}
		}
	}()
	defer func() {
		close(stopped)
		<-printed
	}()

	limit := cfg.ProgressSchedule[len(cfg.ProgressSchedule)-1] + 5*time.Second
	select {
	case <-delivered:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(limit):
		return fmt.Errorf("order %s not delivered after %s", record.ID, limit)
	}
}
