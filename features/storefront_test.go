package features

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/catalog"
	"foodexpress/internal/models"
	"foodexpress/internal/repositories"
	"foodexpress/internal/scheduler"
	"foodexpress/internal/services"

	"github.com/cucumber/godog"
)

type storefrontTestContext struct {
	sched    *scheduler.Manual
	registry *services.StorefrontRegistry
	products *services.ProductService
	orders   *services.OrderService
	sf       *services.Storefront
	err      error
}

func (c *storefrontTestContext) reset() {
	if c.registry != nil {
		c.registry.CloseAll()
	}
	*c = storefrontTestContext{}
}

func (c *storefrontTestContext) aStorefrontWithTheDefaultCatalog() error {
	products, err := catalog.Load("")
	if err != nil {
		return err
	}
	repo := repositories.NewMemoryProductRepository()
	if err := catalog.Seed(repo, products); err != nil {
		return err
	}

	c.sched = scheduler.NewManual(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	c.registry = services.NewStorefrontRegistry(c.sched, services.DefaultStorefrontConfig(), nil)
	c.products = services.NewProductService(repo)
	c.orders = services.NewOrderService(repositories.NewMemoryOrderRepository(), nil, c.sched, nil, nil)
	c.registry.SetListener(c.orders)
	c.sf = c.registry.Open()
	return nil
}

func (c *storefrontTestContext) iLogInAs(email, password string) error {
	_, err := c.sf.Session.Login(email, password)
	return err
}

func (c *storefrontTestContext) iLogOut() error {
	c.sf.Session.Logout()
	return nil
}

func (c *storefrontTestContext) theSessionIsAnonymous() error {
	if c.sf.Session.Snapshot().Authenticated() {
		return fmt.Errorf("session still holds %q", c.sf.Session.Snapshot().Email())
	}
	return nil
}

func (c *storefrontTestContext) iAddProductToTheCart(id string) error {
	_, err := c.products.AddToCart(c.sf, id)
	return err
}

func (c *storefrontTestContext) iDecrementProduct(id string) error {
	c.sf.Cart.Decrement(id)
	return nil
}

func expectAmount(name, want string, got string) error {
	if got != want {
		return fmt.Errorf("expected %s %s, got %s", name, want, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartSubtotalIs(want string) error {
	return expectAmount("subtotal", want, c.sf.Cart.Subtotal().StringFixed(2))
}

func (c *storefrontTestContext) theDeliveryFeeIs(want string) error {
	return expectAmount("delivery fee", want, c.sf.Cart.DeliveryFee().StringFixed(2))
}

func (c *storefrontTestContext) theCartTotalIs(want string) error {
	return expectAmount("total", want, c.sf.Cart.Total().StringFixed(2))
}

func (c *storefrontTestContext) theCartIsEmpty() error {
	if n := c.sf.Cart.Len(); n != 0 {
		return fmt.Errorf("expected an empty cart, got %d lines", n)
	}
	return nil
}

func (c *storefrontTestContext) theCartHasLines(n int) error {
	if got := c.sf.Cart.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) iCheckOut(street, number, city, payment string) error {
	_, c.err = c.orders.Checkout(c.sf, models.Address{Street: street, Number: number, City: city}, models.PaymentMethod(payment))
	return nil
}

func (c *storefrontTestContext) checkoutFailsWithAValidationError() error {
	if !apperrors.IsValidation(c.err) {
		return fmt.Errorf("expected a validation error, got %v", c.err)
	}
	return nil
}

func (c *storefrontTestContext) thereIsNoActiveOrder() error {
	if _, ok := c.sf.Orders.Snapshot(); ok {
		return fmt.Errorf("expected no active order")
	}
	return nil
}

func (c *storefrontTestContext) theOrderStatusIs(want string) error {
	if c.err != nil {
		return c.err
	}
	order, ok := c.sf.Orders.Snapshot()
	if !ok {
		return fmt.Errorf("no active order")
	}
	if string(order.Status) != want {
		return fmt.Errorf("expected status %s, got %s", want, order.Status)
	}
	return nil
}

func (c *storefrontTestContext) secondsPass(n int) error {
	c.sched.Advance(time.Duration(n) * time.Second)
	return nil
}

func (c *storefrontTestContext) iAdvanceTheOrderTimes(n int) error {
	for i := 0; i < n; i++ {
		if _, c.err = c.orders.Advance(c.sf); c.err != nil {
			return nil
		}
	}
	return nil
}

func (c *storefrontTestContext) theAdvanceFailsWithNoActiveOrder() error {
	if !apperrors.IsNoActiveOrder(c.err) {
		return fmt.Errorf("expected no active order error, got %v", c.err)
	}
	return nil
}

func (c *storefrontTestContext) iStopTracking() error {
	c.orders.StopTracking(c.sf)
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a storefront with the default catalog$`, tc.aStorefrontWithTheDefaultCatalog)
	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, tc.iLogInAs)

	// When steps
	ctx.Step(`^I add product "([^"]*)" to the cart$`, tc.iAddProductToTheCart)
	ctx.Step(`^I decrement product "([^"]*)"$`, tc.iDecrementProduct)
	ctx.Step(`^I check out to "([^"]*)", "([^"]*)", "([^"]*)" paying with "([^"]*)"$`, tc.iCheckOut)
	ctx.Step(`^(\d+) seconds pass$`, tc.secondsPass)
	ctx.Step(`^I advance the order (\d+) times$`, tc.iAdvanceTheOrderTimes)
	ctx.Step(`^I stop tracking$`, tc.iStopTracking)
	ctx.Step(`^I log out$`, tc.iLogOut)

	// Then steps
	ctx.Step(`^the cart subtotal is "([^"]*)"$`, tc.theCartSubtotalIs)
	ctx.Step(`^the delivery fee is "([^"]*)"$`, tc.theDeliveryFeeIs)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the order status is "([^"]*)"$`, tc.theOrderStatusIs)
	ctx.Step(`^checkout fails with a validation error$`, tc.checkoutFailsWithAValidationError)
	ctx.Step(`^there is no active order$`, tc.thereIsNoActiveOrder)
	ctx.Step(`^the advance fails with no active order$`, tc.theAdvanceFailsWithNoActiveOrder)
	ctx.Step(`^the session is anonymous$`, tc.theSessionIsAnonymous)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"storefront.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
