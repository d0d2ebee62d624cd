package services_test

import (
	"regexp"
	"testing"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/models"
	"foodexpress/internal/scheduler"
	"foodexpress/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderIDPattern = regexp.MustCompile(`^[0-9A-Z]{6}$`)

func TestOrderSimulator_Start(t *testing.T) {
	sched := scheduler.NewManual(testStart)
	sim := services.NewOrderSimulator(sched)

	order, err := sim.Start(ruaX, models.PaymentPix)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, order.Status)
	assert.Equal(t, ruaX, order.Address)
	assert.Equal(t, models.PaymentPix, order.Payment)
	assert.Equal(t, testStart, order.CreatedAt)
	assert.Regexp(t, orderIDPattern, order.ID)

	snap, ok := sim.Snapshot()
	require.True(t, ok)
	assert.Equal(t, order, snap)
}

func TestOrderSimulator_StartValidation(t *testing.T) {
	tests := []struct {
		name    string
		address models.Address
		payment models.PaymentMethod
	}{
		{"empty street", models.Address{Number: "10", City: "SP"}, models.PaymentPix},
		{"empty number", models.Address{Street: "Rua X", City: "SP"}, models.PaymentCard},
		{"empty city", models.Address{Street: "Rua X", Number: "10"}, models.PaymentCash},
		{"unknown payment", ruaX, models.PaymentMethod("crypto")},
		{"empty payment", ruaX, models.PaymentMethod("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := services.NewOrderSimulator(scheduler.NewManual(testStart))
			_, err := sim.Start(tt.address, tt.payment)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			_, ok := sim.Snapshot()
			assert.False(t, ok)
		})
	}
}

func TestOrderSimulator_AdvanceThroughSequence(t *testing.T) {
	sched := scheduler.NewManual(testStart)
	sim := services.NewOrderSimulator(sched)
	_, err := sim.Start(ruaX, models.PaymentPix)
	require.NoError(t, err)

	want := []models.OrderStatus{models.StatusAssigning, models.StatusEnroute, models.StatusDelivered, models.StatusDelivered}
	for _, status := range want {
		order, err := sim.Advance()
		require.NoError(t, err)
		assert.Equal(t, status, order.Status)
	}
}

func TestOrderSimulator_AdvanceWithoutOrder(t *testing.T) {
	sim := services.NewOrderSimulator(scheduler.NewManual(testStart))

	_, err := sim.Advance()
	require.Error(t, err)
	assert.True(t, apperrors.IsNoActiveOrder(err))
}

func TestOrderSimulator_Reset(t *testing.T) {
	sim := services.NewOrderSimulator(scheduler.NewManual(testStart))
	_, err := sim.Start(ruaX, models.PaymentCash)
	require.NoError(t, err)

	sim.Reset()
	_, ok := sim.Snapshot()
	assert.False(t, ok)

	_, err = sim.Advance()
	assert.True(t, apperrors.IsNoActiveOrder(err))
}

func TestOrderSimulator_StartReplacesActiveOrder(t *testing.T) {
	sched := scheduler.NewManual(testStart)
	sim := services.NewOrderSimulator(sched)

	first, err := sim.Start(ruaX, models.PaymentPix)
	require.NoError(t, err)
	_, err = sim.Advance()
	require.NoError(t, err)

	second, err := sim.Start(models.Address{Street: "Av. Y", Number: "200", City: "RJ"}, models.PaymentCard)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.StatusPreparing, second.Status)

	snap, ok := sim.Snapshot()
	require.True(t, ok)
	assert.Equal(t, second.ID, snap.ID)
}

func TestOrderSimulator_IDsAreUnique(t *testing.T) {
	sim := services.NewOrderSimulator(scheduler.NewManual(testStart))
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		order, err := sim.Start(ruaX, models.PaymentPix)
		require.NoError(t, err)
		require.False(t, seen[order.ID], "duplicate id %s", order.ID)
		seen[order.ID] = true
	}
}

func TestOrderSimulator_AdvanceTo(t *testing.T) {
	sim := services.NewOrderSimulator(scheduler.NewManual(testStart))
	order, err := sim.Start(ruaX, models.PaymentPix)
	require.NoError(t, err)

	assert.Empty(t, sim.AdvanceTo("OTHER1", models.StatusAssigning), "stale order id")

	steps := sim.AdvanceTo(order.ID, models.StatusEnroute)
	require.Len(t, steps, 2)
	assert.Equal(t, models.StatusAssigning, steps[0].Status)
	assert.Equal(t, models.StatusEnroute, steps[1].Status)

	assert.Empty(t, sim.AdvanceTo(order.ID, models.StatusAssigning), "already past target")

	steps = sim.AdvanceTo(order.ID, models.StatusDelivered)
	require.Len(t, steps, 1)
	assert.True(t, steps[0].IsDelivered())
}

func TestOrderSimulator_Restore(t *testing.T) {
	sim := services.NewOrderSimulator(scheduler.NewManual(testStart))

	first, err := sim.Start(ruaX, models.PaymentPix)
	require.NoError(t, err)
	_, err = sim.Advance()
	require.NoError(t, err)
	previous, ok := sim.Snapshot()
	require.True(t, ok)

	second, err := sim.Start(ruaX, models.PaymentCash)
	require.NoError(t, err)

	sim.Restore(first.ID, models.Order{}, false)
	snap, _ := sim.Snapshot()
	assert.Equal(t, second.ID, snap.ID, "restoring an order that is not active does nothing")

	sim.Restore(second.ID, previous, true)
	snap, ok = sim.Snapshot()
	require.True(t, ok)
	assert.Equal(t, previous, snap)

	third, err := sim.Start(ruaX, models.PaymentCard)
	require.NoError(t, err)
	sim.Restore(third.ID, models.Order{}, false)
	_, ok = sim.Snapshot()
	assert.False(t, ok)
}
