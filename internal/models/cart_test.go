package models_test

import (
	"testing"

	"foodexpress/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

func TestCartLine_LineTotal(t *testing.T) {
	line := models.CartLine{ProductID: "1", UnitPrice: decimal.RequireFromString("24.90"), Quantity: 2}
	assert.True(t, decimal.RequireFromString("49.80").Equal(line.LineTotal()))
}

func TestCart_ItemCount(t *testing.T) {
	cart := models.Cart{Lines: []models.CartLine{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 5, cart.ItemCount())
	assert.False(t, cart.IsEmpty())
	assert.True(t, models.Cart{}.IsEmpty())
}

func TestMoney_String(t *testing.T) {
	m := models.NewMoney(decimal.RequireFromString("57.7"), currency.BRL)
	assert.Equal(t, "57.70", m.Fixed())
	assert.Equal(t, "BRL 57.70", m.String())
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, models.Credentials{Email: "voce@exemplo.com", Password: "x"}.Validate())
	assert.Error(t, models.Credentials{Email: "", Password: "x"}.Validate())
	assert.Error(t, models.Credentials{Email: "voce@exemplo.com"}.Validate())
}

func TestProduct_Validate(t *testing.T) {
	p := models.Product{ID: "1", Name: "Burger", Price: decimal.RequireFromString("24.90")}
	assert.NoError(t, p.Validate())

	p.Price = decimal.RequireFromString("-1")
	assert.Error(t, p.Validate())
}
