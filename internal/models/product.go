package models

import (
	"time"

	"foodexpress/internal/apperrors"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required"`
	Name        string          `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Description string          `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	ImageGlyph  string          `json:"image_glyph" gorm:"type:varchar(16)"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// Validate checks the product fields. Prices must not be negative.
func (p Product) Validate() error {
	if err := validateStruct("invalid product", p); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return apperrors.NewFieldValidationError("invalid product", map[string]string{
			"Price": "Field 'Price' must not be negative",
		})
	}
	return nil
}
