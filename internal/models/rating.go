package models

import "time"

// DefaultRatingStars is the preselected score of the rating form.
const DefaultRatingStars = 5

// Rating is the customer's feedback on an order.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"index;type:varchar(255)" validate:"required"`
	OrderID   string    `json:"order_id,omitempty" gorm:"type:varchar(16)"`
	Stars     int       `json:"stars" validate:"min=1,max=5"`
	Comment   string    `json:"comment" gorm:"type:text" validate:"max=1000"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the score range and comment length.
func (r Rating) Validate() error {
	return validateStruct("invalid rating", r)
}
