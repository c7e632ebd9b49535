package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/Neelesh56789/Smart-LMS/pkg/types"
)

// AddItemRequest is the payload for adding a course to the cart.
type AddItemRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
}

// ItemDTO is one cart line with its snapshot price.
type ItemDTO struct {
	CourseID     uuid.UUID `json:"course_id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	PriceCents   int64     `json:"price_cents"`
	Price        string    `json:"price"`
	AddedAt      time.Time `json:"added_at"`
}

// CartDTO is the user's full cart view.
type CartDTO struct {
	Items         []ItemDTO `json:"items"`
	SubtotalCents int64     `json:"subtotal_cents"`
	Subtotal      string    `json:"subtotal"`
}

func itemPrice(cents int64) string {
	return types.CentsToDollars(cents)
}

func buildCartDTO(items []ItemDTO) *CartDTO {
	var subtotal int64
	for _, item := range items {
		subtotal += item.PriceCents
	}
	return &CartDTO{
		Items:         items,
		SubtotalCents: subtotal,
		Subtotal:      types.CentsToDollars(subtotal),
	}
}
