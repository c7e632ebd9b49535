package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem persists one course held in a user's cart. PriceCents is a
// snapshot of the course list price at the time the item was added; the
// checkout issuer always re-reads the current course price.
type CartItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_course"`
	CourseID   uuid.UUID `gorm:"column:course_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_course"`
	PriceCents int64     `gorm:"column:price_cents;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
