package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Neelesh56789/Smart-LMS/pkg/enums"
)

// Order is the immutable ledger row for a reconciled checkout session.
// PaymentReference is the provider session id and carries a unique index;
// it is the idempotency anchor for webhook redeliveries.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	PaymentReference string            `gorm:"column:payment_reference;type:text;not null;uniqueIndex"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null"`
	TotalCents       int64             `gorm:"column:total_cents;not null;default:0"`
	Currency         string            `gorm:"column:currency;type:text;not null;default:'usd'"`
	FailureReason    *string           `gorm:"column:failure_reason"`
	Items            []OrderItem       `gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem records one course granted by an order.
type OrderItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	CourseID   uuid.UUID `gorm:"column:course_id;type:uuid;not null"`
	PriceCents int64     `gorm:"column:price_cents;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
