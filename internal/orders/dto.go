package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	"github.com/Neelesh56789/Smart-LMS/pkg/enums"
	"github.com/Neelesh56789/Smart-LMS/pkg/types"
)

// OrderItemDTO is one course line on an order.
type OrderItemDTO struct {
	CourseID   uuid.UUID `json:"course_id"`
	PriceCents int64     `json:"price_cents"`
	Price      string    `json:"price"`
}

// OrderDTO is the public representation of a ledger entry.
type OrderDTO struct {
	ID               uuid.UUID         `json:"id"`
	PaymentReference string            `json:"payment_reference"`
	Status           enums.OrderStatus `json:"status"`
	TotalCents       int64             `json:"total_cents"`
	Total            string            `json:"total"`
	Currency         string            `json:"currency"`
	FailureReason    *string           `json:"failure_reason,omitempty"`
	Items            []OrderItemDTO    `json:"items"`
	CreatedAt        time.Time         `json:"created_at"`
}

// FromModel maps an order model onto its DTO.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			CourseID:   item.CourseID,
			PriceCents: item.PriceCents,
			Price:      types.CentsToDollars(item.PriceCents),
		})
	}
	return &OrderDTO{
		ID:               order.ID,
		PaymentReference: order.PaymentReference,
		Status:           order.Status,
		TotalCents:       order.TotalCents,
		Total:            types.CentsToDollars(order.TotalCents),
		Currency:         order.Currency,
		FailureReason:    order.FailureReason,
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}
