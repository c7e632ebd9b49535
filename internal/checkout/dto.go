package checkout

import "github.com/google/uuid"

// SessionItemRequest names one course to purchase.
type SessionItemRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
}

// CreateSessionRequest is the checkout payload. An empty or omitted item
// list means "check out my whole cart"; a single item is the buy-now path.
type CreateSessionRequest struct {
	Items []SessionItemRequest `json:"items" validate:"dive"`
}

// CourseIDs flattens the requested items.
func (r CreateSessionRequest) CourseIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.CourseID)
	}
	return ids
}
