package models

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement grants a user permanent access to a course. The unique
// user/course index makes grants idempotent under webhook redelivery.
type Entitlement struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_entitlements_user_course"`
	CourseID  uuid.UUID  `gorm:"column:course_id;type:uuid;not null;uniqueIndex:idx_entitlements_user_course"`
	OrderID   *uuid.UUID `gorm:"column:order_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
