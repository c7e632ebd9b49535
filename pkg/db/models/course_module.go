package models

import (
	"time"

	"github.com/google/uuid"
)

// CourseModule is an ordered section inside a course.
type CourseModule struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CourseID  uuid.UUID `gorm:"column:course_id;type:uuid;not null;index"`
	Title     string    `gorm:"column:title;type:text;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
