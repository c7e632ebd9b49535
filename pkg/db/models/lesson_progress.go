package models

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress marks a lesson completed by a user.
type LessonProgress struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_lesson_progress_user_lesson"`
	LessonID    uuid.UUID `gorm:"column:lesson_id;type:uuid;not null;uniqueIndex:idx_lesson_progress_user_lesson"`
	CourseID    uuid.UUID `gorm:"column:course_id;type:uuid;not null;index"`
	CompletedAt time.Time `gorm:"column:completed_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
