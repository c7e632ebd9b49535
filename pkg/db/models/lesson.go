package models

import (
	"time"

	"github.com/google/uuid"
)

// Lesson is a single unit of course content. Preview lessons are visible
// without an entitlement.
type Lesson struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ModuleID        uuid.UUID `gorm:"column:module_id;type:uuid;not null;index"`
	Title           string    `gorm:"column:title;type:text;not null"`
	ContentURL      *string   `gorm:"column:content_url"`
	Body            *string   `gorm:"column:body"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null;default:0"`
	Position        int       `gorm:"column:position;not null;default:0"`
	IsPreview       bool      `gorm:"column:is_preview;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
