package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Neelesh56789/Smart-LMS/pkg/enums"
)

// Course is the sellable catalog entity. PriceCents is the list price at
// the time of display; cart lines snapshot it on add.
type Course struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuthorID     uuid.UUID         `gorm:"column:author_id;type:uuid;not null;index"`
	CategoryID   *uuid.UUID        `gorm:"column:category_id;type:uuid;index"`
	Title        string            `gorm:"column:title;type:text;not null"`
	Slug         string            `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Description  *string           `gorm:"column:description"`
	Level        enums.CourseLevel `gorm:"column:level;type:text;not null;default:'beginner'"`
	PriceCents   int64             `gorm:"column:price_cents;not null;default:0"`
	ThumbnailURL *string           `gorm:"column:thumbnail_url"`
	Published    bool              `gorm:"column:published;not null;default:false"`
	PublishedAt  *time.Time        `gorm:"column:published_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
