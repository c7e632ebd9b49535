package courses

import (
	"time"

	"github.com/google/uuid"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	"github.com/Neelesh56789/Smart-LMS/pkg/enums"
	"github.com/Neelesh56789/Smart-LMS/pkg/types"
)

// CourseDTO is the catalog representation of a course.
type CourseDTO struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Description  *string           `json:"description,omitempty"`
	Level        enums.CourseLevel `json:"level"`
	PriceCents   int64             `json:"price_cents"`
	Price        string            `json:"price"`
	ThumbnailURL *string           `json:"thumbnail_url,omitempty"`
	PublishedAt  *time.Time        `json:"published_at,omitempty"`
}

// CourseFromModel maps a course model onto the catalog DTO.
func CourseFromModel(course *models.Course) *CourseDTO {
	if course == nil {
		return nil
	}
	return &CourseDTO{
		ID:           course.ID,
		Title:        course.Title,
		Slug:         course.Slug,
		Description:  course.Description,
		Level:        course.Level,
		PriceCents:   course.PriceCents,
		Price:        types.CentsToDollars(course.PriceCents),
		ThumbnailURL: course.ThumbnailURL,
		PublishedAt:  course.PublishedAt,
	}
}

// LessonDTO is one content unit.
type LessonDTO struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	DurationSeconds int       `json:"duration_seconds"`
	Position        int       `json:"position"`
	IsPreview       bool      `json:"is_preview"`
	ContentURL      *string   `json:"content_url,omitempty"`
	Body            *string   `json:"body,omitempty"`
}

// ModuleDTO is one ordered section of course content.
type ModuleDTO struct {
	ID       uuid.UUID   `json:"id"`
	Title    string      `json:"title"`
	Position int         `json:"position"`
	Lessons  []LessonDTO `json:"lessons"`
}

// CourseContentDTO is the gated content tree for one course.
type CourseContentDTO struct {
	Course  *CourseDTO  `json:"course"`
	Modules []ModuleDTO `json:"modules"`
}

// CategoryDTO is the public representation of a catalog category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
}

// CategoryFromModel maps a category model onto its DTO.
func CategoryFromModel(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}
}
