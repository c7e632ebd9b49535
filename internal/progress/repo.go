package progress

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
)

// Repository exposes lesson-progress persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a progress repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// MarkComplete records a lesson completion. Re-marking an already
// completed lesson keeps the original completion time.
func (r *Repository) MarkComplete(ctx context.Context, record *models.LessonProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(record).Error
}

// CountCompleted returns how many lessons of a course the user finished.
func (r *Repository) CountCompleted(ctx context.Context, userID, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LessonProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListCompletedLessonIDs returns the lesson ids the user finished in a course.
func (r *Repository) ListCompletedLessonIDs(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.LessonProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
