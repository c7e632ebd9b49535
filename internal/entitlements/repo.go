package entitlements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
)

// Repository exposes entitlement persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an entitlements repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// GrantAll inserts the given entitlements, silently skipping rows the user
// already holds. Grants are set-union so webhook redelivery cannot shrink
// or duplicate access.
func (r *Repository) GrantAll(ctx context.Context, grants []models.Entitlement) error {
	if len(grants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(&grants).Error
}

// GrantAllWithTx inserts entitlements inside the supplied transaction.
func (r *Repository) GrantAllWithTx(ctx context.Context, tx *gorm.DB, grants []models.Entitlement) error {
	return r.WithTx(tx).GrantAll(ctx, grants)
}

// Has reports whether the user holds an entitlement for the course.
func (r *Repository) Has(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Entitlement{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListCourseIDs returns every course id the user is entitled to.
func (r *Repository) ListCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Entitlement{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
