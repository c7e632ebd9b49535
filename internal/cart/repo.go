package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
)

// Repository exposes cart persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
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

// Insert adds one cart line for the user.
func (r *Repository) Insert(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListByUser returns the user's cart lines, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Exists reports whether the user already holds the course in their cart.
func (r *Repository) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes one course from the user's cart. Returns the number of
// rows removed so callers can distinguish a no-op.
func (r *Repository) Delete(ctx context.Context, userID, courseID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// Clear removes every cart line for the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// DeleteByCourseIDs removes only the given courses from the user's cart.
// Fulfillment uses this so items added mid-checkout survive.
func (r *Repository) DeleteByCourseIDs(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) error {
	if len(courseIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Delete(&models.CartItem{}).Error
}

// DeleteByCourseIDsWithTx removes the given courses from the user's cart
// inside the supplied transaction.
func (r *Repository) DeleteByCourseIDsWithTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) error {
	return r.WithTx(tx).DeleteByCourseIDs(ctx, userID, courseIDs)
}
