package courses

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
)

// ListFilter narrows the published-course listing.
type ListFilter struct {
	CategorySlug string
	Search       string
	Limit        int
	Offset       int
}

// Repository exposes course catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a courses repo bound to the provided GORM DB.
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

// ListPublished returns published courses matching the filter.
func (r *Repository) ListPublished(ctx context.Context, filter ListFilter) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Where("published = ?", true)

	if filter.CategorySlug != "" {
		query = query.Where(
			"category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.CategorySlug),
		)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ?", pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// FindByID loads a course by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindBySlug loads a course by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindPublishedByIDs returns the subset of ids that exist as published courses.
func (r *Repository) FindPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Where("id IN ? AND published = ?", ids, true).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// FindByIDs loads courses by id regardless of published state. Owned
// courses stay reachable even after the author unpublishes them.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// ListModules returns a course's modules in display order.
func (r *Repository) ListModules(ctx context.Context, courseID uuid.UUID) ([]models.CourseModule, error) {
	var modules []models.CourseModule
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// ListLessonsByModules returns lessons for the given modules in display order.
func (r *Repository) ListLessonsByModules(ctx context.Context, moduleIDs []uuid.UUID) ([]models.Lesson, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("position ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

// FindLessonByID loads a single lesson.
func (r *Repository) FindLessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CourseIDForLesson resolves the owning course for a lesson.
func (r *Repository) CourseIDForLesson(ctx context.Context, lessonID uuid.UUID) (uuid.UUID, error) {
	var moduleID uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Select("module_id").
		Where("id = ?", lessonID).
		Scan(&moduleID).Error
	if err != nil {
		return uuid.Nil, err
	}
	if moduleID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}

	var courseID uuid.UUID
	err = r.db.WithContext(ctx).
		Model(&models.CourseModule{}).
		Select("course_id").
		Where("id = ?", moduleID).
		Scan(&courseID).Error
	if err != nil {
		return uuid.Nil, err
	}
	if courseID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return courseID, nil
}

// CountLessons returns the number of lessons attached to a course.
func (r *Repository) CountLessons(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("module_id IN (?)", r.db.Model(&models.CourseModule{}).Select("id").Where("course_id = ?", courseID)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListCategories returns all catalog categories.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
