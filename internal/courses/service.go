package courses

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
)

type repository interface {
	ListPublished(ctx context.Context, filter ListFilter) ([]models.Course, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	FindBySlug(ctx context.Context, slug string) (*models.Course, error)
	ListModules(ctx context.Context, courseID uuid.UUID) ([]models.CourseModule, error)
	ListLessonsByModules(ctx context.Context, moduleIDs []uuid.UUID) ([]models.Lesson, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type accessGate interface {
	CanAccess(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// Service serves the public catalog and the gated content tree.
type Service struct {
	repo repository
	gate accessGate
}

// NewService constructs a courses service.
func NewService(repo repository, gate accessGate) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("courses repository is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("access gate is required")
	}
	return &Service{repo: repo, gate: gate}, nil
}

// List returns published courses matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]CourseDTO, error) {
	courses, err := s.repo.ListPublished(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list courses")
	}
	out := make([]CourseDTO, 0, len(courses))
	for i := range courses {
		out = append(out, *CourseFromModel(&courses[i]))
	}
	return out, nil
}

// GetBySlug returns a single published course for the catalog detail page.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*CourseDTO, error) {
	course, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}
	if !course.Published {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	return CourseFromModel(course), nil
}

// GetByID returns a single published course by its id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*CourseDTO, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}
	if !course.Published {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	return CourseFromModel(course), nil
}

// Categories lists all catalog categories.
func (s *Service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *CategoryFromModel(&categories[i]))
	}
	return out, nil
}

// Content returns the course content tree. Only entitled users and the
// course author may read it; everyone else gets a forbidden error and must
// purchase first.
func (s *Service) Content(ctx context.Context, userID, courseID uuid.UUID) (*CourseContentDTO, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}
	if !course.Published && course.AuthorID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}

	entitled := course.AuthorID == userID
	if !entitled {
		entitled, err = s.gate.CanAccess(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
	}
	if !entitled {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "course access required")
	}

	modules, err := s.repo.ListModules(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list modules")
	}
	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	lessons, err := s.repo.ListLessonsByModules(ctx, moduleIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lessons")
	}

	lessonsByModule := map[uuid.UUID][]LessonDTO{}
	for i := range lessons {
		lesson := &lessons[i]
		lessonsByModule[lesson.ModuleID] = append(lessonsByModule[lesson.ModuleID], LessonDTO{
			ID:              lesson.ID,
			Title:           lesson.Title,
			DurationSeconds: lesson.DurationSeconds,
			Position:        lesson.Position,
			IsPreview:       lesson.IsPreview,
			ContentURL:      lesson.ContentURL,
			Body:            lesson.Body,
		})
	}

	moduleDTOs := make([]ModuleDTO, 0, len(modules))
	for _, m := range modules {
		entries := lessonsByModule[m.ID]
		if entries == nil {
			entries = []LessonDTO{}
		}
		moduleDTOs = append(moduleDTOs, ModuleDTO{
			ID:       m.ID,
			Title:    m.Title,
			Position: m.Position,
			Lessons:  entries,
		})
	}

	return &CourseContentDTO{
		Course:  CourseFromModel(course),
		Modules: moduleDTOs,
	}, nil
}
