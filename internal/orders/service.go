package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Neelesh56789/Smart-LMS/internal/courses"
	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
)

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type entitlementReader interface {
	OwnedCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type courseReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)
}

// Service serves purchase-history and owned-course reads.
type Service struct {
	repo         repository
	entitlements entitlementReader
	courses      courseReader
}

// NewService constructs an orders service.
func NewService(repo repository, entitlements entitlementReader, courseRepo courseReader) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if entitlements == nil {
		return nil, fmt.Errorf("entitlement reader is required")
	}
	if courseRepo == nil {
		return nil, fmt.Errorf("course reader is required")
	}
	return &Service{repo: repo, entitlements: entitlements, courses: courseRepo}, nil
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(records))
	for i := range records {
		out = append(out, *FromModel(&records[i]))
	}
	return out, nil
}

// MyCourses returns every course the user is entitled to. The entitlement
// set is authoritative; courses unpublished after purchase still appear.
func (s *Service) MyCourses(ctx context.Context, userID uuid.UUID) ([]courses.CourseDTO, error) {
	ids, err := s.entitlements.OwnedCourseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []courses.CourseDTO{}, nil
	}

	owned, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owned courses")
	}

	out := make([]courses.CourseDTO, 0, len(owned))
	for i := range owned {
		out = append(out, *courses.CourseFromModel(&owned[i]))
	}
	return out, nil
}
