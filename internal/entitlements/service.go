package entitlements

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
)

type repository interface {
	WithTx(tx *gorm.DB) *Repository
	GrantAll(ctx context.Context, grants []models.Entitlement) error
	Has(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ListCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Service is the access gate for owned course content.
type Service struct {
	repo repository
}

// NewService constructs an entitlements service.
func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("entitlements repository is required")
	}
	return &Service{repo: repo}, nil
}

// CanAccess reports whether the user may read the full content of a course.
func (s *Service) CanAccess(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	has, err := s.repo.Has(ctx, userID, courseID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check entitlement")
	}
	return has, nil
}

// OwnedCourseIDs returns every course id the user holds an entitlement for.
func (s *Service) OwnedCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.ListCourseIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list entitlements")
	}
	return ids, nil
}
