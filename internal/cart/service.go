package cart

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
	Insert(ctx context.Context, item *models.CartItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	Delete(ctx context.Context, userID, courseID uuid.UUID) (int64, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type courseReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type entitlementChecker interface {
	CanAccess(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// Service manages the per-user course cart.
type Service struct {
	repo         repository
	courses      courseReader
	entitlements entitlementChecker
}

// NewService constructs a cart service.
func NewService(repo repository, courses courseReader, entitlements entitlementChecker) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if courses == nil {
		return nil, fmt.Errorf("course reader is required")
	}
	if entitlements == nil {
		return nil, fmt.Errorf("entitlement checker is required")
	}
	return &Service{repo: repo, courses: courses, entitlements: entitlements}, nil
}

// Add places a published course in the user's cart, snapshotting its
// current list price on the line.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}
	if !course.Published {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	if course.AuthorID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot purchase your own course")
	}

	owned, err := s.entitlements.CanAccess(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "course already owned")
	}

	exists, err := s.repo.Exists(ctx, userID, course.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check cart")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "course already in cart")
	}

	item := &models.CartItem{
		UserID:     userID,
		CourseID:   course.ID,
		PriceCents: course.PriceCents,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
	}

	return s.Get(ctx, userID)
}

// Get returns the user's cart. Lines whose course has been unpublished or
// deleted since they were added are dropped from the view and removed.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		item := &items[i]
		course, err := s.courses.FindByID(ctx, item.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if _, delErr := s.repo.Delete(ctx, userID, item.CourseID); delErr != nil {
					return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, delErr, "prune cart item")
				}
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart course")
		}
		if !course.Published {
			if _, delErr := s.repo.Delete(ctx, userID, item.CourseID); delErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, delErr, "prune cart item")
			}
			continue
		}
		out = append(out, ItemDTO{
			CourseID:     course.ID,
			Title:        course.Title,
			Slug:         course.Slug,
			ThumbnailURL: course.ThumbnailURL,
			PriceCents:   item.PriceCents,
			Price:        itemPrice(item.PriceCents),
			AddedAt:      item.CreatedAt,
		})
	}

	return buildCartDTO(out), nil
}

// Remove deletes one course from the cart. Removing a course that is not
// in the cart is a silent success, so the call is safe to retry.
func (s *Service) Remove(ctx context.Context, userID, courseID uuid.UUID) (*CartDTO, error) {
	if _, err := s.repo.Delete(ctx, userID, courseID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
