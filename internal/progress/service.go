package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
)

type repository interface {
	MarkComplete(ctx context.Context, record *models.LessonProgress) error
	CountCompleted(ctx context.Context, userID, courseID uuid.UUID) (int64, error)
	ListCompletedLessonIDs(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	FindLessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	CourseIDForLesson(ctx context.Context, lessonID uuid.UUID) (uuid.UUID, error)
	CountLessons(ctx context.Context, courseID uuid.UUID) (int64, error)
}

type accessGate interface {
	CanAccess(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// SummaryDTO reports how far a user is through a course.
type SummaryDTO struct {
	CourseID         uuid.UUID   `json:"course_id"`
	TotalLessons     int64       `json:"total_lessons"`
	CompletedLessons int64       `json:"completed_lessons"`
	PercentComplete  float64     `json:"percent_complete"`
	CompletedIDs     []uuid.UUID `json:"completed_lesson_ids"`
}

// CertificateDTO is issued once a course is fully completed.
type CertificateDTO struct {
	CourseID    uuid.UUID `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	UserID      uuid.UUID `json:"user_id"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Service tracks lesson completion and issues completion certificates.
type Service struct {
	repo    repository
	courses courseReader
	gate    accessGate
}

// NewService constructs a progress service.
func NewService(repo repository, courses courseReader, gate accessGate) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("progress repository is required")
	}
	if courses == nil {
		return nil, fmt.Errorf("course reader is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("access gate is required")
	}
	return &Service{repo: repo, courses: courses, gate: gate}, nil
}

// CompleteLesson marks a lesson finished for an entitled user.
func (s *Service) CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID) (*SummaryDTO, error) {
	courseID, err := s.courses.CourseIDForLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lesson not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve lesson course")
	}

	allowed, err := s.gate.CanAccess(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "course not owned")
	}

	record := &models.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    courseID,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.repo.MarkComplete(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark lesson complete")
	}

	return s.Summary(ctx, userID, courseID)
}

// Summary reports completion counts for one course.
func (s *Service) Summary(ctx context.Context, userID, courseID uuid.UUID) (*SummaryDTO, error) {
	total, err := s.courses.CountLessons(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count lessons")
	}
	completedIDs, err := s.repo.ListCompletedLessonIDs(ctx, userID, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list completed lessons")
	}

	completed := int64(len(completedIDs))
	var percent float64
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}

	return &SummaryDTO{
		CourseID:         courseID,
		TotalLessons:     total,
		CompletedLessons: completed,
		PercentComplete:  percent,
		CompletedIDs:     completedIDs,
	}, nil
}

// Certificate issues a completion certificate once every lesson is done.
func (s *Service) Certificate(ctx context.Context, userID, courseID uuid.UUID) (*CertificateDTO, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}

	allowed, err := s.gate.CanAccess(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "course not owned")
	}

	summary, err := s.Summary(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if summary.TotalLessons == 0 || summary.CompletedLessons < summary.TotalLessons {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course not fully completed")
	}

	return &CertificateDTO{
		CourseID:    courseID,
		CourseTitle: course.Title,
		UserID:      userID,
		IssuedAt:    time.Now().UTC(),
	}, nil
}
