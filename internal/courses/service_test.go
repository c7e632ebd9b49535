package courses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
)

type stubCourseRepo struct {
	courses map[uuid.UUID]*models.Course
	modules []models.CourseModule
	lessons []models.Lesson
}

func (s *stubCourseRepo) ListPublished(_ context.Context, _ ListFilter) ([]models.Course, error) {
	var out []models.Course
	for _, c := range s.courses {
		if c.Published {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubCourseRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	if c, ok := s.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCourseRepo) FindBySlug(_ context.Context, slug string) (*models.Course, error) {
	for _, c := range s.courses {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCourseRepo) ListModules(_ context.Context, courseID uuid.UUID) ([]models.CourseModule, error) {
	var out []models.CourseModule
	for _, m := range s.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubCourseRepo) ListLessonsByModules(_ context.Context, moduleIDs []uuid.UUID) ([]models.Lesson, error) {
	allowed := map[uuid.UUID]bool{}
	for _, id := range moduleIDs {
		allowed[id] = true
	}
	var out []models.Lesson
	for _, l := range s.lessons {
		if allowed[l.ModuleID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *stubCourseRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	return nil, nil
}

type stubGate struct {
	allowed map[uuid.UUID]bool
}

func (s *stubGate) CanAccess(_ context.Context, _ uuid.UUID, courseID uuid.UUID) (bool, error) {
	return s.allowed[courseID], nil
}

func strPtr(v string) *string { return &v }

func fixtureRepo(authorID uuid.UUID) (*stubCourseRepo, uuid.UUID) {
	courseID := uuid.New()
	moduleID := uuid.New()
	return &stubCourseRepo{
		courses: map[uuid.UUID]*models.Course{
			courseID: {
				ID:        courseID,
				AuthorID:  authorID,
				Title:     "Intro to Go",
				Slug:      "intro-to-go",
				Published: true,
			},
		},
		modules: []models.CourseModule{
			{ID: moduleID, CourseID: courseID, Title: "Basics", Position: 1},
		},
		lessons: []models.Lesson{
			{ID: uuid.New(), ModuleID: moduleID, Title: "Welcome", Position: 1, IsPreview: true, Body: strPtr("preview body")},
			{ID: uuid.New(), ModuleID: moduleID, Title: "Pointers", Position: 2, Body: strPtr("paid body"), ContentURL: strPtr("https://cdn.example.com/pointers")},
		},
	}, courseID
}

func TestContentForbiddenForUnentitledUser(t *testing.T) {
	repo, courseID := fixtureRepo(uuid.New())
	svc, err := NewService(repo, &stubGate{allowed: map[uuid.UUID]bool{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Content(context.Background(), uuid.New(), courseID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestContentOpensAllLessonsForEntitledUser(t *testing.T) {
	repo, courseID := fixtureRepo(uuid.New())
	svc, err := NewService(repo, &stubGate{allowed: map[uuid.UUID]bool{courseID: true}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	content, err := svc.Content(context.Background(), uuid.New(), courseID)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	lessons := content.Modules[0].Lessons
	if len(lessons) != 2 {
		t.Fatalf("expected both lessons, got %d", len(lessons))
	}
	for _, lesson := range lessons {
		if lesson.Body == nil {
			t.Fatalf("expected lesson body for entitled user, %s is empty", lesson.Title)
		}
	}
}

func TestContentAuthorBypassesGate(t *testing.T) {
	authorID := uuid.New()
	repo, courseID := fixtureRepo(authorID)
	svc, err := NewService(repo, &stubGate{allowed: map[uuid.UUID]bool{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	content, err := svc.Content(context.Background(), authorID, courseID)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if len(content.Modules) == 0 {
		t.Fatalf("expected author to see full content")
	}
}

func TestContentHidesUnpublishedCourseFromOthers(t *testing.T) {
	repo, courseID := fixtureRepo(uuid.New())
	repo.courses[courseID].Published = false

	svc, err := NewService(repo, &stubGate{allowed: map[uuid.UUID]bool{courseID: true}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Content(context.Background(), uuid.New(), courseID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetBySlugHidesUnpublishedCourse(t *testing.T) {
	repo, courseID := fixtureRepo(uuid.New())
	repo.courses[courseID].Published = false

	svc, err := NewService(repo, &stubGate{allowed: map[uuid.UUID]bool{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetBySlug(context.Background(), "intro-to-go")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
