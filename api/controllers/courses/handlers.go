package courses

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Neelesh56789/Smart-LMS/api/middleware"
	"github.com/Neelesh56789/Smart-LMS/api/responses"
	"github.com/Neelesh56789/Smart-LMS/api/validators"
	coursesvc "github.com/Neelesh56789/Smart-LMS/internal/courses"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
	"github.com/Neelesh56789/Smart-LMS/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// List returns published catalog courses, optionally filtered by category
// slug and a title search term.
func List(svc *coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := coursesvc.ListFilter{
			CategorySlug: strings.TrimSpace(r.URL.Query().Get("category")),
			Search:       strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:        limit,
			Offset:       offset,
		}

		records, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// Detail returns one published course. The path segment accepts either the
// course id or its slug.
func Detail(svc *coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		param := chi.URLParam(r, "courseId")
		if id, err := uuid.Parse(param); err == nil {
			record, err := svc.GetByID(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, record)
			return
		}

		record, err := svc.GetBySlug(r.Context(), param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// Categories lists catalog categories.
func Categories(svc *coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		records, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// Content returns the course module/lesson tree with lesson bodies withheld
// unless the caller is entitled or the lesson is a preview.
func Content(svc *coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		userID, err := middleware.UserUUIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		courseID, err := uuid.Parse(chi.URLParam(r, "courseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid course id"))
			return
		}

		record, err := svc.Content(r.Context(), userID, courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
