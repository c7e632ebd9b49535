package checkout

import (
	"net/http"

	"github.com/Neelesh56789/Smart-LMS/api/middleware"
	"github.com/Neelesh56789/Smart-LMS/api/responses"
	"github.com/Neelesh56789/Smart-LMS/api/validators"
	checkoutsvc "github.com/Neelesh56789/Smart-LMS/internal/checkout"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
	"github.com/Neelesh56789/Smart-LMS/pkg/logger"
)

// CreateSession issues a provider checkout session. The body may carry an
// explicit item list (buy-now or a client cart snapshot); an empty body
// checks out the caller's server-side cart.
func CreateSession(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := middleware.UserUUIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutsvc.CreateSessionRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		email := middleware.EmailFromContext(r.Context())
		session, err := svc.CreateSession(r.Context(), userID, email, req.CourseIDs())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}
