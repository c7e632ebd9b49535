package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/Neelesh56789/Smart-LMS/pkg/config"
	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
)

type cartReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

type courseReader interface {
	FindPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)
}

// SessionDTO is returned to the client so it can redirect to Stripe.
type SessionDTO struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// Service issues provider checkout sessions for the user's cart.
type Service struct {
	cart    cartReader
	courses courseReader
	stripe  StripeCheckoutClient
	cfg     config.CheckoutConfig
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	CartRepo   cartReader
	CourseRepo courseReader
	Stripe     StripeCheckoutClient
	Config     config.CheckoutConfig
}

// NewService constructs a checkout service.
func NewService(params ServiceParams) (*Service, error) {
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.CourseRepo == nil {
		return nil, fmt.Errorf("course repository is required")
	}
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client is required")
	}
	return &Service{
		cart:    params.CartRepo,
		courses: params.CourseRepo,
		stripe:  params.Stripe,
		cfg:     params.Config,
	}, nil
}

// CreateSession builds a provider checkout session for the given courses.
// An empty courseIDs list means "check out the whole cart"; a non-empty
// list is an explicit purchase (a single buy-now item or a client-side cart
// snapshot). Line amounts always use the current course list price, not the
// cart snapshot, so a stale cart can never buy at an outdated price. Every
// requested course must exist and be published or the whole request fails.
func (s *Service) CreateSession(ctx context.Context, userID uuid.UUID, email string, courseIDs []uuid.UUID) (*SessionDTO, error) {
	if len(courseIDs) == 0 {
		items, err := s.cart.ListByUser(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
		}
		for _, item := range items {
			courseIDs = append(courseIDs, item.CourseID)
		}
	} else {
		courseIDs = dedupeIDs(courseIDs)
	}
	if len(courseIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	courses, err := s.courses.FindPublishedByIDs(ctx, courseIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load courses")
	}
	if len(courses) != len(courseIDs) {
		missing := missingIDs(courseIDs, courses)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more courses not found").
			WithDetails(map[string]any{"course_ids": missing})
	}

	metadata, err := EncodeMetadata(SessionMetadata{UserID: userID, Email: email, CourseIDs: courseIDs})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session metadata")
	}

	currency := s.cfg.Currency
	if currency == "" {
		currency = "usd"
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(courses))
	for i := range courses {
		course := &courses[i]
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(course.PriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(course.Title),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		LineItems:  lineItems,
	}
	params.Metadata = metadata
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}

	session, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "create checkout session")
	}

	return &SessionDTO{SessionID: session.ID, URL: session.URL}, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func missingIDs(wanted []uuid.UUID, found []models.Course) []string {
	present := make(map[uuid.UUID]bool, len(found))
	for _, course := range found {
		present[course.ID] = true
	}
	var missing []string
	for _, id := range wanted {
		if !present[id] {
			missing = append(missing, id.String())
		}
	}
	return missing
}
