package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/Neelesh56789/Smart-LMS/pkg/config"
	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
)

type stubCartReader struct {
	items []models.CartItem
}

func (s *stubCartReader) ListByUser(_ context.Context, _ uuid.UUID) ([]models.CartItem, error) {
	return s.items, nil
}

type stubCourseReader struct {
	byID map[uuid.UUID]models.Course
}

func (s *stubCourseReader) FindPublishedByIDs(_ context.Context, ids []uuid.UUID) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if course, ok := s.byID[id]; ok && course.Published {
			out = append(out, course)
		}
	}
	return out, nil
}

type stubStripe struct {
	lastParams *stripe.CheckoutSessionParams
	session    *stripe.CheckoutSession
	err        error
}

func (s *stubStripe) CreateSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		SuccessURL: "https://lms.example.com/checkout/success",
		CancelURL:  "https://lms.example.com/checkout/cancel",
		Currency:   "usd",
	}
}

func TestCreateSessionUsesCurrentPricesNotSnapshots(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()

	cart := &stubCartReader{items: []models.CartItem{
		{UserID: userID, CourseID: courseID, PriceCents: 1000}, // stale snapshot
	}}
	courses := &stubCourseReader{byID: map[uuid.UUID]models.Course{
		courseID: {ID: courseID, Title: "Intro to Go", PriceCents: 2500, Published: true},
	}}
	provider := &stubStripe{session: &stripe.CheckoutSession{ID: "cs_test_123", URL: "https://stripe.example/cs_test_123"}}

	svc, err := NewService(ServiceParams{CartRepo: cart, CourseRepo: courses, Stripe: provider, Config: testCheckoutConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.CreateSession(context.Background(), userID, "learner@example.com", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if dto.SessionID != "cs_test_123" {
		t.Fatalf("expected session id propagated, got %s", dto.SessionID)
	}

	line := provider.lastParams.LineItems[0]
	if got := *line.PriceData.UnitAmount; got != 2500 {
		t.Fatalf("expected current price 2500 on line item, got %d", got)
	}

	meta := provider.lastParams.Metadata
	if meta["v"] != "1" || meta["user_id"] != userID.String() {
		t.Fatalf("unexpected session metadata: %v", meta)
	}
}

func TestCreateSessionExplicitItemsSkipCart(t *testing.T) {
	userID := uuid.New()
	inCartID := uuid.New()
	buyNowID := uuid.New()

	cart := &stubCartReader{items: []models.CartItem{
		{UserID: userID, CourseID: inCartID, PriceCents: 1000},
	}}
	courses := &stubCourseReader{byID: map[uuid.UUID]models.Course{
		inCartID: {ID: inCartID, Title: "In Cart", PriceCents: 1000, Published: true},
		buyNowID: {ID: buyNowID, Title: "Buy Now", PriceCents: 3000, Published: true},
	}}
	provider := &stubStripe{session: &stripe.CheckoutSession{ID: "cs_buynow", URL: "https://stripe.example/cs_buynow"}}

	svc, err := NewService(ServiceParams{CartRepo: cart, CourseRepo: courses, Stripe: provider, Config: testCheckoutConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.CreateSession(context.Background(), userID, "learner@example.com", []uuid.UUID{buyNowID}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if len(provider.lastParams.LineItems) != 1 {
		t.Fatalf("expected one line item, got %d", len(provider.lastParams.LineItems))
	}
	if got := *provider.lastParams.LineItems[0].PriceData.ProductData.Name; got != "Buy Now" {
		t.Fatalf("expected buy-now course on the session, got %s", got)
	}
}

func TestCreateSessionSetsCustomerEmail(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()

	cart := &stubCartReader{items: []models.CartItem{{UserID: userID, CourseID: courseID, PriceCents: 500}}}
	courses := &stubCourseReader{byID: map[uuid.UUID]models.Course{
		courseID: {ID: courseID, Title: "Intro", PriceCents: 500, Published: true},
	}}
	provider := &stubStripe{session: &stripe.CheckoutSession{ID: "cs_email"}}

	svc, err := NewService(ServiceParams{CartRepo: cart, CourseRepo: courses, Stripe: provider, Config: testCheckoutConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.CreateSession(context.Background(), userID, "buyer@example.com", nil); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if provider.lastParams.CustomerEmail == nil || *provider.lastParams.CustomerEmail != "buyer@example.com" {
		t.Fatalf("expected customer email on session params, got %v", provider.lastParams.CustomerEmail)
	}
	if got := provider.lastParams.Metadata["email"]; got != "buyer@example.com" {
		t.Fatalf("expected email echoed in session metadata, got %q", got)
	}
}

func TestCreateSessionRejectsEmptyCart(t *testing.T) {
	svc, err := NewService(ServiceParams{
		CartRepo:   &stubCartReader{},
		CourseRepo: &stubCourseReader{byID: map[uuid.UUID]models.Course{}},
		Stripe:     &stubStripe{},
		Config:     testCheckoutConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateSession(context.Background(), uuid.New(), "learner@example.com", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSessionFailsWhenAnyCourseUnavailable(t *testing.T) {
	userID := uuid.New()
	okID := uuid.New()
	goneID := uuid.New()

	cart := &stubCartReader{items: []models.CartItem{
		{UserID: userID, CourseID: okID, PriceCents: 1000},
		{UserID: userID, CourseID: goneID, PriceCents: 2000},
	}}
	courses := &stubCourseReader{byID: map[uuid.UUID]models.Course{
		okID: {ID: okID, Title: "Available", PriceCents: 1000, Published: true},
	}}
	provider := &stubStripe{session: &stripe.CheckoutSession{ID: "cs_x"}}

	svc, err := NewService(ServiceParams{CartRepo: cart, CourseRepo: courses, Stripe: provider, Config: testCheckoutConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateSession(context.Background(), userID, "learner@example.com", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if provider.lastParams != nil {
		t.Fatalf("expected no provider call when referential check fails")
	}
}

func TestCreateSessionWrapsProviderErrors(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()

	cart := &stubCartReader{items: []models.CartItem{{UserID: userID, CourseID: courseID}}}
	courses := &stubCourseReader{byID: map[uuid.UUID]models.Course{
		courseID: {ID: courseID, Title: "Intro", PriceCents: 500, Published: true},
	}}
	provider := &stubStripe{err: &stripe.Error{Msg: "rate limited"}}

	svc, err := NewService(ServiceParams{CartRepo: cart, CourseRepo: courses, Stripe: provider, Config: testCheckoutConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateSession(context.Background(), userID, "learner@example.com", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePayment {
		t.Fatalf("expected payment error, got %v", err)
	}
}
