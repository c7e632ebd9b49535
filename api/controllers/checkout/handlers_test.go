package checkout

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/Neelesh56789/Smart-LMS/api/middleware"
	checkoutsvc "github.com/Neelesh56789/Smart-LMS/internal/checkout"
	"github.com/Neelesh56789/Smart-LMS/pkg/config"
	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
)

type fakeCartReader struct {
	items []models.CartItem
}

func (f *fakeCartReader) ListByUser(_ context.Context, _ uuid.UUID) ([]models.CartItem, error) {
	return f.items, nil
}

type fakeCourseReader struct {
	byID map[uuid.UUID]models.Course
}

func (f *fakeCourseReader) FindPublishedByIDs(_ context.Context, ids []uuid.UUID) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if course, ok := f.byID[id]; ok {
			out = append(out, course)
		}
	}
	return out, nil
}

type fakeStripe struct {
	lastParams *stripe.CheckoutSessionParams
}

func (f *fakeStripe) CreateSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.lastParams = params
	return &stripe.CheckoutSession{ID: "cs_handler", URL: "https://stripe.example/cs_handler"}, nil
}

func handlerFixture(t *testing.T) (*fakeCartReader, *fakeCourseReader, *fakeStripe, http.HandlerFunc) {
	t.Helper()
	cart := &fakeCartReader{}
	courses := &fakeCourseReader{byID: map[uuid.UUID]models.Course{}}
	provider := &fakeStripe{}
	svc, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		CartRepo:   cart,
		CourseRepo: courses,
		Stripe:     provider,
		Config: config.CheckoutConfig{
			SuccessURL: "https://lms.example.com/checkout/success",
			CancelURL:  "https://lms.example.com/checkout/cancel",
			Currency:   "usd",
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return cart, courses, provider, CreateSession(svc, nil)
}

func authedRequest(userID uuid.UUID, body []byte) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/orders/create-checkout-session", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/orders/create-checkout-session", bytes.NewReader(body))
	}
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithEmail(ctx, "learner@example.com")
	return req.WithContext(ctx)
}

func TestCreateSessionHandlerBuyNowBody(t *testing.T) {
	cart, courses, provider, handler := handlerFixture(t)
	userID := uuid.New()
	buyNowID := uuid.New()
	courses.byID[buyNowID] = models.Course{ID: buyNowID, Title: "Buy Now", PriceCents: 3000, Published: true}

	// Something unrelated sits in the cart; the explicit body must win.
	otherID := uuid.New()
	courses.byID[otherID] = models.Course{ID: otherID, Title: "Other", PriceCents: 1000, Published: true}
	cart.items = []models.CartItem{{UserID: userID, CourseID: otherID, PriceCents: 1000}}

	body := []byte(fmt.Sprintf(`{"items":[{"course_id":"%s"}]}`, buyNowID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(userID, body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(provider.lastParams.LineItems) != 1 {
		t.Fatalf("expected one line item, got %d", len(provider.lastParams.LineItems))
	}
	if got := *provider.lastParams.LineItems[0].PriceData.ProductData.Name; got != "Buy Now" {
		t.Fatalf("expected the requested course checked out, got %s", got)
	}
}

func TestCreateSessionHandlerEmptyBodyUsesCart(t *testing.T) {
	cart, courses, provider, handler := handlerFixture(t)
	userID := uuid.New()
	courseID := uuid.New()
	courses.byID[courseID] = models.Course{ID: courseID, Title: "From Cart", PriceCents: 1500, Published: true}
	cart.items = []models.CartItem{{UserID: userID, CourseID: courseID, PriceCents: 1500}}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(userID, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(provider.lastParams.LineItems) != 1 {
		t.Fatalf("expected the cart checked out, got %d line items", len(provider.lastParams.LineItems))
	}
	if provider.lastParams.CustomerEmail == nil || *provider.lastParams.CustomerEmail != "learner@example.com" {
		t.Fatalf("expected caller email on the session, got %v", provider.lastParams.CustomerEmail)
	}
}

func TestCreateSessionHandlerRejectsUnknownCourse(t *testing.T) {
	_, _, _, handler := handlerFixture(t)
	userID := uuid.New()

	body := []byte(fmt.Sprintf(`{"items":[{"course_id":"%s"}]}`, uuid.New()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(userID, body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown course, got %d (%s)", rec.Code, rec.Body.String())
	}
}
