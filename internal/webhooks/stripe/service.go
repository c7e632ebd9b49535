package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Neelesh56789/Smart-LMS/internal/checkout"
	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	"github.com/Neelesh56789/Smart-LMS/pkg/enums"
	pkgerrors "github.com/Neelesh56789/Smart-LMS/pkg/errors"
	"github.com/Neelesh56789/Smart-LMS/pkg/metrics"
)

const (
	skipReasonDuplicate        = "duplicate"
	skipReasonIgnoredEventType = "ignored_event_type"
	skipReasonAlreadyFulfilled = "already_fulfilled"

	failReasonSessionDecode   = "session_decode"
	failReasonInvalidMetadata = "metadata_invalid"
	failReasonAccountMissing  = "account_missing"
	failReasonCourseMissing   = "course_missing"
	failReasonCommit          = "fulfillment_commit"
)

type eventGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type orderRepository interface {
	FindByPaymentReference(ctx context.Context, reference string) (*models.Order, error)
	CreateWithTx(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
}

type entitlementRepository interface {
	GrantAllWithTx(ctx context.Context, tx *gorm.DB, grants []models.Entitlement) error
}

type cartRepository interface {
	DeleteByCourseIDsWithTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) error
}

type courseRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build the reconciler.
type ServiceParams struct {
	Guard             eventGuard
	OrderRepo         orderRepository
	EntitlementRepo   entitlementRepository
	CartRepo          cartRepository
	CourseRepo        courseRepository
	UserRepo          userRepository
	TransactionRunner txRunner
	Metrics           *metrics.WebhookMetrics
}

// Service reconciles verified payment provider events into the order
// ledger. Every failure after signature verification is recorded as a
// failed order and acknowledged; an error surfaces (so the provider
// redelivers) only when the failure record itself cannot be written.
type Service struct {
	guard        eventGuard
	orders       orderRepository
	entitlements entitlementRepository
	cart         cartRepository
	courses      courseRepository
	users        userRepository
	txRunner     txRunner
	metrics      *metrics.WebhookMetrics
}

// NewService constructs the webhook reconciler.
func NewService(params ServiceParams) (*Service, error) {
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repo required")
	}
	if params.EntitlementRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "entitlement repo required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if params.CourseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "course repo required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{
		guard:        params.Guard,
		orders:       params.OrderRepo,
		entitlements: params.EntitlementRepo,
		cart:         params.CartRepo,
		courses:      params.CourseRepo,
		users:        params.UserRepo,
		txRunner:     params.TransactionRunner,
		metrics:      params.Metrics,
	}, nil
}

// HandleEvent processes one verified event.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	started := time.Now()
	defer func() {
		s.metrics.ObserveDuration(time.Since(started))
	}()

	// Best-effort fast skip. A Redis outage must not block fulfillment;
	// the payment_reference lookup below stays authoritative.
	duplicate, guardErr := s.guard.CheckAndMark(ctx, event.ID)
	if guardErr == nil && duplicate {
		s.metrics.IncSkipped(skipReasonDuplicate)
		return nil
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		s.metrics.IncSkipped(skipReasonIgnoredEventType)
		return nil
	}
	s.metrics.IncReceived(string(event.Type))

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		// Undecodable payload carries no user to pin a failed order on.
		s.metrics.IncFailed(failReasonSessionDecode)
		return nil
	}

	existing, err := s.orders.FindByPaymentReference(ctx, session.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return s.retryable(ctx, event.ID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order"))
	}
	if existing != nil {
		s.metrics.IncSkipped(skipReasonAlreadyFulfilled)
		return nil
	}

	meta, err := checkout.DecodeMetadata(session.Metadata)
	if err != nil {
		return s.recordFailure(ctx, event.ID, userIDFromRawMetadata(session.Metadata), &session, failReasonInvalidMetadata, err)
	}

	if _, err := s.users.FindByID(ctx, meta.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The account vanished after paying. A failed order cannot be
			// pinned on a missing user row, so record the metric and ack.
			s.metrics.IncFailed(failReasonAccountMissing)
			return nil
		}
		return s.retryable(ctx, event.ID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
	}

	courses, err := s.courses.FindByIDs(ctx, meta.CourseIDs)
	if err != nil {
		return s.retryable(ctx, event.ID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load courses"))
	}
	if len(courses) != len(meta.CourseIDs) {
		userID := meta.UserID
		return s.recordFailure(ctx, event.ID, &userID, &session, failReasonCourseMissing,
			pkgerrors.New(pkgerrors.CodeNotFound, "session references unknown courses"))
	}

	order := buildOrder(meta, &session, courses)
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.CreateWithTx(ctx, tx, order); err != nil {
			return err
		}

		grants := make([]models.Entitlement, 0, len(meta.CourseIDs))
		for _, courseID := range meta.CourseIDs {
			grants = append(grants, models.Entitlement{
				UserID:   meta.UserID,
				CourseID: courseID,
				OrderID:  &order.ID,
			})
		}
		if err := s.entitlements.GrantAllWithTx(ctx, tx, grants); err != nil {
			return err
		}

		return s.cart.DeleteByCourseIDsWithTx(ctx, tx, meta.UserID, meta.CourseIDs)
	})
	if err != nil {
		// The payment is already captured, so refusing the event cannot
		// undo the charge. Persist a failed order carrying the raw error
		// for operator review and acknowledge; recordFailure falls back to
		// clearing the guard marker when even that write fails.
		userID := meta.UserID
		return s.recordFailure(ctx, event.ID, &userID, &session, failReasonCommit, err)
	}

	s.metrics.IncFulfilled()
	return nil
}

// recordFailure persists a failed ledger entry for a fulfillment failure
// and acknowledges the event. Without a user id there is nothing to pin
// the entry on, so only the metric is recorded. If the entry itself cannot
// be written the guard marker is cleared and the error surfaces, making
// provider redelivery the recovery path of last resort.
func (s *Service) recordFailure(ctx context.Context, eventID string, userID *uuid.UUID, session *stripe.CheckoutSession, reason string, cause error) error {
	s.metrics.IncFailed(reason)
	if userID == nil {
		return nil
	}

	failureReason := reason + ": " + cause.Error()
	order := &models.Order{
		UserID:           *userID,
		PaymentReference: session.ID,
		Status:           enums.OrderStatusFailed,
		TotalCents:       session.AmountTotal,
		Currency:         normalizeCurrency(session.Currency),
		FailureReason:    &failureReason,
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		_, createErr := s.orders.CreateWithTx(ctx, tx, order)
		return createErr
	})
	if err != nil {
		return s.retryable(ctx, eventID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist failed order"))
	}
	return nil
}

// retryable clears the fast-skip marker so the provider's redelivery is
// processed, then surfaces the original error.
func (s *Service) retryable(ctx context.Context, eventID string, err error) error {
	if delErr := s.guard.Delete(ctx, eventID); delErr != nil {
		return multierr.Append(err, delErr)
	}
	return err
}

func buildOrder(meta *checkout.SessionMetadata, session *stripe.CheckoutSession, courses []models.Course) *models.Order {
	priceByID := make(map[uuid.UUID]int64, len(courses))
	for _, course := range courses {
		priceByID[course.ID] = course.PriceCents
	}

	items := make([]models.OrderItem, 0, len(meta.CourseIDs))
	for _, courseID := range meta.CourseIDs {
		items = append(items, models.OrderItem{
			CourseID:   courseID,
			PriceCents: priceByID[courseID],
		})
	}

	return &models.Order{
		ID:               uuid.New(),
		UserID:           meta.UserID,
		PaymentReference: session.ID,
		Status:           enums.OrderStatusCompleted,
		// The provider's settled amount is authoritative; local prices may
		// have drifted since the session was issued.
		TotalCents: session.AmountTotal,
		Currency:   normalizeCurrency(session.Currency),
		Items:      items,
	}
}

func userIDFromRawMetadata(raw map[string]string) *uuid.UUID {
	if raw == nil {
		return nil
	}
	value, ok := raw["user_id"]
	if !ok {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}

func normalizeCurrency(currency stripe.Currency) string {
	if currency == "" {
		return "usd"
	}
	return string(currency)
}
