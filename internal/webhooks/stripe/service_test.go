package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/Neelesh56789/Smart-LMS/internal/checkout"
	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	"github.com/Neelesh56789/Smart-LMS/pkg/enums"
)

type stubGuard struct {
	seen    map[string]bool
	deleted []string
	err     error
}

func newStubGuard() *stubGuard {
	return &stubGuard{seen: map[string]bool{}}
}

func (s *stubGuard) CheckAndMark(_ context.Context, eventID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen[eventID] {
		return true, nil
	}
	s.seen[eventID] = true
	return false, nil
}

func (s *stubGuard) Delete(_ context.Context, eventID string) error {
	delete(s.seen, eventID)
	s.deleted = append(s.deleted, eventID)
	return nil
}

type stubOrderRepo struct {
	byReference map[string]*models.Order
	created     []*models.Order
	createErr   error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byReference: map[string]*models.Order{}}
}

func (s *stubOrderRepo) FindByPaymentReference(_ context.Context, reference string) (*models.Order, error) {
	if order, ok := s.byReference[reference]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) CreateWithTx(_ context.Context, _ *gorm.DB, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.byReference[order.PaymentReference] = order
	s.created = append(s.created, order)
	return order, nil
}

type stubEntitlementRepo struct {
	granted []models.Entitlement
}

func (s *stubEntitlementRepo) GrantAllWithTx(_ context.Context, _ *gorm.DB, grants []models.Entitlement) error {
	s.granted = append(s.granted, grants...)
	return nil
}

type stubCartRepo struct {
	cleared map[uuid.UUID][]uuid.UUID
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{cleared: map[uuid.UUID][]uuid.UUID{}}
}

func (s *stubCartRepo) DeleteByCourseIDsWithTx(_ context.Context, _ *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) error {
	s.cleared[userID] = append(s.cleared[userID], courseIDs...)
	return nil
}

type stubCourseRepo struct {
	byID map[uuid.UUID]models.Course
}

func (s *stubCourseRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if course, ok := s.byID[id]; ok {
			out = append(out, course)
		}
	}
	return out, nil
}

type stubUserRepo struct {
	missing map[uuid.UUID]bool
	err     error
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.missing[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.User{ID: id}, nil
}

type stubTxRunner struct {
	err     error // every call fails
	errOnce error // only the next call fails
}

func (s *stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if s.errOnce != nil {
		err := s.errOnce
		s.errOnce = nil
		return err
	}
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type fixture struct {
	service      *Service
	guard        *stubGuard
	orders       *stubOrderRepo
	entitlements *stubEntitlementRepo
	cart         *stubCartRepo
	courses      *stubCourseRepo
	users        *stubUserRepo
	tx           *stubTxRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		guard:        newStubGuard(),
		orders:       newStubOrderRepo(),
		entitlements: &stubEntitlementRepo{},
		cart:         newStubCartRepo(),
		courses:      &stubCourseRepo{byID: map[uuid.UUID]models.Course{}},
		users:        &stubUserRepo{missing: map[uuid.UUID]bool{}},
		tx:           &stubTxRunner{},
	}
	service, err := NewService(ServiceParams{
		Guard:             f.guard,
		OrderRepo:         f.orders,
		EntitlementRepo:   f.entitlements,
		CartRepo:          f.cart,
		CourseRepo:        f.courses,
		UserRepo:          f.users,
		TransactionRunner: f.tx,
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}
	f.service = service
	return f
}

func (f *fixture) addCourse(priceCents int64) uuid.UUID {
	id := uuid.New()
	f.courses.byID[id] = models.Course{ID: id, Title: fmt.Sprintf("course-%s", id), PriceCents: priceCents, Published: true}
	return id
}

func completedEvent(t *testing.T, eventID string, session *stripe.CheckoutSession) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	return &stripe.Event{
		ID:   eventID,
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func sessionFor(t *testing.T, userID uuid.UUID, courseIDs []uuid.UUID, amount int64) *stripe.CheckoutSession {
	t.Helper()
	meta, err := checkout.EncodeMetadata(checkout.SessionMetadata{UserID: userID, CourseIDs: courseIDs})
	if err != nil {
		t.Fatalf("encode metadata: %v", err)
	}
	return &stripe.CheckoutSession{
		ID:          "cs_test_" + uuid.NewString()[:8],
		AmountTotal: amount,
		Currency:    stripe.CurrencyUSD,
		Metadata:    meta,
	}
}

func TestHandleEventFulfillsCompletedSession(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	courseA := f.addCourse(2500)
	courseB := f.addCourse(1500)

	session := sessionFor(t, userID, []uuid.UUID{courseA, courseB}, 4000)
	event := completedEvent(t, "evt_1", session)

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if len(f.orders.created) != 1 {
		t.Fatalf("expected one order, got %d", len(f.orders.created))
	}
	order := f.orders.created[0]
	if order.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed order, got %s", order.Status)
	}
	if order.TotalCents != 4000 {
		t.Fatalf("expected provider amount 4000 recorded, got %d", order.TotalCents)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}
	if len(f.entitlements.granted) != 2 {
		t.Fatalf("expected 2 entitlements granted, got %d", len(f.entitlements.granted))
	}
	if got := f.cart.cleared[userID]; len(got) != 2 {
		t.Fatalf("expected purchased courses cleared from cart, got %v", got)
	}
}

func TestHandleEventRedeliveryIsSkippedByGuard(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	courseID := f.addCourse(1000)
	event := completedEvent(t, "evt_dup", sessionFor(t, userID, []uuid.UUID{courseID}, 1000))

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if len(f.orders.created) != 1 {
		t.Fatalf("expected single order after redelivery, got %d", len(f.orders.created))
	}
}

func TestHandleEventRedeliverySkippedByLedgerWhenGuardDown(t *testing.T) {
	f := newFixture(t)
	f.guard.err = errors.New("redis down")

	userID := uuid.New()
	courseID := f.addCourse(1000)
	session := sessionFor(t, userID, []uuid.UUID{courseID}, 1000)
	event := completedEvent(t, "evt_guardless", session)

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if len(f.orders.created) != 1 {
		t.Fatalf("expected payment_reference lookup to dedupe, got %d orders", len(f.orders.created))
	}
}

func TestHandleEventIgnoresOtherEventTypes(t *testing.T) {
	f := newFixture(t)
	event := &stripe.Event{
		ID:   "evt_other",
		Type: stripe.EventTypeInvoicePaid,
		Data: &stripe.EventData{Raw: []byte(`{}`)},
	}

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(f.orders.created) != 0 {
		t.Fatalf("expected no orders for ignored event type")
	}
}

func TestHandleEventInvalidMetadataPersistsFailedOrder(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	session := &stripe.CheckoutSession{
		ID:          "cs_test_badmeta",
		AmountTotal: 900,
		Currency:    stripe.CurrencyUSD,
		Metadata: map[string]string{
			"v":          "1",
			"user_id":    userID.String(),
			"course_ids": "not-json",
		},
	}
	event := completedEvent(t, "evt_badmeta", session)

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if len(f.orders.created) != 1 {
		t.Fatalf("expected failed order persisted, got %d", len(f.orders.created))
	}
	order := f.orders.created[0]
	if order.Status != enums.OrderStatusFailed {
		t.Fatalf("expected failed status, got %s", order.Status)
	}
	if order.FailureReason == nil {
		t.Fatalf("expected failure reason recorded")
	}
	if len(f.entitlements.granted) != 0 {
		t.Fatalf("expected no entitlements on failure")
	}
}

func TestHandleEventUnknownUserMetadataAcksWithoutOrder(t *testing.T) {
	f := newFixture(t)

	session := &stripe.CheckoutSession{
		ID:       "cs_test_nouser",
		Metadata: map[string]string{"v": "1", "course_ids": `["x"]`},
	}
	event := completedEvent(t, "evt_nouser", session)

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(f.orders.created) != 0 {
		t.Fatalf("expected no order without a user to pin it on")
	}
}

func TestHandleEventMissingCoursePersistsFailedOrder(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	known := f.addCourse(1000)
	unknown := uuid.New()

	session := sessionFor(t, userID, []uuid.UUID{known, unknown}, 2000)
	event := completedEvent(t, "evt_missing", session)

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if len(f.orders.created) != 1 {
		t.Fatalf("expected failed order persisted")
	}
	if f.orders.created[0].Status != enums.OrderStatusFailed {
		t.Fatalf("expected failed status, got %s", f.orders.created[0].Status)
	}
	if len(f.entitlements.granted) != 0 {
		t.Fatalf("expected no entitlements granted")
	}
}

func TestHandleEventCommitFailurePersistsFailedOrderAndAcks(t *testing.T) {
	f := newFixture(t)
	f.tx.errOnce = errors.New("write failed partway")

	userID := uuid.New()
	courseID := f.addCourse(1000)
	session := sessionFor(t, userID, []uuid.UUID{courseID}, 1000)
	event := completedEvent(t, "evt_commit_fail", session)

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected ack despite commit failure, got %v", err)
	}

	if len(f.orders.created) != 1 {
		t.Fatalf("expected failed order persisted, got %d", len(f.orders.created))
	}
	order := f.orders.created[0]
	if order.Status != enums.OrderStatusFailed {
		t.Fatalf("expected failed status, got %s", order.Status)
	}
	if order.FailureReason == nil || !strings.Contains(*order.FailureReason, "write failed partway") {
		t.Fatalf("expected raw error preserved for operators, got %v", order.FailureReason)
	}
	if len(f.entitlements.granted) != 0 {
		t.Fatalf("expected no entitlements after rolled back commit")
	}
	if len(f.guard.deleted) != 0 {
		t.Fatalf("expected guard marker kept once the failure is on record, got %v", f.guard.deleted)
	}
}

func TestHandleEventUnrecordableFailureClearsGuardAndErrors(t *testing.T) {
	f := newFixture(t)
	f.tx.err = errors.New("connection reset")

	userID := uuid.New()
	courseID := f.addCourse(1000)
	event := completedEvent(t, "evt_unrecordable", sessionFor(t, userID, []uuid.UUID{courseID}, 1000))

	// Both the commit and the failure record fail: redelivery is the only
	// recovery left, so the marker must go and the error must surface.
	if err := f.service.HandleEvent(context.Background(), event); err == nil {
		t.Fatalf("expected error surfaced when nothing could be written")
	}
	if len(f.guard.deleted) != 1 || f.guard.deleted[0] != "evt_unrecordable" {
		t.Fatalf("expected guard marker cleared for redelivery, got %v", f.guard.deleted)
	}

	// Redelivery after the outage fulfills normally.
	f.tx.err = nil
	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if len(f.orders.created) != 1 {
		t.Fatalf("expected order created on redelivery")
	}
	if f.orders.created[0].Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed order on redelivery, got %s", f.orders.created[0].Status)
	}
}

func TestHandleEventDeletedAccountAcksWithoutOrder(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	courseID := f.addCourse(1000)
	f.users.missing[userID] = true

	event := completedEvent(t, "evt_gone_user", sessionFor(t, userID, []uuid.UUID{courseID}, 1000))

	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected ack for deleted account, got %v", err)
	}
	if len(f.orders.created) != 0 {
		t.Fatalf("expected no order without an account row to reference")
	}
	if len(f.entitlements.granted) != 0 {
		t.Fatalf("expected no entitlements for deleted account")
	}
}

func TestHandleEventAlreadyFulfilledSessionIsSkipped(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	courseID := f.addCourse(1000)
	session := sessionFor(t, userID, []uuid.UUID{courseID}, 1000)

	f.orders.byReference[session.ID] = &models.Order{
		ID:               uuid.New(),
		UserID:           userID,
		PaymentReference: session.ID,
		Status:           enums.OrderStatusCompleted,
	}

	// Different event id, same session: the ledger check must dedupe.
	event := completedEvent(t, "evt_other_id", session)
	if err := f.service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(f.orders.created) != 0 {
		t.Fatalf("expected no new order for already fulfilled session")
	}
}
