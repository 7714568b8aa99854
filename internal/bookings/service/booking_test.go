package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "sweeply/internal/bookings/errors"
	"sweeply/internal/bookings/validator"
	"sweeply/pkg/auth"
	"sweeply/pkg/config"
	mongotx "sweeply/pkg/db/mongo"
	apperrors "sweeply/pkg/errors"
	"sweeply/pkg/logger"
	"sweeply/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc        func(ctx context.Context, booking *model.Booking) error
	findByIDFunc      func(ctx context.Context, id string) (*model.Booking, error)
	pickFunc          func(ctx context.Context, id, cleanerID string, now time.Time) error
	resumeFunc        func(ctx context.Context, id, cleanerID string, pausedAt time.Time, pauseMinutes int64) error
	completeFunc      func(ctx context.Context, id, cleanerID string, from model.Status, pausedAt *time.Time, folded int64, now time.Time) error
	verifyPaymentFunc func(ctx context.Context, id, cleanerID, proofURL string, now time.Time) error
	softDeleteFunc    func(ctx context.Context, id, customerID string, now time.Time) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "65a000000000000000000001"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) Pick(ctx context.Context, id, cleanerID string, now time.Time) error {
	if m.pickFunc != nil {
		return m.pickFunc(ctx, id, cleanerID, now)
	}
	return nil
}

func (m *mockBookingRepository) Start(ctx context.Context, id, cleanerID string, now time.Time) error {
	return nil
}

func (m *mockBookingRepository) Pause(ctx context.Context, id, cleanerID string, now time.Time) error {
	return nil
}

func (m *mockBookingRepository) Resume(ctx context.Context, id, cleanerID string, pausedAt time.Time, pauseMinutes int64) error {
	if m.resumeFunc != nil {
		return m.resumeFunc(ctx, id, cleanerID, pausedAt, pauseMinutes)
	}
	return nil
}

func (m *mockBookingRepository) Complete(ctx context.Context, id, cleanerID string, from model.Status, pausedAt *time.Time, folded int64, now time.Time) error {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, id, cleanerID, from, pausedAt, folded, now)
	}
	return nil
}

func (m *mockBookingRepository) VerifyPayment(ctx context.Context, id, cleanerID, proofURL string, now time.Time) error {
	if m.verifyPaymentFunc != nil {
		return m.verifyPaymentFunc(ctx, id, cleanerID, proofURL, now)
	}
	return nil
}

func (m *mockBookingRepository) SoftDelete(ctx context.Context, id, customerID string, now time.Time) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id, customerID, now)
	}
	return nil
}

func (m *mockBookingRepository) Restore(ctx context.Context, id string) error { return nil }

func (m *mockBookingRepository) FindCurrentForCleaner(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountCurrentForCleaner(ctx context.Context, cleanerID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindHistoryForCleaner(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountHistoryForCleaner(ctx context.Context, cleanerID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockRateRepository struct {
	findFunc func(ctx context.Context, serviceType string) (*model.ServiceRate, error)
}

func (m *mockRateRepository) FindByServiceType(ctx context.Context, serviceType string) (*model.ServiceRate, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, serviceType)
	}
	return nil, bookingserrors.ErrRateNotFound
}

func (m *mockRateRepository) Upsert(ctx context.Context, rate *model.ServiceRate) error {
	return nil
}

type mockEarningsCreditor struct {
	creditFunc func(ctx mongo.SessionContext, cleanerID, bookingID, serviceType string, amount int64, earnedAt time.Time) error
	credits    int
}

func (m *mockEarningsCreditor) Credit(ctx mongo.SessionContext, cleanerID, bookingID, serviceType string, amount int64, earnedAt time.Time) error {
	m.credits++
	if m.creditFunc != nil {
		return m.creditFunc(ctx, cleanerID, bookingID, serviceType, amount, earnedAt)
	}
	return nil
}

type mockBlobStore struct {
	mu      sync.Mutex
	puts    []string
	deletes []string
	putErr  error
}

func (m *mockBlobStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts = append(m.puts, key)
	return nil
}

func (m *mockBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("proof-bytes")), nil
}

func (m *mockBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	return nil
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

const (
	testBookingID  = "65a000000000000000000001"
	testCustomerID = "65b000000000000000000001"
	testServiceID  = "65c000000000000000000001"
	testCleanerID  = "65d000000000000000000001"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:               log,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		DefaultCommission: 250,
		CommissionRates:   map[string]int64{"deep_clean": 400},
	}
}

func newTestService(t *testing.T, repo *mockBookingRepository, rates *mockRateRepository, earnings *mockEarningsCreditor, proofs *mockBlobStore) *bookingService {
	t.Helper()
	cfg := testConfig(t)
	if rates == nil {
		rates = &mockRateRepository{}
	}
	if earnings == nil {
		earnings = &mockEarningsCreditor{}
	}
	if proofs == nil {
		proofs = &mockBlobStore{}
	}
	v := validator.NewBookingValidator(cfg.Log)
	return NewBookingService(repo, rates, earnings, proofs, v, nil, cfg).(*bookingService)
}

func cleanerCaller() auth.Caller {
	return auth.Caller{ID: testCleanerID, Role: auth.RoleCleaner}
}

func customerCaller() auth.Caller {
	return auth.Caller{ID: testCustomerID, Role: auth.RoleCustomer}
}

func pendingBooking() *model.Booking {
	return &model.Booking{
		ID:          testBookingID,
		CustomerID:  testCustomerID,
		ServiceID:   testServiceID,
		ServiceType: "standard",
		Address:     "12 Rothschild Blvd, Tel Aviv",
		Status:      model.StatusPending,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Amount:      15000,
	}
}

func bookingInStatus(status model.Status) *model.Booking {
	b := pendingBooking()
	cleanerID := testCleanerID
	now := time.Now().UTC()

	switch status {
	case model.StatusPicked:
		b.Status = status
		b.CleanerID = &cleanerID
		b.PickedAt = &now
	case model.StatusInProgress, model.StatusPaused, model.StatusCompleted, model.StatusPaymentVerified:
		b.Status = status
		b.CleanerID = &cleanerID
		b.PickedAt = &now
		started := now.Add(-2 * time.Hour)
		b.StartedAt = &started
	}

	if status == model.StatusPaused {
		paused := now.Add(-10 * time.Minute)
		b.PausedAt = &paused
	}
	if status == model.StatusCompleted || status == model.StatusPaymentVerified {
		completed := now.Add(-5 * time.Minute)
		b.CompletedAt = &completed
	}
	return b
}

func assertAppErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", wantCode)
	}
	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != wantCode {
		t.Errorf("expected error code %s, got %s (%v)", wantCode, appErr.Code, err)
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_NormalizesAndDefaults(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = testBookingID
			created = booking
			return nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	payload := &model.BookingCreate{
		ServiceID:   testServiceID,
		ServiceType: " Deep Clean ",
		Address:     "  12   Rothschild Blvd  ",
		Notes:       "ring  twice",
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Amount:      15000,
	}

	booking, err := svc.Create(context.Background(), customerCaller(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if booking.Status != model.StatusPending {
		t.Errorf("expected status pending, got %s", booking.Status)
	}
	if booking.ServiceType != "deep_clean" {
		t.Errorf("expected normalized service type deep_clean, got %q", booking.ServiceType)
	}
	if booking.Address != "12 Rothschild Blvd" {
		t.Errorf("address not normalized: %q", booking.Address)
	}
	if booking.CustomerID != testCustomerID {
		t.Errorf("customer must come from caller, got %q", booking.CustomerID)
	}
}

func TestCreate_RejectsCleanerCaller(t *testing.T) {
	svc := newTestService(t, &mockBookingRepository{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), cleanerCaller(), &model.BookingCreate{})
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

// ────────────────────────────────────────────────
// Pick
// ────────────────────────────────────────────────

func TestPick_SingleWinnerUnderConcurrency(t *testing.T) {
	var mu sync.Mutex
	claimed := false
	claimedBy := ""

	repo := &mockBookingRepository{
		pickFunc: func(ctx context.Context, id, cleanerID string, now time.Time) error {
			mu.Lock()
			defer mu.Unlock()
			if claimed {
				return bookingserrors.ErrPreconditionFailed
			}
			claimed = true
			claimedBy = cleanerID
			return nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			mu.Lock()
			defer mu.Unlock()
			if claimed {
				b := bookingInStatus(model.StatusPicked)
				b.CleanerID = &claimedBy
				return b, nil
			}
			return pendingBooking(), nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	const cleaners = 8
	var wg sync.WaitGroup
	results := make([]error, cleaners)

	for i := 0; i < cleaners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := auth.Caller{ID: testCleanerID, Role: auth.RoleCleaner}
			_, results[i] = svc.Pick(context.Background(), caller, testBookingID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeConflict {
			t.Errorf("loser got %s, want %s", appErr.Code, apperrors.CodeConflict)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", winners)
	}
}

func TestPick_MissingBooking_NotFound(t *testing.T) {
	repo := &mockBookingRepository{
		pickFunc: func(ctx context.Context, id, cleanerID string, now time.Time) error {
			return bookingserrors.ErrPreconditionFailed
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	_, err := svc.Pick(context.Background(), cleanerCaller(), testBookingID)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

// ────────────────────────────────────────────────
// Resume
// ────────────────────────────────────────────────

func TestResume_FoldsElapsedPauseMinutes(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	paused := bookingInStatus(model.StatusPaused)
	pausedAt := now.Add(-10 * time.Minute)
	paused.PausedAt = &pausedAt

	var gotPausedAt time.Time
	var gotMinutes int64
	resumed := bookingInStatus(model.StatusInProgress)
	resumed.TotalPauseMinutes = 10

	calls := 0
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			calls++
			if calls == 1 {
				return paused, nil
			}
			return resumed, nil
		},
		resumeFunc: func(ctx context.Context, id, cleanerID string, pausedAt time.Time, pauseMinutes int64) error {
			gotPausedAt = pausedAt
			gotMinutes = pauseMinutes
			return nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)
	svc.now = func() time.Time { return now }

	booking, err := svc.Resume(context.Background(), cleanerCaller(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !gotPausedAt.Equal(*paused.PausedAt) {
		t.Errorf("resume must guard on the observed paused_at, got %v want %v", gotPausedAt, *paused.PausedAt)
	}
	if gotMinutes != 10 {
		t.Errorf("expected 10 folded pause minutes, got %d", gotMinutes)
	}
	if booking.Status != model.StatusInProgress {
		t.Errorf("expected in_progress after resume, got %s", booking.Status)
	}
}

func TestResume_NotPaused_Conflict(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return bookingInStatus(model.StatusInProgress), nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	_, err := svc.Resume(context.Background(), cleanerCaller(), testBookingID)
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

// ────────────────────────────────────────────────
// Complete
// ────────────────────────────────────────────────

func TestComplete_FromPaused_FoldsOpenPause(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	paused := bookingInStatus(model.StatusPaused)
	pausedAt := now.Add(-10 * time.Minute)
	paused.PausedAt = &pausedAt

	var gotFrom model.Status
	var gotPausedAt *time.Time
	var gotFolded int64
	calls := 0
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			calls++
			if calls == 1 {
				return paused, nil
			}
			return bookingInStatus(model.StatusCompleted), nil
		},
		completeFunc: func(ctx context.Context, id, cleanerID string, from model.Status, pausedAt *time.Time, folded int64, now time.Time) error {
			gotFrom = from
			gotPausedAt = pausedAt
			gotFolded = folded
			return nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)
	svc.now = func() time.Time { return now }

	_, err := svc.Complete(context.Background(), cleanerCaller(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotFrom != model.StatusPaused {
		t.Errorf("expected completion from paused, got %s", gotFrom)
	}
	if gotPausedAt == nil || !gotPausedAt.Equal(pausedAt) {
		t.Errorf("complete must guard on the observed paused_at, got %v want %v", gotPausedAt, pausedAt)
	}
	if gotFolded != 10 {
		t.Errorf("expected 10 folded pause minutes, got %d", gotFolded)
	}
}

func TestComplete_FromPending_Conflict(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	_, err := svc.Complete(context.Background(), cleanerCaller(), testBookingID)
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

// ────────────────────────────────────────────────
// Payment verification trigger
// ────────────────────────────────────────────────

func TestSubmitPaymentProof_CreditsCommission(t *testing.T) {
	completed := bookingInStatus(model.StatusCompleted)
	completed.ServiceType = "deep_clean"

	var gotAmount int64
	earnings := &mockEarningsCreditor{
		creditFunc: func(ctx mongo.SessionContext, cleanerID, bookingID, serviceType string, amount int64, earnedAt time.Time) error {
			gotAmount = amount
			return nil
		},
	}

	calls := 0
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			calls++
			if calls == 1 {
				return completed, nil
			}
			return bookingInStatus(model.StatusPaymentVerified), nil
		},
	}
	proofs := &mockBlobStore{}
	svc := newTestService(t, repo, nil, earnings, proofs)

	_, err := svc.SubmitPaymentProof(context.Background(), cleanerCaller(), testBookingID, "image/jpeg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if earnings.credits != 1 {
		t.Fatalf("expected exactly one credit, got %d", earnings.credits)
	}
	// deep_clean has no rate-table row in this test; config rates supply 400.
	if gotAmount != 400 {
		t.Errorf("expected commission 400, got %d", gotAmount)
	}
	if len(proofs.puts) != 1 || proofs.puts[0] != "proof/"+testBookingID {
		t.Errorf("proof blob not stored under expected key: %v", proofs.puts)
	}
}

func TestSubmitPaymentProof_RateTableWins(t *testing.T) {
	completed := bookingInStatus(model.StatusCompleted)

	rates := &mockRateRepository{
		findFunc: func(ctx context.Context, serviceType string) (*model.ServiceRate, error) {
			return &model.ServiceRate{ServiceType: serviceType, Commission: 775}, nil
		},
	}
	var gotAmount int64
	earnings := &mockEarningsCreditor{
		creditFunc: func(ctx mongo.SessionContext, cleanerID, bookingID, serviceType string, amount int64, earnedAt time.Time) error {
			gotAmount = amount
			return nil
		},
	}

	calls := 0
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			calls++
			if calls == 1 {
				return completed, nil
			}
			return bookingInStatus(model.StatusPaymentVerified), nil
		},
	}
	svc := newTestService(t, repo, rates, earnings, nil)

	_, err := svc.SubmitPaymentProof(context.Background(), cleanerCaller(), testBookingID, "image/jpeg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAmount != 775 {
		t.Errorf("expected rate-table commission 775, got %d", gotAmount)
	}
}

func TestSubmitPaymentProof_CreditFailureAbortsEverything(t *testing.T) {
	completed := bookingInStatus(model.StatusCompleted)

	earnings := &mockEarningsCreditor{
		creditFunc: func(ctx mongo.SessionContext, cleanerID, bookingID, serviceType string, amount int64, earnedAt time.Time) error {
			return errors.New("ledger write failed")
		},
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return completed, nil
		},
	}
	proofs := &mockBlobStore{}
	svc := newTestService(t, repo, nil, earnings, proofs)

	_, err := svc.SubmitPaymentProof(context.Background(), cleanerCaller(), testBookingID, "image/jpeg", strings.NewReader("img"))
	if err == nil {
		t.Fatal("expected transaction failure to propagate")
	}
	if len(proofs.deletes) != 1 {
		t.Errorf("orphaned proof blob should be cleaned up, deletes=%v", proofs.deletes)
	}
}

func TestSubmitPaymentProof_WrongStatus_Conflict(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return bookingInStatus(model.StatusInProgress), nil
		},
	}
	proofs := &mockBlobStore{}
	svc := newTestService(t, repo, nil, nil, proofs)

	_, err := svc.SubmitPaymentProof(context.Background(), cleanerCaller(), testBookingID, "image/jpeg", strings.NewReader("img"))
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	if len(proofs.puts) != 0 {
		t.Errorf("no blob should be stored when the status check fails, puts=%v", proofs.puts)
	}
}

func TestSubmitPaymentProof_OtherCleaner_Forbidden(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return bookingInStatus(model.StatusCompleted), nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	other := auth.Caller{ID: "65d000000000000000000099", Role: auth.RoleCleaner}
	_, err := svc.SubmitPaymentProof(context.Background(), other, testBookingID, "image/jpeg", strings.NewReader("img"))
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

// ────────────────────────────────────────────────
// Soft delete
// ────────────────────────────────────────────────

func TestDelete_NonOwner_Forbidden(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	stranger := auth.Caller{ID: "65b000000000000000000099", Role: auth.RoleCustomer}
	err := svc.Delete(context.Background(), stranger, testBookingID)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestDelete_AfterPick_Conflict(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return bookingInStatus(model.StatusPicked), nil
		},
		softDeleteFunc: func(ctx context.Context, id, customerID string, now time.Time) error {
			return bookingserrors.ErrPreconditionFailed
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	err := svc.Delete(context.Background(), customerCaller(), testBookingID)
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

// ────────────────────────────────────────────────
// Duration
// ────────────────────────────────────────────────

func TestDuration_FrozenWhilePaused(t *testing.T) {
	paused := bookingInStatus(model.StatusPaused)

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return paused, nil
		},
	}
	svc := newTestService(t, repo, nil, nil, nil)

	// Started 2h ago, paused 10m ago with no committed pauses: active time
	// is 1h50m regardless of how long the pause has been open.
	d, err := svc.Duration(context.Background(), cleanerCaller(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ActiveMinutes != 110 {
		t.Errorf("expected 110 active minutes, got %d", d.ActiveMinutes)
	}
	if d.Formatted != "1h 50m" {
		t.Errorf("expected formatted 1h 50m, got %s", d.Formatted)
	}
}
