package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "sweeply/internal/bookings/errors"
	"sweeply/internal/bookings/repository"
	"sweeply/internal/bookings/validator"
	"sweeply/pkg/auth"
	"sweeply/pkg/blob"
	"sweeply/pkg/config"
	apperrors "sweeply/pkg/errors"
	"sweeply/pkg/model"
	"sweeply/pkg/sanitizer"
	"sweeply/pkg/worktime"
)

// EarningsCreditor credits a cleaner's balance inside the payment
// verification transaction. Implemented by the earnings repository.
type EarningsCreditor interface {
	Credit(ctx mongo.SessionContext, cleanerID, bookingID, serviceType string, amount int64, earnedAt time.Time) error
}

// WorkDuration is the pause-aware timer view of a booking.
type WorkDuration struct {
	BookingID     string `json:"booking_id"`
	Status        string `json:"status"`
	ActiveMinutes int64  `json:"active_minutes"`
	Formatted     string `json:"formatted"`
}

type BookingService interface {
	Create(ctx context.Context, caller auth.Caller, payload *model.BookingCreate) (*model.Booking, error)
	GetByID(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error)
	Duration(ctx context.Context, caller auth.Caller, id string) (*WorkDuration, error)

	Pick(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error)
	Start(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error)
	Pause(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error)
	Resume(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error)
	Complete(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error)
	SubmitPaymentProof(ctx context.Context, caller auth.Caller, id string, contentType string, proof io.Reader) (*model.Booking, error)
	OpenPaymentProof(ctx context.Context, caller auth.Caller, id string) (io.ReadCloser, error)

	CurrentQueue(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Booking, int64, error)
	History(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Booking, int64, error)
	ListForCustomer(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Booking, int64, error)

	Delete(ctx context.Context, caller auth.Caller, id string) error
	Restore(ctx context.Context, caller auth.Caller, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	rates     repository.RateRepository
	earnings  EarningsCreditor
	proofs    blob.Store
	validator *validator.BookingValidator
	publisher StatusPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	rates repository.RateRepository,
	earnings EarningsCreditor,
	proofs blob.Store,
	validator *validator.BookingValidator,
	publisher StatusPublisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		rates:     rates,
		earnings:  earnings,
		proofs:    proofs,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *bookingService) Create(ctx context.Context, caller auth.Caller, payload *model.BookingCreate) (*model.Booking, error) {
	if !caller.IsCustomer() && !caller.IsAdmin() {
		return nil, apperrors.Forbidden("Only customers can create bookings")
	}

	payload.ServiceType = sanitizer.NormalizeServiceType(payload.ServiceType)
	payload.Address = sanitizer.NormalizeAddress(payload.Address)
	payload.Notes = sanitizer.NormalizeNotes(payload.Notes)

	if err := s.validator.ValidateCreate(payload); err != nil {
		s.cfg.Log.Warn("Booking creation validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	booking := &model.Booking{
		CustomerID:  caller.ID,
		ServiceID:   payload.ServiceID,
		ServiceType: payload.ServiceType,
		Address:     payload.Address,
		Notes:       payload.Notes,
		Status:      model.StatusPending,
		ScheduledAt: payload.ScheduledAt,
		Amount:      payload.Amount,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"customer_id", booking.CustomerID,
		"service_type", booking.ServiceType,
		"scheduled_at", booking.ScheduledAt,
	)
	s.publisher.PublishStatusChange(ctx, booking, "")
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.IsDeleted() && !caller.IsAdmin() {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}

	if !s.canView(caller, booking) {
		return nil, apperrors.Forbidden("You do not have access to this booking")
	}

	return booking, nil
}

func (s *bookingService) Duration(ctx context.Context, caller auth.Caller, id string) (*WorkDuration, error) {
	booking, err := s.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	active := worktime.Active(booking, s.now())
	return &WorkDuration{
		BookingID:     booking.ID,
		Status:        booking.Status.String(),
		ActiveMinutes: int64(active / time.Minute),
		Formatted:     worktime.Format(active),
	}, nil
}

// Pick claims a pending booking for the calling cleaner. Under concurrent
// picks the conditional write lets exactly one cleaner win; the rest get a
// precondition conflict.
func (s *bookingService) Pick(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error) {
	if !caller.IsCleaner() {
		return nil, apperrors.Forbidden("Only cleaners can pick bookings")
	}

	err := s.repo.Pick(ctx, id, caller.ID, s.now())
	if err != nil {
		return nil, s.mapTransitionError(ctx, id, err, model.StatusPending)
	}

	return s.afterTransition(ctx, id, model.StatusPending, "cleaner_id", caller.ID)
}

func (s *bookingService) Start(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error) {
	if !caller.IsCleaner() {
		return nil, apperrors.Forbidden("Only cleaners can start bookings")
	}

	err := s.repo.Start(ctx, id, caller.ID, s.now())
	if err != nil {
		return nil, s.mapTransitionError(ctx, id, err, model.StatusPicked)
	}

	return s.afterTransition(ctx, id, model.StatusPicked)
}

func (s *bookingService) Pause(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error) {
	if !caller.IsCleaner() {
		return nil, apperrors.Forbidden("Only cleaners can pause bookings")
	}

	err := s.repo.Pause(ctx, id, caller.ID, s.now())
	if err != nil {
		return nil, s.mapTransitionError(ctx, id, err, model.StatusInProgress)
	}

	return s.afterTransition(ctx, id, model.StatusInProgress)
}

// Resume folds the elapsed pause interval into the committed total. The
// increment is computed from the paused_at the read observed, and the write
// guards on that same value, so a racing resume cannot double-count.
func (s *bookingService) Resume(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error) {
	if !caller.IsCleaner() {
		return nil, apperrors.Forbidden("Only cleaners can resume bookings")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusPaused || booking.PausedAt == nil {
		return nil, apperrors.PreconditionFailed("Booking", id, model.StatusPaused.String())
	}

	pauseMinutes := worktime.PauseMinutes(*booking.PausedAt, s.now())
	err = s.repo.Resume(ctx, id, caller.ID, *booking.PausedAt, pauseMinutes)
	if err != nil {
		return nil, s.mapTransitionError(ctx, id, err, model.StatusPaused)
	}

	return s.afterTransition(ctx, id, model.StatusPaused, "pause_minutes_added", pauseMinutes)
}

// Complete closes the working phase from in_progress or paused. Completing
// while paused first folds the open pause interval so the recorded work
// duration stops at the moment of pausing.
func (s *bookingService) Complete(ctx context.Context, caller auth.Caller, id string) (*model.Booking, error) {
	if !caller.IsCleaner() {
		return nil, apperrors.Forbidden("Only cleaners can complete bookings")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusInProgress && booking.Status != model.StatusPaused {
		return nil, apperrors.PreconditionFailed("Booking", id, "in_progress or paused")
	}

	var foldedPause int64
	if booking.Status == model.StatusPaused && booking.PausedAt != nil {
		foldedPause = worktime.PauseMinutes(*booking.PausedAt, s.now())
	}

	err = s.repo.Complete(ctx, id, caller.ID, booking.Status, booking.PausedAt, foldedPause, s.now())
	if err != nil {
		return nil, s.mapTransitionError(ctx, id, err, booking.Status)
	}

	return s.afterTransition(ctx, id, booking.Status)
}

// SubmitPaymentProof is the payment verification trigger: it stores the proof
// image, then flips the booking to payment_verified and credits the cleaner's
// earnings in one transaction. Either both writes commit or neither does.
func (s *bookingService) SubmitPaymentProof(ctx context.Context, caller auth.Caller, id string, contentType string, proof io.Reader) (*model.Booking, error) {
	if !caller.IsCleaner() {
		return nil, apperrors.Forbidden("Only cleaners can submit payment proof")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.AssignedTo(caller.ID) {
		return nil, apperrors.Forbidden("Booking is assigned to another cleaner")
	}
	if booking.Status != model.StatusCompleted {
		return nil, apperrors.PreconditionFailed("Booking", id, model.StatusCompleted.String())
	}

	proofKey := fmt.Sprintf("proof/%s", id)
	if err := s.proofs.Put(ctx, proofKey, contentType, proof); err != nil {
		s.cfg.Log.Error("Failed to store payment proof", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to store payment proof", err)
	}
	proofURL := fmt.Sprintf("/api/v1/bookings/id/%s/payment-proof", id)

	commission := s.resolveCommission(ctx, booking.ServiceType)
	now := s.now()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.VerifyPayment(sessCtx, id, caller.ID, proofURL, now); err != nil {
			if errors.Is(err, bookingserrors.ErrPreconditionFailed) {
				return apperrors.PreconditionFailed("Booking", id, model.StatusCompleted.String())
			}
			return apperrors.Internal("Failed to verify payment", err)
		}
		if err := s.earnings.Credit(sessCtx, caller.ID, id, booking.ServiceType, commission, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Payment verification transaction failed", "id", id, "error", err)
		if delErr := s.proofs.Delete(ctx, proofKey); delErr != nil {
			s.cfg.Log.Warn("Failed to remove orphaned payment proof", "id", id, "error", delErr)
		}
		return nil, err
	}

	s.cfg.Log.Info("Payment verified and earnings credited",
		"id", id,
		"cleaner_id", caller.ID,
		"commission", commission,
	)
	return s.afterTransition(ctx, id, model.StatusCompleted, "commission", commission)
}

func (s *bookingService) OpenPaymentProof(ctx context.Context, caller auth.Caller, id string) (io.ReadCloser, error) {
	booking, err := s.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if booking.PaymentProofURL == nil {
		return nil, apperrors.NotFoundWithID("Payment proof for booking", id)
	}

	return s.proofs.Open(ctx, fmt.Sprintf("proof/%s", id))
}

func (s *bookingService) CurrentQueue(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Booking, int64, error) {
	if !caller.IsCleaner() {
		return nil, 0, apperrors.Forbidden("Only cleaners have a dispatch queue")
	}

	return s.list(ctx,
		func() ([]*model.Booking, error) {
			return s.repo.FindCurrentForCleaner(ctx, caller.ID, limit, offset)
		},
		func() (int64, error) {
			return s.repo.CountCurrentForCleaner(ctx, caller.ID)
		},
	)
}

func (s *bookingService) History(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Booking, int64, error) {
	if !caller.IsCleaner() {
		return nil, 0, apperrors.Forbidden("Only cleaners have a job history")
	}

	return s.list(ctx,
		func() ([]*model.Booking, error) {
			return s.repo.FindHistoryForCleaner(ctx, caller.ID, limit, offset)
		},
		func() (int64, error) {
			return s.repo.CountHistoryForCleaner(ctx, caller.ID)
		},
	)
}

func (s *bookingService) ListForCustomer(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Booking, int64, error) {
	if !caller.IsCustomer() && !caller.IsAdmin() {
		return nil, 0, apperrors.Forbidden("Only customers can list their bookings")
	}

	return s.list(ctx,
		func() ([]*model.Booking, error) {
			return s.repo.FindByCustomer(ctx, caller.ID, limit, offset)
		},
		func() (int64, error) {
			return s.repo.CountByCustomer(ctx, caller.ID)
		},
	)
}

// Delete soft-deletes a pending booking. The document stays in place with
// deleted_at set and disappears from every queue and query.
func (s *bookingService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() && (!caller.IsCustomer() || booking.CustomerID != caller.ID) {
		return apperrors.Forbidden("Only the booking owner can delete it")
	}

	err = s.repo.SoftDelete(ctx, id, booking.CustomerID, s.now())
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPreconditionFailed) {
			return apperrors.PreconditionFailed("Booking", id, model.StatusPending.String())
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking soft-deleted", "id", id, "customer_id", booking.CustomerID)
	return nil
}

func (s *bookingService) Restore(ctx context.Context, caller auth.Caller, id string) error {
	if !caller.IsAdmin() {
		return apperrors.Forbidden("Only admins can restore bookings")
	}

	err := s.repo.Restore(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPreconditionFailed) {
			return apperrors.NotFoundWithID("Deleted booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to restore booking", err)
	}

	s.cfg.Log.Info("Booking restored", "id", id)
	return nil
}

// --- Helpers ---

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) canView(caller auth.Caller, booking *model.Booking) bool {
	if caller.IsAdmin() {
		return true
	}
	if caller.IsCustomer() {
		return booking.CustomerID == caller.ID
	}
	if caller.IsCleaner() {
		return booking.Status == model.StatusPending || booking.AssignedTo(caller.ID)
	}
	return false
}

// mapTransitionError turns a failed conditional write into the right API
// error. A follow-up read disambiguates: missing or deleted means not found,
// anything else means the booking was not in the expected state.
func (s *bookingService) mapTransitionError(ctx context.Context, id string, err error, expected model.Status) error {
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	if !errors.Is(err, bookingserrors.ErrPreconditionFailed) {
		return apperrors.Internal("Failed to update booking", err)
	}

	booking, findErr := s.repo.FindByID(ctx, id)
	if findErr != nil || booking.IsDeleted() {
		return apperrors.NotFoundWithID("Booking", id)
	}

	s.cfg.Log.Warn("Booking transition lost a concurrent race",
		"id", id,
		"expected_status", expected,
		"actual_status", booking.Status,
	)
	return apperrors.PreconditionFailed("Booking", id, expected.String())
}

func (s *bookingService) afterTransition(ctx context.Context, id string, previous model.Status, logFields ...any) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := append([]any{
		"id", booking.ID,
		"from", previous,
		"to", booking.Status,
	}, logFields...)
	s.cfg.Log.Info("Booking transitioned", fields...)

	s.publisher.PublishStatusChange(ctx, booking, previous)
	return booking, nil
}

// resolveCommission looks up the fixed payout for a service type: the rate
// table wins, then the configured per-type rates, then the global default.
func (s *bookingService) resolveCommission(ctx context.Context, serviceType string) int64 {
	rate, err := s.rates.FindByServiceType(ctx, serviceType)
	if err == nil {
		return rate.Commission
	}
	if !errors.Is(err, bookingserrors.ErrRateNotFound) {
		s.cfg.Log.Warn("Rate table lookup failed, falling back to config", "service_type", serviceType, "error", err)
	}

	if commission, ok := s.cfg.CommissionRates[serviceType]; ok {
		return commission
	}
	return s.cfg.DefaultCommission
}

func (s *bookingService) list(
	ctx context.Context,
	find func() ([]*model.Booking, error),
	count func() (int64, error),
) ([]*model.Booking, int64, error) {
	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count()
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = find()
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, total, nil
}
