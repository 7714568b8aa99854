package service

import (
	"context"
	"errors"
	"sync"
	"time"

	earningserrors "sweeply/internal/earnings/errors"
	"sweeply/internal/earnings/repository"
	"sweeply/pkg/auth"
	"sweeply/pkg/config"
	apperrors "sweeply/pkg/errors"
	"sweeply/pkg/locale"
	"sweeply/pkg/model"
	"sweeply/pkg/period"
	"sweeply/pkg/sanitizer"
	"sweeply/pkg/worktime"
)

// EarningsSummary is the cleaner's dashboard view. All money fields are in
// the minor currency unit. Today is always inside ThisWeek; ThisWeek can
// overlap the previous month, so ThisWeek > ThisMonth is possible early in
// a month.
type EarningsSummary struct {
	CleanerID      string  `json:"cleaner_id"`
	Today          int64   `json:"today"`
	ThisWeek       int64   `json:"this_week"`
	ThisMonth      int64   `json:"this_month"`
	Lifetime       int64   `json:"lifetime"`
	CompletedJobs  int64   `json:"completed_jobs"`
	TotalHours     float64 `json:"total_hours"`
	PendingCashout int64   `json:"pending_cashout"`
}

type EarningsService interface {
	RegisterCleaner(ctx context.Context, caller auth.Caller, cleaner *model.Cleaner) (*model.Cleaner, error)
	GetCleaner(ctx context.Context, caller auth.Caller, id string) (*model.Cleaner, error)

	Summary(ctx context.Context, caller auth.Caller) (*EarningsSummary, error)
	History(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.EarningEvent, int64, error)

	Withdraw(ctx context.Context, caller auth.Caller, amount int64) (*model.Withdrawal, error)
	Withdrawals(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Withdrawal, int64, error)
}

type earningsService struct {
	repo repository.CleanerRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewEarningsService(repo repository.CleanerRepository, cfg *config.Config) EarningsService {
	return &earningsService{
		repo: repo,
		cfg:  cfg,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *earningsService) RegisterCleaner(ctx context.Context, caller auth.Caller, cleaner *model.Cleaner) (*model.Cleaner, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("Only admins can register cleaners")
	}

	cleaner.Name = sanitizer.NormalizeName(cleaner.Name)
	cleaner.Phone = sanitizer.NormalizePhone(cleaner.Phone)
	cleaner.EarningsBalance = 0

	if err := s.repo.Create(ctx, cleaner); err != nil {
		s.cfg.Log.Error("Failed to register cleaner", "error", err)
		return nil, apperrors.Internal("Failed to register cleaner", err)
	}

	s.cfg.Log.Info("Cleaner registered", "id", cleaner.ID, "name", cleaner.Name)
	return cleaner, nil
}

func (s *earningsService) GetCleaner(ctx context.Context, caller auth.Caller, id string) (*model.Cleaner, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return nil, apperrors.Forbidden("You can only view your own profile")
	}
	return s.findCleaner(ctx, id)
}

// Summary aggregates the ledger into calendar buckets. The week boundary is
// resolved from the cleaner's phone country: Sunday-start regions get
// Sunday, everyone else ISO Monday.
func (s *earningsService) Summary(ctx context.Context, caller auth.Caller) (*EarningsSummary, error) {
	if !caller.IsCleaner() {
		return nil, apperrors.Forbidden("Only cleaners have an earnings summary")
	}

	cleaner, err := s.findCleaner(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(locale.Location(cleaner.Phone))
	windows := period.Compute(now, locale.InferFirstWeekdayFromPhone(cleaner.Phone))

	since := windows.ThisMonth.Start
	if windows.ThisWeek.Start.Before(since) {
		since = windows.ThisWeek.Start
	}

	var events []*model.EarningEvent
	var lifetime *repository.LifetimeTotals
	var bookings []*model.Booking
	var errEvents, errLifetime, errBookings error
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		events, errEvents = s.repo.FindEventsSince(ctx, caller.ID, since)
	}()
	go func() {
		defer wg.Done()
		lifetime, errLifetime = s.repo.Lifetime(ctx, caller.ID)
	}()
	go func() {
		defer wg.Done()
		bookings, errBookings = s.repo.FindVerifiedBookings(ctx, caller.ID)
	}()
	wg.Wait()

	for _, err := range []error{errEvents, errLifetime, errBookings} {
		if err != nil {
			s.cfg.Log.Error("Failed to build earnings summary", "cleaner_id", caller.ID, "error", err)
			return nil, apperrors.Internal("Failed to build earnings summary", err)
		}
	}

	summary := &EarningsSummary{
		CleanerID:      cleaner.ID,
		Lifetime:       lifetime.Total,
		CompletedJobs:  int64(len(bookings)),
		PendingCashout: cleaner.EarningsBalance,
	}

	for _, event := range events {
		earnedAt := event.EarnedAt.In(now.Location())
		if windows.Today.Contains(earnedAt) {
			summary.Today += event.Amount
		}
		if windows.ThisWeek.Contains(earnedAt) {
			summary.ThisWeek += event.Amount
		}
		if windows.ThisMonth.Contains(earnedAt) {
			summary.ThisMonth += event.Amount
		}
	}

	for _, booking := range bookings {
		summary.TotalHours += worktime.Hours(worktime.Active(booking, now))
	}

	return summary, nil
}

func (s *earningsService) History(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.EarningEvent, int64, error) {
	if !caller.IsCleaner() {
		return nil, 0, apperrors.Forbidden("Only cleaners have an earnings history")
	}

	var total int64
	var events []*model.EarningEvent
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.CountEvents(ctx, caller.ID)
	}()
	go func() {
		defer wg.Done()
		events, errFind = s.repo.FindEvents(ctx, caller.ID, limit, offset)
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count earning events", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve earning events", errFind)
	}

	return events, total, nil
}

// Withdraw moves money out of the withdrawable balance. The decrement and
// the withdrawal record commit together; an overdraw attempt changes
// nothing and reports the available balance.
func (s *earningsService) Withdraw(ctx context.Context, caller auth.Caller, amount int64) (*model.Withdrawal, error) {
	if !caller.IsCleaner() {
		return nil, apperrors.Forbidden("Only cleaners can withdraw earnings")
	}
	if amount <= 0 {
		return nil, apperrors.InvalidInput("Withdrawal amount must be positive")
	}

	withdrawal, err := s.repo.Withdraw(ctx, caller.ID, amount)
	if err != nil {
		if errors.Is(err, earningserrors.ErrInsufficientBalance) {
			cleaner, findErr := s.findCleaner(ctx, caller.ID)
			if findErr != nil {
				return nil, findErr
			}
			return nil, apperrors.InsufficientBalance(amount, cleaner.EarningsBalance)
		}
		if errors.Is(err, earningserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid cleaner ID format")
		}
		s.cfg.Log.Error("Withdrawal failed", "cleaner_id", caller.ID, "amount", amount, "error", err)
		return nil, apperrors.Internal("Failed to process withdrawal", err)
	}

	s.cfg.Log.Info("Withdrawal recorded", "cleaner_id", caller.ID, "amount", amount, "withdrawal_id", withdrawal.ID)
	return withdrawal, nil
}

func (s *earningsService) Withdrawals(ctx context.Context, caller auth.Caller, limit int, offset int64) ([]*model.Withdrawal, int64, error) {
	if !caller.IsCleaner() {
		return nil, 0, apperrors.Forbidden("Only cleaners can list withdrawals")
	}

	var total int64
	var withdrawals []*model.Withdrawal
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.CountWithdrawals(ctx, caller.ID)
	}()
	go func() {
		defer wg.Done()
		withdrawals, errFind = s.repo.FindWithdrawals(ctx, caller.ID, limit, offset)
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count withdrawals", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve withdrawals", errFind)
	}

	return withdrawals, total, nil
}

func (s *earningsService) findCleaner(ctx context.Context, id string) (*model.Cleaner, error) {
	cleaner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, earningserrors.ErrCleanerNotFound) {
			return nil, apperrors.NotFoundWithID("Cleaner", id)
		}
		if errors.Is(err, earningserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid cleaner ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve cleaner", err)
	}
	return cleaner, nil
}
