package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	earningserrors "sweeply/internal/earnings/errors"
	"sweeply/pkg/config"
	mongotx "sweeply/pkg/db/mongo"
	"sweeply/pkg/model"
)

const (
	CleanersCollectionName    = "Cleaners"
	EventsCollectionName      = "Earning_events"
	WithdrawalsCollectionName = "Withdrawals"
	bookingsCollectionName    = "Bookings"
)

// LifetimeTotals is the all-time aggregate of a cleaner's earning events.
type LifetimeTotals struct {
	Total  int64 `bson:"total"`
	Events int64 `bson:"events"`
}

// CleanerRepository persists cleaner accounts and their append-only earnings
// ledger. Credit and Withdraw are the only balance mutations, and both are
// paired with a ledger write in the same transaction.
type CleanerRepository interface {
	Create(ctx context.Context, cleaner *model.Cleaner) error
	FindByID(ctx context.Context, id string) (*model.Cleaner, error)

	Credit(ctx mongo.SessionContext, cleanerID, bookingID, serviceType string, amount int64, earnedAt time.Time) error
	Withdraw(ctx context.Context, cleanerID string, amount int64) (*model.Withdrawal, error)

	FindEventsSince(ctx context.Context, cleanerID string, since time.Time) ([]*model.EarningEvent, error)
	FindEvents(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.EarningEvent, error)
	CountEvents(ctx context.Context, cleanerID string) (int64, error)
	Lifetime(ctx context.Context, cleanerID string) (*LifetimeTotals, error)

	FindVerifiedBookings(ctx context.Context, cleanerID string) ([]*model.Booking, error)
	FindWithdrawals(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.Withdrawal, error)
	CountWithdrawals(ctx context.Context, cleanerID string) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoCleanerRepository struct {
	cfg         *config.Config
	cleaners    *mongo.Collection
	events      *mongo.Collection
	withdrawals *mongo.Collection
	bookings    *mongo.Collection
	txManager   mongotx.TransactionManager
}

func NewMongoCleanerRepository(cfg *config.Config) CleanerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCleanerRepository{
		cfg:         cfg,
		cleaners:    db.Collection(CleanersCollectionName),
		events:      db.Collection(EventsCollectionName),
		withdrawals: db.Collection(WithdrawalsCollectionName),
		bookings:    db.Collection(bookingsCollectionName),
		txManager:   mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoCleanerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCleanerRepository) Create(ctx context.Context, cleaner *model.Cleaner) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	cleaner.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.cleaners.InsertOne(ctx, cleaner)
	if err != nil {
		return fmt.Errorf("failed to create cleaner: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		cleaner.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCleanerRepository) FindByID(ctx context.Context, id string) (*model.Cleaner, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", earningserrors.ErrInvalidID, id)
	}

	var cleaner model.Cleaner
	err = r.cleaners.FindOne(ctx, bson.M{"_id": objectID, "deleted_at": nil}).Decode(&cleaner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, earningserrors.ErrCleanerNotFound
		}
		return nil, fmt.Errorf("failed to find cleaner: %w", err)
	}

	return &cleaner, nil
}

// Credit increments the balance and appends the matching ledger event. It
// only runs inside the payment verification transaction, on the session the
// caller opened, so the booking flip and this credit commit together.
func (r *mongoCleanerRepository) Credit(ctx mongo.SessionContext, cleanerID, bookingID, serviceType string, amount int64, earnedAt time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(cleanerID)
	if err != nil {
		return fmt.Errorf("%w: %s", earningserrors.ErrInvalidID, cleanerID)
	}

	result, err := r.cleaners.UpdateOne(ctx,
		bson.M{"_id": objectID, "deleted_at": nil},
		bson.M{"$inc": bson.M{"earnings_balance": amount}},
	)
	if err != nil {
		return fmt.Errorf("failed to credit earnings: %w", err)
	}
	if result.MatchedCount == 0 {
		return earningserrors.ErrCleanerNotFound
	}

	event := &model.EarningEvent{
		CleanerID: cleanerID,
		BookingID: bookingID,
		Amount:    amount,
		Service:   serviceType,
		EarnedAt:  earnedAt,
	}
	if _, err := r.events.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to record earning event: %w", err)
	}

	return nil
}

// Withdraw decrements the balance only if it covers the amount, then records
// the withdrawal, both inside one transaction. The $gte guard makes overdraw
// a detectable no-op instead of a negative balance.
func (r *mongoCleanerRepository) Withdraw(ctx context.Context, cleanerID string, amount int64) (*model.Withdrawal, error) {
	objectID, err := primitive.ObjectIDFromHex(cleanerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", earningserrors.ErrInvalidID, cleanerID)
	}

	withdrawal := &model.Withdrawal{
		CleanerID:   cleanerID,
		Amount:      amount,
		RequestedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	err = r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		result, err := r.cleaners.UpdateOne(sessCtx,
			bson.M{
				"_id":              objectID,
				"deleted_at":       nil,
				"earnings_balance": bson.M{"$gte": amount},
			},
			bson.M{"$inc": bson.M{"earnings_balance": -amount}},
		)
		if err != nil {
			return fmt.Errorf("failed to decrement balance: %w", err)
		}
		if result.MatchedCount == 0 {
			return earningserrors.ErrInsufficientBalance
		}

		insert, err := r.withdrawals.InsertOne(sessCtx, withdrawal)
		if err != nil {
			return fmt.Errorf("failed to record withdrawal: %w", err)
		}
		if oid, ok := insert.InsertedID.(primitive.ObjectID); ok {
			withdrawal.ID = oid.Hex()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return withdrawal, nil
}

func (r *mongoCleanerRepository) FindEventsSince(ctx context.Context, cleanerID string, since time.Time) ([]*model.EarningEvent, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.events.Find(ctx,
		bson.M{
			"cleaner_id": cleanerID,
			"earned_at":  bson.M{"$gte": since},
		},
		options.Find().SetSort(bson.D{{Key: "earned_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find earning events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.EarningEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode earning events: %w", err)
	}
	return events, nil
}

func (r *mongoCleanerRepository) FindEvents(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.EarningEvent, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.events.Find(ctx,
		bson.M{"cleaner_id": cleanerID},
		options.Find().
			SetSort(bson.D{{Key: "earned_at", Value: -1}}).
			SetLimit(int64(limit)).
			SetSkip(offset),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find earning events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.EarningEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode earning events: %w", err)
	}
	return events, nil
}

func (r *mongoCleanerRepository) CountEvents(ctx context.Context, cleanerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.events.CountDocuments(ctx, bson.M{"cleaner_id": cleanerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count earning events: %w", err)
	}
	return count, nil
}

func (r *mongoCleanerRepository) Lifetime(ctx context.Context, cleanerID string) (*LifetimeTotals, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "cleaner_id", Value: cleanerID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "events", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.events.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate lifetime earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []LifetimeTotals
	if err = cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("failed to decode lifetime earnings: %w", err)
	}
	if len(totals) == 0 {
		return &LifetimeTotals{}, nil
	}
	return &totals[0], nil
}

func (r *mongoCleanerRepository) FindVerifiedBookings(ctx context.Context, cleanerID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.bookings.Find(ctx, bson.M{
		"cleaner_id": cleanerID,
		"status":     model.StatusPaymentVerified,
		"deleted_at": nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find verified bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode verified bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoCleanerRepository) FindWithdrawals(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.Withdrawal, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.withdrawals.Find(ctx,
		bson.M{"cleaner_id": cleanerID},
		options.Find().
			SetSort(bson.D{{Key: "requested_at", Value: -1}}).
			SetLimit(int64(limit)).
			SetSkip(offset),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find withdrawals: %w", err)
	}
	defer cursor.Close(ctx)

	var withdrawals []*model.Withdrawal
	if err = cursor.All(ctx, &withdrawals); err != nil {
		return nil, fmt.Errorf("failed to decode withdrawals: %w", err)
	}
	return withdrawals, nil
}

func (r *mongoCleanerRepository) CountWithdrawals(ctx context.Context, cleanerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.withdrawals.CountDocuments(ctx, bson.M{"cleaner_id": cleanerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}
	return count, nil
}

func (r *mongoCleanerRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
