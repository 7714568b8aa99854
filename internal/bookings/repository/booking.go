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

	bookingserrors "sweeply/internal/bookings/errors"
	"sweeply/pkg/config"
	mongotx "sweeply/pkg/db/mongo"
	"sweeply/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

// BookingRepository persists bookings. Every state-changing method is a
// conditional write: the filter restates the state the caller observed, and
// a zero match count surfaces as ErrPreconditionFailed instead of clobbering
// whatever is there now.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)

	Pick(ctx context.Context, id string, cleanerID string, now time.Time) error
	Start(ctx context.Context, id string, cleanerID string, now time.Time) error
	Pause(ctx context.Context, id string, cleanerID string, now time.Time) error
	Resume(ctx context.Context, id string, cleanerID string, pausedAt time.Time, pauseMinutes int64) error
	Complete(ctx context.Context, id string, cleanerID string, from model.Status, pausedAt *time.Time, foldedPauseMinutes int64, now time.Time) error
	VerifyPayment(ctx context.Context, id string, cleanerID string, proofURL string, now time.Time) error

	SoftDelete(ctx context.Context, id string, customerID string, now time.Time) error
	Restore(ctx context.Context, id string) error

	FindCurrentForCleaner(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.Booking, error)
	CountCurrentForCleaner(ctx context.Context, cleanerID string) (int64, error)
	FindHistoryForCleaner(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.Booking, error)
	CountHistoryForCleaner(ctx context.Context, cleanerID string) (int64, error)
	FindByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as wrapping a SessionContext would
// break transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// transition performs a single conditional UpdateOne. The filter carries the
// expected state; zero matches means the document either does not exist or
// has since moved on, and the caller disambiguates with a follow-up read.
func (r *mongoBookingRepository) transition(ctx context.Context, id string, filter bson.M, update bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter["_id"] = objectID
	filter["deleted_at"] = nil

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrPreconditionFailed
	}

	return nil
}

func (r *mongoBookingRepository) Pick(ctx context.Context, id string, cleanerID string, now time.Time) error {
	return r.transition(ctx, id,
		bson.M{
			"status":     model.StatusPending,
			"cleaner_id": nil,
		},
		bson.M{
			"$set": bson.M{
				"status":     model.StatusPicked,
				"cleaner_id": cleanerID,
				"picked_at":  now,
			},
		},
	)
}

func (r *mongoBookingRepository) Start(ctx context.Context, id string, cleanerID string, now time.Time) error {
	return r.transition(ctx, id,
		bson.M{
			"status":     model.StatusPicked,
			"cleaner_id": cleanerID,
		},
		bson.M{
			"$set": bson.M{
				"status":     model.StatusInProgress,
				"started_at": now,
			},
		},
	)
}

func (r *mongoBookingRepository) Pause(ctx context.Context, id string, cleanerID string, now time.Time) error {
	return r.transition(ctx, id,
		bson.M{
			"status":     model.StatusInProgress,
			"cleaner_id": cleanerID,
		},
		bson.M{
			"$set": bson.M{
				"status":    model.StatusPaused,
				"paused_at": now,
			},
		},
	)
}

// Resume guards on the exact paused_at the caller observed so the pause
// minutes folded into the total always belong to this pause interval.
func (r *mongoBookingRepository) Resume(ctx context.Context, id string, cleanerID string, pausedAt time.Time, pauseMinutes int64) error {
	return r.transition(ctx, id,
		bson.M{
			"status":     model.StatusPaused,
			"cleaner_id": cleanerID,
			"paused_at":  pausedAt,
		},
		bson.M{
			"$set": bson.M{
				"status": model.StatusInProgress,
			},
			"$unset": bson.M{
				"paused_at": "",
			},
			"$inc": bson.M{
				"total_pause_minutes": pauseMinutes,
			},
		},
	)
}

// Complete closes out the working phase from either in_progress or paused.
// Completing from paused folds the open pause interval into the committed
// total and clears paused_at, so the invariant paused_at <=> paused holds.
// Like Resume, the filter restates the paused_at the caller observed; a
// pause interval that was resumed and re-opened in between no longer
// matches, so its minutes can never be folded twice.
func (r *mongoBookingRepository) Complete(ctx context.Context, id string, cleanerID string, from model.Status, pausedAt *time.Time, foldedPauseMinutes int64, now time.Time) error {
	filter := bson.M{
		"status":     from,
		"cleaner_id": cleanerID,
	}
	update := bson.M{
		"$set": bson.M{
			"status":       model.StatusCompleted,
			"completed_at": now,
		},
	}
	if from == model.StatusPaused {
		filter["paused_at"] = pausedAt
		update["$unset"] = bson.M{"paused_at": ""}
		update["$inc"] = bson.M{"total_pause_minutes": foldedPauseMinutes}
	}

	return r.transition(ctx, id, filter, update)
}

func (r *mongoBookingRepository) VerifyPayment(ctx context.Context, id string, cleanerID string, proofURL string, now time.Time) error {
	return r.transition(ctx, id,
		bson.M{
			"status":     model.StatusCompleted,
			"cleaner_id": cleanerID,
		},
		bson.M{
			"$set": bson.M{
				"status":               model.StatusPaymentVerified,
				"payment_proof_url":    proofURL,
				"payment_collected_at": now,
			},
		},
	)
}

// SoftDelete hides a pending booking from every query without removing it.
func (r *mongoBookingRepository) SoftDelete(ctx context.Context, id string, customerID string, now time.Time) error {
	return r.transition(ctx, id,
		bson.M{
			"status":      model.StatusPending,
			"customer_id": customerID,
		},
		bson.M{
			"$set": bson.M{
				"deleted_at": now,
			},
		},
	)
}

func (r *mongoBookingRepository) Restore(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":        objectID,
			"deleted_at": bson.M{"$ne": nil},
		},
		bson.M{
			"$set": bson.M{"deleted_at": nil},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to restore booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrPreconditionFailed
	}

	return nil
}

// unpaidWorkStatuses are the states in which a claimed booking still sits in
// the cleaner's dispatch queue.
var unpaidWorkStatuses = []model.Status{
	model.StatusPicked,
	model.StatusInProgress,
	model.StatusPaused,
	model.StatusCompleted,
}

// InCurrentQueue reports whether the booking belongs in the given cleaner's
// dispatch queue: the open pending pool, or the cleaner's own work that has
// not yet had its payment collected. currentFilter is this predicate spelled
// as a Mongo filter; the two must agree.
func InCurrentQueue(b *model.Booking, cleanerID string) bool {
	if b.IsDeleted() {
		return false
	}
	if b.Status == model.StatusPending {
		return true
	}
	if !b.AssignedTo(cleanerID) || b.PaymentCollectedAt != nil {
		return false
	}
	for _, status := range unpaidWorkStatuses {
		if b.Status == status {
			return true
		}
	}
	return false
}

// InHistory reports whether the booking belongs in the given cleaner's
// verified job history. Together with InCurrentQueue this partitions every
// booking a cleaner can see: exactly one of the two holds.
func InHistory(b *model.Booking, cleanerID string) bool {
	return !b.IsDeleted() &&
		b.AssignedTo(cleanerID) &&
		b.Status == model.StatusPaymentVerified &&
		b.PaymentCollectedAt != nil
}

func currentFilter(cleanerID string) bson.M {
	return bson.M{
		"deleted_at": nil,
		"$or": []bson.M{
			{"status": model.StatusPending},
			{
				"cleaner_id":           cleanerID,
				"status":               bson.M{"$in": unpaidWorkStatuses},
				"payment_collected_at": nil,
			},
		},
	}
}

func historyFilter(cleanerID string) bson.M {
	return bson.M{
		"deleted_at":           nil,
		"cleaner_id":           cleanerID,
		"status":               model.StatusPaymentVerified,
		"payment_collected_at": bson.M{"$ne": nil},
	}
}

func (r *mongoBookingRepository) FindCurrentForCleaner(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, currentFilter(cleanerID), opts)
}

func (r *mongoBookingRepository) CountCurrentForCleaner(ctx context.Context, cleanerID string) (int64, error) {
	return r.count(ctx, currentFilter(cleanerID))
}

func (r *mongoBookingRepository) FindHistoryForCleaner(ctx context.Context, cleanerID string, limit int, offset int64) ([]*model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completed_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, historyFilter(cleanerID), opts)
}

func (r *mongoBookingRepository) CountHistoryForCleaner(ctx context.Context, cleanerID string) (int64, error) {
	return r.count(ctx, historyFilter(cleanerID))
}

func (r *mongoBookingRepository) FindByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, bson.M{"customer_id": customerID, "deleted_at": nil}, opts)
}

func (r *mongoBookingRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	return r.count(ctx, bson.M{"customer_id": customerID, "deleted_at": nil})
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
