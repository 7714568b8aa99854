package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sweeply/internal/migrations/mongo/validators"
)

var (
	// BookingsIndexes back the two dispatch-queue reads: the shared pool of
	// claimable jobs and a cleaner's paid history, newest first.
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "scheduled_at", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "cleaner_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "completed_at", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "customer_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	}

	CleanersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	}

	EarningEventsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "cleaner_id", Value: 1},
			{Key: "earned_at", Value: -1},
		}},
		// One credit per verified booking.
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	WithdrawalsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "cleaner_id", Value: 1},
			{Key: "requested_at", Value: -1},
		}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, rates map[string]int64) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Sweeply Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Cleaners": {
			Indexes:   CleanersIndexes,
			Validator: validators.CleanerValidator,
		},
		"Earning_events": {
			Indexes:   EarningEventsIndexes,
			Validator: validators.EarningEventValidator,
		},
		"Withdrawals": {
			Indexes:   WithdrawalsIndexes,
			Validator: validators.WithdrawalValidator,
		},
		"Service_rates": {
			Validator: validators.ServiceRateValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := seedServiceRates(ctx, db, rates); err != nil {
		return fmt.Errorf("failed to seed service rates: %w", err)
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}

// seedServiceRates upserts the configured commission table so a fresh
// environment starts with usable rates. Rows edited by operators keep their
// values only if the configured amount matches; config is the source of truth.
func seedServiceRates(ctx context.Context, db *mongo.Database, rates map[string]int64) error {
	if len(rates) == 0 {
		return nil
	}

	coll := db.Collection("Service_rates")
	for serviceType, commission := range rates {
		update := bson.M{
			"$set": bson.M{
				"commission": commission,
				"updated_at": time.Now().UTC(),
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := coll.UpdateOne(ctx, bson.M{"_id": serviceType}, update, opts); err != nil {
			return fmt.Errorf("failed upserting rate for %s: %w", serviceType, err)
		}
	}

	fmt.Printf("💰 Seeded %d service rate(s)\n", len(rates))
	return nil
}
