package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "sweeply/internal/bookings/errors"
	"sweeply/pkg/config"
	"sweeply/pkg/model"
)

const (
	RatesCollectionName = "Service_rates"
)

// RateRepository reads the fixed commission table keyed by service type.
type RateRepository interface {
	FindByServiceType(ctx context.Context, serviceType string) (*model.ServiceRate, error)
	Upsert(ctx context.Context, rate *model.ServiceRate) error
}

type mongoRateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRateRepository(cfg *config.Config) RateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRateRepository{
		cfg:        cfg,
		collection: db.Collection(RatesCollectionName),
	}
}

func (r *mongoRateRepository) FindByServiceType(ctx context.Context, serviceType string) (*model.ServiceRate, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var rate model.ServiceRate
	err := r.collection.FindOne(ctx, bson.M{"_id": serviceType}).Decode(&rate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrRateNotFound
		}
		return nil, fmt.Errorf("failed to find service rate: %w", err)
	}

	return &rate, nil
}

func (r *mongoRateRepository) Upsert(ctx context.Context, rate *model.ServiceRate) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rate.UpdatedAt = time.Now().UTC()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": rate.ServiceType},
		bson.M{"$set": bson.M{
			"commission": rate.Commission,
			"updated_at": rate.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert service rate: %w", err)
	}
	return nil
}
