package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoLoginCountRepository is the MongoDB-backed implementation of
// [LoginCountRepository] over the "amount-login" collection.
type mongoLoginCountRepository struct {
	db     *MongoDB
	logger *logger.Logger
}

// NewMongoLoginCountRepository constructs a [LoginCountRepository] backed by db.
func NewMongoLoginCountRepository(db *MongoDB, logger *logger.Logger) LoginCountRepository {
	logger.Debug().Msg("creating mongo login count repository")
	return &mongoLoginCountRepository{
		db:     db,
		logger: logger,
	}
}

// Increment issues a single upsert keyed by firstTime.
//
// Two concurrent upserts of a missing bucket can both try to insert; the
// unique index rejects the loser with a duplicate-key error, and the retry
// then matches the bucket created by the winner.
func (r *mongoLoginCountRepository) Increment(ctx context.Context, day time.Time, amount int64, now time.Time) error {
	filter := bson.D{{Key: "firstTime", Value: day}}
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "amountLogin", Value: amount}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
	}
	opts := options.UpdateOne().SetUpsert(true)

	_, err := r.db.loginCounts().UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		_, err = r.db.loginCounts().UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoLoginCountRepository.Increment").Msg("error upserting login count")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *mongoLoginCountRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) (*models.LoginCount, error) {
	filter := bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: to}}}}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var count models.LoginCount
	err := r.db.loginCounts().FindOne(ctx, filter, opts).Decode(&count)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoLoginCountRepository.FindCreatedBetween").Msg("error finding login count")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &count, nil
}
