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

// mongoUserRepository is the MongoDB-backed implementation of
// [UserRepository] over the "users" collection.
type mongoUserRepository struct {
	db     *MongoDB
	logger *logger.Logger
}

// NewMongoUserRepository constructs a [UserRepository] backed by db.
func NewMongoUserRepository(db *MongoDB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating mongo user repository")
	return &mongoUserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *mongoUserRepository) FindOne(ctx context.Context, filter models.UserFilter, fields []string) (*models.User, error) {
	log := logger.FromContext(ctx)

	projection, err := projectionDocument(fields)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetSort(bson.D{{Key: mongoInsertionOrder, Value: 1}})
	if projection != nil {
		opts.SetProjection(projection)
	}

	var user models.User
	err = r.db.users().FindOne(ctx, userFilterDocument(filter), opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*mongoUserRepository.FindOne").Msg("error finding user")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &user, nil
}

func (r *mongoUserRepository) Find(ctx context.Context, filter models.UserFilter, findOpts models.FindOptions) ([]models.User, error) {
	log := logger.FromContext(ctx)

	projection, err := projectionDocument(findOpts.Select)
	if err != nil {
		return nil, err
	}
	sort, err := sortDocument(findOpts.Sort)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(sort)
	if projection != nil {
		opts.SetProjection(projection)
	}
	if findOpts.Skip > 0 {
		opts.SetSkip(findOpts.Skip)
	}
	if findOpts.Limit > 0 {
		opts.SetLimit(findOpts.Limit)
	}

	cursor, err := r.db.users().Find(ctx, userFilterDocument(filter), opts)
	if err != nil {
		log.Err(err).Str("func", "*mongoUserRepository.Find").Msg("error finding users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	users := make([]models.User, 0)
	if err = cursor.All(ctx, &users); err != nil {
		log.Err(err).Str("func", "*mongoUserRepository.Find").Msg("error decoding users")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	count, err := r.db.users().CountDocuments(ctx, userFilterDocument(filter))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoUserRepository.Count").Msg("error counting users")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user models.User) error {
	_, err := r.db.users().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrUserAlreadyExists
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoUserRepository.Create").Msg("error inserting user")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *mongoUserRepository) Update(ctx context.Context, userID string, changes models.UserChanges, updatedAt time.Time) error {
	set := append(userChangesDocument(changes), bson.E{Key: models.FieldUpdatedAt, Value: updatedAt})

	return r.updateOne(ctx, bson.D{{Key: models.FieldUserID, Value: userID}}, set, "*mongoUserRepository.Update")
}

func (r *mongoUserRepository) UpdateSession(ctx context.Context, email string, session models.Session) error {
	set := bson.D{
		{Key: models.FieldToken, Value: session.Token},
		{Key: models.FieldRefreshToken, Value: session.RefreshToken},
		{Key: models.FieldLatestLogin, Value: session.LatestLogin},
		{Key: models.FieldUpdatedAt, Value: session.LatestLogin},
	}

	return r.updateOne(ctx, bson.D{{Key: models.FieldEmail, Value: email}}, set, "*mongoUserRepository.UpdateSession")
}

func (r *mongoUserRepository) updateOne(ctx context.Context, filter, set bson.D, op string) error {
	result, err := r.db.users().UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if mongo.IsDuplicateKeyError(err) {
		return ErrUserAlreadyExists
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", op).Msg("error updating user")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.users().FindOneAndDelete(ctx, bson.D{{Key: models.FieldUserID, Value: userID}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoUserRepository.Delete").Msg("error deleting user")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &user, nil
}
