package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoDB is the shared document-store handle of the process.
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *logger.Logger
}

// NewConnectMongo connects to the deployment addressed by cfg.DSN, pings the
// primary and makes sure the unique indexes exist.
func NewConnectMongo(ctx context.Context, cfg config.DB, log *logger.Logger) (*MongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.DSN))
	if err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error occurred during database connection")
		return nil, fmt.Errorf("%w: %w", ErrConnecting, err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error connecting database (ping)")
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %w", ErrConnecting, err)
	}
	log.Info().Str("func", "NewConnectMongo").Str("database", cfg.Name).Msg("connected to database successfully")

	db := &MongoDB{
		client:   client,
		database: client.Database(cfg.Name),
		logger:   log,
	}

	if err = db.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return db, nil
}

func (db *MongoDB) users() *mongo.Collection {
	return db.database.Collection(models.User{}.CollectionName())
}

func (db *MongoDB) loginCounts() *mongo.Collection {
	return db.database.Collection(models.LoginCount{}.CollectionName())
}

// EnsureIndexes creates the unique indexes the repositories rely on:
// userId, email and username on users, firstTime on amount-login. Creating an
// index that already exists is a no-op.
func (db *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(field + "_unique"),
		}
	}

	if _, err := db.users().Indexes().CreateMany(ctx, []mongo.IndexModel{
		unique(models.FieldUserID),
		unique(models.FieldEmail),
		unique(models.FieldUsername),
	}); err != nil {
		db.logger.Err(err).Str("func", "*MongoDB.EnsureIndexes").Msg("error creating users indexes")
		return fmt.Errorf("error creating users indexes: %w", err)
	}

	if _, err := db.loginCounts().Indexes().CreateOne(ctx, unique("firstTime")); err != nil {
		db.logger.Err(err).Str("func", "*MongoDB.EnsureIndexes").Msg("error creating amount-login index")
		return fmt.Errorf("error creating amount-login index: %w", err)
	}

	return nil
}

// Close disconnects the client.
func (db *MongoDB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
