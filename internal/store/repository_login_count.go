package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
)

// loginCountRepository is the PostgreSQL-backed implementation of
// [LoginCountRepository] over the "amount_login" table.
type loginCountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewLoginCountRepository constructs a [LoginCountRepository] backed by db.
func NewLoginCountRepository(db *DB, logger *logger.Logger) LoginCountRepository {
	logger.Debug().Msg("creating login count repository")
	return &loginCountRepository{
		db:     db,
		logger: logger,
	}
}

// Increment runs a single INSERT ... ON CONFLICT DO UPDATE statement. A
// transient failure (per the error classificator) is retried once.
func (r *loginCountRepository) Increment(ctx context.Context, day time.Time, amount int64, now time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildIncrementLoginCount(day, amount, now)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil && r.db.errorClassificator != nil && r.db.errorClassificator.Classify(err) == Retryable {
		log.Warn().Err(err).Str("func", "*loginCountRepository.Increment").Msg("retrying login count upsert")
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		log.Err(err).Str("func", "*loginCountRepository.Increment").Msg("error upserting login count")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *loginCountRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) (*models.LoginCount, error) {
	query, args, err := buildFindLoginCount(from, to)
	if err != nil {
		return nil, err
	}

	var count models.LoginCount
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&count.FirstTime, &count.AmountLogin, &count.CreatedAt, &count.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*loginCountRepository.FindCreatedBetween").Msg("error finding login count")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &count, nil
}
