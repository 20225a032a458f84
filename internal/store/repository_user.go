package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles user accounts stored in the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// FindOne reads at most one row in insertion order.
func (r *userRepository) FindOne(ctx context.Context, filter models.UserFilter, fields []string) (*models.User, error) {
	users, err := r.Find(ctx, filter, models.FindOptions{Select: fields, Limit: 1})
	if err != nil || len(users) == 0 {
		return nil, err
	}

	return &users[0], nil
}

// Find reads the matching rows, projected and ordered as requested.
//
// Error handling:
//   - unknown projection or sort field → [ErrUnknownField].
//   - driver-level error → wrapped [ErrExecutingQuery].
//   - scan failure → wrapped [ErrScanningRows].
func (r *userRepository) Find(ctx context.Context, filter models.UserFilter, opts models.FindOptions) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, fields, err := buildFindUsers(filter, opts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Find").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var row userRow
		if err = rows.Scan(row.targets(fields)...); err != nil {
			log.Err(err).Str("func", "*userRepository.Find").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		user, err := row.result()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.Find").Msg("error iterating rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

func (r *userRepository) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	query, args, err := buildCountUsers(filter)
	if err != nil {
		return 0, err
	}

	var count int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.Count").Msg("error counting users")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// Create inserts a new row.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrUserAlreadyExists].
//   - any other driver-level error → wrapped [ErrExecutingQuery].
func (r *userRepository) Create(ctx context.Context, user models.User) error {
	query, args, err := buildInsertUser(user)
	if err != nil {
		return err
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.Create").Msg("error inserting user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrUserAlreadyExists
		default:
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, userID string, changes models.UserChanges, updatedAt time.Time) error {
	set, err := userChangesSet(changes, updatedAt)
	if err != nil {
		return err
	}

	return r.updateOne(ctx, sq.Eq{"user_id": userID}, set, "*userRepository.Update")
}

func (r *userRepository) UpdateSession(ctx context.Context, email string, session models.Session) error {
	set := map[string]any{
		"token":         session.Token,
		"refresh_token": session.RefreshToken,
		"latest_login":  session.LatestLogin,
		"updated_at":    session.LatestLogin,
	}

	return r.updateOne(ctx, sq.Eq{"email": email}, set, "*userRepository.UpdateSession")
}

func (r *userRepository) updateOne(ctx context.Context, where sq.Eq, set map[string]any, op string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUser(where, set)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", op).Msg("error updating user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrUserAlreadyExists
		default:
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", op).Msg("error reading affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// Delete removes the row and returns it via a RETURNING clause.
func (r *userRepository) Delete(ctx context.Context, userID string) (*models.User, error) {
	log := logger.FromContext(ctx)

	query, args, fields, err := buildDeleteUser(userID)
	if err != nil {
		return nil, err
	}

	var row userRow
	err = r.db.QueryRowContext(ctx, query, args...).Scan(row.targets(fields)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Delete").Msg("error deleting user")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	user, err := row.result()
	if err != nil {
		return nil, err
	}

	return &user, nil
}
