package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-accounts/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the data-access contract of the "users" collection.
//
// Lookups that match nothing return (nil, nil); only infrastructure failures
// are reported as errors. Field lists (projections, sort keys) use the JSON
// names of models.User.
type UserRepository interface {
	// FindOne returns the first user matching filter, projected to fields.
	FindOne(ctx context.Context, filter models.UserFilter, fields []string) (*models.User, error)
	// Find returns the users matching filter. With no sort keys the result is
	// in insertion order.
	Find(ctx context.Context, filter models.UserFilter, opts models.FindOptions) ([]models.User, error)
	// Count returns the number of users matching filter.
	Count(ctx context.Context, filter models.UserFilter) (int64, error)
	// Create inserts a new user. A uniqueness collision on userId, email or
	// username yields ErrUserAlreadyExists.
	Create(ctx context.Context, user models.User) error
	// Update writes changes onto the user identified by userID and refreshes
	// updatedAt. Yields ErrNoUserWasFound when nothing matched.
	Update(ctx context.Context, userID string, changes models.UserChanges, updatedAt time.Time) error
	// UpdateSession writes the token pair and latestLogin onto the user
	// identified by email. Yields ErrNoUserWasFound when nothing matched.
	UpdateSession(ctx context.Context, email string, session models.Session) error
	// Delete removes the user identified by userID and returns the removed
	// record, or nil when nothing matched.
	Delete(ctx context.Context, userID string) (*models.User, error)
}

// LoginCountRepository is the data-access contract of the "amount-login"
// collection.
type LoginCountRepository interface {
	// Increment atomically adds amount to the bucket keyed by day, creating
	// the bucket (createdAt = now) when it does not exist yet.
	Increment(ctx context.Context, day time.Time, amount int64, now time.Time) error
	// FindCreatedBetween returns the bucket whose createdAt falls within
	// [from, to], or nil.
	FindCreatedBetween(ctx context.Context, from, to time.Time) (*models.LoginCount, error)
}
