package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-accounts/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// UserService is the User Directory: account lookups, lifecycle mutations
// and listings over the users collection.
//
// Lookups return (nil, nil) when nothing matches. Mutations addressed to an
// unknown userId return ErrUserNotFound.
type UserService interface {
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Register creates an account. A missing userId is generated, a missing
	// status defaults to ACTIVE and missing roles to an empty set.
	Register(ctx context.Context, payload models.Register) error
	ChangePassword(ctx context.Context, payload models.ChangePassword) error
	UpdateUser(ctx context.Context, payload models.UpdateUser) error
	// DeleteUser hard-deletes the account and returns the removed record.
	DeleteUser(ctx context.Context, userID string) (*models.User, error)
	BanUser(ctx context.Context, userID string) error
	UnBanUser(ctx context.Context, userID string) error
	// UpdateRole replaces the whole role set.
	UpdateRole(ctx context.Context, payload models.UpdateRole) error

	// FindNewUsers lists the accounts created during the current calendar week.
	FindNewUsers(ctx context.Context) ([]models.User, error)
	GetPagination(ctx context.Context, req models.PaginationRequest) (models.Page, error)
	GetAdminRole(ctx context.Context, email string) (*models.User, error)
	GetBlockUser(ctx context.Context, email string) (*models.User, error)
}

// AuthService is the Token Issuer.
type AuthService interface {
	// CreateTokens signs an access and a refresh token for the account
	// identified by email. An unknown email yields ErrUnknownIdentity.
	CreateTokens(ctx context.Context, email string) (models.TokenPair, error)
	// Login issues a token pair and records it, together with the login
	// time, on the account.
	Login(ctx context.Context, email string) (models.TokenPair, error)

	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	BlockUser(ctx context.Context, email string) (*models.User, error)
	GetAdminRole(ctx context.Context, email string) (*models.User, error)
}

// LoginCountService is the Login Counter: per-day aggregate login volume.
type LoginCountService interface {
	// RecordLogins adds amount to the bucket of the current day.
	RecordLogins(ctx context.Context, amount int64) error
	// GetAmountUsersLogin returns {amountLogin, createdAt} of the bucket
	// created on the day of date, or nil.
	GetAmountUsersLogin(ctx context.Context, date time.Time) (*models.LoginCount, error)
	// LastUsersLogin lists the accounts that logged in on the day of date,
	// most recent first.
	LastUsersLogin(ctx context.Context, date time.Time) ([]models.User, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// IDGenerator produces external account identifiers.
type IDGenerator interface {
	Generate() string
}
