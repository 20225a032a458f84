package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-accounts/internal/clock"
	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/store"
	"github.com/MKhiriev/go-accounts/internal/utils"
	"github.com/MKhiriev/go-accounts/models"
	"golang.org/x/sync/errgroup"
)

// authService is the concrete implementation of AuthService.
// It signs HS256 token pairs and delegates account lookups to the
// User Directory.
type authService struct {
	// users is used to read the roles of the identity and to persist the
	// issued session.
	users store.UserRepository

	// directory serves the read-through lookups.
	directory UserService

	clock clock.Clock

	// tokenSignKey is the HMAC secret shared by access and refresh tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	tokenIssuer string

	// tokenDuration is the validity window of both tokens.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService. Signing parameters are taken
// from cfg; all state is read-only after construction.
func NewAuthService(users store.UserRepository, directory UserService, c clock.Clock, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		users:         users,
		directory:     directory,
		clock:         c,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// CreateTokens looks up the roles of email and signs the access token
// {email, roles} and the refresh token {email} concurrently.
//
// Returns:
//   - ErrInvalidDataProvided if email is empty.
//   - ErrUnknownIdentity if no account has this email.
//   - ErrInternal on store or signing failure.
func (a *authService) CreateTokens(ctx context.Context, email string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if email == "" {
		return models.TokenPair{}, invalid("email is required")
	}

	identity, err := a.users.FindOne(ctx, models.UserFilter{Email: email}, models.RoleFields)
	if err != nil {
		return models.TokenPair{}, storeError(ctx, "*authService.CreateTokens", err)
	}
	if identity == nil {
		log.Warn().Str("email", email).Msg("token issuance for unknown identity")
		return models.TokenPair{}, ErrUnknownIdentity
	}

	roles := identity.Roles
	if roles == nil {
		roles = []models.Role{}
	}
	registered := utils.NewRegisteredClaims(a.tokenIssuer, a.clock.Now(), a.tokenDuration)

	var pair models.TokenPair
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		pair.AccessToken, err = utils.SignToken(models.AccessClaims{Email: email, Roles: roles, RegisteredClaims: registered}, a.tokenSignKey)
		return err
	})
	g.Go(func() error {
		var err error
		pair.RefreshToken, err = utils.SignToken(models.RefreshClaims{Email: email, RegisteredClaims: registered}, a.tokenSignKey)
		return err
	})
	if err = g.Wait(); err != nil {
		log.Err(err).Str("op", "*authService.CreateTokens").Msg("error signing tokens")
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return pair, nil
}

// Login issues a token pair and writes {token, refreshToken, latestLogin}
// onto the account. The two steps are not atomic.
func (a *authService) Login(ctx context.Context, email string) (models.TokenPair, error) {
	pair, err := a.CreateTokens(ctx, email)
	if err != nil {
		return models.TokenPair{}, err
	}

	session := models.Session{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		LatestLogin:  a.clock.Now(),
	}
	if err = a.users.UpdateSession(ctx, email, session); err != nil {
		logger.FromContext(ctx).Err(err).Str("op", "*authService.Login").Msg("error persisting session")
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	logger.FromContext(ctx).Info().Str("email", email).Msg("user logged in")
	return pair, nil
}

func (a *authService) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return a.directory.GetByUserID(ctx, userID)
}

func (a *authService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return a.directory.GetByEmail(ctx, email)
}

func (a *authService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return a.directory.GetByUsername(ctx, username)
}

func (a *authService) BlockUser(ctx context.Context, email string) (*models.User, error) {
	return a.directory.GetBlockUser(ctx, email)
}

func (a *authService) GetAdminRole(ctx context.Context, email string) (*models.User, error) {
	return a.directory.GetAdminRole(ctx, email)
}
