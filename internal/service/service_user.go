// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"math"
	"strings"

	"github.com/MKhiriev/go-accounts/internal/clock"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/store"
	"github.com/MKhiriev/go-accounts/models"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
)

// userService is the concrete implementation of UserService.
type userService struct {
	// users is the data-access layer of the users collection.
	users store.UserRepository

	// calendar supplies the write timestamps and the current week boundaries.
	calendar *clock.Calendar

	// ids generates the userId of accounts registered without one.
	ids IDGenerator

	// maxPerPage caps the page size of GetPagination.
	maxPerPage int64

	logger *logger.Logger
}

// NewUserService constructs a UserService over the given repository.
func NewUserService(users store.UserRepository, calendar *clock.Calendar, ids IDGenerator, maxPerPage int64, logger *logger.Logger) UserService {
	return &userService{
		users:      users,
		calendar:   calendar,
		ids:        ids,
		maxPerPage: maxPerPage,
		logger:     logger,
	}
}

func (s *userService) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return s.findOne(ctx, "GetByUserID", models.UserFilter{UserID: userID})
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "GetByEmail", models.UserFilter{Email: email})
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "GetByUsername", models.UserFilter{Username: username})
}

func (s *userService) GetAdminRole(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "GetAdminRole", models.UserFilter{Email: email, Role: models.RoleAdmin})
}

func (s *userService) GetBlockUser(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "GetBlockUser", models.UserFilter{Email: email, Status: models.StatusInactive})
}

// findOne treats an empty identifier as "nothing matches" so that an empty
// filter never selects an arbitrary account.
func (s *userService) findOne(ctx context.Context, op string, filter models.UserFilter) (*models.User, error) {
	if filter.UserID == "" && filter.Email == "" && filter.Username == "" {
		return nil, nil
	}

	user, err := s.users.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, storeError(ctx, "*userService."+op, err)
	}

	return user, nil
}

// Register validates the payload, fills in the defaults and creates the
// account.
//
// Returns:
//   - ErrInvalidDataProvided if email, username or hashPassword is empty, or
//     a role or the status is unknown.
//   - ErrUserAlreadyExists if userId, email or username is taken.
//   - ErrInternal on store failure.
func (s *userService) Register(ctx context.Context, payload models.Register) error {
	log := logger.FromContext(ctx)

	user := payload.User()
	if err := validateNewUser(user); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("invalid registration payload")
		return err
	}

	if user.UserID == "" {
		user.UserID = s.ids.Generate()
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	if user.Roles == nil {
		user.Roles = []models.Role{}
	}
	now := s.calendar.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Create(ctx, user); err != nil {
		return storeError(ctx, "*userService.Register", err)
	}

	log.Info().Str("user_id", user.UserID).Msg("user registered")
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, payload models.ChangePassword) error {
	if payload.UserID == "" || payload.HashPassword == "" {
		return invalid("userId and hashPassword are required")
	}

	return s.update(ctx, "ChangePassword", payload.UserID, models.UserChanges{Password: &payload.HashPassword})
}

func (s *userService) UpdateUser(ctx context.Context, payload models.UpdateUser) error {
	if payload.UserID == "" {
		return invalid("userId is required")
	}
	if payload.Update.IsEmpty() {
		return invalid("update carries no fields")
	}
	if err := validateUpdate(payload.Update); err != nil {
		return err
	}

	return s.update(ctx, "UpdateUser", payload.UserID, payload.Update.Changes())
}

func (s *userService) BanUser(ctx context.Context, userID string) error {
	return s.setStatus(ctx, "BanUser", userID, models.StatusInactive)
}

func (s *userService) UnBanUser(ctx context.Context, userID string) error {
	return s.setStatus(ctx, "UnBanUser", userID, models.StatusActive)
}

func (s *userService) setStatus(ctx context.Context, op, userID string, status models.Status) error {
	if userID == "" {
		return invalid("userId is required")
	}

	return s.update(ctx, op, userID, models.UserChanges{Status: &status})
}

func (s *userService) UpdateRole(ctx context.Context, payload models.UpdateRole) error {
	if payload.UserID == "" {
		return invalid("userId is required")
	}
	if err := validateRoles(payload.Roles); err != nil {
		return err
	}

	roles := payload.Roles
	if roles == nil {
		roles = []models.Role{}
	}

	return s.update(ctx, "UpdateRole", payload.UserID, models.UserChanges{Roles: &roles})
}

func (s *userService) update(ctx context.Context, op, userID string, changes models.UserChanges) error {
	if err := s.users.Update(ctx, userID, changes, s.calendar.Now()); err != nil {
		return storeError(ctx, "*userService."+op, err)
	}

	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, invalid("userId is required")
	}

	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, "*userService.DeleteUser", err)
	}
	if deleted == nil {
		return nil, ErrUserNotFound
	}

	logger.FromContext(ctx).Info().Str("user_id", userID).Msg("user deleted")
	return deleted, nil
}

func (s *userService) FindNewUsers(ctx context.Context) ([]models.User, error) {
	from, to := s.calendar.CurrentWeek()

	users, err := s.users.Find(ctx,
		models.UserFilter{CreatedAt: &models.TimeRange{From: &from, To: &to}},
		models.FindOptions{Select: models.NewUserFields},
	)
	if err != nil {
		return nil, storeError(ctx, "*userService.FindNewUsers", err)
	}

	return users, nil
}

// GetPagination returns one page of the filtered listing together with the
// total number of matches. The page and the count are read concurrently and
// are not guaranteed to be consistent with each other.
func (s *userService) GetPagination(ctx context.Context, req models.PaginationRequest) (models.Page, error) {
	if err := validateListing(req.Select, req.Sort); err != nil {
		return models.Page{}, err
	}

	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	perPage = min(perPage, s.maxPerPage)
	if page-1 > math.MaxInt64/perPage {
		return models.Page{}, invalid("page %d is out of range", page)
	}

	opts := models.FindOptions{
		Select: req.Select,
		Sort:   req.Sort,
		Skip:   (page - 1) * perPage,
		Limit:  perPage,
	}

	var (
		records []models.User
		count   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.users.Find(gctx, req.Filter, opts)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.users.Count(gctx, req.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page{}, storeError(ctx, "*userService.GetPagination", err)
	}

	return models.Page{
		Page:    page,
		PerPage: perPage,
		Count:   count,
		Records: records,
	}, nil
}

func validateNewUser(user models.User) error {
	if strings.TrimSpace(user.Email) == "" || strings.TrimSpace(user.Username) == "" || user.Password == "" {
		return invalid("email, username and hashPassword are required")
	}
	if user.Status != "" && !user.Status.IsValid() {
		return invalid("unknown status %q", user.Status)
	}

	return validateRoles(user.Roles)
}

func validateUpdate(update models.UserUpdate) error {
	if update.Email != nil && strings.TrimSpace(*update.Email) == "" {
		return invalid("email must not be empty")
	}
	if update.Username != nil && strings.TrimSpace(*update.Username) == "" {
		return invalid("username must not be empty")
	}
	if update.Status != nil && !update.Status.IsValid() {
		return invalid("unknown status %q", *update.Status)
	}

	return nil
}

func validateRoles(roles []models.Role) error {
	for _, role := range roles {
		if !role.IsValid() {
			return invalid("unknown role %q", role)
		}
	}

	return nil
}

func validateListing(fields []string, sort []models.SortField) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if !models.IsUserField(field) {
			return invalid("unknown select field %q", field)
		}
		if _, dup := seen[field]; dup {
			return invalid("select field %q is listed twice", field)
		}
		seen[field] = struct{}{}
	}
	for _, key := range sort {
		if !models.IsUserField(key.Field) {
			return invalid("unknown sort field %q", key.Field)
		}
		if key.Order != models.Ascending && key.Order != models.Descending {
			return invalid("sort order of %q must be 1 or -1", key.Field)
		}
	}

	return nil
}
