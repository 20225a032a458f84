package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-accounts/internal/clock"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/store"
	"github.com/MKhiriev/go-accounts/models"
)

type loginCountService struct {
	counts   store.LoginCountRepository
	users    store.UserRepository
	calendar *clock.Calendar
	logger   *logger.Logger
}

// NewLoginCountService constructs a LoginCountService. Day boundaries are
// computed by calendar.
func NewLoginCountService(counts store.LoginCountRepository, users store.UserRepository, calendar *clock.Calendar, logger *logger.Logger) LoginCountService {
	return &loginCountService{
		counts:   counts,
		users:    users,
		calendar: calendar,
		logger:   logger,
	}
}

// RecordLogins adds amount to today's bucket in a single increment-or-insert.
// A negative amount yields ErrInvalidDataProvided.
func (s *loginCountService) RecordLogins(ctx context.Context, amount int64) error {
	if amount < 0 {
		return invalid("amountLogin must not be negative, got %d", amount)
	}

	now := s.calendar.Now()
	if err := s.counts.Increment(ctx, s.calendar.StartOfDay(now), amount, now); err != nil {
		return storeError(ctx, "*loginCountService.RecordLogins", err)
	}

	return nil
}

func (s *loginCountService) GetAmountUsersLogin(ctx context.Context, date time.Time) (*models.LoginCount, error) {
	if date.IsZero() {
		return nil, invalid("date is required")
	}

	from, to := s.calendar.Day(date)
	bucket, err := s.counts.FindCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, storeError(ctx, "*loginCountService.GetAmountUsersLogin", err)
	}
	if bucket == nil {
		return nil, nil
	}

	return &models.LoginCount{AmountLogin: bucket.AmountLogin, CreatedAt: bucket.CreatedAt}, nil
}

func (s *loginCountService) LastUsersLogin(ctx context.Context, date time.Time) ([]models.User, error) {
	if date.IsZero() {
		return nil, invalid("date is required")
	}

	from, to := s.calendar.Day(date)
	users, err := s.users.Find(ctx,
		models.UserFilter{LatestLogin: &models.TimeRange{From: &from, To: &to}},
		models.FindOptions{
			Select: models.LastLoginFields,
			Sort:   []models.SortField{{Field: models.FieldLatestLogin, Order: models.Descending}},
		},
	)
	if err != nil {
		return nil, storeError(ctx, "*loginCountService.LastUsersLogin", err)
	}

	return users, nil
}
