package service

import (
	"fmt"

	"github.com/MKhiriev/go-accounts/internal/clock"
	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/store"
	"github.com/MKhiriev/go-accounts/internal/utils"
)

// Services bundles the core services of the process.
type Services struct {
	UserService       UserService
	AuthService       AuthService
	LoginCountService LoginCountService
	AppInfoService    AppInfoService

	// Calendar is the reference calendar shared by the services. Transports
	// use it to parse day selectors.
	Calendar *clock.Calendar
}

// NewServices wires the services over storages. Calendar arithmetic uses the
// timezone and week start of cfg; c is the time source.
func NewServices(storages *store.Storages, cfg config.App, c clock.Clock, logger *logger.Logger) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidAppConfigs, err)
	}
	weekStart, err := cfg.WeekStartDay()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidAppConfigs, err)
	}
	calendar := clock.NewCalendar(c, loc, weekStart)

	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	users := NewUserService(storages.UserRepository, calendar, utils.NewUUIDGenerator(), cfg.MaxPerPage, logger)

	return &Services{
		UserService:       users,
		AuthService:       NewAuthService(storages.UserRepository, users, c, cfg, logger),
		LoginCountService: NewLoginCountService(storages.LoginCountRepository, storages.UserRepository, calendar, logger),
		AppInfoService:    appInfo,
		Calendar:          calendar,
	}, nil
}
