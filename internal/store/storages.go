package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
)

// Storages bundles the repositories of one backend together with the shared
// handle they were built on.
type Storages struct {
	UserRepository       UserRepository
	LoginCountRepository LoginCountRepository

	close func(ctx context.Context) error
}

// NewStorages connects to the backend selected by the scheme of cfg.DSN:
// mongodb / mongodb+srv, postgres / postgresql or memory.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	dsn, err := url.Parse(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedDSN, err)
	}

	switch dsn.Scheme {
	case "mongodb", "mongodb+srv":
		db, err := NewConnectMongo(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Storages{
			UserRepository:       NewMongoUserRepository(db, log),
			LoginCountRepository: NewMongoLoginCountRepository(db, log),
			close:                db.Close,
		}, nil

	case "postgres", "postgresql":
		db, err := NewConnectPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Storages{
			UserRepository:       NewUserRepository(db, log),
			LoginCountRepository: NewLoginCountRepository(db, log),
			close:                db.Close,
		}, nil

	case "memory":
		log.Warn().Str("func", "NewStorages").Msg("using in-memory storage, data is lost on shutdown")
		return NewMemoryStorages(NewMemory()), nil
	}

	return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedDSN, dsn.Scheme)
}

// NewMemoryStorages bundles the repositories of an in-process store.
func NewMemoryStorages(m *Memory) *Storages {
	return &Storages{
		UserRepository:       NewMemoryUserRepository(m),
		LoginCountRepository: NewMemoryLoginCountRepository(m),
		close:                m.Close,
	}
}

// Close releases the shared handle.
func (s *Storages) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
