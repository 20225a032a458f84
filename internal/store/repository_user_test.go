package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var allUserColumns = []string{
	"user_id", "email", "username", "password", "firstname", "lastname", "roles",
	"status", "token", "refresh_token", "latest_login", "created_at", "updated_at",
}

func userRowValues(u models.User, roles string) []driver.Value {
	var latestLogin driver.Value
	if u.LatestLogin != nil {
		latestLogin = *u.LatestLogin
	}
	return []driver.Value{
		u.UserID, u.Email, u.Username, u.Password, u.Firstname, u.Lastname, []byte(roles),
		string(u.Status), u.Token, u.RefreshToken, latestLogin, u.CreatedAt, u.UpdatedAt,
	}
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "success"},
		{name: "unique violation", execErr: pgError(pgerrcode.UniqueViolation), wantErr: ErrUserAlreadyExists},
		{name: "network error", execErr: errors.New("db network error"), wantErr: ErrExecutingQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t)

			expect := mock.ExpectExec("INSERT INTO users").
				WithArgs("u1", "a@x.com", "alice", "hash", "", "", "[]", "ACTIVE", "", "", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg())
			if tt.execErr != nil {
				expect.WillReturnError(tt.execErr)
			} else {
				expect.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err := repo.Create(context.Background(), models.User{
				UserID: "u1", Email: "a@x.com", Username: "alice", Password: "hash", Status: models.StatusActive,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_FindOne_Found(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	latest := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	stored := models.User{
		UserID: "u1", Email: "a@x.com", Username: "alice", Status: models.StatusActive,
		LatestLogin: &latest, CreatedAt: latest.Add(-time.Hour), UpdatedAt: latest,
	}

	mock.ExpectQuery(`SELECT user_id, email, .* FROM users WHERE \(email = \$1\) ORDER BY id ASC LIMIT 1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(allUserColumns).AddRow(userRowValues(stored, `["ADMIN"]`)...))

	user, err := repo.FindOne(context.Background(), models.UserFilter{Email: "a@x.com"}, nil)
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, []models.Role{models.RoleAdmin}, user.Roles)
	require.NotNil(t, user.LatestLogin)
	assert.True(t, latest.Equal(*user.LatestLogin))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindOne_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT email, roles FROM users").
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "roles"}))

	user, err := repo.FindOne(context.Background(), models.UserFilter{Email: "ghost@x.com"}, models.RoleFields)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_Find_ProjectionAndScanError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT email, roles FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"email", "roles"}).
			AddRow("a@x.com", []byte(`[]`)).
			AddRow("b@x.com", []byte(`["USER"]`)))

	users, err := repo.Find(context.Background(), models.UserFilter{}, models.FindOptions{Select: models.RoleFields})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.User{Email: "a@x.com", Roles: []models.Role{}}, users[0])
	assert.Equal(t, []models.Role{models.RoleUser}, users[1].Roles)

	// wrong row shape → scan error
	mock.ExpectQuery("SELECT email, roles FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@x.com"))

	_, err = repo.Find(context.Background(), models.UserFilter{}, models.FindOptions{Select: models.RoleFields})
	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestUserRepository_Find_QueryError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, err := repo.Find(context.Background(), models.UserFilter{}, models.FindOptions{})
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestUserRepository_Count(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE \(status = \$1\)`).
		WithArgs("INACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := repo.Count(context.Background(), models.UserFilter{Status: models.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestUserRepository_Update(t *testing.T) {
	password := "new-hash"
	now := time.Now()

	t.Run("updated", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectExec(`UPDATE users SET password = \$1, updated_at = \$2 WHERE user_id = \$3`).
			WithArgs("new-hash", now, "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), "u1", models.UserChanges{Password: &password}, now))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), "ghost", models.UserChanges{Password: &password}, now)
		assert.ErrorIs(t, err, ErrNoUserWasFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectExec("UPDATE users").WillReturnError(pgError(pgerrcode.UniqueViolation))

		email := "taken@x.com"
		err := repo.Update(context.Background(), "u1", models.UserChanges{Email: &email}, now)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestUserRepository_UpdateSession(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectExec(`UPDATE users SET latest_login = \$1, refresh_token = \$2, token = \$3, updated_at = \$4 WHERE email = \$5`).
		WithArgs(now, "refresh", "access", now, "a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateSession(context.Background(), "a@x.com", models.Session{Token: "access", RefreshToken: "refresh", LatestLogin: now})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		stored := models.User{UserID: "u1", Email: "a@x.com", Username: "alice", Status: models.StatusActive, CreatedAt: time.Now()}

		mock.ExpectQuery(`DELETE FROM users WHERE user_id = \$1 RETURNING`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(allUserColumns).AddRow(userRowValues(stored, `[]`)...))

		deleted, err := repo.Delete(context.Background(), "u1")
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.Equal(t, "a@x.com", deleted.Email)
		assert.Nil(t, deleted.LatestLogin)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectQuery("DELETE FROM users").WillReturnError(sql.ErrNoRows)

		deleted, err := repo.Delete(context.Background(), "ghost")
		assert.NoError(t, err)
		assert.Nil(t, deleted)
	})
}
