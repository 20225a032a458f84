package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh Storages per available backend. MongoDB and
// PostgreSQL run only when MONGO_TEST_URI / POSTGRES_TEST_DSN are set.
func backends(t *testing.T) map[string]func(t *testing.T) *Storages {
	t.Helper()

	result := map[string]func(t *testing.T) *Storages{
		"memory": func(t *testing.T) *Storages { return NewMemoryStorages(NewMemory()) },
	}

	if uri := os.Getenv("MONGO_TEST_URI"); uri != "" {
		result["mongo"] = func(t *testing.T) *Storages {
			ctx := context.Background()
			cfg := config.DB{DSN: uri, Name: fmt.Sprintf("accounts_test_%d", time.Now().UnixNano())}
			db, err := NewConnectMongo(ctx, cfg, logger.Nop())
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = db.database.Drop(ctx)
				_ = db.Close(ctx)
			})
			return &Storages{
				UserRepository:       NewMongoUserRepository(db, logger.Nop()),
				LoginCountRepository: NewMongoLoginCountRepository(db, logger.Nop()),
			}
		}
	}

	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		result["postgres"] = func(t *testing.T) *Storages {
			ctx := context.Background()
			db, err := NewConnectPostgres(ctx, config.DB{DSN: dsn}, logger.Nop())
			require.NoError(t, err)
			_, err = db.ExecContext(ctx, "TRUNCATE users, amount_login RESTART IDENTITY")
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close(ctx) })
			return &Storages{
				UserRepository:       NewUserRepository(db, logger.Nop()),
				LoginCountRepository: NewLoginCountRepository(db, logger.Nop()),
			}
		}
	}

	return result
}

var contractEpoch = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

func contractUser(n int, roles ...models.Role) models.User {
	created := contractEpoch.Add(time.Duration(n) * time.Hour)
	return models.User{
		UserID:    fmt.Sprintf("user-%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Username:  fmt.Sprintf("user%d", n),
		Password:  "hash",
		Firstname: "First",
		Lastname:  "Last",
		Roles:     roles,
		Status:    models.StatusActive,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestUserRepositoryContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("uniqueness", func(t *testing.T) {
				repo := open(t).UserRepository
				require.NoError(t, repo.Create(ctx, contractUser(1)))

				dup := contractUser(2)
				dup.Email = "user1@example.com"
				assert.ErrorIs(t, repo.Create(ctx, dup), ErrUserAlreadyExists)

				dup = contractUser(2)
				dup.Username = "user1"
				assert.ErrorIs(t, repo.Create(ctx, dup), ErrUserAlreadyExists)

				count, err := repo.Count(ctx, models.UserFilter{})
				require.NoError(t, err)
				assert.Equal(t, int64(1), count)
			})

			t.Run("lookup and projection", func(t *testing.T) {
				repo := open(t).UserRepository
				require.NoError(t, repo.Create(ctx, contractUser(1, models.RoleAdmin)))

				missing, err := repo.FindOne(ctx, models.UserFilter{Email: "ghost@example.com"}, nil)
				require.NoError(t, err)
				assert.Nil(t, missing)

				found, err := repo.FindOne(ctx, models.UserFilter{Email: "user1@example.com"}, models.RoleFields)
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, models.User{Email: "user1@example.com", Roles: []models.Role{models.RoleAdmin}}, *found)

				_, err = repo.Find(ctx, models.UserFilter{}, models.FindOptions{Select: []string{"secret"}})
				assert.ErrorIs(t, err, ErrUnknownField)
			})

			t.Run("insertion order, sort and paging", func(t *testing.T) {
				repo := open(t).UserRepository
				for _, n := range []int{3, 1, 2, 4, 5} {
					u := contractUser(n, models.RoleUser)
					if n%2 == 0 {
						u.Firstname = "Even"
					}
					require.NoError(t, repo.Create(ctx, u))
				}

				users, err := repo.Find(ctx, models.UserFilter{}, models.FindOptions{Select: []string{models.FieldUserID}})
				require.NoError(t, err)
				assert.Equal(t, []string{"user-3", "user-1", "user-2", "user-4", "user-5"}, userIDs(users))

				// ties on firstname keep insertion order
				users, err = repo.Find(ctx, models.UserFilter{}, models.FindOptions{
					Select: []string{models.FieldUserID},
					Sort:   []models.SortField{{Field: models.FieldFirstname, Order: models.Ascending}},
				})
				require.NoError(t, err)
				assert.Equal(t, []string{"user-2", "user-4", "user-3", "user-1", "user-5"}, userIDs(users))

				users, err = repo.Find(ctx, models.UserFilter{}, models.FindOptions{
					Select: []string{models.FieldUserID},
					Sort:   []models.SortField{{Field: models.FieldCreatedAt, Order: models.Descending}},
					Skip:   1,
					Limit:  2,
				})
				require.NoError(t, err)
				assert.Equal(t, []string{"user-4", "user-3"}, userIDs(users))

				users, err = repo.Find(ctx, models.UserFilter{}, models.FindOptions{Skip: 10, Limit: 2})
				require.NoError(t, err)
				assert.Empty(t, users)
			})

			t.Run("filters", func(t *testing.T) {
				repo := open(t).UserRepository
				require.NoError(t, repo.Create(ctx, contractUser(1, models.RoleAdmin, models.RoleUser)))
				require.NoError(t, repo.Create(ctx, contractUser(2, models.RoleUser)))
				inactive := contractUser(3)
				inactive.Status = models.StatusInactive
				require.NoError(t, repo.Create(ctx, inactive))

				admins, err := repo.Count(ctx, models.UserFilter{Role: models.RoleAdmin})
				require.NoError(t, err)
				assert.Equal(t, int64(1), admins)

				banned, err := repo.Count(ctx, models.UserFilter{Status: models.StatusInactive})
				require.NoError(t, err)
				assert.Equal(t, int64(1), banned)

				from := contractEpoch.Add(90 * time.Minute)
				to := contractEpoch.Add(3 * time.Hour)
				users, err := repo.Find(ctx, models.UserFilter{CreatedAt: &models.TimeRange{From: &from, To: &to}},
					models.FindOptions{Select: []string{models.FieldUserID}})
				require.NoError(t, err)
				assert.Equal(t, []string{"user-2", "user-3"}, userIDs(users))
			})

			t.Run("update", func(t *testing.T) {
				repo := open(t).UserRepository
				require.NoError(t, repo.Create(ctx, contractUser(1)))
				require.NoError(t, repo.Create(ctx, contractUser(2)))

				now := contractEpoch.Add(48 * time.Hour)
				roles := []models.Role{}
				status := models.StatusInactive
				require.NoError(t, repo.Update(ctx, "user-1", models.UserChanges{Roles: &roles, Status: &status}, now))

				got, err := repo.FindOne(ctx, models.UserFilter{UserID: "user-1"}, nil)
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, models.StatusInactive, got.Status)
				assert.Empty(t, got.Roles)
				assert.Equal(t, "First", got.Firstname)
				assert.True(t, now.Equal(got.UpdatedAt))

				taken := "user2@example.com"
				assert.ErrorIs(t, repo.Update(ctx, "user-1", models.UserChanges{Email: &taken}, now), ErrUserAlreadyExists)

				password := "other"
				assert.ErrorIs(t, repo.Update(ctx, "ghost", models.UserChanges{Password: &password}, now), ErrNoUserWasFound)
			})

			t.Run("session", func(t *testing.T) {
				repo := open(t).UserRepository
				require.NoError(t, repo.Create(ctx, contractUser(1)))

				loggedIn := contractEpoch.Add(26 * time.Hour)
				require.NoError(t, repo.UpdateSession(ctx, "user1@example.com",
					models.Session{Token: "access", RefreshToken: "refresh", LatestLogin: loggedIn}))

				dayStart := loggedIn.Truncate(24 * time.Hour)
				dayEnd := dayStart.Add(24*time.Hour - time.Millisecond)
				users, err := repo.Find(ctx, models.UserFilter{LatestLogin: &models.TimeRange{From: &dayStart, To: &dayEnd}},
					models.FindOptions{Select: models.LastLoginFields})
				require.NoError(t, err)
				require.Len(t, users, 1)
				require.NotNil(t, users[0].LatestLogin)
				assert.True(t, loggedIn.Equal(*users[0].LatestLogin))
				assert.Empty(t, users[0].Token)

				assert.ErrorIs(t, repo.UpdateSession(ctx, "ghost@example.com", models.Session{LatestLogin: loggedIn}), ErrNoUserWasFound)
			})

			t.Run("delete", func(t *testing.T) {
				repo := open(t).UserRepository
				require.NoError(t, repo.Create(ctx, contractUser(1)))

				deleted, err := repo.Delete(ctx, "user-1")
				require.NoError(t, err)
				require.NotNil(t, deleted)
				assert.Equal(t, "user1@example.com", deleted.Email)

				deleted, err = repo.Delete(ctx, "user-1")
				require.NoError(t, err)
				assert.Nil(t, deleted)
			})
		})
	}
}

func TestLoginCountRepositoryContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t).LoginCountRepository

			day := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
			dayEnd := day.Add(24*time.Hour - time.Millisecond)

			empty, err := repo.FindCreatedBetween(ctx, day, dayEnd)
			require.NoError(t, err)
			assert.Nil(t, empty)

			const workers = 20
			var wg sync.WaitGroup
			for i := range workers {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, repo.Increment(ctx, day, 1, day.Add(time.Duration(i+1)*time.Second)))
				}(i)
			}
			wg.Wait()

			count, err := repo.FindCreatedBetween(ctx, day, dayEnd)
			require.NoError(t, err)
			require.NotNil(t, count)
			assert.Equal(t, int64(workers), count.AmountLogin)
			assert.True(t, day.Equal(count.FirstTime))

			other, err := repo.FindCreatedBetween(ctx, day.Add(24*time.Hour), dayEnd.Add(24*time.Hour))
			require.NoError(t, err)
			assert.Nil(t, other)
		})
	}
}

func userIDs(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	return ids
}
