package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-accounts/models"
)

// Memory is an in-process store selected by the memory:// scheme. It keeps
// users in insertion order and day-buckets keyed by their start instant.
// All operations are serialized by one mutex, which also makes Increment
// atomic.
type Memory struct {
	mu          sync.RWMutex
	users       []models.User
	loginCounts map[int64]models.LoginCount
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		loginCounts: make(map[int64]models.LoginCount),
	}
}

// Close is a no-op.
func (m *Memory) Close(_ context.Context) error {
	return nil
}

type memoryUserRepository struct {
	store *Memory
}

// NewMemoryUserRepository returns a [UserRepository] over m.
func NewMemoryUserRepository(m *Memory) UserRepository {
	return &memoryUserRepository{store: m}
}

func (r *memoryUserRepository) FindOne(ctx context.Context, filter models.UserFilter, fields []string) (*models.User, error) {
	users, err := r.Find(ctx, filter, models.FindOptions{Select: fields, Limit: 1})
	if err != nil || len(users) == 0 {
		return nil, err
	}

	return &users[0], nil
}

func (r *memoryUserRepository) Find(_ context.Context, filter models.UserFilter, opts models.FindOptions) ([]models.User, error) {
	if err := checkFields(opts.Select, opts.Sort); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	matched := make([]models.User, 0)
	for _, user := range r.store.users {
		if matchUser(user, filter) {
			matched = append(matched, cloneUser(user))
		}
	}
	r.store.mu.RUnlock()

	if len(opts.Sort) > 0 {
		slices.SortStableFunc(matched, func(a, b models.User) int {
			for _, key := range opts.Sort {
				c := compareUserField(a, b, key.Field)
				if key.Order == models.Descending {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	start := min(max(opts.Skip, 0), int64(len(matched)))
	end := int64(len(matched))
	if opts.Limit > 0 {
		end = min(start+opts.Limit, end)
	}

	page := matched[start:end]
	for i := range page {
		page[i] = page[i].Project(opts.Select)
	}

	return page, nil
}

func (r *memoryUserRepository) Count(_ context.Context, filter models.UserFilter) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, user := range r.store.users {
		if matchUser(user, filter) {
			count++
		}
	}

	return count, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.collides(-1, user) {
		return ErrUserAlreadyExists
	}

	r.store.users = append(r.store.users, cloneUser(user))
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, userID string, changes models.UserChanges, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.indexOf(func(u models.User) bool { return u.UserID == userID })
	if i < 0 {
		return ErrNoUserWasFound
	}

	updated := cloneUser(r.store.users[i])
	changes.Apply(&updated)
	updated.UpdatedAt = updatedAt

	if r.collides(i, updated) {
		return ErrUserAlreadyExists
	}

	r.store.users[i] = updated
	return nil
}

func (r *memoryUserRepository) UpdateSession(_ context.Context, email string, session models.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.indexOf(func(u models.User) bool { return u.Email == email })
	if i < 0 {
		return ErrNoUserWasFound
	}

	latestLogin := session.LatestLogin
	r.store.users[i].Token = session.Token
	r.store.users[i].RefreshToken = session.RefreshToken
	r.store.users[i].LatestLogin = &latestLogin
	r.store.users[i].UpdatedAt = latestLogin

	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, userID string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.indexOf(func(u models.User) bool { return u.UserID == userID })
	if i < 0 {
		return nil, nil
	}

	deleted := r.store.users[i]
	r.store.users = slices.Delete(r.store.users, i, i+1)

	return &deleted, nil
}

// indexOf must be called with the lock held.
func (r *memoryUserRepository) indexOf(match func(models.User) bool) int {
	return slices.IndexFunc(r.store.users, match)
}

// collides reports whether user shares a unique key with any stored user
// other than the one at index self. Must be called with the lock held.
func (r *memoryUserRepository) collides(self int, user models.User) bool {
	for i, other := range r.store.users {
		if i == self {
			continue
		}
		if other.UserID == user.UserID || other.Email == user.Email || other.Username == user.Username {
			return true
		}
	}
	return false
}

type memoryLoginCountRepository struct {
	store *Memory
}

// NewMemoryLoginCountRepository returns a [LoginCountRepository] over m.
func NewMemoryLoginCountRepository(m *Memory) LoginCountRepository {
	return &memoryLoginCountRepository{store: m}
}

func (r *memoryLoginCountRepository) Increment(_ context.Context, day time.Time, amount int64, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := day.UnixNano()
	bucket, ok := r.store.loginCounts[key]
	if !ok {
		bucket = models.LoginCount{FirstTime: day, CreatedAt: now}
	}
	bucket.AmountLogin += amount
	bucket.UpdatedAt = now
	r.store.loginCounts[key] = bucket

	return nil
}

func (r *memoryLoginCountRepository) FindCreatedBetween(_ context.Context, from, to time.Time) (*models.LoginCount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var found *models.LoginCount
	for _, bucket := range r.store.loginCounts {
		if bucket.CreatedAt.Before(from) || bucket.CreatedAt.After(to) {
			continue
		}
		if found == nil || bucket.CreatedAt.Before(found.CreatedAt) {
			b := bucket
			found = &b
		}
	}

	return found, nil
}

func checkFields(fields []string, sort []models.SortField) error {
	for _, field := range fields {
		if !models.IsUserField(field) {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}
	for _, key := range sort {
		if !models.IsUserField(key.Field) {
			return fmt.Errorf("%w: %q", ErrUnknownField, key.Field)
		}
	}
	return nil
}

func matchUser(u models.User, f models.UserFilter) bool {
	switch {
	case f.UserID != "" && u.UserID != f.UserID,
		f.Email != "" && u.Email != f.Email,
		f.Username != "" && u.Username != f.Username,
		f.Status != "" && u.Status != f.Status,
		f.Role != "" && !u.HasRole(f.Role):
		return false
	}

	if !f.CreatedAt.IsZero() && !inRange(&u.CreatedAt, f.CreatedAt) {
		return false
	}
	if !f.LatestLogin.IsZero() && !inRange(u.LatestLogin, f.LatestLogin) {
		return false
	}

	return true
}

func inRange(t *time.Time, r *models.TimeRange) bool {
	if t == nil {
		return false
	}
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

func compareUserField(a, b models.User, field string) int {
	switch field {
	case models.FieldUserID:
		return cmp.Compare(a.UserID, b.UserID)
	case models.FieldEmail:
		return cmp.Compare(a.Email, b.Email)
	case models.FieldUsername:
		return cmp.Compare(a.Username, b.Username)
	case models.FieldPassword:
		return cmp.Compare(a.Password, b.Password)
	case models.FieldFirstname:
		return cmp.Compare(a.Firstname, b.Firstname)
	case models.FieldLastname:
		return cmp.Compare(a.Lastname, b.Lastname)
	case models.FieldRoles:
		return slices.CompareFunc(a.Roles, b.Roles, func(x, y models.Role) int { return strings.Compare(string(x), string(y)) })
	case models.FieldStatus:
		return cmp.Compare(a.Status, b.Status)
	case models.FieldToken:
		return cmp.Compare(a.Token, b.Token)
	case models.FieldRefreshToken:
		return cmp.Compare(a.RefreshToken, b.RefreshToken)
	case models.FieldLatestLogin:
		return compareTimes(a.LatestLogin, b.LatestLogin)
	case models.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case models.FieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}

func cloneUser(u models.User) models.User {
	u.Roles = slices.Clone(u.Roles)
	if u.LatestLogin != nil {
		latestLogin := *u.LatestLogin
		u.LatestLogin = &latestLogin
	}
	return u
}
