package models

import (
	"slices"
	"time"
)

// User field names as they appear in JSON payloads, projections and sort
// specifications.
const (
	FieldUserID       = "userId"
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldFirstname    = "firstname"
	FieldLastname     = "lastname"
	FieldRoles        = "roles"
	FieldStatus       = "status"
	FieldToken        = "token"
	FieldRefreshToken = "refreshToken"
	FieldLatestLogin  = "latestLogin"
	FieldCreatedAt    = "createdAt"
	FieldUpdatedAt    = "updatedAt"
)

// UserFields lists every selectable and sortable user field.
var UserFields = []string{
	FieldUserID,
	FieldEmail,
	FieldUsername,
	FieldPassword,
	FieldFirstname,
	FieldLastname,
	FieldRoles,
	FieldStatus,
	FieldToken,
	FieldRefreshToken,
	FieldLatestLogin,
	FieldCreatedAt,
	FieldUpdatedAt,
}

// Fixed projections used by the listing operations.
var (
	// NewUserFields is the projection returned by the "new users this week" query.
	NewUserFields = []string{
		FieldEmail, FieldUsername, FieldFirstname, FieldLastname, FieldRoles,
		FieldStatus, FieldLatestLogin, FieldUserID, FieldCreatedAt,
	}

	// LastLoginFields is the projection returned by the "last logins of a day" query.
	LastLoginFields = []string{
		FieldEmail, FieldRoles, FieldLatestLogin, FieldUserID, FieldCreatedAt,
	}

	// RoleFields is the projection used when only the identity and roles are needed.
	RoleFields = []string{FieldEmail, FieldRoles}
)

// TimeRange is an inclusive [From, To] interval. A nil bound is open.
type TimeRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether both bounds are open.
func (r *TimeRange) IsZero() bool {
	return r == nil || (r.From == nil && r.To == nil)
}

// UserFilter is a conjunction of exact-match and range predicates over the
// users collection. Zero-valued fields do not constrain the result.
type UserFilter struct {
	UserID      string     `json:"userId,omitempty"`
	Email       string     `json:"email,omitempty"`
	Username    string     `json:"username,omitempty"`
	Status      Status     `json:"status,omitempty"`
	Role        Role       `json:"role,omitempty"`
	CreatedAt   *TimeRange `json:"createdAt,omitempty"`
	LatestLogin *TimeRange `json:"latestLogin,omitempty"`
}

// SortOrder is 1 for ascending and -1 for descending order.
type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

// SortField is one key of an ordered sort specification.
type SortField struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// FindOptions narrows a find-many query.
//
// An empty Select means all fields; an empty Sort means insertion order.
// Limit == 0 means no limit.
type FindOptions struct {
	Select []string
	Sort   []SortField
	Skip   int64
	Limit  int64
}

// PaginationRequest is the payload of the paginated user listing.
type PaginationRequest struct {
	Filter  UserFilter  `json:"filter"`
	Page    int64       `json:"page"`
	PerPage int64       `json:"perPage"`
	Sort    []SortField `json:"sort,omitempty"`
	Select  []string    `json:"select,omitempty"`
}

// Page is one page of the paginated user listing together with the total
// number of users matching the filter.
type Page struct {
	Page    int64  `json:"page"`
	PerPage int64  `json:"perPage"`
	Count   int64  `json:"count"`
	Records []User `json:"records"`
}

// IsUserField reports whether field names a user field.
func IsUserField(field string) bool {
	return slices.Contains(UserFields, field)
}
