package models

import (
	"slices"
	"time"
)

// Role is an authorization tag attached to a user account.
type Role string

const (
	// RoleAdmin marks accounts allowed to use administrative tooling.
	RoleAdmin Role = "ADMIN"
	// RoleUser is the regular account role.
	RoleUser Role = "USER"
)

// Status is the lifecycle state of a user account.
type Status string

const (
	// StatusActive is the default state of a registered account.
	StatusActive Status = "ACTIVE"
	// StatusInactive marks a banned (blocked) account.
	StatusInactive Status = "INACTIVE"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents one account stored in the "users" collection.
//
// The same struct is used as the persistence document, the transport payload
// and the service-layer entity. Fields excluded by a projection are left at
// their zero value and are omitted from JSON.
type User struct {
	// UserID is the stable external identifier of the account. Unique.
	UserID string `json:"userId,omitempty" bson:"userId,omitempty"`

	// Email is the unique e-mail address of the account.
	Email string `json:"email,omitempty" bson:"email,omitempty"`

	// Username is the unique public handle of the account.
	Username string `json:"username,omitempty" bson:"username,omitempty"`

	// Password holds the hash computed by the caller.
	// It is never hashed or compared by this service.
	Password string `json:"password,omitempty" bson:"password,omitempty"`

	Firstname string `json:"firstname,omitempty" bson:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty" bson:"lastname,omitempty"`

	// Roles is the full set of role tags. Role updates replace it entirely.
	Roles []Role `json:"roles,omitempty" bson:"roles"`

	// Status is either ACTIVE or INACTIVE (banned).
	Status Status `json:"status,omitempty" bson:"status,omitempty"`

	// Token and RefreshToken hold the most recently issued token pair.
	Token        string `json:"token,omitempty" bson:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty" bson:"refreshToken,omitempty"`

	// LatestLogin is the time of the last successful login, nil if the
	// account never logged in.
	LatestLogin *time.Time `json:"latestLogin,omitempty" bson:"latestLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

// HasRole reports whether role is present in u.Roles.
func (u User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

// CollectionName returns the name of the collection (table) that stores users.
func (u User) CollectionName() string {
	return "users"
}

// UserUpdate is a sparse update of a user profile: only non-nil fields are
// written, every other stored field is left untouched.
type UserUpdate struct {
	Email     *string `json:"email,omitempty"`
	Username  *string `json:"username,omitempty"`
	Firstname *string `json:"firstname,omitempty"`
	Lastname  *string `json:"lastname,omitempty"`
	Status    *Status `json:"status,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.Username == nil && u.Firstname == nil && u.Lastname == nil && u.Status == nil
}

// Changes converts the profile update into a store-level change set.
func (u UserUpdate) Changes() UserChanges {
	return UserChanges{
		Email:     u.Email,
		Username:  u.Username,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Status:    u.Status,
	}
}

// UserChanges is the set of fields written by a single user update.
// Nil fields are left untouched; Roles, when set, replaces the whole set.
type UserChanges struct {
	Email     *string
	Username  *string
	Password  *string
	Firstname *string
	Lastname  *string
	Roles     *[]Role
	Status    *Status
}

// IsEmpty reports whether no field would be written.
func (c UserChanges) IsEmpty() bool {
	return c.Email == nil && c.Username == nil && c.Password == nil && c.Firstname == nil &&
		c.Lastname == nil && c.Roles == nil && c.Status == nil
}

// Apply writes the changes onto u.
func (c UserChanges) Apply(u *User) {
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.Username != nil {
		u.Username = *c.Username
	}
	if c.Password != nil {
		u.Password = *c.Password
	}
	if c.Firstname != nil {
		u.Firstname = *c.Firstname
	}
	if c.Lastname != nil {
		u.Lastname = *c.Lastname
	}
	if c.Roles != nil {
		u.Roles = slices.Clone(*c.Roles)
	}
	if c.Status != nil {
		u.Status = *c.Status
	}
}

// Project returns a copy of u holding only the listed fields. An empty list
// keeps every field.
func (u User) Project(fields []string) User {
	if len(fields) == 0 {
		return u
	}

	var p User
	for _, field := range fields {
		switch field {
		case FieldUserID:
			p.UserID = u.UserID
		case FieldEmail:
			p.Email = u.Email
		case FieldUsername:
			p.Username = u.Username
		case FieldPassword:
			p.Password = u.Password
		case FieldFirstname:
			p.Firstname = u.Firstname
		case FieldLastname:
			p.Lastname = u.Lastname
		case FieldRoles:
			p.Roles = u.Roles
		case FieldStatus:
			p.Status = u.Status
		case FieldToken:
			p.Token = u.Token
		case FieldRefreshToken:
			p.RefreshToken = u.RefreshToken
		case FieldLatestLogin:
			p.LatestLogin = u.LatestLogin
		case FieldCreatedAt:
			p.CreatedAt = u.CreatedAt
		case FieldUpdatedAt:
			p.UpdatedAt = u.UpdatedAt
		}
	}

	return p
}

// Session is the set of fields written onto a user record after a
// successful login.
type Session struct {
	Token        string
	RefreshToken string
	LatestLogin  time.Time
}
