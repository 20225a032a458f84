package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-accounts/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	usersTable       = "users"
	amountLoginTable = "amount_login"

	// sqlInsertionOrder is the surrogate key rows are sorted by when no sort
	// is requested, and the tiebreaker of every explicit sort.
	sqlInsertionOrder = "id"

	incrementLoginCount = `ON CONFLICT (first_time) DO UPDATE
		SET amount_login = amount_login.amount_login + EXCLUDED.amount_login,
			updated_at = EXCLUDED.updated_at`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// userColumns maps user fields to columns of the users table.
var userColumns = map[string]string{
	models.FieldUserID:       "user_id",
	models.FieldEmail:        "email",
	models.FieldUsername:     "username",
	models.FieldPassword:     "password",
	models.FieldFirstname:    "firstname",
	models.FieldLastname:     "lastname",
	models.FieldRoles:        "roles",
	models.FieldStatus:       "status",
	models.FieldToken:        "token",
	models.FieldRefreshToken: "refresh_token",
	models.FieldLatestLogin:  "latest_login",
	models.FieldCreatedAt:    "created_at",
	models.FieldUpdatedAt:    "updated_at",
}

// selectedFields resolves a projection into the list of fields to read.
// An empty projection selects every field.
func selectedFields(fields []string) ([]string, []string, error) {
	if len(fields) == 0 {
		fields = models.UserFields
	}

	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		column, ok := userColumns[field]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		columns = append(columns, column)
	}

	return fields, columns, nil
}

func userWhere(filter models.UserFilter) sq.And {
	where := sq.And{}

	if filter.UserID != "" {
		where = append(where, sq.Eq{"user_id": filter.UserID})
	}
	if filter.Email != "" {
		where = append(where, sq.Eq{"email": filter.Email})
	}
	if filter.Username != "" {
		where = append(where, sq.Eq{"username": filter.Username})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": string(filter.Status)})
	}
	if filter.Role != "" {
		role, _ := json.Marshal([]models.Role{filter.Role})
		where = append(where, sq.Expr("roles @> ?::jsonb", string(role)))
	}
	where = appendTimeRange(where, "created_at", filter.CreatedAt)
	where = appendTimeRange(where, "latest_login", filter.LatestLogin)

	return where
}

func appendTimeRange(where sq.And, column string, r *models.TimeRange) sq.And {
	if r.IsZero() {
		return where
	}
	if r.From != nil {
		where = append(where, sq.GtOrEq{column: *r.From})
	}
	if r.To != nil {
		where = append(where, sq.LtOrEq{column: *r.To})
	}
	return where
}

func orderBy(sort []models.SortField) ([]string, error) {
	clauses := make([]string, 0, len(sort)+1)
	for _, key := range sort {
		column, ok := userColumns[key.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, key.Field)
		}
		direction := "ASC"
		if key.Order == models.Descending {
			direction = "DESC"
		}
		clauses = append(clauses, column+" "+direction)
	}

	return append(clauses, sqlInsertionOrder+" ASC"), nil
}

func buildFindUsers(filter models.UserFilter, opts models.FindOptions) (string, []any, []string, error) {
	fields, columns, err := selectedFields(opts.Select)
	if err != nil {
		return "", nil, nil, err
	}
	order, err := orderBy(opts.Sort)
	if err != nil {
		return "", nil, nil, err
	}

	builder := psql.Select(columns...).From(usersTable).OrderBy(order...)
	if where := userWhere(filter); len(where) > 0 {
		builder = builder.Where(where)
	}
	if opts.Skip > 0 {
		builder = builder.Offset(uint64(opts.Skip))
	}
	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, fields, nil
}

func buildCountUsers(filter models.UserFilter) (string, []any, error) {
	builder := psql.Select("COUNT(*)").From(usersTable)
	if where := userWhere(filter); len(where) > 0 {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertUser(user models.User) (string, []any, error) {
	roles, err := marshalRoles(user.Roles)
	if err != nil {
		return "", nil, err
	}

	query, args, err := psql.Insert(usersTable).
		Columns("user_id", "email", "username", "password", "firstname", "lastname",
			"roles", "status", "token", "refresh_token", "latest_login", "created_at", "updated_at").
		Values(user.UserID, user.Email, user.Username, user.Password, user.Firstname, user.Lastname,
			roles, string(user.Status), user.Token, user.RefreshToken, user.LatestLogin, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildUpdateUser(where sq.Eq, set map[string]any) (string, []any, error) {
	query, args, err := psql.Update(usersTable).SetMap(set).Where(where).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func userChangesSet(changes models.UserChanges, updatedAt time.Time) (map[string]any, error) {
	set := map[string]any{"updated_at": updatedAt}

	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.Username != nil {
		set["username"] = *changes.Username
	}
	if changes.Password != nil {
		set["password"] = *changes.Password
	}
	if changes.Firstname != nil {
		set["firstname"] = *changes.Firstname
	}
	if changes.Lastname != nil {
		set["lastname"] = *changes.Lastname
	}
	if changes.Roles != nil {
		roles, err := marshalRoles(*changes.Roles)
		if err != nil {
			return nil, err
		}
		set["roles"] = roles
	}
	if changes.Status != nil {
		set["status"] = string(*changes.Status)
	}

	return set, nil
}

func buildDeleteUser(userID string) (string, []any, []string, error) {
	fields, columns, _ := selectedFields(nil)

	query, args, err := psql.Delete(usersTable).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, fields, nil
}

func buildIncrementLoginCount(day time.Time, amount int64, now time.Time) (string, []any, error) {
	query, args, err := psql.Insert(amountLoginTable).
		Columns("first_time", "amount_login", "created_at", "updated_at").
		Values(day, amount, now, now).
		Suffix(incrementLoginCount).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildFindLoginCount(from, to time.Time) (string, []any, error) {
	query, args, err := psql.Select("first_time", "amount_login", "created_at", "updated_at").
		From(amountLoginTable).
		Where(sq.And{sq.GtOrEq{"created_at": from}, sq.LtOrEq{"created_at": to}}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func marshalRoles(roles []models.Role) (string, error) {
	if roles == nil {
		roles = []models.Role{}
	}
	raw, err := json.Marshal(roles)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return string(raw), nil
}

// userRow holds the scan targets of one users row.
type userRow struct {
	user        models.User
	roles       []byte
	latestLogin sql.NullTime
}

func (row *userRow) targets(fields []string) []any {
	targets := make([]any, 0, len(fields))
	for _, field := range fields {
		switch field {
		case models.FieldUserID:
			targets = append(targets, &row.user.UserID)
		case models.FieldEmail:
			targets = append(targets, &row.user.Email)
		case models.FieldUsername:
			targets = append(targets, &row.user.Username)
		case models.FieldPassword:
			targets = append(targets, &row.user.Password)
		case models.FieldFirstname:
			targets = append(targets, &row.user.Firstname)
		case models.FieldLastname:
			targets = append(targets, &row.user.Lastname)
		case models.FieldRoles:
			targets = append(targets, &row.roles)
		case models.FieldStatus:
			targets = append(targets, &row.user.Status)
		case models.FieldToken:
			targets = append(targets, &row.user.Token)
		case models.FieldRefreshToken:
			targets = append(targets, &row.user.RefreshToken)
		case models.FieldLatestLogin:
			targets = append(targets, &row.latestLogin)
		case models.FieldCreatedAt:
			targets = append(targets, &row.user.CreatedAt)
		case models.FieldUpdatedAt:
			targets = append(targets, &row.user.UpdatedAt)
		}
	}
	return targets
}

func (row *userRow) result() (models.User, error) {
	user := row.user
	if len(row.roles) > 0 {
		if err := json.Unmarshal(row.roles, &user.Roles); err != nil {
			return models.User{}, fmt.Errorf("%w: roles: %w", ErrScanningRows, err)
		}
	}
	if row.latestLogin.Valid {
		latestLogin := row.latestLogin.Time
		user.LatestLogin = &latestLogin
	}
	return user, nil
}
