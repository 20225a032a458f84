package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-accounts/models"
)

// users

func (d *Dispatcher) login(ctx context.Context, data json.RawMessage) (any, error) {
	payload, err := decode[models.Login](data)
	if err != nil {
		return nil, err
	}

	return d.auth.Login(ctx, payload.Email)
}

func (d *Dispatcher) register(ctx context.Context, data json.RawMessage) (any, error) {
	payload, err := decode[models.Register](data)
	if err != nil {
		return nil, err
	}

	return nil, d.users.Register(ctx, payload)
}

func (d *Dispatcher) getByUserID(ctx context.Context, data json.RawMessage) (any, error) {
	return lookup(ctx, data, d.auth.GetByUserID)
}

func (d *Dispatcher) getByEmail(ctx context.Context, data json.RawMessage) (any, error) {
	return lookup(ctx, data, d.auth.GetByEmail)
}

func (d *Dispatcher) getByUsername(ctx context.Context, data json.RawMessage) (any, error) {
	return lookup(ctx, data, d.auth.GetByUsername)
}

func (d *Dispatcher) getBlockUser(ctx context.Context, data json.RawMessage) (any, error) {
	return lookup(ctx, data, d.auth.BlockUser)
}

func (d *Dispatcher) getAdminRole(ctx context.Context, data json.RawMessage) (any, error) {
	return lookup(ctx, data, d.auth.GetAdminRole)
}

func (d *Dispatcher) changePassword(ctx context.Context, data json.RawMessage) (any, error) {
	payload, err := decode[models.ChangePassword](data)
	if err != nil {
		return nil, err
	}

	return nil, d.users.ChangePassword(ctx, payload)
}

func (d *Dispatcher) updateUser(ctx context.Context, data json.RawMessage) (any, error) {
	payload, err := decode[models.UpdateUser](data)
	if err != nil {
		return nil, err
	}

	return nil, d.users.UpdateUser(ctx, payload)
}

func (d *Dispatcher) deleteUser(ctx context.Context, data json.RawMessage) (any, error) {
	return lookup(ctx, data, d.users.DeleteUser)
}

func (d *Dispatcher) findNewUsers(ctx context.Context, _ json.RawMessage) (any, error) {
	return list(d.users.FindNewUsers(ctx))
}

func (d *Dispatcher) banUser(ctx context.Context, data json.RawMessage) (any, error) {
	userID, err := decodeString(data)
	if err != nil {
		return nil, err
	}

	return nil, d.users.BanUser(ctx, userID)
}

func (d *Dispatcher) unBanUser(ctx context.Context, data json.RawMessage) (any, error) {
	userID, err := decodeString(data)
	if err != nil {
		return nil, err
	}

	return nil, d.users.UnBanUser(ctx, userID)
}

func (d *Dispatcher) updateRole(ctx context.Context, data json.RawMessage) (any, error) {
	payload, err := decode[models.UpdateRole](data)
	if err != nil {
		return nil, err
	}

	return nil, d.users.UpdateRole(ctx, payload)
}

func (d *Dispatcher) getPagination(ctx context.Context, data json.RawMessage) (any, error) {
	payload, err := decode[models.PaginationRequest](data)
	if err != nil {
		return nil, err
	}

	page, err := d.users.GetPagination(ctx, payload)
	if err != nil {
		return nil, err
	}
	if page.Records == nil {
		page.Records = []models.User{}
	}

	return page, nil
}

// amount-login

func (d *Dispatcher) updateAmountLogin(ctx context.Context, data json.RawMessage) (any, error) {
	payload, err := decode[models.LoginEvent](data)
	if err != nil {
		return nil, err
	}

	return nil, d.loginCount.RecordLogins(ctx, payload.AmountLogin)
}

func (d *Dispatcher) getAmountUsersLogin(ctx context.Context, data json.RawMessage) (any, error) {
	date, err := d.decodeDate(data)
	if err != nil {
		return nil, err
	}

	return d.loginCount.GetAmountUsersLogin(ctx, date)
}

func (d *Dispatcher) getLastUsersLogin(ctx context.Context, data json.RawMessage) (any, error) {
	date, err := d.decodeDate(data)
	if err != nil {
		return nil, err
	}

	return list(d.loginCount.LastUsersLogin(ctx, date))
}

func (d *Dispatcher) decodeDate(data json.RawMessage) (time.Time, error) {
	payload, err := decode[models.DateQuery](data)
	if err != nil {
		return time.Time{}, err
	}

	date, err := d.calendar.ParseDate(payload.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date: %w", ErrBadPayload, err)
	}

	return date, nil
}

// lookup decodes a bare string payload and calls find with it. A nil user is
// returned as an untyped nil so that the reply data is JSON null.
func lookup(ctx context.Context, data json.RawMessage, find func(context.Context, string) (*models.User, error)) (any, error) {
	key, err := decodeString(data)
	if err != nil {
		return nil, err
	}

	user, err := find(ctx, key)
	if err != nil || user == nil {
		return nil, err
	}

	return user, nil
}

func list(users []models.User, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}

	return users, nil
}
