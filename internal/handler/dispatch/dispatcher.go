// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package dispatch routes inbound commands, addressed by their (cmd, method)
// pattern, to the core services and builds the reply envelope. Every
// transport (HTTP, gRPC, AMQP) goes through a single Dispatcher.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-accounts/internal/clock"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/metrics"
	"github.com/MKhiriev/go-accounts/internal/service"
	"github.com/MKhiriev/go-accounts/models"
)

type route struct {
	cmd    string
	method string
}

type operation func(ctx context.Context, data json.RawMessage) (any, error)

// Dispatcher executes commands against the services.
type Dispatcher struct {
	users      service.UserService
	auth       service.AuthService
	loginCount service.LoginCountService
	calendar   *clock.Calendar

	routes  map[route]operation
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewDispatcher registers the routes of every command. m may be nil.
func NewDispatcher(services *service.Services, m *metrics.Metrics, logger *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		users:      services.UserService,
		auth:       services.AuthService,
		loginCount: services.LoginCountService,
		calendar:   services.Calendar,
		metrics:    m,
		logger:     logger,
	}

	d.routes = map[route]operation{
		{models.CmdUsers, models.MethodLogin}:          d.login,
		{models.CmdUsers, models.MethodRegister}:       d.register,
		{models.CmdUsers, models.MethodGetByUserID}:    d.getByUserID,
		{models.CmdUsers, models.MethodGetByEmail}:     d.getByEmail,
		{models.CmdUsers, models.MethodGetByUsername}:  d.getByUsername,
		{models.CmdUsers, models.MethodGetBlockUser}:   d.getBlockUser,
		{models.CmdUsers, models.MethodChangePassword}: d.changePassword,
		{models.CmdUsers, models.MethodUpdateUser}:     d.updateUser,
		{models.CmdUsers, models.MethodDeleteUser}:     d.deleteUser,
		{models.CmdUsers, models.MethodFindNewUser}:    d.findNewUsers,
		{models.CmdUsers, models.MethodBanUser}:        d.banUser,
		{models.CmdUsers, models.MethodUnBanUser}:      d.unBanUser,
		{models.CmdUsers, models.MethodUpdateRole}:     d.updateRole,
		{models.CmdUsers, models.MethodGetPagination}:  d.getPagination,
		{models.CmdUsers, models.MethodGetAdminRole}:   d.getAdminRole,

		{models.CmdAmountLogin, models.MethodUpdateAmountLogin}:   d.updateAmountLogin,
		{models.CmdAmountLogin, models.MethodGetAmountUsersLogin}: d.getAmountUsersLogin,
		{models.CmdAmountLogin, models.MethodGetLastUsersLogin}:   d.getLastUsersLogin,
	}

	return d
}

// Has reports whether a route is registered for (cmd, method).
func (d *Dispatcher) Has(cmd, method string) bool {
	_, ok := d.routes[route{cmd, method}]
	return ok
}

// Dispatch executes cmd and returns its reply. Failures are reported inside
// the reply, Dispatch itself never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd models.Command) models.Reply {
	start := time.Now()
	log := logger.FromContext(ctx)

	reply := d.dispatch(ctx, cmd)

	var code string
	if reply.Error != nil {
		code = reply.Error.Code
		event := log.Warn()
		if code == models.CodeInternal {
			event = log.Error()
		}
		event.Str("cmd", cmd.Cmd).
			Str("method", cmd.Method).
			Str("code", code).
			Msg(reply.Error.Message)
	}

	d.metrics.ObserveCommand(cmd.Cmd, cmd.Method, code, time.Since(start))

	return reply
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd models.Command) models.Reply {
	op, ok := d.routes[route{cmd.Cmd, cmd.Method}]
	if !ok {
		return models.Reply{
			Data:  json.RawMessage("null"),
			Error: ReplyError(fmt.Errorf("%w: %s/%s", ErrUnknownCommand, cmd.Cmd, cmd.Method)),
		}
	}

	result, err := op(ctx, cmd.Data)
	if err != nil {
		return models.Reply{Data: json.RawMessage("null"), Error: ReplyError(err)}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return models.Reply{
			Data:  json.RawMessage("null"),
			Error: ReplyError(fmt.Errorf("%w: encoding reply: %w", service.ErrInternal, err)),
		}
	}

	return models.Reply{Data: data}
}
