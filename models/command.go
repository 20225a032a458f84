package models

import "encoding/json"

// Command names (message patterns "cmd").
const (
	CmdUsers       = "users"
	CmdAmountLogin = "amount-login"
)

// User Directory and Token Issuer methods of the "users" command.
const (
	MethodLogin          = "login"
	MethodRegister       = "register"
	MethodGetByUserID    = "getByUserId"
	MethodGetByEmail     = "getByEmail"
	MethodGetByUsername  = "getByUsername"
	MethodGetBlockUser   = "getBlockUser"
	MethodChangePassword = "changePassword"
	MethodUpdateUser     = "updateUser"
	MethodDeleteUser     = "deleteUser"
	MethodFindNewUser    = "find-new-user"
	MethodBanUser        = "ban-user"
	MethodUnBanUser      = "un-ban-user"
	MethodUpdateRole     = "update-role"
	MethodGetPagination  = "getPagination"
	MethodGetAdminRole   = "get-admin-role"
)

// Login Counter methods of the "amount-login" command.
const (
	MethodUpdateAmountLogin   = "update-amount-login"
	MethodGetAmountUsersLogin = "get-amount-users-login"
	MethodGetLastUsersLogin   = "get-last-users-login"
)

// Reply error codes.
const (
	CodeNotFound       = "not_found"
	CodeValidation     = "validation"
	CodeUnauthorized   = "unauthorized"
	CodeInternal       = "internal"
	CodeUnknownCommand = "unknown_command"
	CodeBadPayload     = "bad_payload"
)

// Command is an inbound message addressed by the (Cmd, Method) pattern.
// Data is decoded by the handler registered for the pattern.
type Command struct {
	Cmd    string          `json:"cmd"`
	Method string          `json:"method"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Reply is the envelope returned for every command. Exactly one of Data and
// Error is meaningful; Data may be JSON null for "nothing found" results.
type Reply struct {
	Data  json.RawMessage `json:"data"`
	Error *ReplyError     `json:"error,omitempty"`
}

// ReplyError is the machine-readable failure of a command.
type ReplyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ReplyError) Error() string {
	return e.Code + ": " + e.Message
}

// Register is the payload of the "register" method. The password is
// expected to be hashed by the caller.
type Register struct {
	UserID       string `json:"userId,omitempty"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	HashPassword string `json:"hashPassword"`
	Firstname    string `json:"firstname,omitempty"`
	Lastname     string `json:"lastname,omitempty"`
	Roles        []Role `json:"roles,omitempty"`
	Status       Status `json:"status,omitempty"`
}

// User converts the payload into a new account.
func (r Register) User() User {
	return User{
		UserID:    r.UserID,
		Email:     r.Email,
		Username:  r.Username,
		Password:  r.HashPassword,
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Roles:     r.Roles,
		Status:    r.Status,
	}
}

// Login is the payload of the "login" method.
type Login struct {
	Email string `json:"email"`
}

// ChangePassword is the payload of the "changePassword" method.
type ChangePassword struct {
	UserID       string `json:"userId"`
	HashPassword string `json:"hashPassword"`
}

// UpdateUser is the payload of the "updateUser" method.
type UpdateUser struct {
	UserID string     `json:"userId"`
	Update UserUpdate `json:"update"`
}

// UpdateRole is the payload of the "update-role" method.
type UpdateRole struct {
	UserID string `json:"userId"`
	Roles  []Role `json:"roles"`
}
