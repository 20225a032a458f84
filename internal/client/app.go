package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-accounts/internal/adapter"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyCommand      = errors.New("cmd and method are required")
	ErrInvalidData       = errors.New("data must be a JSON value")
	ErrPasswordNotObject = errors.New("password requires a JSON object payload")
)

// Request is one command typed on the command line.
type Request struct {
	Cmd    string
	Method string

	// Data is the raw JSON payload. Empty means no payload.
	Data string

	// Password is a plain-text password. It is hashed and stored into
	// the "hashPassword" field of Data.
	Password string
}

type App struct {
	adapter adapter.ServerAdapter
	out     io.Writer
	logger  *logger.Logger
}

var _ Client = (*App)(nil)

func NewApp(serverAdapter adapter.ServerAdapter, out io.Writer, logger *logger.Logger) *App {
	return &App{
		adapter: serverAdapter,
		out:     out,
		logger:  logger,
	}
}

// Run sends req and writes the indented reply data to the output. A failed
// command is returned as *models.ReplyError after the reply is printed.
func (a *App) Run(ctx context.Context, req Request) error {
	log := a.logger.GetChildLogger()
	log.UpdateContext(func(zc zerolog.Context) zerolog.Context {
		return zc.Str("func", "*App.Run").Str("cmd", req.Cmd).Str("method", req.Method)
	})

	cmd, err := buildCommand(req)
	if err != nil {
		return err
	}

	reply, err := a.adapter.Send(ctx, cmd)
	if err != nil {
		log.Error().Err(err).Msg("send command")
		return fmt.Errorf("send command: %w", err)
	}

	if err = a.print(reply); err != nil {
		return err
	}
	if reply.Error != nil {
		log.Debug().Str("code", reply.Error.Code).Msg("command failed")
		return reply.Error
	}

	return nil
}

func (a *App) print(reply models.Reply) error {
	var body any = reply.Data
	if reply.Error != nil {
		body = reply
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("print reply: %w", err)
	}

	_, err := a.out.Write(buf.Bytes())
	return err
}

func buildCommand(req Request) (models.Command, error) {
	cmd := models.Command{
		Cmd:    strings.TrimSpace(req.Cmd),
		Method: strings.TrimSpace(req.Method),
	}
	if cmd.Cmd == "" || cmd.Method == "" {
		return models.Command{}, ErrEmptyCommand
	}

	data := strings.TrimSpace(req.Data)
	if data != "" && !json.Valid([]byte(data)) {
		return models.Command{}, ErrInvalidData
	}

	if req.Password == "" {
		if data != "" {
			cmd.Data = json.RawMessage(data)
		}
		return cmd, nil
	}

	payload, err := withHashedPassword(data, req.Password)
	if err != nil {
		return models.Command{}, err
	}
	cmd.Data = payload

	return cmd, nil
}

func withHashedPassword(data, password string) (json.RawMessage, error) {
	fields := map[string]any{}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &fields); err != nil {
			return nil, ErrPasswordNotObject
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	fields["hashPassword"] = string(hash)

	return json.Marshal(fields)
}
