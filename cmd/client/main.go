package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-accounts/internal/adapter"
	"github.com/MKhiriev/go-accounts/internal/client"
	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const (
	transportHTTP = "http"
	transportGRPC = "grpc"
)

func main() {
	var (
		transport string
		req       client.Request
		version   bool
	)
	flag.StringVar(&transport, "transport", transportHTTP, "Transport used to reach the server: http or grpc")
	flag.StringVar(&req.Cmd, "cmd", "", "Command group (users, amount-login)")
	flag.StringVar(&req.Method, "method", "", "Command method")
	flag.StringVar(&req.Data, "data", "", "JSON payload of the command")
	flag.StringVar(&req.Password, "password", "", "Plain password, hashed into hashPassword before sending")
	flag.BoolVar(&version, "version", false, "Print build info and exit")

	log := logger.NewConsoleLogger("go-accounts-client")
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if version {
		models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).Print(os.Stdout)
		return
	}
	if err = log.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn().Err(err).Str("level", cfg.App.LogLevel).Msg("unknown log level, keeping default")
	}
	if err = cfg.ValidateClient(); err != nil {
		log.Fatal().Err(err).Msg("invalid client configs")
	}

	serverAdapter, err := newAdapter(transport, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}
	defer serverAdapter.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := client.NewApp(serverAdapter, os.Stdout, log)
	if err = app.Run(ctx, req); err != nil {
		var replyErr *models.ReplyError
		if !errors.As(err, &replyErr) {
			log.Error().Err(err).Msg("client run error")
		}
		serverAdapter.Close()
		os.Exit(1)
	}
}

func newAdapter(transport string, cfg *config.StructuredConfig, log *logger.Logger) (adapter.ServerAdapter, error) {
	switch transport {
	case transportHTTP:
		return adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App.HashKey, log)
	case transportGRPC:
		return adapter.NewGRPCServerAdapter(cfg.Adapter, log)
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}
