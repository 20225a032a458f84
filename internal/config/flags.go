package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags registers the configuration flags on fs and parses args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-d database URI (mongodb://, postgres:// or memory://)
//	-db-name mongo database name
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "48h")
//	-timezone reference timezone (e.g., "Europe/Moscow")
//	-week-start first day of the calendar week
//	-max-per-page page size cap of paginated listings
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-hash-key HMAC key of HTTP command bodies
//	-log-level minimum log level
//	-broker-url AMQP url of the login events broker
//	-login-events-queue login events queue name
//	-adapter-address HTTP endpoint used by the client
//	-adapter-grpc-address gRPC endpoint used by the client
func ParseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	cfg := &StructuredConfig{}

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database URI")
	fs.StringVar(&cfg.Storage.DB.Name, "db-name", "", "Mongo database name")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 48h)")
	fs.StringVar(&cfg.App.Timezone, "timezone", "", "Reference timezone")
	fs.StringVar(&cfg.App.WeekStart, "week-start", "", "First day of the calendar week")
	fs.Int64Var(&cfg.App.MaxPerPage, "max-per-page", 0, "Page size cap")
	fs.StringVar(&cfg.App.HashKey, "hash-key", "", "Security hash key")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&cfg.Broker.URL, "broker-url", "", "AMQP broker url")
	fs.StringVar(&cfg.Broker.LoginEventsQueue, "login-events-queue", "", "Login events queue")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "adapter-address", "", "HTTP endpoint used by the client")
	fs.StringVar(&cfg.Adapter.GRPCAddress, "adapter-grpc-address", "", "gRPC endpoint used by the client")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.GRPCAddress = grpcServerAddress.String()

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress, or an empty
// string when neither part is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	host, portString, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portString)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = strings.TrimSpace(host)
	a.Port = port
	return nil
}

var _ flag.Value = (*NetAddress)(nil)
