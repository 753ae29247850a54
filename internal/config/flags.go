package config

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// String returns a canonical host:port string, or "" when unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses host:port. The host must be "localhost" or an IP literal and the
// port a positive integer.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "address"
}

// addressFlag validates a host:port with NetAddress and stores the canonical
// string into target.
type addressFlag struct {
	addr   NetAddress
	target *string
}

func (f *addressFlag) String() string { return f.addr.String() }
func (f *addressFlag) Type() string   { return f.addr.Type() }

func (f *addressFlag) Set(s string) error {
	if err := f.addr.Set(strings.TrimSpace(s)); err != nil {
		return err
	}
	*f.target = f.addr.String()
	return nil
}

// registerCommonFlags binds the flags both binaries understand.
func registerCommonFlags(fs *pflag.FlagSet, cfg *StructuredConfig) {
	fs.StringVarP(&cfg.ConfigFilePath, "config", "c", "", "JSON or YAML config file path")
	fs.StringVarP(&cfg.Storage.DB.DSN, "database-dsn", "d", "", "Database DSN")
	fs.StringVar(&cfg.App.HashKey, "hash-key", "", "HMAC key of the HashSHA256 integrity header")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// RegisterClientFlags binds the agent's flags on fs. The returned config is
// filled in once fs has been parsed and is meant to be passed to
// [GetClientConfig].
//
// Flags:
//
//	-c/--config            config file path
//	-d/--database-dsn      SQLite DSN of the draft store
//	--hash-key             integrity HMAC key
//	--log-level            log level
//	--data-dir             working directory
//	--log-path             log file path
//	--blobs-dir            photo blob directory
//	--session-token        bearer token of the current session
//	-a/--server            base URL of the remote submission endpoint
//	--request-timeout      outbound request timeout
//	--retention            draft retention window
//	--max-photos           photo cap per draft
//	--sync-interval        background sync interval
//	--reap-interval        background reap interval
func RegisterClientFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}
	registerCommonFlags(fs, cfg)

	fs.StringVar(&cfg.App.DataDir, "data-dir", "", "Agent working directory")
	fs.StringVar(&cfg.App.LogPath, "log-path", "", "Agent log file path")
	fs.StringVar(&cfg.Storage.Blobs.Dir, "blobs-dir", "", "Photo blob directory")
	fs.StringVar(&cfg.App.SessionToken, "session-token", "", "Session bearer token")
	fs.StringVarP(&cfg.Adapter.HTTPAddress, "server", "a", "", "Remote submission endpoint base URL")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Outbound request timeout (e.g. 30s)")
	fs.DurationVar(&cfg.Drafts.RetentionWindow, "retention", 0, "Draft retention window (e.g. 72h)")
	fs.IntVar(&cfg.Drafts.MaxPhotos, "max-photos", 0, "Maximum photos per draft")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Background sync interval")
	fs.DurationVar(&cfg.Workers.ReapInterval, "reap-interval", 0, "Background reap interval")

	return cfg
}

// RegisterServerFlags binds the intake server's flags on fs.
//
// Flags:
//
//	-c/--config            config file path
//	-d/--database-dsn      PostgreSQL DSN
//	--hash-key             integrity HMAC key
//	--log-level            log level
//	-a/--address           listen address host:port
//	--token-sign-key       session token verification key
//	--token-issuer         expected session token issuer
//	--request-timeout      inbound request timeout
func RegisterServerFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}
	registerCommonFlags(fs, cfg)

	fs.VarP(&addressFlag{target: &cfg.Server.HTTPAddress}, "address", "a", "Listen address host:port")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Session token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Expected session token issuer")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Inbound request timeout (e.g. 30s)")

	return cfg
}
