package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"github.com/fitforge/fitforge/internal/api"
	"github.com/fitforge/fitforge/internal/config"
	"github.com/fitforge/fitforge/internal/mail"
	"github.com/fitforge/fitforge/internal/observability"
	"github.com/fitforge/fitforge/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// ConfigLoader resolves the full configuration for the command.
	// Default: config.Load with the global --config path and the command's flags.
	ConfigLoader func(flags *pflag.FlagSet) (*config.Config, error)

	// StoreFactory opens the database connection pool.
	// Default: store.Connect
	StoreFactory func(ctx context.Context, cfg store.Config) (DataStore, error)

	// MigratorFactory creates a migrator for startup auto-migration.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (AutoMigrator, error)

	// MailSenderFactory creates the outbound mail sender.
	// Default: mail.NewSMTPSender
	MailSenderFactory func(cfg mail.SMTPConfig) (mail.Sender, error)

	// APIServerFactory creates the API server.
	// Default: api.NewServer
	APIServerFactory func(cfg api.ServerConfig, router *gin.Engine) APIServer

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// CertsDirGetter returns the certificates directory path.
	// Default: xdg.CertsDir
	CertsDirGetter func() string

	// TLSCertEnsurer generates or loads development TLS certificates.
	// Default: ensureTLSCerts
	TLSCertEnsurer func(certsDir string) (certPath, keyPath string, err error)
}

// DataStore interface wraps the methods used by serve from store.Store.
type DataStore interface {
	Pool() *pgxpool.Pool
	Ping(ctx context.Context) error
	Close()
}

// AutoMigrator interface wraps the methods used from store.Migrator.
type AutoMigrator interface {
	Up() error
	Close() error
}

// APIServer interface wraps the methods used from api.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
