// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fitforge/fitforge/internal/api"
	"github.com/fitforge/fitforge/internal/config"
	"github.com/fitforge/fitforge/internal/fitness"
	fitpostgres "github.com/fitforge/fitforge/internal/fitness/postgres"
	"github.com/fitforge/fitforge/internal/identity"
	idpostgres "github.com/fitforge/fitforge/internal/identity/postgres"
	"github.com/fitforge/fitforge/internal/logging"
	"github.com/fitforge/fitforge/internal/mail"
	"github.com/fitforge/fitforge/internal/observability"
	"github.com/fitforge/fitforge/internal/store"
	"github.com/fitforge/fitforge/internal/tls"
	"github.com/fitforge/fitforge/internal/xdg"
)

// readinessProbeTimeout bounds the database ping behind the readiness probe.
const readinessProbeTimeout = 2 * time.Second

// serveConfig holds flag state for the serve command.
type serveConfig struct {
	autoMigrate   bool
	selfSignedTLS bool
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the FitForge API server",
		Long: `Start the HTTP API server which handles registration, authentication,
coach enrollment, and workout tracking, plus the metrics/health endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("server.addr", defaults.Server.Addr, "API listen address")
	cmd.Flags().String("database.url", "", "PostgreSQL connection string")
	cmd.Flags().String("observability.addr", defaults.Observability.Addr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("logging.level", defaults.Logging.Level, "log level (debug, info, warn, error)")
	cmd.Flags().String("logging.format", defaults.Logging.Format, "log format (json or text)")
	cmd.Flags().BoolVar(&cfg.autoMigrate, "auto-migrate", true, "apply pending schema migrations on startup")
	cmd.Flags().BoolVar(&cfg.selfSignedTLS, "self-signed-tls", false, "serve TLS with a generated certificate when none is configured")

	return cmd
}

// runServeWithDeps starts the API process with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, sc *serveConfig, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}

	// Set up default factories
	if deps.ConfigLoader == nil {
		deps.ConfigLoader = func(flags *pflag.FlagSet) (*config.Config, error) {
			return config.Load(config.LoadOptions{Path: configFile, Flags: flags})
		}
	}
	if deps.StoreFactory == nil {
		deps.StoreFactory = func(ctx context.Context, cfg store.Config) (DataStore, error) {
			return store.Connect(ctx, cfg)
		}
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(databaseURL string) (AutoMigrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if deps.MailSenderFactory == nil {
		deps.MailSenderFactory = func(cfg mail.SMTPConfig) (mail.Sender, error) {
			return mail.NewSMTPSender(cfg)
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(cfg api.ServerConfig, router *gin.Engine) APIServer {
			return api.NewServer(cfg, router)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if deps.CertsDirGetter == nil {
		deps.CertsDirGetter = xdg.CertsDir
	}
	if deps.TLSCertEnsurer == nil {
		deps.TLSCertEnsurer = ensureTLSCerts
	}

	cfg, err := deps.ConfigLoader(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logging.SetDefault("fitforge", version, logging.Options{Format: cfg.Logging.Format, Level: level})

	slog.Info("starting fitforge",
		"addr", cfg.Server.Addr,
		"log_format", cfg.Logging.Format,
	)

	st, err := deps.StoreFactory(ctx, store.Config{
		URL:            cfg.Database.URL,
		MinConns:       int32(cfg.Database.MinConns),
		MaxConns:       int32(cfg.Database.MaxConns),
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer st.Close()

	slog.Info("connected to database")

	if sc.autoMigrate {
		if err := runAutoMigration(cfg.Database.URL, deps.MigratorFactory); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("migrations applied")
	}

	// Explicit cert/key paths win; --self-signed-tls fills in a generated
	// localhost certificate when none is configured.
	tlsCert, tlsKey := cfg.Server.TLSCert, cfg.Server.TLSKey
	if tlsCert == "" && sc.selfSignedTLS {
		certsDir := deps.CertsDirGetter()
		tlsCert, tlsKey, err = deps.TLSCertEnsurer(certsDir)
		if err != nil {
			return fmt.Errorf("failed to set up TLS: %w", err)
		}
		slog.Info("TLS certificates ready", "certs_dir", certsDir)
	}

	pool := st.Pool()

	users := idpostgres.NewUserRepository(pool)
	profiles := idpostgres.NewProfileRepository(pool)
	verifications := idpostgres.NewVerificationRepository(pool)

	identitySvc, err := identity.NewService(users, profiles, identity.NewArgon2idHasher())
	if err != nil {
		return fmt.Errorf("failed to create identity service: %w", err)
	}

	tokens, err := identity.NewTokenIssuer(identity.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		Algorithm:     cfg.Auth.Algorithm,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	})
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	var sender mail.Sender
	if cfg.Mail.Enabled {
		sender, err = deps.MailSenderFactory(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		if err != nil {
			return fmt.Errorf("failed to create mail sender: %w", err)
		}
	}

	verifier, err := identity.NewVerificationService(users, verifications, sender, identity.VerificationConfig{
		BaseURL:   cfg.Verification.BaseURL,
		SendEmail: cfg.Mail.Enabled,
	})
	if err != nil {
		return fmt.Errorf("failed to create verification service: %w", err)
	}

	fitnessSvc, err := fitness.NewService(
		fitpostgres.NewCoachRepository(pool),
		fitpostgres.NewWorkoutPlanRepository(pool),
		fitpostgres.NewWorkoutRepository(pool),
	)
	if err != nil {
		return fmt.Errorf("failed to create fitness service: %w", err)
	}

	authHandler, err := api.NewAuthHandler(identitySvc, tokens, verifier)
	if err != nil {
		return fmt.Errorf("failed to create auth handler: %w", err)
	}
	profileHandler, err := api.NewProfileHandler(identitySvc)
	if err != nil {
		return fmt.Errorf("failed to create profile handler: %w", err)
	}
	fitnessHandler, err := api.NewFitnessHandler(fitnessSvc)
	if err != nil {
		return fmt.Errorf("failed to create fitness handler: %w", err)
	}

	router, err := api.NewRouter(authHandler, profileHandler, fitnessHandler, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	apiServer := deps.APIServerFactory(api.ServerConfig{
		Addr:        cfg.Server.Addr,
		ReadTimeout: cfg.Server.ReadTimeout,
		TLSCert:     tlsCert,
		TLSKey:      tlsKey,
	}, router)

	apiErrChan, err := apiServer.Start()
	if err != nil {
		return fmt.Errorf("failed to start api server: %w", err)
	}
	// Monitor api server errors in background - cancel context on error
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	// Start observability server if configured
	var obsServer ObservabilityServer
	if cfg.Observability.Addr != "" {
		// Readiness follows database connectivity
		obsServer = deps.ObservabilityServerFactory(cfg.Observability.Addr, func() bool {
			probeCtx, probeCancel := context.WithTimeout(context.Background(), readinessProbeTimeout)
			defer probeCancel()
			return st.Ping(probeCtx) == nil
		})
		obsErrChan, err := obsServer.Start()
		if err != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer shutdownCancel()
			if stopErr := apiServer.Stop(shutdownCtx); stopErr != nil {
				slog.Warn("failed to stop api server during cleanup", "error", stopErr)
			}
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		// Monitor observability server errors - cancel context on error
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("FitForge server started")
	slog.Info("fitforge ready", "addr", apiServer.Addr())

	// Wait for shutdown signal or server failure
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping api server", "error", err)
	}

	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// runAutoMigration applies all pending migrations using the given factory.
// The migrator is always closed; a close failure is logged rather than
// failing the startup since the migration itself already finished.
func runAutoMigration(databaseURL string, factory func(string) (AutoMigrator, error)) error {
	migrator, err := factory(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").With("operation", "create migrator").Wrap(err)
	}

	migrateErr := migrator.Up()
	if closeErr := migrator.Close(); closeErr != nil {
		slog.Warn("error closing migrator", "error", closeErr, "note", "connection may leak")
	}
	if migrateErr != nil {
		return oops.Code("AUTO_MIGRATION_FAILED").With("operation", "run migrations").Wrap(migrateErr)
	}
	return nil
}

// ensureTLSCerts generates or loads a development server certificate and
// returns the certificate and key file paths.
func ensureTLSCerts(certsDir string) (string, string, error) {
	certPath := filepath.Join(certsDir, "api.crt")
	keyPath := filepath.Join(certsDir, "api.key")

	certExists := fileExists(certPath)
	keyExists := fileExists(keyPath)

	// If the pair exists, use it as-is. Refuse to overwrite a partial pair;
	// that points at manual intervention, not a fresh setup.
	if certExists && keyExists {
		return certPath, keyPath, nil
	}
	if certExists || keyExists {
		return "", "", fmt.Errorf("partial server certificate pair in %s: refusing to overwrite", certsDir)
	}

	slog.Info("generating TLS certificates", "certs_dir", certsDir)

	// Ensure directory exists
	if err := xdg.EnsureDir(certsDir); err != nil {
		return "", "", fmt.Errorf("failed to create certs directory: %w", err)
	}

	// Reuse an existing CA so previously trusted roots stay valid
	var ca *tls.CA
	var err error
	if fileExists(filepath.Join(certsDir, "root-ca.crt")) {
		ca, err = tls.LoadCA(certsDir)
		if err != nil {
			return "", "", fmt.Errorf("failed to load existing CA: %w", err)
		}
	} else {
		ca, err = tls.GenerateCA()
		if err != nil {
			return "", "", fmt.Errorf("failed to generate CA: %w", err)
		}
		if err := tls.SaveCertificates(certsDir, ca, nil); err != nil {
			return "", "", fmt.Errorf("failed to save CA: %w", err)
		}
	}

	serverCert, err := tls.GenerateServerCert(ca, "api")
	if err != nil {
		return "", "", fmt.Errorf("failed to generate server certificate: %w", err)
	}
	if err := tls.SaveServerCert(certsDir, serverCert); err != nil {
		return "", "", fmt.Errorf("failed to save server certificate: %w", err)
	}

	slog.Info("TLS certificates generated")
	return certPath, keyPath, nil
}

// fileExists returns true if the file exists, false otherwise.
// Permission errors are treated as "file exists" to avoid silently
// overwriting files we can't read.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// This ensures that server failures trigger graceful shutdown of the entire process.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
