// Package server wires configuration, storage, the auth and task services and
// the gRPC transport into a runnable application, and handles graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/dmitrijs2005/taskkeeper/internal/telemetry"

	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
)

const serviceName = "taskkeeper-server"

type App struct {
	config       *config.Config
	logger       logging.Logger
	repomanager  repomanager.RepositoryManager
	grpcServer   *gs.GRPCServer
	shutdownOTel telemetry.ShutdownFunc
}

// NewApp builds every component from cfg and applies pending migrations.
// Logs go to stdout as JSON.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	return newApp(ctx, cfg, os.Stdout)
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, cfg.LogLevel).With("service", serviceName)

	shutdownOTel, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	m, err := repomanager.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		_ = shutdownOTel(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: cfg, logger: logger, repomanager: m, shutdownOTel: shutdownOTel}

	if err := app.build(ctx); err != nil {
		_ = app.close(ctx)
		return nil, err
	}
	return app, nil
}

func (app *App) build(ctx context.Context) error {
	cfg := app.config

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	hasher, err := cryptox.NewPasswordHasher(cfg.PasswordHashAlgorithm, cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.SecretKey), cfg.SigningAlgorithm, cfg.AccessTokenValidityDuration)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	as, err := services.NewAuthService(app.repomanager, hasher, codec, cfg, app.logger)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	ts := services.NewTaskService(app.repomanager, app.logger)

	app.grpcServer = gs.NewGRPCServer(cfg.EndpointAddrGRPC, app.logger, as, ts, codec.TTL())
	return nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage and flushes traces.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "Stopping app...")

	closeCtx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelClose()

	return errors.Join(runErr, app.close(closeCtx))
}

func (app *App) close(ctx context.Context) error {
	return errors.Join(app.repomanager.Close(), app.shutdownOTel(ctx))
}
