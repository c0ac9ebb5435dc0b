package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"tasks-api/internal/api"
)

// shutdownWaiter blocks until the process is asked to stop, runs every
// operation and reports an exit code on the returned channel.
type shutdownWaiter func(ctx context.Context, timeout time.Duration, ops map[string]gfshutdown.Operation) <-chan int

// ServeCommand handles the serve command
type ServeCommand struct {
	app       *App
	logger    *slog.Logger
	accessLog io.Writer
	wait      shutdownWaiter
}

// NewServeCommand creates a serve command that stops on SIGINT or SIGTERM
func NewServeCommand(app *App, logger *slog.Logger, accessLog io.Writer) *ServeCommand {
	return &ServeCommand{
		app:       app,
		logger:    logger,
		accessLog: accessLog,
		wait:      waitForSignal,
	}
}

func waitForSignal(ctx context.Context, timeout time.Duration, ops map[string]gfshutdown.Operation) <-chan int {
	return gfshutdown.GracefulShutdown(ctx, timeout, ops)
}

// Execute runs the HTTP server until a shutdown signal arrives
func (c *ServeCommand) Execute(ctx context.Context) error {
	cfg := c.app.config
	server := api.NewServer(c.app.businessAPI, cfg, c.logger, c.accessLog)

	if err := server.Start(); err != nil {
		return err
	}
	c.logger.Info("Tasks API ready",
		"addr", cfg.Server.Addr,
		"driver", cfg.Database.Driver,
		"request_timeout", cfg.Server.RequestTimeout)

	wait := c.wait(ctx, cfg.Server.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			c.logger.Info("Graceful shutdown initiated")
			return server.Shutdown(ctx)
		},
	})

	if exitCode := <-wait; exitCode != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", exitCode)
	}
	return nil
}
