package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"tasks-api/internal/api"
	"tasks-api/internal/clock"
	"tasks-api/internal/config"
	"tasks-api/internal/services"
)

// APIFactory opens the storage selected by cfg and returns the business API
// on top of it, together with a function that releases the storage.
type APIFactory func(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error)

// DefaultAPIFactory builds the production stack: the configured repository,
// the service container and the business API.
func DefaultAPIFactory(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error) {
	repo, err := config.CreateRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	container := services.NewServiceContainer(repo, clock.System(), cfg)
	return api.NewBusinessAPI(container, cfg), repo.Close, nil
}

// App carries what every command handler needs
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	out         io.Writer
	errors      *ErrorHandler
}

// NewApp creates a new CLI application instance. A nil out writes to stdout.
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		businessAPI: businessAPI,
		config:      cfg,
		out:         out,
		errors:      NewErrorHandler(),
	}
}

// printf writes formatted output to the command's writer
func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
