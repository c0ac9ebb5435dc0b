package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tasks-api/internal/config"
	"tasks-api/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory APIFactory
	config  *config.Config
	app     *App
	closeFn func() error
}

// NewRootCommand creates the root cobra command with global flags. Storage
// is opened through factory once flags and environment have been resolved.
func NewRootCommand(factory APIFactory) *RootCommand {
	root := &RootCommand{factory: factory}

	root.cmd = &cobra.Command{
		Use:   "tasks",
		Short: "A task list service and its command-line client",
		Long: `tasks keeps a list of short text tasks with a status of not_done, done
or deleted. It serves a JSON API over HTTP and can manage the same store
directly from the command line.

EXAMPLES:
  tasks serve                              # Serve the HTTP API on :8000
  tasks add "Buy milk"                     # Create a task
  tasks list                               # List the five newest live tasks
  tasks list milk --limit 10               # Filter by text, ten per page
  tasks update <id> --status done          # Change a task
  tasks delete <id>                        # Soft-delete a task
  tasks show <id>                          # Show one task, even if deleted

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > defaults

  Database Configuration:
    TASKS_DB_DRIVER                        sqlite or postgres (default: sqlite)
    TASKS_DB_DIR                           SQLite directory (default: ~/.tasks)
    TASKS_DB_FILENAME                      SQLite filename (default: tasks.db)
    TASKS_DB_URL, DATABASE_URL             PostgreSQL connection string

  Server Configuration:
    TASKS_SERVER_ADDR                      Listen address (default: :8000)
    TASKS_SERVER_REQUEST_TIMEOUT           Per-request timeout (default: 30s)
    TASKS_SERVER_SHUTDOWN_TIMEOUT          Graceful shutdown timeout (default: 10s)
    TASKS_CORS_ALLOWED_ORIGINS             Comma-separated CORS origins

  Listing Configuration:
    TASKS_PAGE_DEFAULT_LIMIT               Default page size (default: 5)
    TASKS_PAGE_MAX_LIMIT                   Maximum page size (default: 50)

  Application Configuration:
    TASKS_APP_TIMEOUT                      Command timeout (default: 60s)
    TASKS_APP_VERBOSE                      Enable verbose output (default: false)
    TASKS_DEBUG                            Print debug traces to stderr`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and releases storage afterwards
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if closeErr := r.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Database configuration
	flags.String("db-driver", "", "Storage driver, sqlite or postgres (overrides TASKS_DB_DRIVER)")
	flags.String("db-dir", "", "SQLite database directory (overrides TASKS_DB_DIR)")
	flags.String("db-filename", "", "SQLite database filename (overrides TASKS_DB_FILENAME)")
	flags.String("db-url", "", "PostgreSQL connection string (overrides TASKS_DB_URL)")
	flags.String("db-dir-permissions", "", "Octal permissions for a new database directory (overrides TASKS_DB_DIR_PERMISSIONS)")

	// Server configuration
	flags.String("addr", "", "HTTP listen address (overrides TASKS_SERVER_ADDR)")
	flags.Duration("request-timeout", 0, "Per-request timeout (overrides TASKS_SERVER_REQUEST_TIMEOUT)")
	flags.Duration("shutdown-timeout", 0, "Graceful shutdown timeout (overrides TASKS_SERVER_SHUTDOWN_TIMEOUT)")

	// Listing configuration
	flags.Int("default-limit", 0, "Default page size (overrides TASKS_PAGE_DEFAULT_LIMIT)")
	flags.Int("max-limit", 0, "Maximum page size (overrides TASKS_PAGE_MAX_LIMIT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TASKS_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TASKS_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the tasks JSON API under /api/v1 until interrupted.

Routes:
  GET    /api/v1/tasks?query=&offset=&limit=
  POST   /api/v1/tasks
  PATCH  /api/v1/tasks/:id
  DELETE /api/v1/tasks/:id
  GET    /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), r.config.Application.Verbose)
			return NewServeCommand(r.app, logger, cmd.OutOrStdout()).Execute(cmd.Context())
		},
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list [text]",
		Short: "List live tasks, newest first",
		Long: `List tasks that have not been deleted, newest first.

Any arguments are joined into a case-insensitive substring filter.

Examples:
  tasks list                    # First page of tasks
  tasks list "project alpha"    # Tasks containing "project alpha"
  tasks list --offset 5         # Second page`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			var opts ListOptions
			if cmd.Flags().Changed("offset") {
				offset, _ := cmd.Flags().GetInt("offset")
				opts.Offset = &offset
			}
			if cmd.Flags().Changed("limit") {
				limit, _ := cmd.Flags().GetInt("limit")
				opts.Limit = &limit
			}
			return NewListCommand(r.app).Execute(ctx, args, opts)
		},
	}
	listCmd.Flags().Int("offset", 0, "Number of tasks to skip")
	listCmd.Flags().Int("limit", 0, "Maximum number of tasks to show")

	// Add command
	addCmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			return NewAddCommand(r.app).Execute(ctx, args, stringFlag(cmd, "status"))
		},
	}
	addCmd.Flags().String("status", "", "Initial status: not_done, done or deleted")

	// Update command
	updateCmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change the text or status of a task",
		Long: `Change the text and/or status of a task. Flags that are not given keep
their stored value. A deleted task cannot be changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			opts := UpdateOptions{
				Text:   stringFlag(cmd, "text"),
				Status: stringFlag(cmd, "status"),
			}
			return NewUpdateCommand(r.app).Execute(ctx, args[0], opts)
		},
	}
	updateCmd.Flags().String("text", "", "New task text")
	updateCmd.Flags().String("status", "", "New status: not_done, done or deleted")

	// Delete command
	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Mark a task as deleted",
		Long:  "Mark a task as deleted. Deleted tasks leave the list but stay readable with show.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			return NewDeleteCommand(r.app).Execute(ctx, args[0])
		},
	}

	// Show command
	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			return NewShowCommand(r.app).Execute(ctx, args[0])
		},
	}

	r.cmd.AddCommand(
		serveCmd,
		listCmd,
		addCmd,
		updateCmd,
		deleteCmd,
		showCmd,
	)
}

// commandContext bounds a one-shot command by the application timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// setup resolves configuration and opens storage for the command being run
func (r *RootCommand) setup(cmd *cobra.Command) error {
	// completion scripts need no storage
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" || c.Name() == cobra.ShellCompRequestCmd {
			return nil
		}
	}

	overrides, err := r.getOverridesFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.NewLoader().LoadWithOverrides(overrides)
	if err != nil {
		return err
	}
	r.config = cfg

	businessAPI, closeFn, err := r.factory(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	r.closeFn = closeFn
	r.app = NewApp(businessAPI, cfg, cmd.OutOrStdout())
	return nil
}

func (r *RootCommand) close() error {
	if r.closeFn == nil {
		return nil
	}
	closeFn := r.closeFn
	r.closeFn = nil
	return closeFn()
}

// getOverridesFromFlags collects the global flags the user actually set
func (r *RootCommand) getOverridesFromFlags(cmd *cobra.Command) (*config.ConfigOverrides, error) {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	// Database configuration
	if flags.Changed("db-driver") {
		v, _ := flags.GetString("db-driver")
		overrides.DBDriver = &v
	}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		overrides.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		overrides.DBFilename = &v
	}
	if flags.Changed("db-url") {
		v, _ := flags.GetString("db-url")
		overrides.DBURL = &v
	}
	if flags.Changed("db-dir-permissions") {
		raw, _ := flags.GetString("db-dir-permissions")
		perm, err := strconv.ParseUint(raw, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid --db-dir-permissions %q: expected octal mode such as 0755", raw)
		}
		v := uint32(perm)
		overrides.DBDirPermissions = &v
	}

	// Server configuration
	if flags.Changed("addr") {
		v, _ := flags.GetString("addr")
		overrides.ServerAddr = &v
	}
	if flags.Changed("request-timeout") {
		v, _ := flags.GetDuration("request-timeout")
		overrides.RequestTimeout = &v
	}
	if flags.Changed("shutdown-timeout") {
		v, _ := flags.GetDuration("shutdown-timeout")
		overrides.ShutdownTimeout = &v
	}

	// Listing configuration
	if flags.Changed("default-limit") {
		v, _ := flags.GetInt("default-limit")
		overrides.DefaultLimit = &v
	}
	if flags.Changed("max-limit") {
		v, _ := flags.GetInt("max-limit")
		overrides.MaxLimit = &v
	}

	// Application configuration
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}

	return overrides, nil
}

// stringFlag returns a pointer to the flag's value when the user set it
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
