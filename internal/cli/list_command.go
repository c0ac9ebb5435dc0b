package cli

import (
	"context"
	"strings"

	"tasks-api/internal/api"
)

// ListOptions are the paging flags of the list command. Nil fields use the
// configured defaults.
type ListOptions struct {
	Offset *int
	Limit  *int
}

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute lists live tasks, newest first. Any arguments are joined into a
// case-insensitive substring filter.
func (c *ListCommand) Execute(ctx context.Context, args []string, opts ListOptions) error {
	params := api.ListParams{Offset: opts.Offset, Limit: opts.Limit}
	if len(args) > 0 {
		query := strings.Join(args, " ")
		params.Query = &query
	}

	page, err := c.app.businessAPI.ListTasks(ctx, params)
	if err != nil {
		return c.app.errors.Handle("list tasks", err)
	}

	if page.Total == 0 {
		c.app.printf("No tasks found\n")
		return nil
	}

	if len(page.Tasks) > 0 {
		printTaskTable(c.app.out, page.Tasks)
	}
	printPageSummary(c.app.out, page)
	return nil
}
