package cli

import (
	"context"
)

// ShowCommand handles the show command
type ShowCommand struct {
	app *App
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app}
}

// Execute prints a single task, including deleted ones
func (c *ShowCommand) Execute(ctx context.Context, id string) error {
	task, err := c.app.businessAPI.GetTask(ctx, id)
	if err != nil {
		return c.app.errors.HandleTask("show task", err)
	}

	printTaskDetails(c.app.out, task)
	return nil
}
