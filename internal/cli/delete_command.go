package cli

import (
	"context"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute marks the task named by id as deleted. The row is kept and can
// still be read with show.
func (c *DeleteCommand) Execute(ctx context.Context, id string) error {
	task, err := c.app.businessAPI.DeleteTask(ctx, id)
	if err != nil {
		return c.app.errors.HandleTask("delete task", err)
	}

	c.app.printf("Task marked as deleted: %s (%s)\n", task.ID, task.Text)
	return nil
}
