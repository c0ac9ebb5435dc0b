package cli

import (
	"context"
)

// UpdateOptions are the fields the update command may change
type UpdateOptions struct {
	Text   *string
	Status *string
}

// UpdateCommand handles the update command
type UpdateCommand struct {
	app *App
}

// NewUpdateCommand creates a new update command handler
func NewUpdateCommand(app *App) *UpdateCommand {
	return &UpdateCommand{app: app}
}

// Execute applies opts to the task named by id
func (c *UpdateCommand) Execute(ctx context.Context, id string, opts UpdateOptions) error {
	task, err := c.app.businessAPI.UpdateTask(ctx, id, opts.Text, opts.Status)
	if err != nil {
		return c.app.errors.HandleTask("update task", err)
	}

	c.app.printf("Task updated: %s\n", task.ID)
	printTaskDetails(c.app.out, task)
	return nil
}
