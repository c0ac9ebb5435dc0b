package cli

import (
	"context"
	"strings"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute creates a task from the joined arguments
func (c *AddCommand) Execute(ctx context.Context, args []string, status *string) error {
	text := strings.Join(args, " ")

	task, err := c.app.businessAPI.CreateTask(ctx, text, status)
	if err != nil {
		return c.app.errors.Handle("add task", err)
	}

	c.app.printf("Task created: %s\n", task.ID)
	printTaskDetails(c.app.out, task)
	return nil
}
