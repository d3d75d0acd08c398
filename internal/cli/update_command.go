package cli

import (
	"context"
	"fmt"
	"net/http"
)

// UpdateCommand handles the update command
type UpdateCommand struct {
	app    *App
	errors *ErrorHandler
}

// NewUpdateCommand creates a new update command handler
func NewUpdateCommand(app *App) *UpdateCommand {
	return &UpdateCommand{app: app, errors: NewErrorHandler()}
}

// Execute forwards args[0] (task key) and args[1] (status) to the
// write-back endpoint and prints its answer.
func (c *UpdateCommand) Execute(ctx context.Context, args []string) error {
	var taskKey, status string
	if len(args) > 0 {
		taskKey = args[0]
	}
	if len(args) > 1 {
		status = args[1]
	}

	resp, err := c.app.service.UpdateStatus(ctx, taskKey, status)
	if err != nil {
		return c.errors.Handle("update task", err)
	}

	fmt.Fprintf(c.app.out, "%d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	if len(resp.Body) > 0 {
		fmt.Fprintf(c.app.out, "%s\n", resp.Body)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("write-back endpoint answered %d", resp.StatusCode)
	}
	return nil
}
