package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"lifeos-proxy/internal/services"
)

// TasksCommand handles the tasks command
type TasksCommand struct {
	app      *App
	errors   *ErrorHandler
	Tomorrow bool
	Debug    bool
	JSON     bool
}

// NewTasksCommand creates a new tasks command handler
func NewTasksCommand(app *App) *TasksCommand {
	return &TasksCommand{app: app, errors: NewErrorHandler()}
}

// Execute lists the day's tasks ordered by start time
func (c *TasksCommand) Execute(ctx context.Context, args []string) error {
	listing, err := c.app.service.ListTasks(ctx, services.TaskQuery{Tomorrow: c.Tomorrow})
	if err != nil {
		return c.errors.Handle("list tasks", err)
	}

	if c.JSON {
		out := map[string]any{"status": "ok", "tasks": listing.Tasks}
		if c.Debug {
			out["debug"] = listing.Debug
		}
		return c.app.printJSON(out)
	}

	if len(listing.Tasks) == 0 {
		fmt.Fprintf(c.app.out, "No tasks for %s\n", listing.Debug.TargetDay)
	} else {
		w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
		for _, task := range listing.Tasks {
			fmt.Fprintf(w, "%s - %s\t%s\t%s\t%s\n", task.Start, task.End, task.Status, task.Task, task.Key)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if c.Debug {
		d := listing.Debug
		fmt.Fprintf(c.app.out, "\nday %s (%s), sheet %s: %d rows, %d parsed, %d matched, cached=%t\n",
			d.TargetDay, d.Timezone, d.Sheet, d.TotalRows, d.ParsedRows, d.MatchedRows, d.Cached)
	}
	return nil
}
