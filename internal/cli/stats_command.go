package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// StatsCommand handles the stats command
type StatsCommand struct {
	app    *App
	errors *ErrorHandler
	JSON   bool
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{app: app, errors: NewErrorHandler()}
}

// Execute prints the statistics sheet
func (c *StatsCommand) Execute(ctx context.Context, args []string) error {
	stats, err := c.app.service.ListStats(ctx)
	if err != nil {
		return c.errors.Handle("list stats", err)
	}

	if c.JSON {
		return c.app.printJSON(map[string]any{"status": "ok", "stats": stats})
	}

	if len(stats) == 0 {
		fmt.Fprintln(c.app.out, "No stats found")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "date\tdone\tmissed\tin progress\tpending\ttotal\tdone %\tmissed %\t")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t\n",
			s.Date, s.Done, s.Missed, s.InProgress, s.Pending, s.Total, s.DonePct, s.MissedPct)
	}
	return w.Flush()
}
