package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/rulefetch"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, rulefetch.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rulefetch.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded yet. Use 'rulefetch run' to start one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-18s candidates=%d skipped=%d new=%d failed=%d  %s\n",
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			r.Mode,
			r.Candidates,
			r.Skipped,
			r.NewRecords,
			r.Failed,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second),
		)
	}
	return nil
}
