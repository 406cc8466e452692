package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/rulefetch"
)

// Run executes the methods command.
func (c *MethodsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Methods.FindMethodStats(deps.Ctx, c.Rule)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rulefetch.ErrorMessage(err))
		return err
	}

	if len(stats) == 0 {
		fmt.Fprintln(deps.Stdout, "No method statistics recorded yet. Use 'rulefetch run' to collect some.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%-10s %-16s %9s %8s  %s\n", "RULE", "METHOD", "SUCCESSES", "FAILURES", "UPDATED")
	for _, s := range stats {
		fmt.Fprintf(deps.Stdout, "%-10s %-16s %9d %8d  %s\n",
			s.RuleNumber, s.Method, s.Successes, s.Failures, s.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}
