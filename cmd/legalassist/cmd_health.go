package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/legalassist/bootstrap"
	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/provider"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe every configured provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, nil, func(ctx context.Context, app *bootstrap.App) error {
				statuses, err := app.Probe(ctx)
				if err != nil {
					return err
				}
				if err := printHealth(cmd, statuses); err != nil {
					return err
				}
				for _, st := range statuses {
					if st.Status != provider.StatusHealthy {
						return errors.CollaboratorError(st.Name, fmt.Errorf("%s is %s", st.Name, st.Status))
					}
				}
				return nil
			})
		},
	}
}

func printHealth(cmd *cobra.Command, statuses []provider.HealthStatus) error {
	if outputFormat(cmd) == "json" {
		return printJSON(cmd.OutOrStdout(), statuses)
	}
	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, []string{st.Name, st.Status.String(), st.Latency.Round(time.Millisecond).String()})
	}
	return printTable(cmd.OutOrStdout(), []string{"PROVIDER", "STATUS", "LATENCY"}, rows)
}
