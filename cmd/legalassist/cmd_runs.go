package main

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/legalassist/bootstrap"
	"github.com/kbukum/legalassist/config"
	"github.com/kbukum/legalassist/history"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run ledger",
	}
	cmd.AddCommand(newRunsListCmd())
	cmd.AddCommand(newRunsShowCmd())
	return cmd
}

func withLedger(cmd *cobra.Command, fn func(ctx context.Context, st *history.Store) error) error {
	enable := func(cfg *config.Settings) { cfg.History.Enabled = true }
	return withApp(cmd, enable, func(ctx context.Context, app *bootstrap.App) error {
		st, err := app.History(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, st)
	})
}

func newRunsListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withLedger(cmd, func(ctx context.Context, st *history.Store) error {
				runs, err := st.Recent(ctx, limit)
				if err != nil {
					return err
				}
				if outputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), runs)
				}
				rows := make([][]string, 0, len(runs))
				for _, r := range runs {
					rows = append(rows, []string{
						r.ID, r.State, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
						r.Duration().Round(time.Second).String(), strconv.Itoa(r.Chunks), r.Input, r.ErrorCode,
					})
				}
				return printTable(cmd.OutOrStdout(), []string{"ID", "STATE", "STARTED", "TOOK", "CHUNKS", "INPUT", "ERROR"}, rows)
			})
		},
	}
	c.Flags().IntP("limit", "n", 20, "number of runs to show")
	return c
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, st *history.Store) error {
				run, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), run)
			})
		},
	}
}
