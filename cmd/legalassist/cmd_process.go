package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/legalassist/bootstrap"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/orchestrator"
)

// processResult is one line of the process command's output.
type processResult struct {
	Input     string  `json:"input"`
	RunID     string  `json:"run_id,omitempty"`
	ReportKey string  `json:"report_key,omitempty"`
	Articles  int     `json:"articles"`
	Seconds   float64 `json:"seconds"`
	Error     string  `json:"error,omitempty"`

	err error
}

func newProcessCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "process FILE...",
		Short: "Run the pipeline on one or more recordings and persist their reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			failFast, _ := cmd.Flags().GetBool("fail-fast")

			return withApp(cmd, nil, func(ctx context.Context, app *bootstrap.App) error {
				pipe, err := app.Pipeline(ctx)
				if err != nil {
					return err
				}
				results, err := processAll(ctx, pipe, args, concurrency, failFast, app.Logger)
				if perr := printProcessResults(cmd, results); perr != nil {
					return perr
				}
				return err
			})
		},
	}
	c.Flags().IntP("concurrency", "c", 1, "recordings processed at the same time")
	c.Flags().Bool("fail-fast", false, "stop scheduling new files after the first failure")
	return c
}

type runner interface {
	Run(ctx context.Context, audioPath string) (*orchestrator.Report, error)
}

// processAll runs every input with at most concurrency runs in flight.
// Results keep input order. The returned error is the first failure, or a
// count of failures when several inputs failed.
func processAll(ctx context.Context, pipe runner, inputs []string, concurrency int, failFast bool, log *logger.Logger) ([]processResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]processResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range inputs {
		results[i].Input = in
		runCtx := ctx
		if failFast {
			runCtx = gctx
		}
		g.Go(func() error {
			r := &results[i]
			if failFast && gctx.Err() != nil {
				r.err, r.Error = gctx.Err(), "skipped"
				return nil
			}
			start := time.Now()
			rep, err := pipe.Run(runCtx, in)
			r.Seconds = time.Since(start).Seconds()
			if err != nil {
				r.err, r.Error = err, describe(err)
				log.Error("Recording failed", logger.Fields(logger.FieldInput, in, logger.FieldError, err.Error()))
				if failFast {
					return err
				}
				return nil
			}
			r.RunID, r.ReportKey, r.Articles = rep.Metadata.RunID, rep.Key, len(rep.LegalArticles)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var first error
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			if first == nil {
				first = r.err
			}
		}
	}
	switch {
	case failed == 1:
		return results, first
	case failed > 1:
		return results, fmt.Errorf("%d of %d recordings failed: %w", failed, len(inputs), first)
	}
	return results, nil
}

func printProcessResults(cmd *cobra.Command, results []processResult) error {
	if outputFormat(cmd) == "json" {
		return printJSON(cmd.OutOrStdout(), results)
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := r.ReportKey
		if r.Error != "" {
			status = "FAILED: " + r.Error
		}
		rows = append(rows, []string{r.Input, strconv.FormatFloat(r.Seconds, 'f', 1, 64), strconv.Itoa(r.Articles), status})
	}
	return printTable(cmd.OutOrStdout(), []string{"INPUT", "SECONDS", "ARTICLES", "REPORT"}, rows)
}
